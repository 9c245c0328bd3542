package config

import "os"

// GetEnv 读取环境变量，不存在时返回默认值
// 所有外部依赖（MySQL、Redis、RabbitMQ、MinIO）的连接信息都从这里取
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// MySQLDSN 拼装数据库连接串，用户名:密码@网络协议(地址:端口号)/数据库名
func MySQLDSN() string {
	return GetEnv("MYSQL_DSN", "root:root@tcp(127.0.0.1:3306)/nebula_vlog?charset=utf8mb4&parseTime=True&loc=Local")
}

// PublicBaseURL 是对外暴露的站点地址，用于生成视频的规范分享链接
func PublicBaseURL() string {
	return GetEnv("PUBLIC_BASE_URL", "http://localhost:8080")
}
