package redis

import (
	"context"
	"time"

	"Nebula_Vlog/pkg/config"

	"github.com/go-redis/redis/v8"
)

var Ctx = context.Background()

// InitRedis 初始化Redis客户端，连通性检查失败直接报错
func InitRedis() (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.GetEnv("REDIS_ADDR", "localhost:6379"),
		Password: config.GetEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(Ctx, 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, err
	}
	return rdb, nil
}
