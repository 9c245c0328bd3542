package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"Nebula_Vlog/pkg/config"
	"Nebula_Vlog/pkg/logger"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	BucketPicture = "picture"
	BucketVideo   = "video"
)

// Storage 封装MinIO对象存储：按路径上传、返回可公开访问的URL
type Storage struct {
	client    *minio.Client
	publicURL string
}

// InitStorage 初始化MinIO客户端，连接信息从环境变量读取
func InitStorage() (*Storage, error) {
	endpoint := config.GetEnv("MINIO_ENDPOINT", "localhost:9000")
	accessKey := config.GetEnv("MINIO_ACCESS_KEY", "minioadmin")
	secretKey := config.GetEnv("MINIO_SECRET_KEY", "minioadmin")
	useSSL := config.GetEnv("MINIO_USE_SSL", "false") == "true"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}

	return &Storage{
		client:    client,
		publicURL: config.GetEnv("MINIO_PUBLIC_URL", "http://"+endpoint),
	}, nil
}

// ensureBucket 检查存储桶是否存在，不存在则创建
func (s *Storage) ensureBucket(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket error: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket error: %w", err)
		}
	}
	return nil
}

// Upload 上传一个对象并返回公开URL
func (s *Storage) Upload(ctx context.Context, bucket, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	if err := s.ensureBucket(ctx, bucket); err != nil {
		return "", err
	}
	_, err := s.client.PutObject(ctx, bucket, objectName, reader, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		logger.Log.WithError(err).Error("对象上传失败")
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s", s.publicURL, bucket, objectName), nil
}

// UploadUserImage 上传用户头像/封面图，对象路径：{kind}/{userID}/{uuid}{后缀}
// uuid保证新旧图片不会互相覆盖，旧图留在桶里由生命周期策略清理
func (s *Storage) UploadUserImage(ctx context.Context, kind string, userID uint64, filename, contentType string, reader io.Reader, size int64) (string, error) {
	var suffix string
	switch contentType {
	case "image/jpeg", "image/jpg":
		suffix = ".jpg"
	case "image/png":
		suffix = ".png"
	default:
		// 浏览器偶尔不带content-type，退回文件扩展名
		if ext := path.Ext(filename); ext == ".jpg" || ext == ".jpeg" || ext == ".png" {
			suffix = ext
			contentType = "image/jpeg"
		} else {
			return "", fmt.Errorf("unsupported image format: %s", contentType)
		}
	}

	objectName := fmt.Sprintf("%s/%d/%s%s", kind, userID, uuid.NewString(), suffix)
	return s.Upload(ctx, BucketPicture, objectName, reader, size, contentType)
}
