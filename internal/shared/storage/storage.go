package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/drwijaya/green-productions/internal/config"
)

// Client 对象存储客户端，封装MinIO
type Client struct {
	minioClient *minio.Client
	bucket      string
	endpoint    string
	useSSL      bool
}

// UploadResult 上传结果
type UploadResult struct {
	Success    bool   `json:"success"`
	URL        string `json:"url,omitempty"`
	ObjectName string `json:"object_name,omitempty"`
	Error      string `json:"error,omitempty"`
}

// New 创建对象存储客户端，Endpoint为空时返回nil（降级为不可用）
func New(cfg config.MinIOConfig) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, nil
	}

	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	return &Client{
		minioClient: minioClient,
		bucket:      cfg.Bucket,
		endpoint:    cfg.Endpoint,
		useSSL:      cfg.UseSSL,
	}, nil
}

// EnsureBucket 确保存储桶存在
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.minioClient.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := c.minioClient.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("make bucket: %w", err)
	}
	return nil
}

// Upload 上传文件，返回结构化结果而不是错误中断
func (c *Client) Upload(ctx context.Context, reader io.Reader, size int64, folder, fileName, contentType string) *UploadResult {
	if c == nil || c.minioClient == nil {
		return &UploadResult{Success: false, Error: "storage not configured"}
	}

	objectName := fmt.Sprintf("%s/%s/%s%s", folder, time.Now().Format("2006/01/02"), uuid.New().String()[:8], filepath.Ext(fileName))

	_, err := c.minioClient.PutObject(ctx, c.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return &UploadResult{Success: false, Error: err.Error()}
	}

	return &UploadResult{
		Success:    true,
		URL:        c.PublicURL(objectName),
		ObjectName: objectName,
	}
}

// Download 下载文件
func (c *Client) Download(ctx context.Context, objectName string) (io.ReadCloser, error) {
	if c == nil || c.minioClient == nil {
		return nil, fmt.Errorf("storage not configured")
	}
	object, err := c.minioClient.GetObject(ctx, c.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	return object, nil
}

// Remove 删除文件
func (c *Client) Remove(ctx context.Context, objectName string) error {
	if c == nil || c.minioClient == nil {
		return fmt.Errorf("storage not configured")
	}
	return c.minioClient.RemoveObject(ctx, c.bucket, objectName, minio.RemoveObjectOptions{})
}

// PresignedURL 生成限时下载链接
func (c *Client) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	if c == nil || c.minioClient == nil {
		return "", fmt.Errorf("storage not configured")
	}
	u, err := c.minioClient.PresignedGetObject(ctx, c.bucket, objectName, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign object: %w", err)
	}
	return u.String(), nil
}

// PublicURL 拼接对象访问地址
func (c *Client) PublicURL(objectName string) string {
	scheme := "http"
	if c.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, c.endpoint, c.bucket, objectName)
}
