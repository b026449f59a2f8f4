package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig — параметры S3-совместимого хранилища.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Secure    bool
	// PublicURL — внешний адрес бакета; по умолчанию строится из Endpoint.
	PublicURL string
}

// Minio хранит файлы в S3-совместимом бакете с публичным чтением.
type Minio struct {
	client *minio.Client
	bucket string
	public string
}

// NewMinio создаёт клиент и проверяет, что бакет существует (создаёт при необходимости).
func NewMinio(ctx context.Context, cfg MinioConfig) (*Minio, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio: endpoint is required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}

	public := strings.TrimRight(cfg.PublicURL, "/")
	if public == "" {
		scheme := "http"
		if cfg.Secure {
			scheme = "https"
		}
		public = scheme + "://" + cfg.Endpoint + "/" + cfg.Bucket
	}
	return &Minio{client: client, bucket: cfg.Bucket, public: public}, nil
}

func (m *Minio) Put(ctx context.Context, filename string, data []byte, contentType string) (Object, error) {
	_, err := m.client.PutObject(ctx, m.bucket, filename, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return Object{}, fmt.Errorf("minio put %s: %w", filename, err)
	}
	return Object{Key: filename, URL: m.public + "/" + url.PathEscape(filename)}, nil
}
