package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOClient implements ObjectStorage using MinIO. It serves the local/dev endpoint.
type MinIOClient struct {
	client *minio.Client
	region string
}

// MinIOConfig holds MinIO connection settings.
type MinIOConfig struct {
	Endpoint  string // e.g., "localhost:9000"
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
}

// NewMinIOClient creates a new MinIO storage client.
func NewMinIOClient(cfg MinIOConfig) (*MinIOClient, error) {
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, Wrap(KindCredentialsMissing, fmt.Errorf("minio access key and secret key are required"))
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, Wrap(KindConfigInvalid, fmt.Errorf("failed to create minio client: %w", err))
	}

	return &MinIOClient{client: client, region: cfg.Region}, nil
}

// EnsureBucket creates bucket when it does not exist yet.
func (m *MinIOClient) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := m.client.BucketExists(ctx, bucket)
	if err != nil {
		return Classify(fmt.Errorf("failed to check bucket existence: %w", err))
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: m.region}); err != nil {
		return Classify(fmt.Errorf("failed to create bucket: %w", err))
	}
	return nil
}

// Put stores an object in MinIO.
func (m *MinIOClient) Put(ctx context.Context, bucket, key string, body io.Reader, size int64, opts PutOptions) error {
	contentType := opts.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := m.client.PutObject(ctx, bucket, key, body, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: opts.Metadata,
	})
	if err != nil {
		return Classify(fmt.Errorf("failed to upload to minio: %w", err))
	}

	return nil
}
