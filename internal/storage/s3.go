package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DefaultRegion is the production region objects are written to.
const DefaultRegion = "ca-central-1"

// S3Client implements ObjectStorage on AWS S3. It serves the production endpoint.
type S3Client struct {
	client *s3.Client
}

// S3Config holds S3 connection settings. Credentials come from the default AWS
// chain unless both AccessKey and SecretKey are set.
type S3Config struct {
	Region    string
	Endpoint  string // optional override, path-style addressing is used when set
	AccessKey string
	SecretKey string
}

// NewS3Client creates a new S3 storage client.
func NewS3Client(ctx context.Context, cfg S3Config) (*S3Client, error) {
	region := cfg.Region
	if region == "" {
		region = DefaultRegion
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, Wrap(KindCredentialsMissing, fmt.Errorf("failed to load aws config: %w", err))
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Client{client: client}, nil
}

// Put stores an object in S3.
func (c *S3Client) Put(ctx context.Context, bucket, key string, body io.Reader, size int64, opts PutOptions) error {
	input := &s3.PutObjectInput{
		Bucket:   aws.String(bucket),
		Key:      aws.String(key),
		Body:     body,
		Metadata: opts.Metadata,
	}
	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := c.client.PutObject(ctx, input); err != nil {
		return Classify(fmt.Errorf("failed to upload to s3: %w", err))
	}
	return nil
}
