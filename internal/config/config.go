package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sagadevanmi/nifty-stocks-etl/internal/storage"
)

// Config holds application configuration.
type Config struct {
	S3Region   string
	S3Endpoint string // optional override for the production endpoint

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOUseSSL    bool

	LogBucket       string
	CatalogDSN      string // optional
	DetailedLogging bool
}

type ErrMissingRequiredEnvVar struct {
	Name string
}

func (e *ErrMissingRequiredEnvVar) Error() string {
	return fmt.Sprintf("required environment variable %q is not set", e.Name)
}

type ErrInvalidEnvVar struct {
	Name  string
	Value string
}

func (e *ErrInvalidEnvVar) Error() string {
	return fmt.Sprintf("environment variable %q has invalid value %q", e.Name, e.Value)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, &ErrInvalidEnvVar{Name: key, Value: v}
	}
	return b, nil
}

// Load reads configuration from environment variables.
// The MinIO variables are only required when local is set.
func Load(local bool) (*Config, error) {
	config := Config{
		S3Region:   getEnv("S3_REGION", storage.DefaultRegion),
		S3Endpoint: os.Getenv("S3_ENDPOINT"),
		CatalogDSN: os.Getenv("CATALOG_DSN"),
	}

	config.LogBucket = os.Getenv("LOG_BUCKET")
	if config.LogBucket == "" {
		return nil, &ErrMissingRequiredEnvVar{Name: "LOG_BUCKET"}
	}

	var err error
	if config.DetailedLogging, err = getBool("DETAILED_LOGGING"); err != nil {
		return nil, err
	}
	if config.MinIOUseSSL, err = getBool("MINIO_USE_SSL"); err != nil {
		return nil, err
	}

	config.MinIOEndpoint = os.Getenv("MINIO_ENDPOINT")
	config.MinIOAccessKey = os.Getenv("MINIO_ACCESS_KEY")
	config.MinIOSecretKey = os.Getenv("MINIO_SECRET_KEY")
	if local {
		if config.MinIOEndpoint == "" {
			return nil, &ErrMissingRequiredEnvVar{Name: "MINIO_ENDPOINT"}
		}
		if config.MinIOAccessKey == "" {
			return nil, &ErrMissingRequiredEnvVar{Name: "MINIO_ACCESS_KEY"}
		}
		if config.MinIOSecretKey == "" {
			return nil, &ErrMissingRequiredEnvVar{Name: "MINIO_SECRET_KEY"}
		}
	}

	return &config, nil
}

// Endpoints returns the store endpoints described by the configuration.
func (c *Config) Endpoints() storage.EndpointConfig {
	return storage.EndpointConfig{
		Remote: storage.S3Config{
			Region:   c.S3Region,
			Endpoint: c.S3Endpoint,
		},
		Local: storage.MinIOConfig{
			Endpoint:  c.MinIOEndpoint,
			AccessKey: c.MinIOAccessKey,
			SecretKey: c.MinIOSecretKey,
			Region:    c.S3Region,
			UseSSL:    c.MinIOUseSSL,
		},
	}
}
