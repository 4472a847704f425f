package config

import (
	"fmt"
	"os"
	"testing"
)

var localVars = []string{"LOG_BUCKET", "MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY"}

var optionalVars = []string{"S3_REGION", "S3_ENDPOINT", "CATALOG_DSN", "DETAILED_LOGGING", "MINIO_USE_SSL"}

func setVars(t *testing.T, value string) {
	t.Helper()
	for _, v := range localVars {
		t.Setenv(v, value)
	}
	for _, v := range optionalVars {
		t.Setenv(v, "")
	}
}

func TestLoad_RequiredVarsMissing(t *testing.T) {
	for _, configVar := range localVars {
		t.Run(configVar, func(t *testing.T) {
			setVars(t, "test-value")
			os.Unsetenv(configVar)

			_, err := Load(true)
			if err == nil {
				t.Fatal("expected error")
			}
			if y, ok := err.(*ErrMissingRequiredEnvVar); !ok {
				t.Fatalf("expected ErrMissingRequiredEnvVar, got %s", y)
			}
			var varName string
			c, _ := fmt.Sscanf(
				err.Error(),
				"required environment variable %q is not set",
				&varName,
			)
			if c != 1 || varName != configVar {
				t.Fatalf("expected ErrMissingRequiredEnvVar to be set to %q, got %q", configVar, varName)
			}
		})
	}
}

func TestLoad_RemoteDoesNotNeedMinIO(t *testing.T) {
	setVars(t, "")
	t.Setenv("LOG_BUCKET", "logs")

	config, err := Load(false)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if config.LogBucket != "logs" {
		t.Fatalf("expected LogBucket logs, got %s", config.LogBucket)
	}
	if config.S3Region != "ca-central-1" {
		t.Fatalf("expected default region ca-central-1, got %s", config.S3Region)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	testValue := "test-value"
	setVars(t, testValue)
	t.Setenv("S3_REGION", "us-east-1")
	t.Setenv("CATALOG_DSN", "postgres://localhost/catalog")

	config, err := Load(true)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if config.LogBucket != testValue {
		t.Fatal()
	}
	if config.MinIOEndpoint != testValue {
		t.Fatal()
	}
	if config.MinIOAccessKey != testValue {
		t.Fatal()
	}
	if config.MinIOSecretKey != testValue {
		t.Fatal()
	}
	if config.S3Region != "us-east-1" {
		t.Fatal()
	}
	if config.CatalogDSN != "postgres://localhost/catalog" {
		t.Fatal()
	}
	if config.MinIOUseSSL {
		t.Fatal("expected MinIOUseSSL to be false by default")
	}
	if config.DetailedLogging {
		t.Fatal("expected DetailedLogging to be false by default")
	}

	endpoints := config.Endpoints()
	if endpoints.Local.Endpoint != testValue || endpoints.Remote.Region != "us-east-1" {
		t.Fatalf("unexpected endpoints %+v", endpoints)
	}
}

func TestLoad_Bools(t *testing.T) {
	setVars(t, "test-value")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("DETAILED_LOGGING", "1")

	config, err := Load(true)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if !config.MinIOUseSSL {
		t.Fatal("expected MinIOUseSSL to be true")
	}
	if !config.DetailedLogging {
		t.Fatal("expected DetailedLogging to be true")
	}
}

func TestLoad_InvalidBool(t *testing.T) {
	setVars(t, "test-value")
	t.Setenv("DETAILED_LOGGING", "sometimes")

	_, err := Load(true)
	if _, ok := err.(*ErrInvalidEnvVar); !ok {
		t.Fatalf("expected ErrInvalidEnvVar, got %v", err)
	}
}
