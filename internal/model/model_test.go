package model

import (
	"errors"
	"testing"
)

func TestCorrelationID_Validate(t *testing.T) {
	tests := []struct {
		name    string
		id      CorrelationID
		wantErr bool
	}{
		{
			name:    "valid UUIDv7",
			id:      CorrelationID("01890c24-905b-7122-b170-b60814e6ee06"),
			wantErr: false,
		},
		{
			name:    "valid UUIDv4",
			id:      CorrelationID("550e8400-e29b-41d4-a716-446655440000"),
			wantErr: false,
		},
		{
			name:    "empty string",
			id:      CorrelationID(""),
			wantErr: true,
		},
		{
			name:    "invalid UUID format",
			id:      CorrelationID("not-a-uuid"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.id.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewCorrelationID(t *testing.T) {
	id, err := NewCorrelationID()
	if err != nil {
		t.Fatalf("NewCorrelationID() error = %v", err)
	}
	if err := id.Validate(); err != nil {
		t.Fatalf("generated id %q is invalid: %v", id, err)
	}
}

func TestWriteConfigFromMap(t *testing.T) {
	cfg := WriteConfigFromMap(map[string]string{
		"bucket_name":  "b",
		"prefix":       "p",
		"s3_partition": "RAW",
		"source_name":  "nse",
	})

	want := WriteConfig{Bucket: "b", Prefix: "p", Partition: "RAW", SourceName: "nse"}
	if cfg != want {
		t.Fatalf("WriteConfigFromMap() = %+v, want %+v", cfg, want)
	}
	if got := cfg.NormalizedPartition(); got != "raw" {
		t.Fatalf("NormalizedPartition() = %s, want raw", got)
	}
}

func TestWriteConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     WriteConfig
		wantKey string
	}{
		{name: "complete", cfg: WriteConfig{Bucket: "b", Prefix: "p", Partition: "P"}},
		{name: "source name optional", cfg: WriteConfig{Bucket: "b", Prefix: "p", Partition: "P", SourceName: ""}},
		{name: "missing bucket", cfg: WriteConfig{Prefix: "p", Partition: "P"}, wantKey: KeyBucketName},
		{name: "missing prefix", cfg: WriteConfig{Bucket: "b", Partition: "P"}, wantKey: KeyPrefix},
		{name: "missing partition", cfg: WriteConfig{Bucket: "b", Prefix: "p"}, wantKey: KeyS3Partition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantKey == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			var missing *ErrMissingConfigKey
			if !errors.As(err, &missing) {
				t.Fatalf("expected ErrMissingConfigKey, got %v", err)
			}
			if missing.Key != tt.wantKey {
				t.Fatalf("missing key = %s, want %s", missing.Key, tt.wantKey)
			}
		})
	}
}

func TestLogUploadConfig_Validate(t *testing.T) {
	cfg := LogUploadConfig{
		Bucket:          "logs",
		SystemName:      "etl",
		IntegrationName: "nse",
		SubProcess:      "bronze",
		CorrelationID:   "01890c24-905b-7122-b170-b60814e6ee06",
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	cfg.SubProcess = ""
	var missing *ErrMissingConfigKey
	if err := cfg.Validate(); !errors.As(err, &missing) || missing.Key != "sub_process" {
		t.Fatalf("expected missing sub_process, got %v", err)
	}
}
