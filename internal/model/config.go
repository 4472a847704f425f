package model

import (
	"fmt"
	"strings"
)

// Keys of the loose configuration map accepted by WriteConfigFromMap.
const (
	KeyBucketName  = "bucket_name"
	KeyPrefix      = "prefix"
	KeyS3Partition = "s3_partition"
	KeySourceName  = "source_name"
)

// ErrMissingConfigKey reports a required configuration value that was not supplied.
type ErrMissingConfigKey struct {
	Key string
}

func (e *ErrMissingConfigKey) Error() string {
	return fmt.Sprintf("required config key %q is not set", e.Key)
}

// WriteConfig names where a writer operation puts its objects.
type WriteConfig struct {
	Bucket     string
	Prefix     string
	Partition  string // normalised to lowercase when keys are built
	SourceName string // optional
}

// WriteConfigFromMap builds a WriteConfig from bucket_name, prefix,
// s3_partition and source_name. Missing keys surface through Validate.
func WriteConfigFromMap(m map[string]string) WriteConfig {
	return WriteConfig{
		Bucket:     m[KeyBucketName],
		Prefix:     m[KeyPrefix],
		Partition:  m[KeyS3Partition],
		SourceName: m[KeySourceName],
	}
}

// Validate checks that every value needed to build an object key is present.
func (c WriteConfig) Validate() error {
	if c.Bucket == "" {
		return &ErrMissingConfigKey{Key: KeyBucketName}
	}
	if c.Prefix == "" {
		return &ErrMissingConfigKey{Key: KeyPrefix}
	}
	if c.Partition == "" {
		return &ErrMissingConfigKey{Key: KeyS3Partition}
	}
	return nil
}

// NormalizedPartition returns the partition label as it appears in keys.
func (c WriteConfig) NormalizedPartition() string {
	return strings.ToLower(c.Partition)
}

// LogUploadConfig names where the diagnostic log of a run is written.
type LogUploadConfig struct {
	Bucket          string
	Prefix          string // optional, prepended to the key
	SystemName      string
	IntegrationName string
	SubProcess      string
	CorrelationID   CorrelationID
}

// Validate checks that every value needed to build the log key is present.
func (c LogUploadConfig) Validate() error {
	required := []struct {
		key, value string
	}{
		{"bucket_name", c.Bucket},
		{"system_name", c.SystemName},
		{"integration_name", c.IntegrationName},
		{"sub_process", c.SubProcess},
		{"cor_id", c.CorrelationID.String()},
	}
	for _, r := range required {
		if r.value == "" {
			return &ErrMissingConfigKey{Key: r.key}
		}
	}
	return nil
}
