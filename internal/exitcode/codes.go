package exitcode

import "github.com/sagadevanmi/nifty-stocks-etl/internal/storage"

// Exit codes for the objwriter CLI.
// Orchestration can use these to decide retry strategy.
const (
	// Success - all payloads written
	Success = 0

	// ConfigError - missing or invalid configuration or arguments
	// Don't retry: fix the config first
	ConfigError = 1

	// StorageError - failed to write to S3/MinIO
	// Retry with backoff
	StorageError = 4

	// DataError - input could not be read or serialized
	// Don't retry: investigate the data
	DataError = 5
)

// ForKind maps a write failure kind onto an exit code.
func ForKind(kind storage.Kind) int {
	switch kind {
	case storage.KindConfigInvalid:
		return ConfigError
	case storage.KindSerializationFailed:
		return DataError
	default:
		return StorageError
	}
}
