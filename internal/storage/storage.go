package storage

import (
	"context"
	"io"
)

// PutOptions carries per-object metadata.
type PutOptions struct {
	ContentType string
	Metadata    map[string]string
}

// ObjectStorage writes a single object to a bucket.
// size may be -1 when the length of body is unknown.
type ObjectStorage interface {
	Put(ctx context.Context, bucket, key string, body io.Reader, size int64, opts PutOptions) error
}

// Provider hands out the store for the production or the local endpoint.
type Provider interface {
	Store(ctx context.Context, local bool) (ObjectStorage, error)
}

// ContentTypeFor maps a file extension to the content type stored with the object.
func ContentTypeFor(ext string) string {
	switch ext {
	case "csv":
		return "text/csv"
	case "json":
		return "application/json"
	case "jsonl":
		return "application/x-ndjson"
	case "log", "txt":
		return "text/plain"
	case "parquet":
		return "application/vnd.apache.parquet"
	default:
		return "application/octet-stream"
	}
}
