package storage

import (
	"fmt"
	"strings"
)

// ObjectKey addresses one object written by a table-style writer:
// {prefix}/{table}/{partition}/{table}_{uid}.{ext}
type ObjectKey struct {
	Prefix    string
	Table     string
	Partition string // already lowercased
	UID       string // partition timestamp or random suffix
	Extension string
}

func (k ObjectKey) Key() string {
	return fmt.Sprintf("%s%s_%s.%s", k.Dir(), k.Table, k.UID, k.Extension)
}

// Dir is the partition-scoped directory the object lives in, with a trailing slash.
func (k ObjectKey) Dir() string {
	return fmt.Sprintf("%s/%s/%s/", k.Prefix, k.Table, k.Partition)
}

// LogKey addresses the uploaded diagnostic log of one run:
// [{prefix}/]{system}/{integration}/{sub_process}/{partition}/{correlation_id}.log
type LogKey struct {
	Prefix        string
	System        string
	Integration   string
	SubProcess    string
	Partition     string
	CorrelationID string
}

func (k LogKey) Key() string {
	key := fmt.Sprintf("%s/%s/%s/%s/%s.log", k.System, k.Integration, k.SubProcess, k.Partition, k.CorrelationID)
	if k.Prefix == "" {
		return key
	}
	return strings.TrimSuffix(k.Prefix, "/") + "/" + key
}

// URI renders bucket and key as an s3:// location for log messages.
func URI(bucket, key string) string {
	return fmt.Sprintf("s3://%s/%s", bucket, key)
}
