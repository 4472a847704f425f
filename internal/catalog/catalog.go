// Package catalog records every object the writers put into the store.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// Entry describes one written object.
type Entry struct {
	ID          uuid.UUID
	Bucket      string
	Key         string
	Table       string
	Partition   string
	SourceName  string
	ContentType string
	SizeBytes   int64
	WrittenAt   time.Time
}

// Recorder stores catalog entries.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

const schema = `
CREATE TABLE IF NOT EXISTS object_catalog (
	id           UUID PRIMARY KEY,
	bucket       TEXT NOT NULL,
	object_key   TEXT NOT NULL,
	table_name   TEXT NOT NULL,
	partition    TEXT NOT NULL,
	source_name  TEXT,
	content_type TEXT NOT NULL,
	size_bytes   BIGINT NOT NULL,
	written_at   TIMESTAMPTZ NOT NULL
)`

const insertEntry = `
INSERT INTO object_catalog
	(id, bucket, object_key, table_name, partition, source_name, content_type, size_bytes, written_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// Postgres is a Recorder backed by a Postgres table.
type Postgres struct {
	db *sql.DB
}

// Open connects to Postgres with dsn and verifies the connection.
func Open(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping catalog: %w", err)
	}
	return New(db), nil
}

// New wraps an existing database handle.
func New(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the catalog table when it is missing.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create catalog table: %w", err)
	}
	return nil
}

// Record inserts e. A zero ID is replaced with a new UUIDv7.
func (p *Postgres) Record(ctx context.Context, e Entry) error {
	if e.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("generate catalog id: %w", err)
		}
		e.ID = id
	}

	var source sql.NullString
	if e.SourceName != "" {
		source = sql.NullString{String: e.SourceName, Valid: true}
	}

	_, err := p.db.ExecContext(ctx, insertEntry,
		e.ID, e.Bucket, e.Key, e.Table, e.Partition, source, e.ContentType, e.SizeBytes, e.WrittenAt,
	)
	if err != nil {
		return fmt.Errorf("insert catalog entry: %w", err)
	}
	return nil
}

// Close closes the database handle.
func (p *Postgres) Close() error {
	return p.db.Close()
}
