// Package writer puts text, JSON, JSON-Lines and tabular payloads into the
// object store under partitioned keys.
//
// Every operation reports failure as a returned *Error and never panics on a
// store fault. Empty payloads are a no-op.
package writer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sagadevanmi/nifty-stocks-etl/internal/catalog"
	"github.com/sagadevanmi/nifty-stocks-etl/internal/clock"
	"github.com/sagadevanmi/nifty-stocks-etl/internal/diaglog"
	"github.com/sagadevanmi/nifty-stocks-etl/internal/model"
	"github.com/sagadevanmi/nifty-stocks-etl/internal/storage"
)

// Operation names carried by *Error.
const (
	OpWriteText      = "WriteText"
	OpWriteJSON      = "WriteJSON"
	OpWriteJSONLines = "WriteJSONLines"
	OpWriteTable     = "WriteTable"
	OpDispatch       = "Dispatch"
)

// DefaultTextExtension is used by WriteText when no extension is given.
const DefaultTextExtension = "csv"

// Writer writes payloads to a single object store.
type Writer struct {
	store          storage.ObjectStorage
	log            *diaglog.Logger
	now            clock.Clock
	catalog        catalog.Recorder
	tableFormat    model.TableFormat
	maxRowsPerFile int
	newFileID      func() string
}

// Option configures a Writer.
type Option func(*Writer)

// WithClock sets the clock used for partition timestamps.
func WithClock(c clock.Clock) Option {
	return func(w *Writer) { w.now = c }
}

// WithCatalog records every written object in r.
func WithCatalog(r catalog.Recorder) Option {
	return func(w *Writer) { w.catalog = r }
}

// WithTableFormat selects the file format of WriteTable.
func WithTableFormat(f model.TableFormat) Option {
	return func(w *Writer) { w.tableFormat = f }
}

// WithMaxRowsPerFile splits table writes into files of at most n rows.
func WithMaxRowsPerFile(n int) Option {
	return func(w *Writer) { w.maxRowsPerFile = n }
}

// New creates a Writer. A nil logger falls back to the shared diagnostic logger.
func New(store storage.ObjectStorage, logger *diaglog.Logger, opts ...Option) *Writer {
	if logger == nil {
		logger = diaglog.Shared(diaglog.Options{})
	}
	w := &Writer{
		store:       store,
		log:         logger,
		now:         clock.Now,
		tableFormat: model.FormatJSONLines,
		newFileID: func() string {
			return strings.ReplaceAll(uuid.NewString(), "-", "")
		},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// withStore returns a copy of w writing to store.
func (w *Writer) withStore(store storage.ObjectStorage) *Writer {
	clone := *w
	clone.store = store
	return &clone
}

// object is one payload ready to be put.
type object struct {
	table string
	key   string
	ext   string
	body  []byte
}

// WriteText writes text as-is to {prefix}/{name}/{partition}/{name}_{uid}.{ext}.
// ext defaults to csv.
func (w *Writer) WriteText(ctx context.Context, name, text string, cfg model.WriteConfig, ext string) error {
	if text == "" {
		return nil
	}
	if ext == "" {
		ext = DefaultTextExtension
	}
	log := w.log.With(OpWriteText)
	if err := cfg.Validate(); err != nil {
		return opError(OpWriteText, storage.KindConfigInvalid, err)
	}

	log.Info(ctx, fmt.Sprintf("Write to s3 for %s started", name))
	key := storage.ObjectKey{
		Prefix:    cfg.Prefix,
		Table:     name,
		Partition: cfg.NormalizedPartition(),
		UID:       clock.Partition(w.now()),
		Extension: ext,
	}.Key()

	return w.put(ctx, log, OpWriteText, cfg, object{table: name, key: key, ext: ext, body: []byte(text)})
}

// WriteJSON encodes payload as JSON and writes it to
// {prefix}/{name}/{partition}/{name}_{uid[:14]}.json.
func (w *Writer) WriteJSON(ctx context.Context, name string, payload any, cfg model.WriteConfig) error {
	log := w.log.With(OpWriteJSON)
	if err := cfg.Validate(); err != nil {
		return opError(OpWriteJSON, storage.KindConfigInvalid, err)
	}

	log.Info(ctx, fmt.Sprintf("Write to s3 for %s started", name))
	key := storage.ObjectKey{
		Prefix:    cfg.Prefix,
		Table:     name,
		Partition: cfg.NormalizedPartition(),
		UID:       clock.Partition(w.now())[:14],
		Extension: "json",
	}.Key()

	body, err := json.Marshal(payload)
	if err != nil {
		log.Exception(ctx, fmt.Sprintf("Exc: %v occurred while writing json to S3", err))
		return opError(OpWriteJSON, storage.KindSerializationFailed, err)
	}

	return w.put(ctx, log, OpWriteJSON, cfg, object{table: name, key: key, ext: "json", body: body})
}

// WriteJSONLines writes records as JSON-Lines, one document per line, to
// {prefix}/{name}/{partition}/{name}_{uid}.json.
func (w *Writer) WriteJSONLines(ctx context.Context, name string, records []any, cfg model.WriteConfig) error {
	if len(records) == 0 {
		return nil
	}
	log := w.log.With(OpWriteJSONLines)
	if err := cfg.Validate(); err != nil {
		return opError(OpWriteJSONLines, storage.KindConfigInvalid, err)
	}

	log.Info(ctx, fmt.Sprintf("Write to s3 for %s started", name))
	key := storage.ObjectKey{
		Prefix:    cfg.Prefix,
		Table:     name,
		Partition: cfg.NormalizedPartition(),
		UID:       clock.Partition(w.now()),
		Extension: "json",
	}.Key()

	body, err := encodeJSONLines(records)
	if err != nil {
		log.Exception(ctx, fmt.Sprintf("Exc: %v occurred while writing json lines to S3", err))
		return opError(OpWriteJSONLines, storage.KindSerializationFailed, err)
	}

	return w.put(ctx, log, OpWriteJSONLines, cfg, object{table: name, key: key, ext: "json", body: body})
}

// WriteTable appends table to the dataset directory {prefix}/{name}/{partition}/.
// Each call adds new files named {name}_{id}[_{n}].{ext}; earlier files are
// never overwritten.
func (w *Writer) WriteTable(ctx context.Context, name string, table *model.Table, cfg model.WriteConfig) error {
	if table == nil {
		return nil
	}
	log := w.log.With(OpWriteTable)
	if err := cfg.Validate(); err != nil {
		return opError(OpWriteTable, storage.KindConfigInvalid, err)
	}
	if err := w.tableFormat.Validate(); err != nil {
		return opError(OpWriteTable, storage.KindConfigInvalid, err)
	}
	if err := table.Validate(); err != nil {
		return opError(OpWriteTable, storage.KindConfigInvalid, err)
	}
	if table.Len() == 0 {
		log.Detailed(ctx, fmt.Sprintf("Table %s has no rows, nothing to write", name))
		return nil
	}

	log.Info(ctx, fmt.Sprintf("Write df to s3 for %s started", name))
	ext := w.tableFormat.Extension()
	fileID := w.newFileID()
	chunks := table.Chunks(w.maxRowsPerFile)

	for i, chunk := range chunks {
		uid := fileID
		if len(chunks) > 1 {
			uid = fmt.Sprintf("%s_%d", fileID, i)
		}
		key := storage.ObjectKey{
			Prefix:    cfg.Prefix,
			Table:     name,
			Partition: cfg.NormalizedPartition(),
			UID:       uid,
			Extension: ext,
		}.Key()

		body, err := w.encodeTable(chunk)
		if err != nil {
			log.Exception(ctx, fmt.Sprintf("Exc: %v while writing to S3 for %s", err, name))
			return opError(OpWriteTable, storage.KindSerializationFailed, err)
		}
		if err := w.put(ctx, log, OpWriteTable, cfg, object{table: name, key: key, ext: ext, body: body}); err != nil {
			return err
		}
	}

	log.Info(ctx, fmt.Sprintf("S3 write for %s was successful", name))
	return nil
}

func (w *Writer) encodeTable(t *model.Table) ([]byte, error) {
	if w.tableFormat == model.FormatParquet {
		return encodeTableParquet(t)
	}
	return encodeTableJSONLines(t)
}

// Dispatch picks the production or local store from provider and routes
// payload by shape: record sequences go to WriteJSON, tables to WriteTable.
// Any other shape is rejected with ErrUnsupportedPayload.
func (w *Writer) Dispatch(ctx context.Context, provider storage.Provider, name string, payload any, cfg model.WriteConfig, sourceName string, local bool) error {
	if sourceName != "" {
		cfg.SourceName = sourceName
	}

	var route func(*Writer) error
	switch p := payload.(type) {
	case []map[string]any:
		route = func(tw *Writer) error { return tw.WriteJSON(ctx, name, p, cfg) }
	case []any:
		route = func(tw *Writer) error { return tw.WriteJSON(ctx, name, p, cfg) }
	case *model.Table:
		route = func(tw *Writer) error { return tw.WriteTable(ctx, name, p, cfg) }
	case model.Table:
		route = func(tw *Writer) error { return tw.WriteTable(ctx, name, &p, cfg) }
	default:
		err := fmt.Errorf("%w: %T", ErrUnsupportedPayload, payload)
		w.log.With(OpDispatch).Error(ctx, fmt.Sprintf("Dispatch for %s rejected: %v", name, err))
		return opError(OpDispatch, storage.KindConfigInvalid, err)
	}

	store, err := provider.Store(ctx, local)
	if err != nil {
		w.log.With(OpDispatch).Exception(ctx, fmt.Sprintf("Exc: %v while selecting store for %s", err, name))
		return storeError(OpDispatch, err)
	}

	w.log.With(OpDispatch).Detailed(ctx, fmt.Sprintf("Dispatching %s (local=%t, source=%s)", name, local, cfg.SourceName))
	return route(w.withStore(store))
}

func (w *Writer) put(ctx context.Context, log *diaglog.Logger, op string, cfg model.WriteConfig, obj object) error {
	opts := storage.PutOptions{ContentType: storage.ContentTypeFor(obj.ext)}
	if cfg.SourceName != "" {
		opts.Metadata = map[string]string{"source-name": cfg.SourceName}
	}

	if err := w.store.Put(ctx, cfg.Bucket, obj.key, bytes.NewReader(obj.body), int64(len(obj.body)), opts); err != nil {
		log.Exception(ctx, fmt.Sprintf("Exc: %v occurred while writing %s to S3", err, obj.table))
		return storeError(op, err)
	}
	log.Detailed(ctx, fmt.Sprintf("Wrote %d bytes to %s", len(obj.body), storage.URI(cfg.Bucket, obj.key)))

	w.record(ctx, log, cfg, obj, opts.ContentType)
	return nil
}

// record adds obj to the catalog. Catalog failures are logged, not returned.
func (w *Writer) record(ctx context.Context, log *diaglog.Logger, cfg model.WriteConfig, obj object, contentType string) {
	if w.catalog == nil {
		return
	}
	err := w.catalog.Record(ctx, catalog.Entry{
		Bucket:      cfg.Bucket,
		Key:         obj.key,
		Table:       obj.table,
		Partition:   cfg.NormalizedPartition(),
		SourceName:  cfg.SourceName,
		ContentType: contentType,
		SizeBytes:   int64(len(obj.body)),
		WrittenAt:   w.now(),
	})
	if err != nil {
		log.Warning(ctx, fmt.Sprintf("Catalog entry for %s not recorded: %v", storage.URI(cfg.Bucket, obj.key), err))
	}
}
