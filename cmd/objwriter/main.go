package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sagadevanmi/nifty-stocks-etl/internal/catalog"
	"github.com/sagadevanmi/nifty-stocks-etl/internal/clock"
	"github.com/sagadevanmi/nifty-stocks-etl/internal/config"
	"github.com/sagadevanmi/nifty-stocks-etl/internal/diaglog"
	"github.com/sagadevanmi/nifty-stocks-etl/internal/exitcode"
	"github.com/sagadevanmi/nifty-stocks-etl/internal/model"
	"github.com/sagadevanmi/nifty-stocks-etl/internal/storage"
	"github.com/sagadevanmi/nifty-stocks-etl/internal/writer"
)

// runOptions are the parsed command line arguments.
type runOptions struct {
	Table       string
	Input       string
	Format      string
	Extension   string
	TableFormat model.TableFormat
	MaxRows     int
	Write       model.WriteConfig
	Local       bool
	Log         model.LogUploadConfig
}

func main() {
	// Configure the global logger
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})))

	// Parse CLI flags
	table := flag.String("table", "", "Logical table/dataset name")
	input := flag.String("input", "-", "Input file path, - for stdin")
	format := flag.String("format", formatJSON, "Input format: text, json, jsonl or csv")
	ext := flag.String("ext", writer.DefaultTextExtension, "Object extension for text input")
	tableFormat := flag.String("table-format", string(model.FormatJSONLines), "File format for csv input: jsonl or parquet")
	maxRows := flag.Int("max-rows", 0, "Maximum rows per file for csv input (0 = single file)")
	bucket := flag.String("bucket", "", "Destination bucket")
	prefix := flag.String("prefix", "", "Key prefix")
	partition := flag.String("partition", "", "Partition label")
	source := flag.String("source", "", "Source system name")
	local := flag.Bool("local", false, "Write to the local MinIO endpoint instead of S3")
	system := flag.String("system", "", "System name for the log upload")
	integration := flag.String("integration", "", "Integration name for the log upload")
	subProcess := flag.String("sub-process", "", "Sub-process name for the log upload")
	corID := flag.String("cor-id", "", "Correlation id (UUID), generated when empty")
	flag.Parse()

	if *table == "" {
		slog.Error("table is required")
		fmt.Fprintf(os.Stderr, "Usage: -table must be provided\n")
		os.Exit(exitcode.ConfigError)
	}
	switch *format {
	case formatText, formatJSON, formatJSONL, formatCSV:
	default:
		slog.Error("invalid format", "format", *format)
		fmt.Fprintf(os.Stderr, "Usage: format must be one of text, json, jsonl, csv\n")
		os.Exit(exitcode.ConfigError)
	}
	if err := model.TableFormat(*tableFormat).Validate(); err != nil {
		slog.Error("invalid table format", "error", err)
		os.Exit(exitcode.ConfigError)
	}

	correlationID := model.CorrelationID(*corID)
	if correlationID == "" {
		id, err := model.NewCorrelationID()
		if err != nil {
			slog.Error("failed to generate correlation id", "error", err)
			os.Exit(exitcode.ConfigError)
		}
		correlationID = id
	}
	if err := correlationID.Validate(); err != nil {
		slog.Error("invalid cor-id", "error", err)
		fmt.Fprintf(os.Stderr, "Usage: cor-id must be a UUID\n")
		os.Exit(exitcode.ConfigError)
	}

	// Ensure environment variables are loaded
	if err := godotenv.Load(); err != nil {
		slog.Warn("failed to load env vars", "error", err)
	}

	cfg, err := config.Load(*local)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(exitcode.ConfigError)
	}

	// Create a cancellable context (for graceful shutdown)
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := diaglog.Shared(diaglog.Options{Name: *system, Detailed: cfg.DetailedLogging})
	provider := storage.NewEndpointProvider(cfg.Endpoints(), logger.Slog())

	var opts []writer.Option
	if cfg.CatalogDSN != "" {
		cat, err := catalog.Open(ctx, cfg.CatalogDSN)
		if err != nil {
			slog.Error("failed to open catalog", "error", err)
			os.Exit(exitcode.ConfigError)
		}
		defer cat.Close()
		if err := cat.EnsureSchema(ctx); err != nil {
			slog.Error("failed to prepare catalog", "error", err)
			os.Exit(exitcode.ConfigError)
		}
		opts = append(opts, writer.WithCatalog(cat))
	}

	ro := runOptions{
		Table:       *table,
		Input:       *input,
		Format:      *format,
		Extension:   *ext,
		TableFormat: model.TableFormat(*tableFormat),
		MaxRows:     *maxRows,
		Write: model.WriteConfig{
			Bucket:     *bucket,
			Prefix:     *prefix,
			Partition:  *partition,
			SourceName: *source,
		},
		Local: *local,
		Log: model.LogUploadConfig{
			Bucket:          cfg.LogBucket,
			SystemName:      *system,
			IntegrationName: *integration,
			SubProcess:      *subProcess,
			CorrelationID:   correlationID,
		},
	}

	logger.Info(ctx, fmt.Sprintf("Run %s started at %s", correlationID, clock.Display(clock.Now())))

	code := exitcode.Success
	if err := run(ctx, ro, provider, logger, opts...); err != nil {
		slog.Error("application error", "error", err, "cor_id", correlationID, "retryable", retryable(err))
		code = exitCodeFor(err)
	}

	// The log is uploaded whatever the outcome of the write.
	if logStore, err := provider.Store(ctx, *local); err != nil {
		slog.Error("failed to open log store", "error", err)
	} else {
		if *local {
			ensureBucket(ctx, logStore, ro.Log.Bucket)
		}
		logger.Upload(ctx, logStore, ro.Log)
	}

	slog.Info("shutdown complete", "cor_id", correlationID)
	os.Exit(code)
}

// run reads the input and writes it through the writer selected by the format.
func run(ctx context.Context, ro runOptions, provider storage.Provider, logger *diaglog.Logger, opts ...writer.Option) error {
	data, err := readInput(ro.Input)
	if err != nil {
		return &writer.Error{Op: "ReadInput", Kind: storage.KindSerializationFailed, Err: err}
	}

	opts = append(opts, writer.WithTableFormat(ro.TableFormat), writer.WithMaxRowsPerFile(ro.MaxRows))

	if ro.Local {
		store, err := provider.Store(ctx, true)
		if err != nil {
			return err
		}
		ensureBucket(ctx, store, ro.Write.Bucket)
	}

	switch ro.Format {
	case formatText, formatJSONL:
		store, err := provider.Store(ctx, ro.Local)
		if err != nil {
			return err
		}
		w := writer.New(store, logger, opts...)
		if ro.Format == formatText {
			return w.WriteText(ctx, ro.Table, string(data), ro.Write, ro.Extension)
		}
		records, err := decodeJSONLines(bytes.NewReader(data))
		if err != nil {
			return &writer.Error{Op: "ReadInput", Kind: storage.KindSerializationFailed, Err: err}
		}
		return w.WriteJSONLines(ctx, ro.Table, records, ro.Write)

	case formatJSON:
		payload, err := decodeJSON(data)
		if err != nil {
			return &writer.Error{Op: "ReadInput", Kind: storage.KindSerializationFailed, Err: err}
		}
		w := writer.New(nil, logger, opts...)
		if _, isRecords := payload.([]map[string]any); isRecords {
			return w.Dispatch(ctx, provider, ro.Table, payload, ro.Write, ro.Write.SourceName, ro.Local)
		}
		store, err := provider.Store(ctx, ro.Local)
		if err != nil {
			return err
		}
		return writer.New(store, logger, opts...).WriteJSON(ctx, ro.Table, payload, ro.Write)

	case formatCSV:
		table, err := decodeCSV(bytes.NewReader(data))
		if err != nil {
			return &writer.Error{Op: "ReadInput", Kind: storage.KindSerializationFailed, Err: err}
		}
		w := writer.New(nil, logger, opts...)
		return w.Dispatch(ctx, provider, ro.Table, table, ro.Write, ro.Write.SourceName, ro.Local)
	}

	return &writer.Error{Op: "ReadInput", Kind: storage.KindConfigInvalid, Err: fmt.Errorf("unknown format %q", ro.Format)}
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func exitCodeFor(err error) int {
	var werr *writer.Error
	if errors.As(err, &werr) {
		return exitcode.ForKind(werr.Kind)
	}
	return exitcode.ForKind(storage.KindOf(err))
}

// bucketEnsurer is implemented by stores that can create missing buckets.
type bucketEnsurer interface {
	EnsureBucket(ctx context.Context, bucket string) error
}

// ensureBucket creates bucket on stores that support it. Failures are only
// logged; the following Put reports the real error.
func ensureBucket(ctx context.Context, store storage.ObjectStorage, bucket string) {
	be, ok := store.(bucketEnsurer)
	if !ok || bucket == "" {
		return
	}
	if err := be.EnsureBucket(ctx, bucket); err != nil {
		slog.Warn("failed to ensure bucket", "bucket", bucket, "error", err)
	}
}

func retryable(err error) bool {
	var se *storage.Error
	return errors.As(err, &se) && se.Retryable()
}
