// Package diaglog provides the diagnostic logger shared by the writers.
//
// Every Log call is written to a live slog stream and appended to an in-memory
// accumulator. The accumulator is never cleared; Upload writes the whole
// history of the process as one object.
package diaglog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/sagadevanmi/nifty-stocks-etl/internal/clock"
	"github.com/sagadevanmi/nifty-stocks-etl/internal/model"
	"github.com/sagadevanmi/nifty-stocks-etl/internal/storage"
)

// DefaultName is the logger name used when Options.Name is empty.
const DefaultName = "glue"

const entryTimeLayout = "2006-01-02 15:04:05.000"

// Options configures a Logger.
type Options struct {
	Name     string
	Detailed bool         // enables Detailed output
	Output   io.Writer    // live stream destination, defaults to stdout
	Handler  slog.Handler // overrides Output when set
	Clock    clock.Clock
}

type accumulator struct {
	mu      sync.Mutex
	entries []string
}

func (a *accumulator) append(entry string) {
	a.mu.Lock()
	a.entries = append(a.entries, entry)
	a.mu.Unlock()
}

func (a *accumulator) snapshot() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.entries))
	copy(out, a.entries)
	return out
}

// Logger tees log calls into a live stream and an accumulator.
type Logger struct {
	name      string
	detailed  bool
	now       clock.Clock
	partition string
	live      *slog.Logger
	acc       *accumulator
}

// New creates a Logger with its own accumulator.
func New(opts Options) *Logger {
	if opts.Name == "" {
		opts.Name = DefaultName
	}
	if opts.Clock == nil {
		opts.Clock = clock.Now
	}
	handler := opts.Handler
	if handler == nil {
		out := opts.Output
		if out == nil {
			out = os.Stdout
		}
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	return &Logger{
		name:      opts.Name,
		detailed:  opts.Detailed,
		now:       opts.Clock,
		partition: clock.Partition(opts.Clock())[:14],
		live:      slog.New(handler).With("logger", opts.Name),
		acc:       &accumulator{},
	}
}

var (
	sharedOnce sync.Once
	shared     *Logger
)

// Shared returns the process-wide Logger. The options of the first call win;
// later calls return the same instance and ignore their options.
func Shared(opts Options) *Logger {
	sharedOnce.Do(func() {
		shared = New(opts)
	})
	return shared
}

// With returns a view of l that tags live output with origin. The view shares
// l's accumulator.
func (l *Logger) With(origin string) *Logger {
	clone := *l
	clone.live = l.live.With("origin", origin)
	return &clone
}

// Slog exposes the live stream for components that log through slog directly.
func (l *Logger) Slog() *slog.Logger {
	return l.live
}

// Partition is the 14-digit timestamp the log upload is filed under.
func (l *Logger) Partition() string {
	return l.partition
}

// Log records message at level. Unknown levels return ErrInvalidLevel and
// record nothing.
func (l *Logger) Log(ctx context.Context, level Level, message string) error {
	lvl, err := ParseLevel(string(level))
	if err != nil {
		return err
	}

	l.acc.append(l.formatEntry(lvl, message))

	if lvl == LevelException {
		l.live.Log(ctx, lvl.slogLevel(), message, "exception", true)
		return nil
	}
	l.live.Log(ctx, lvl.slogLevel(), message)
	return nil
}

func (l *Logger) formatEntry(level Level, message string) string {
	return fmt.Sprintf("%s|%s|%s|%s", l.now().UTC().Format(entryTimeLayout), l.name, level, message)
}

// Info is shorthand for Log(ctx, LevelInfo, message).
func (l *Logger) Info(ctx context.Context, message string) {
	_ = l.Log(ctx, LevelInfo, message)
}

// Warning is shorthand for Log(ctx, LevelWarning, message).
func (l *Logger) Warning(ctx context.Context, message string) {
	_ = l.Log(ctx, LevelWarning, message)
}

// Error is shorthand for Log(ctx, LevelError, message).
func (l *Logger) Error(ctx context.Context, message string) {
	_ = l.Log(ctx, LevelError, message)
}

// Exception is shorthand for Log(ctx, LevelException, message).
func (l *Logger) Exception(ctx context.Context, message string) {
	_ = l.Log(ctx, LevelException, message)
}

// Detailed writes message to the live stream at info severity when detailed
// logging is enabled. It never reaches the accumulator.
func (l *Logger) Detailed(ctx context.Context, message string) {
	if !l.detailed {
		return
	}
	l.live.InfoContext(ctx, message, "detailed", true)
}

// Entries returns a copy of the accumulated entries in call order.
func (l *Logger) Entries() []string {
	return l.acc.snapshot()
}

// Upload writes the accumulated entries, newline separated, to
// [{prefix}/]{system}/{integration}/{sub_process}/{partition}/{cor_id}.log.
// Failures are logged and swallowed.
func (l *Logger) Upload(ctx context.Context, store storage.ObjectStorage, cfg model.LogUploadConfig) {
	if err := cfg.Validate(); err != nil {
		l.Error(ctx, fmt.Sprintf("An error occurred: %v", err))
		return
	}

	key := storage.LogKey{
		Prefix:        cfg.Prefix,
		System:        cfg.SystemName,
		Integration:   cfg.IntegrationName,
		SubProcess:    cfg.SubProcess,
		Partition:     l.partition,
		CorrelationID: cfg.CorrelationID.String(),
	}.Key()
	content := []byte(strings.Join(l.Entries(), "\n"))

	err := store.Put(ctx, cfg.Bucket, key, bytes.NewReader(content), int64(len(content)), storage.PutOptions{
		ContentType: storage.ContentTypeFor("log"),
	})
	switch {
	case err == nil:
		l.Info(ctx, fmt.Sprintf("Logs have been successfully written to %s", storage.URI(cfg.Bucket, key)))
	case storage.Classify(err).Kind == storage.KindCredentialsMissing:
		l.Error(ctx, "Error: credentials not found")
	default:
		l.Error(ctx, fmt.Sprintf("An error occurred: %v", err))
	}
}
