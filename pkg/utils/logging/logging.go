package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/masq"
)

type ctxKey struct{}

var (
	defaultLogger   *slog.Logger
	defaultLoggerMu sync.RWMutex
)

func init() {
	defaultLogger = New(os.Stdout, slog.LevelInfo, FormatConsole)
}

// Format selects the log output encoding.
type Format int

const (
	FormatConsole Format = iota
	FormatJSON
)

// New builds a logger. Secrets tagged `masq:"secret"` and token-like field
// names are redacted regardless of format.
func New(w io.Writer, level slog.Level, format Format) *slog.Logger {
	redact := masq.New(
		masq.WithTag("secret"),
		masq.WithFieldName("NotionToken"),
		masq.WithFieldName("notion_token"),
	)

	switch format {
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: redact,
		}))
	default:
		return slog.New(clog.New(
			clog.WithWriter(w),
			clog.WithLevel(level),
			clog.WithReplaceAttr(redact),
		))
	}
}

// Default returns the process-wide logger.
func Default() *slog.Logger {
	defaultLoggerMu.RLock()
	defer defaultLoggerMu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the process-wide logger.
func SetDefault(logger *slog.Logger) {
	defaultLoggerMu.Lock()
	defer defaultLoggerMu.Unlock()
	defaultLogger = logger
}

// From extracts the logger from the context, falling back to the default.
func From(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return logger
	}
	return Default()
}

// With returns a context carrying the logger.
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}
