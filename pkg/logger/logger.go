package logger

import (
	"context"
	"log/slog"
	"os"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// Context keys the request middleware and auth layer populate; WithContext
// turns them into log fields.
const (
	RequestIDKey ContextKey = "request_id"
	TenantKey    ContextKey = "tenant"
	UsernameKey  ContextKey = "username"
)

// Config holds logger configuration
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// Init installs the process-wide slog logger per the configuration.
// Unknown levels fall back to info, unknown formats to text.
func Init(cfg *Config) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// WithContext returns the default logger annotated with whichever request
// identity fields are present on the context.
func WithContext(ctx context.Context) *slog.Logger {
	attrs := make([]any, 0, 6)
	for _, key := range []struct {
		ctxKey ContextKey
		field  string
	}{
		{RequestIDKey, "request_id"},
		{TenantKey, "tenant"},
		{UsernameKey, "username"},
	} {
		if v, ok := ctx.Value(key.ctxKey).(string); ok && v != "" {
			attrs = append(attrs, key.field, v)
		}
	}

	if len(attrs) == 0 {
		return slog.Default()
	}
	return slog.Default().With(attrs...)
}

// Info logs at info level with context fields
func Info(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).Info(msg, args...)
}

// Debug logs at debug level with context fields
func Debug(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).Debug(msg, args...)
}

// Warn logs at warn level with context fields
func Warn(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).Warn(msg, args...)
}

// Error logs at error level with context fields
func Error(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).Error(msg, args...)
}
