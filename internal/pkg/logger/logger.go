package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config represents logger configuration
type Config struct {
	Level       string // debug, info, warn, error, fatal
	Environment string // development, production, test
}

// Init initializes the global logger with the given configuration
func Init(cfg Config) {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Logger = New(os.Stdout, cfg.Environment)
}

// New builds a logger writing to w. Development gets the console writer,
// everything else gets JSON lines.
func New(w io.Writer, environment string) zerolog.Logger {
	if environment == "development" || environment == "dev" {
		return zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: "15:04:05",
		}).With().Timestamp().Caller().Logger()
	}
	return zerolog.New(w).With().Timestamp().Caller().Logger()
}

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
)

// FromContext returns the logger from context or the global logger
func FromContext(ctx context.Context) *zerolog.Logger {
	if l, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && l != nil {
		return l
	}
	return &log.Logger
}

// WithContext returns a context with the logger attached
func WithContext(ctx context.Context, l *zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// WithRequestID stores the request id and a sub-logger tagged with it.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	l := FromContext(ctx).With().Str("request_id", requestID).Logger()
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	return WithContext(ctx, &l)
}

// RequestID returns the request id stored in ctx or "unknown".
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok && id != "" {
		return id
	}
	return "unknown"
}

// LogError logs an error with context
func LogError(ctx context.Context, err error, msg string, fields ...interface{}) {
	event := FromContext(ctx).Error().Err(err)
	addFields(event, fields)
	event.Msg(msg)
}

// LogWarn logs a warning message with context
func LogWarn(ctx context.Context, msg string, fields ...interface{}) {
	event := FromContext(ctx).Warn()
	addFields(event, fields)
	event.Msg(msg)
}

// LogInfo logs an info message with context
func LogInfo(ctx context.Context, msg string, fields ...interface{}) {
	event := FromContext(ctx).Info()
	addFields(event, fields)
	event.Msg(msg)
}

// LogDebug logs a debug message with context
func LogDebug(ctx context.Context, msg string, fields ...interface{}) {
	event := FromContext(ctx).Debug()
	addFields(event, fields)
	event.Msg(msg)
}

// addFields adds key/value pairs; a trailing key without value is dropped.
func addFields(event *zerolog.Event, fields []interface{}) {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		event.Interface(key, fields[i+1])
	}
}
