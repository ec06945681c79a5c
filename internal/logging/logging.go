// Package logging provides logging functionality.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Level is a logging level.
type Level = slog.Level

// Logging levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Logger is a logging implementation.
type Logger struct {
	logger *slog.Logger
}

// Attr is a logging attribute.
type Attr = slog.Attr

// NewLogger creates a new Logger writing text records at info level to w.
func NewLogger(w io.Writer) *Logger {
	return NewLoggerWithLevel(w, LevelInfo)
}

// NewLoggerWithLevel creates a new Logger writing text records at the given level to w.
func NewLoggerWithLevel(w io.Writer, level Level) *Logger {
	return &Logger{slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))}
}

// Discard returns a Logger that drops every record.
func Discard() *Logger {
	return &Logger{slog.New(slog.DiscardHandler)}
}

// ParseLevel parses a level name such as "debug" or "WARN".
func ParseLevel(s string) (Level, error) {
	var level Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}

	return level, nil
}

// With returns a Logger that adds attrs to every record.
func (l *Logger) With(attrs ...Attr) *Logger {
	return &Logger{l.logger.With(toArgs(attrs)...)}
}

// Debug logs a debug message.
func (l *Logger) Debug(ctx context.Context, msg string, attrs ...Attr) {
	l.logger.DebugContext(ctx, msg, toArgs(attrs)...)
}

// Info logs an info message.
func (l *Logger) Info(ctx context.Context, msg string, attrs ...Attr) {
	l.logger.InfoContext(ctx, msg, toArgs(attrs)...)
}

// Warn logs a warning message.
func (l *Logger) Warn(ctx context.Context, msg string, attrs ...Attr) {
	l.logger.WarnContext(ctx, msg, toArgs(attrs)...)
}

// Error logs an error message.
func (l *Logger) Error(ctx context.Context, msg string, attrs ...Attr) {
	l.logger.ErrorContext(ctx, msg, toArgs(attrs)...)
}

func toArgs(attrs []Attr) []any {
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}

	return args
}

// String creates a new attribute with the given key and value.
func String(key, value string) Attr {
	return slog.String(key, value)
}

// Bool creates a new attribute with the given key and value.
func Bool(key string, value bool) Attr {
	return slog.Bool(key, value)
}

// Int64 creates a new attribute with the given key and value.
func Int64(key string, value int64) Attr {
	return slog.Int64(key, value)
}

// ErrAttr creates a new attribute with the key "err" and the given error value.
func ErrAttr(value error) Attr { return slog.Any("err", value) }
