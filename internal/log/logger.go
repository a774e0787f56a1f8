package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"
)

// Logger is the interface for planner logging
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	Enabled(level slog.Level) bool
}

// logger wraps slog.Logger
type logger struct {
	slog *slog.Logger
}

var defaultLogger atomic.Value

func init() {
	// Planner output goes to stdout, so logs default to stderr
	defaultLogger.Store(holder{NewTextLogger(os.Stderr, slog.LevelWarn)})
}

// holder keeps atomic.Value storing a single concrete type.
type holder struct {
	Logger
}

// SetDefault sets the default logger
func SetDefault(l Logger) {
	defaultLogger.Store(holder{l})
}

// Default returns the default logger
func Default() Logger {
	return defaultLogger.Load().(holder).Logger
}

// New creates a new logger with the given handler
func New(handler slog.Handler) Logger {
	return &logger{slog: slog.New(handler)}
}

// NewTextLogger creates a new text logger writing to w
func NewTextLogger(w io.Writer, level slog.Level) Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}
	return New(slog.NewTextHandler(w, opts))
}

// NewJSONLogger creates a new JSON logger writing to w
func NewJSONLogger(w io.Writer, level slog.Level) Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}
	return New(slog.NewJSONHandler(w, opts))
}

// Discard returns a logger that drops everything.
func Discard() Logger {
	return New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func (l *logger) Debug(msg string, args ...any) {
	l.slog.Debug(msg, args...)
}

func (l *logger) Info(msg string, args ...any) {
	l.slog.Info(msg, args...)
}

func (l *logger) Warn(msg string, args ...any) {
	l.slog.Warn(msg, args...)
}

func (l *logger) Error(msg string, args ...any) {
	l.slog.Error(msg, args...)
}

func (l *logger) With(args ...any) Logger {
	return &logger{slog: l.slog.With(args...)}
}

func (l *logger) Enabled(level slog.Level) bool {
	return l.slog.Enabled(context.Background(), level)
}

// Helper functions for structured logging

// String returns a string attribute
func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

// Int returns an int attribute
func Int(key string, value int) slog.Attr {
	return slog.Int(key, value)
}

// Int64 returns an int64 attribute
func Int64(key string, value int64) slog.Attr {
	return slog.Int64(key, value)
}

// Uint64 returns a uint64 attribute
func Uint64(key string, value uint64) slog.Attr {
	return slog.Uint64(key, value)
}

// Bool returns a bool attribute
func Bool(key string, value bool) slog.Attr {
	return slog.Bool(key, value)
}

// Duration returns a duration attribute
func Duration(key string, value time.Duration) slog.Attr {
	return slog.Duration(key, value)
}

// Any returns an any attribute
func Any(key string, value any) slog.Attr {
	return slog.Any(key, value)
}

// Err returns an attribute holding an error message
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Package-level convenience functions

func Debug(msg string, args ...any) {
	Default().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	Default().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	Default().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	Default().Error(msg, args...)
}
