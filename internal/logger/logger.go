// Package logger is the process-wide structured logger, backed by zap.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	global = zap.NewNop()
)

type ctxKey struct{}

// New builds a logger writing to w. level is a zap level name ("debug",
// "info", ...); asJSON selects the JSON encoder over the console one.
func New(level string, asJSON bool, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var enc zapcore.Encoder
	if asJSON {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	}

	core := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(w)), lvl)
	return zap.New(core), nil
}

// Init replaces the global logger with one writing to stderr.
func Init(level string, asJSON bool) error {
	l, err := New(level, asJSON, os.Stderr)
	if err != nil {
		return err
	}
	SetLogger(l)
	return nil
}

// SetLogger replaces the global logger.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	global = l
}

// L returns the global logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Sync flushes buffered entries.
func Sync() error {
	return L().Sync()
}

// WithFields returns a context whose log entries carry fields.
func WithFields(ctx context.Context, fields ...Field) context.Context {
	existing, _ := ctx.Value(ctxKey{}).([]Field)
	merged := make([]Field, 0, len(existing)+len(fields))
	merged = append(merged, existing...)
	merged = append(merged, fields...)
	return context.WithValue(ctx, ctxKey{}, merged)
}

func withContext(ctx context.Context, fields []Field) []Field {
	if ctx == nil {
		return fields
	}
	existing, _ := ctx.Value(ctxKey{}).([]Field)
	if len(existing) == 0 {
		return fields
	}
	return append(append([]Field(nil), existing...), fields...)
}

func Debug(ctx context.Context, msg string, fields ...Field) {
	L().Debug(msg, withContext(ctx, fields)...)
}

func Info(ctx context.Context, msg string, fields ...Field) {
	L().Info(msg, withContext(ctx, fields)...)
}

func Warn(ctx context.Context, msg string, fields ...Field) {
	L().Warn(msg, withContext(ctx, fields)...)
}

func Error(ctx context.Context, msg string, fields ...Field) {
	L().Error(msg, withContext(ctx, fields)...)
}
