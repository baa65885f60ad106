// Package logger provides the structured logging facade used across the relay.
package logger

import (
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging interface the rest of the codebase depends on.
// Each entry carries a human message, a machine-readable event name and
// an optional field map.
type Logger interface {
	DebugObj(msg, event string, fields map[string]any)
	InfoObj(msg, event string, fields map[string]any)
	WarnObj(msg, event string, fields map[string]any)
	ErrorObj(msg, event string, fields map[string]any)
}

// zapLogger implements Logger on top of a zap.Logger.
type zapLogger struct {
	l *zap.Logger
}

// New builds a production zap logger at the given level. Unknown levels
// fall back to info.
func New(level string) (Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &zapLogger{l: l}, nil
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (z *zapLogger) DebugObj(msg, event string, fields map[string]any) {
	z.l.Debug(msg, zapFields(event, fields)...)
}

func (z *zapLogger) InfoObj(msg, event string, fields map[string]any) {
	z.l.Info(msg, zapFields(event, fields)...)
}

func (z *zapLogger) WarnObj(msg, event string, fields map[string]any) {
	z.l.Warn(msg, zapFields(event, fields)...)
}

func (z *zapLogger) ErrorObj(msg, event string, fields map[string]any) {
	z.l.Error(msg, zapFields(event, fields)...)
}

// zapFields converts the field map into deterministic zap fields so log
// lines are stable across runs.
func zapFields(event string, fields map[string]any) []zap.Field {
	out := make([]zap.Field, 0, len(fields)+1)
	out = append(out, zap.String("event", event))

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		out = append(out, zap.Any(k, fields[k]))
	}
	return out
}

// NopLogger discards everything. Useful in tests.
type NopLogger struct{}

func (NopLogger) DebugObj(string, string, map[string]any) {}
func (NopLogger) InfoObj(string, string, map[string]any)  {}
func (NopLogger) WarnObj(string, string, map[string]any)  {}
func (NopLogger) ErrorObj(string, string, map[string]any) {}
