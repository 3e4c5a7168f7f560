package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logging surface shared by the harvester packages.
// Every entry carries a short event name and an arbitrary field map.
type Logger interface {
	DebugObj(msg, event string, fields map[string]any)
	InfoObj(msg, event string, fields map[string]any)
	WarnObj(msg, event string, fields map[string]any)
	ErrorObj(msg, event string, fields map[string]any)
	Sync() error
}

type zapLogger struct {
	l *zap.Logger
}

// New builds a JSON zap logger at the given level ("debug", "info", "warn", "error").
func New(level string) (Logger, error) {
	lvl := zapcore.InfoLevel
	if s := strings.TrimSpace(level); s != "" {
		parsed, err := zapcore.ParseLevel(s)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		lvl = parsed
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	return &zapLogger{l: l}, nil
}

// FromZap wraps an existing zap logger.
func FromZap(l *zap.Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return &zapLogger{l: l}
}

func (z *zapLogger) DebugObj(msg, event string, fields map[string]any) {
	z.l.Debug(msg, toFields(event, fields)...)
}

func (z *zapLogger) InfoObj(msg, event string, fields map[string]any) {
	z.l.Info(msg, toFields(event, fields)...)
}

func (z *zapLogger) WarnObj(msg, event string, fields map[string]any) {
	z.l.Warn(msg, toFields(event, fields)...)
}

func (z *zapLogger) ErrorObj(msg, event string, fields map[string]any) {
	z.l.Error(msg, toFields(event, fields)...)
}

func (z *zapLogger) Sync() error {
	return z.l.Sync()
}

func toFields(event string, fields map[string]any) []zap.Field {
	out := make([]zap.Field, 0, len(fields)+1)
	if event != "" {
		out = append(out, zap.String("event", event))
	}
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) DebugObj(string, string, map[string]any) {}
func (NopLogger) InfoObj(string, string, map[string]any)  {}
func (NopLogger) WarnObj(string, string, map[string]any)  {}
func (NopLogger) ErrorObj(string, string, map[string]any) {}
func (NopLogger) Sync() error                             { return nil }
