// Package logger provides logging functionality for verba.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger interface provides logging capabilities.
type Logger interface {
	// Logf logs a formatted message.
	Logf(format string, args ...interface{})
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

// NewNoopLogger creates a new noop logger.
func NewNoopLogger() Logger {
	return &noopLogger{}
}

// Logf does nothing for noop logger.
func (n *noopLogger) Logf(_ string, _ ...interface{}) {}

// zapLogger forwards messages to a sugared zap logger. zap is safe for
// concurrent use so no extra locking is needed.
type zapLogger struct {
	sugar *zap.SugaredLogger
	level zapcore.Level
}

// NewZapLogger wraps an existing zap logger. Messages are emitted at the given level.
func NewZapLogger(sugar *zap.SugaredLogger, level zapcore.Level) Logger {
	return &zapLogger{sugar: sugar, level: level}
}

// NewDefaultLogger creates a logger writing info messages to stdout.
func NewDefaultLogger() Logger {
	return NewZapLogger(newConsole("verba", zapcore.InfoLevel), zapcore.InfoLevel)
}

// NewVerboseLogger creates a logger writing debug messages to stdout.
func NewVerboseLogger() Logger {
	return NewZapLogger(newConsole("verba", zapcore.DebugLevel), zapcore.DebugLevel)
}

// Logf writes a formatted message at the logger level.
func (z *zapLogger) Logf(format string, args ...interface{}) {
	z.sugar.Logf(z.level, format, args...)
}

func newConsole(name string, level zapcore.Level) *zap.SugaredLogger {
	cfg := zapcore.EncoderConfig{
		TimeKey:        "T",
		LevelKey:       "L",
		NameKey:        "N",
		MessageKey:     "M",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.AddSync(os.Stdout),
		level,
	)
	return zap.New(core).Named(name).Sugar()
}
