// Package logging provides the context-tagged logger used by page objects,
// API objects and the command line.
package logging

import (
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger writes leveled messages tagged with the context it was created for.
// Args are alternating key/value pairs.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// New returns a Logger tagged with context that writes to standard output.
func New(context string) Logger {
	return NewWithWriter(context, os.Stdout)
}

// NewWithWriter returns a Logger tagged with context that writes lines to w.
func NewWithWriter(context string, w io.Writer) Logger {
	return NewWithCore(context, NewConsoleCore(w))
}

// NewWithCore returns a Logger backed by an arbitrary zap core. Tests use it
// with zaptest/observer to capture entries.
func NewWithCore(context string, core zapcore.Core) Logger {
	return &zapLogger{sugar: zap.New(core).Named(context).Sugar()}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return &zapLogger{sugar: zap.NewNop().Sugar()}
}

// NewConsoleCore builds the core that renders
// "[timestamp] [LEVEL] [context] message {fields}" lines.
func NewConsoleCore(w io.Writer) zapcore.Core {
	return zapcore.NewCore(
		zapcore.NewConsoleEncoder(EncoderConfig()),
		zapcore.Lock(zapcore.AddSync(w)),
		zapcore.DebugLevel,
	)
}

// EncoderConfig returns the console encoder configuration shared by every
// logger in the harness.
func EncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "ts",
		LevelKey:         "level",
		NameKey:          "context",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		ConsoleSeparator: " ",
		EncodeTime: func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString("[" + t.UTC().Format(time.RFC3339Nano) + "]")
		},
		EncodeLevel: func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString("[" + l.CapitalString() + "]")
		},
		EncodeName: func(name string, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString("[" + name + "]")
		},
		EncodeDuration: zapcore.StringDurationEncoder,
	}
}

func (l *zapLogger) Info(msg string, args ...any) {
	l.sugar.Infow(msg, args...)
}

func (l *zapLogger) Warn(msg string, args ...any) {
	l.sugar.Warnw(msg, args...)
}

func (l *zapLogger) Error(msg string, args ...any) {
	l.sugar.Errorw(msg, args...)
}
