// Package robustlog wraps zap for the CLI and optimizer's progress output:
// a thin, purpose-built facade rather than exposing the underlying library.
package robustlog

import "go.uber.org/zap"

// Logger adapts a *zap.SugaredLogger to the minimal interfaces
// internal/robustness and internal/optimizer need (Debugf, Infof), so those
// packages depend on a small interface instead of zap directly.
type Logger struct {
	sugar *zap.SugaredLogger
}

// New builds a console-encoded Logger at the given level ("debug", "info",
// "warn", "error"); an unrecognized level falls back to "info".
func New(level string) (*Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.TimeKey = ""
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	base, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{sugar: base.Sugar()}, nil
}

// Noop returns a Logger that discards everything, for --quiet and tests.
func Noop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

// Debugf implements robustness.Logger / optimizer.Logger.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// Infof logs at info level, used for the optimizer's per-template progress
// report.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Sync flushes buffered log entries; callers should defer it before exit.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}
