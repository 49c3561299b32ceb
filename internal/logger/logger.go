// Package logger wraps zap to provide structured, leveled logging
// for the whole application.
package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Logger wraps a zap.Logger so that call sites hold a stable reference
// while the underlying logger is configured at startup.
type Logger struct {
	// Log is the configured zap logger. It is a no-op logger until
	// Init has been called.
	Log *zap.Logger
}

// New returns a Logger with a no-op zap logger. Call Init to configure it.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init configures the logger at the given level ("debug", "info",
// "warn", "error"). The level is case-insensitive.
func (l *Logger) Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(strings.ToLower(level))
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	log, err := cfg.Build()
	if err != nil {
		return err
	}

	l.Log = log
	return nil
}
