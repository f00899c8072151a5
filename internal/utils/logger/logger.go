// Package logger holds the process-wide sugared zap logger.
//
// The CLI entry point calls Init exactly once after parsing the logging
// flags; everything below it grabs the shared instance through Logger.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global *zap.SugaredLogger

// Init sets the shared logger once.
func Init(z *zap.SugaredLogger) { global = z }

// Logger returns a non-nil *SugaredLogger. Before Init it returns a
// no-op logger so library code can log unconditionally.
func Logger() *zap.SugaredLogger {
	if global == nil {
		return zap.NewNop().Sugar()
	}
	return global
}

// Build constructs a console logger at the given level. Levels follow
// zap naming: debug, info, warn, error.
func Build(level string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	cfg.DisableCaller = lvl > zapcore.DebugLevel

	z, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return z.Sugar(), nil
}
