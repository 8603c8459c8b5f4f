// Package logging builds the zap logger shared by the client and the TUI.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/diogo/bookchat/internal/config"
)

// Level parses a configured level name. Unknown names fall back to info.
func Level(name string, verbose bool) zapcore.Level {
	if verbose {
		return zapcore.DebugLevel
	}
	level, err := zapcore.ParseLevel(name)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// New builds a logger from the configuration.
// Output goes to the log file unless LogStderr is set, since the chat
// screen owns stdout.
func New(cfg config.Config) (*zap.Logger, zap.AtomicLevel, error) {
	level := zap.NewAtomicLevelAt(Level(cfg.LogLevel, cfg.Verbose))

	zcfg := zap.NewProductionConfig()
	zcfg.Level = level
	zcfg.Sampling = nil
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if cfg.LogStderr {
		zcfg.OutputPaths = []string{"stderr"}
		zcfg.ErrorOutputPaths = []string{"stderr"}
	} else {
		path, err := config.GetLogPath(cfg)
		if err != nil {
			return nil, level, err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, level, fmt.Errorf("failed to create log directory: %w", err)
		}
		zcfg.OutputPaths = []string{path}
		zcfg.ErrorOutputPaths = []string{path}
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, level, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return logger.Named("bookchat"), level, nil
}

// NewOrNop is New that degrades to a no-op logger, so a broken log
// destination never stops a query.
func NewOrNop(cfg config.Config) *zap.Logger {
	logger, _, err := New(cfg)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
