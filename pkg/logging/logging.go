// Package logging builds the zap logger used across keydeck.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ssargent/keydeck/pkg/config"
)

// New creates a logger from the logging section of the configuration. An
// unparsable level falls back to info. Output goes to stderr unless an
// output path is set.
func New(cfg config.Logging) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()

	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zapConfig.Level = level

	switch cfg.Encoding {
	case "json":
		zapConfig.Encoding = "json"
	case "", "console":
		zapConfig.Encoding = "console"
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		return nil, fmt.Errorf("unknown log encoding %q", cfg.Encoding)
	}

	zapConfig.OutputPaths = []string{"stderr"}
	if cfg.OutputPath != "" {
		zapConfig.OutputPaths = []string{cfg.OutputPath}
	}
	zapConfig.Sampling = nil

	return zapConfig.Build()
}

// NewDefault returns an info-level console logger, or a no-op logger when
// that cannot be built.
func NewDefault() *zap.Logger {
	logger, err := New(config.Logging{Level: "info"})
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
