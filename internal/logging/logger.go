// Package logging builds the zap logger shared by the crn binaries.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config mirrors the log section of the crn configuration.
type Config struct {
	Level            string
	Format           string
	OutputPaths      []string
	ErrorOutputPaths []string
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New builds a zap logger. Output goes to stderr unless OutputPaths is set,
// keeping stdout free for command output.
func New(cfg Config) (*zap.Logger, error) {
	encoding := "console"
	encCfg := zap.NewDevelopmentEncoderConfig()
	if cfg.Format == "json" {
		encoding = "json"
		encCfg = zap.NewProductionEncoderConfig()
	}
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	out := cfg.OutputPaths
	if len(out) == 0 {
		out = []string{"stderr"}
	}
	errOut := cfg.ErrorOutputPaths
	if len(errOut) == 0 {
		errOut = []string{"stderr"}
	}

	zc := zap.Config{
		Level:            zap.NewAtomicLevelAt(parseLevel(cfg.Level)),
		Development:      encoding == "console",
		Encoding:         encoding,
		EncoderConfig:    encCfg,
		OutputPaths:      out,
		ErrorOutputPaths: errOut,
	}
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: failed to build zap logger: %w", err)
	}
	return logger, nil
}

// Install builds a logger and makes it the zap global, which the reaction
// algorithms log through. The returned function restores the previous
// global and flushes.
func Install(cfg Config) (*zap.Logger, func(), error) {
	logger, err := New(cfg)
	if err != nil {
		return nil, nil, err
	}
	restore := zap.ReplaceGlobals(logger)
	return logger, func() {
		_ = logger.Sync()
		restore()
	}, nil
}
