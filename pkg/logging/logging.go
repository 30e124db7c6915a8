// Package logging builds the zap logger used by the server and the agent.
//
// HOSTWATCH_LOG_LEVEL selects the level (debug, info, warn, error) and
// HOSTWATCH_LOG_FORMAT selects the encoding (json or console).
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LevelEnv  = "HOSTWATCH_LOG_LEVEL"
	FormatEnv = "HOSTWATCH_LOG_FORMAT"
)

// Options configures New. Empty fields fall back to the environment and
// then to info level JSON output.
type Options struct {
	Level  string
	Format string
}

// FromEnv reads Options from the environment.
func FromEnv() Options {
	return Options{
		Level:  os.Getenv(LevelEnv),
		Format: os.Getenv(FormatEnv),
	}
}

// New builds a logger writing to stderr.
func New(opts Options) (*zap.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var cfg zap.Config
	switch strings.ToLower(opts.Format) {
	case "", "json":
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	case "console", "text":
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg.Build()
}

// ParseLevel accepts the usual zap level names. Empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return level, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// Must is New for command entry points.
func Must(opts Options) *zap.Logger {
	logger, err := New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid logging configuration: %s\n", err)
		os.Exit(1)
	}
	return logger
}
