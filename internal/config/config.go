// Package config reads the Lambda runtime configuration from the environment.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment variable names read by FromEnv.
const (
	EnvLogLevel          = "LOG_LEVEL"
	EnvReportEvaluations = "REPORT_EVALUATIONS"
)

// Config is the runtime configuration of the Lambda entrypoint. AWS region
// and credentials come from the SDK default chain and are not repeated here.
type Config struct {
	// LogLevel is one of debug, info, warn, error. Default info.
	LogLevel zapcore.Level

	// ReportEvaluations sends evaluations to AWS Config with PutEvaluations.
	// When false they are only logged and returned. Default true.
	ReportEvaluations bool
}

// Default returns the configuration used when no variable is set.
func Default() Config {
	return Config{LogLevel: zapcore.InfoLevel, ReportEvaluations: true}
}

// FromEnv builds a Config from getenv (os.Getenv in production). An invalid
// LOG_LEVEL is an error; an unparsable REPORT_EVALUATIONS keeps the default.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()

	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		lvl, err := zapcore.ParseLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = lvl
	}

	if v := strings.TrimSpace(getenv(EnvReportEvaluations)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.ReportEvaluations = b
		}
	}
	return cfg, nil
}

// NewLogger builds the production JSON logger at the configured level.
func (c Config) NewLogger() (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(c.LogLevel)
	return zc.Build()
}
