package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envOf(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.True(t, cfg.ReportEvaluations)
	assert.Equal(t, zapcore.InfoLevel, cfg.LogLevel)
}

func TestFromEnv_Values(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		EnvLogLevel:          "debug",
		EnvReportEvaluations: "false",
	}))
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, cfg.LogLevel)
	assert.False(t, cfg.ReportEvaluations)
}

func TestFromEnv_ReportEvaluationsLenient(t *testing.T) {
	for in, want := range map[string]bool{"1": true, "0": false, "TRUE": true, "maybe": true} {
		cfg, err := FromEnv(envOf(map[string]string{EnvReportEvaluations: in}))
		require.NoError(t, err)
		assert.Equal(t, want, cfg.ReportEvaluations, "REPORT_EVALUATIONS=%q", in)
	}
}

func TestFromEnv_InvalidLogLevel(t *testing.T) {
	_, err := FromEnv(envOf(map[string]string{EnvLogLevel: "loud"}))
	assert.Error(t, err)
}

func TestNewLogger_Level(t *testing.T) {
	logger, err := Config{LogLevel: zapcore.WarnLevel}.NewLogger()
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.ErrorLevel))
}
