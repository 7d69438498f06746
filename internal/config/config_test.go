package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 4, cfg.Optimize.MaxConcurrentReports)
	assert.Equal(t, 30, cfg.Anthropic.TimeoutSecs)
	assert.NotEmpty(t, cfg.Anthropic.Model)

	// Rule thresholds default to the standard values.
	assert.InDelta(t, 0.20, cfg.Rules.TargetACOS, 1e-9)
	assert.InDelta(t, 0.10, cfg.Rules.MinConversionRate, 1e-9)
	assert.Equal(t, 25, cfg.Rules.PauseClicks)
	assert.Equal(t, 10, cfg.Rules.BidClicks)
	assert.InDelta(t, 0.05, cfg.Rules.BidChangeThreshold, 1e-9)

	// No store unless configured.
	assert.Empty(t, cfg.Store.Driver)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PPC_LOG_LEVEL", "debug")
	t.Setenv("PPC_STORE_DRIVER", "sqlite")
	t.Setenv("PPC_RULES_TARGET_ACOS", "0.15")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.InDelta(t, 0.15, cfg.Rules.TargetACOS, 1e-9)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "not-a-level"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}
