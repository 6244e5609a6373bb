package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioSentinel/internal/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "yahoo", cfg.DataSource.Provider)
	assert.Equal(t, 300, cfg.DataSource.HistoryDays)
	assert.Equal(t, "^VIX", cfg.MarketSymbols().VIX)
	assert.Equal(t, 3, cfg.Strategy.Plan.TrancheCount)
	assert.Equal(t, 6*time.Hour, cfg.Cache.TTL)
}

func TestLoadOverlaysFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
data_source:
  provider: eodhd
  api_key: from-file
portfolio:
  file: holdings.yaml
strategy:
  weights:
    MA_CROSS: 3
    RSI/oversold: 0.5
  plan:
    base_spacing: 0.04
  regime:
    vix_panic: 35
cache:
  ttl: 90m
`)
	t.Setenv("EODHD_API_KEY", "from-env")
	t.Setenv("DATABASE_URL", "postgres://localhost/sentinel")
	t.Setenv("CONCURRENCY", "8")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "eodhd", cfg.DataSource.Provider)
	assert.Equal(t, "from-env", cfg.DataSource.APIKey)
	assert.Equal(t, "holdings.yaml", cfg.Portfolio.File)
	assert.Equal(t, "data/trades.json", cfg.Portfolio.JournalFile)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, 90*time.Minute, cfg.Cache.TTL)

	// Partial sections keep the remaining defaults.
	assert.Equal(t, 0.04, cfg.Strategy.Plan.BaseSpacing)
	assert.Equal(t, 0.10, cfg.Strategy.Plan.MaxSpacing)
	assert.Equal(t, 35.0, cfg.Strategy.Regime.VIXPanic)
	assert.Equal(t, 20.0, cfg.Strategy.Regime.VIXCalm)

	w, err := cfg.Weights()
	require.NoError(t, err)
	assert.Equal(t, 3.0, w["MA_CROSS"])
	assert.Equal(t, 0.5, w["RSI/oversold"])
	assert.Equal(t, 1.5, w["ICHIMOKU"])
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }},
		{"eodhd without key", func(c *Config) { c.DataSource.Provider = "eodhd" }},
		{"bad cron", func(c *Config) { c.Schedule.DailyCron = "every day" }},
		{"unknown weight source", func(c *Config) { c.Strategy.Weights = map[string]float64{"VOLUME": 1} }},
		{"negative weight", func(c *Config) { c.Strategy.Weights = map[string]float64{"RSI": -1} }},
		{"bad plan", func(c *Config) { c.Strategy.Plan.TrancheCount = 0 }},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }},
		{"capture without target", func(c *Config) { c.Capture.Enabled = true; c.Capture.DebugURL = "http://127.0.0.1:9222" }},
		{"chat id missing", func(c *Config) { c.Telegram.BotToken = "token" }},
		{"unknown log level", func(c *Config) { c.Log.Level = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), model.ErrConfiguration)
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "data_source: [unterminated"))
	assert.ErrorIs(t, err, model.ErrConfiguration)
}
