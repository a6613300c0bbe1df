package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadUncheckedMergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9090"
storage:
  driver: sqlite
  dir: state
portfolio:
  starting_cash: 50000
market:
  source: synthetic
  cache_ttl: 30m
log:
  level: debug
`), 0o644))

	c, err := LoadUnchecked(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", c.Server.Port)
	assert.Equal(t, "sqlite", c.Storage.Driver)
	assert.Equal(t, filepath.Join(dir, "state"), c.Storage.Dir)
	assert.Equal(t, 50000.0, c.Portfolio.StartingCash)
	assert.Equal(t, 6, c.Portfolio.MaxSymbols, "unset fields keep defaults")
	assert.Equal(t, "synthetic", c.Market.Source)
	assert.Equal(t, 30*time.Minute, c.Market.CacheTTL)
	assert.Equal(t, 120, c.Market.HistoryDays)
	assert.Equal(t, "debug", c.Log.Level)
	require.NoError(t, c.Validate())
}

func TestLoadUncheckedEmptyPathReturnsDefaults(t *testing.T) {
	c, err := LoadUnchecked("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("API_PORT", "7000")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("STARTING_CASH", "2500.5")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("GEMINI_API_KEY", "k-123")
	t.Setenv("ALLOW_PRICE_OVERRIDE", "true")

	c := Default()
	ApplyEnv(c, filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, "7000", c.Server.Port)
	assert.Equal(t, "sqlite", c.Storage.Driver)
	assert.Equal(t, 2500.5, c.Portfolio.StartingCash)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.Server.AllowedOrigins)
	assert.Equal(t, "k-123", c.LearnHub.APIKey)
	assert.True(t, c.Portfolio.AllowPriceOverride)
	assert.False(t, Default().Portfolio.AllowPriceOverride, "overrides stay off unless asked for")
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(c *Config){
		"driver":        func(c *Config) { c.Storage.Driver = "postgres" },
		"cash":          func(c *Config) { c.Portfolio.StartingCash = 0 },
		"market source": func(c *Config) { c.Market.Source = "bloomberg" },
		"file source":   func(c *Config) { c.Market.Source = "file"; c.Market.PricesFile = "" },
		"translator":    func(c *Config) { c.LearnHub.Translator = "deepl" },
		"log level":     func(c *Config) { c.Log.Level = "trace" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
