package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cryptofolio.yaml")
	content := `currency: USD
benchmark: BTC
transactions: ledger.jsonl
quote:
  ttl: 30s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, "BTC", cfg.Benchmark)
	assert.Equal(t, "ledger.jsonl", cfg.Transactions)
	// unset keys keep their default.
	assert.Equal(t, ".market", cfg.Market)
	assert.Equal(t, "$.data.amount", cfg.Quote.Path)

	ttl, err := cfg.Quote.CacheTTL()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, ttl)
}

func TestLoadConfig_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cryptofolio.json")
	content := `{"currency":"CHF","database":"cfo.db","rebase_at_start":true}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "CHF", cfg.Currency)
	assert.Equal(t, "cfo.db", cfg.Database)
	assert.True(t, cfg.RebaseAtStart)
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfig_SaveToFile(t *testing.T) {
	for _, name := range []string{"cfg.yaml", "cfg.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			want := DefaultConfig()
			want.Benchmark = "ETH"
			require.NoError(t, want.SaveToFile(path))

			got, err := LoadConfig(path)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"no currency", func(c *Config) { c.Currency = "" }},
		{"no ledger", func(c *Config) { c.Transactions = "" }},
		{"no market", func(c *Config) { c.Market = "" }},
		{"bad url", func(c *Config) { c.Quote.URL = "https://example.com/%s" }},
		{"bad ttl", func(c *Config) { c.Quote.TTL = "soon" }},
		{"negative rate", func(c *Config) { c.Quote.RatePerSecond = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := DefaultConfig()
	cfg.Transactions = ""
	cfg.Database = "cfo.db"
	assert.NoError(t, cfg.Validate(), "a database replaces the ledger file")
}
