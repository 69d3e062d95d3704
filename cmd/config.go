package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the content of the configuration file.
type Config struct {
	Currency      string      `json:"currency" yaml:"currency"`
	Benchmark     string      `json:"benchmark,omitempty" yaml:"benchmark,omitempty"`
	Transactions  string      `json:"transactions" yaml:"transactions"`
	Database      string      `json:"database,omitempty" yaml:"database,omitempty"`
	Market        string      `json:"market" yaml:"market"`
	RebaseAtStart bool        `json:"rebase_at_start,omitempty" yaml:"rebase_at_start,omitempty"`
	LogLevel      string      `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	Quote         QuoteConfig `json:"quote" yaml:"quote"`
}

// QuoteConfig configures the live quote client.
type QuoteConfig struct {
	URL           string  `json:"url" yaml:"url"`   // formatted with the symbol and the currency.
	Path          string  `json:"path" yaml:"path"` // jsonpath of the price in the response.
	TTL           string  `json:"ttl" yaml:"ttl"`   // e.g. "1m", "30s"
	RatePerSecond float64 `json:"rate_per_second" yaml:"rate_per_second"`
}

// CacheTTL parses the TTL.
func (q QuoteConfig) CacheTTL() (time.Duration, error) {
	if q.TTL == "" {
		return 0, nil
	}
	return time.ParseDuration(q.TTL)
}

// DefaultConfig returns the configuration used when there is no configuration file.
func DefaultConfig() *Config {
	return &Config{
		Currency:     "EUR",
		Transactions: "transactions.jsonl",
		Market:       ".market",
		LogLevel:     "warn",
		Quote: QuoteConfig{
			URL:           "https://api.coinbase.com/v2/prices/%s-%s/spot",
			Path:          "$.data.amount",
			TTL:           "1m",
			RatePerSecond: 3,
		},
	}
}

// LoadConfig reads a configuration file in YAML or JSON, on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()
	// YAML first, JSON otherwise.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = DefaultConfig()
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration, in YAML unless path ends with .json.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error
	if strings.HasSuffix(path, ".json") {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Currency == "" {
		return fmt.Errorf("currency is required")
	}
	if c.Transactions == "" && c.Database == "" {
		return fmt.Errorf("either transactions or database is required")
	}
	if c.Market == "" {
		return fmt.Errorf("market is required")
	}
	if c.Quote.URL != "" && strings.Count(c.Quote.URL, "%s") != 2 {
		return fmt.Errorf("quote.url must contain two %%s for the symbol and the currency")
	}
	if _, err := c.Quote.CacheTTL(); err != nil {
		return fmt.Errorf("quote.ttl: %w", err)
	}
	if c.Quote.RatePerSecond < 0 {
		return fmt.Errorf("quote.rate_per_second must not be negative")
	}
	return nil
}
