package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorAcceptsDefaults(t *testing.T) {
	require.NoError(t, NewValidator().Validate(GetDefaultConfig()))
}

func TestValidatorRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "empty data dir",
			mutate:  func(c *Config) { c.Storage.DataDir = " " },
			wantMsg: "data_dir",
		},
		{
			name:    "empty rates file",
			mutate:  func(c *Config) { c.Storage.RatesFile = "" },
			wantMsg: "rates_file",
		},
		{
			name:    "non-positive ttl",
			mutate:  func(c *Config) { c.Rates.TTL = 0 },
			wantMsg: "TTL",
		},
		{
			name:    "ttl above limit",
			mutate:  func(c *Config) { c.Rates.TTL = 25 * time.Hour },
			wantMsg: "TTL too long",
		},
		{
			name:    "base currency too short",
			mutate:  func(c *Config) { c.Rates.BaseCurrency = "X" },
			wantMsg: "base_currency",
		},
		{
			name:    "non-positive refresh interval",
			mutate:  func(c *Config) { c.Rates.RefreshInterval = 0 },
			wantMsg: "refresh_interval",
		},
		{
			name:    "bad coingecko url scheme",
			mutate:  func(c *Config) { c.Sources.CoinGeckoURL = "ftp://example.com" },
			wantMsg: "scheme",
		},
		{
			name:    "empty exchangerate url",
			mutate:  func(c *Config) { c.Sources.ExchangeRateAPIURL = "" },
			wantMsg: "exchangerate_api_url",
		},
		{
			name:    "zero retries",
			mutate:  func(c *Config) { c.Sources.MaxRetries = 0 },
			wantMsg: "max_retries",
		},
		{
			name:    "non-positive request timeout",
			mutate:  func(c *Config) { c.Sources.RequestTimeout = 0 },
			wantMsg: "request_timeout",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantMsg: "port",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantMsg: "log level",
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantMsg: "log format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.mutate(cfg)

			err := NewValidator().Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
