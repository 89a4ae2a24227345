package config

import (
	"path/filepath"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Storage     StorageConfig     `yaml:"storage" mapstructure:"storage"`
	Rates       RatesConfig       `yaml:"rates" mapstructure:"rates"`
	Sources     SourcesConfig     `yaml:"sources" mapstructure:"sources"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
	Development DevelopmentConfig `yaml:"development" mapstructure:"development"`
}

// StorageConfig locates the JSON file stores
type StorageConfig struct {
	DataDir        string `yaml:"data_dir" mapstructure:"data_dir"`
	UsersFile      string `yaml:"users_file" mapstructure:"users_file"`
	PortfoliosFile string `yaml:"portfolios_file" mapstructure:"portfolios_file"`
	RatesFile      string `yaml:"rates_file" mapstructure:"rates_file"`
	HistoryFile    string `yaml:"history_file" mapstructure:"history_file"`
}

// RatesConfig contains rate cache and pricing configuration
type RatesConfig struct {
	TTL             time.Duration `yaml:"ttl" mapstructure:"ttl"`
	BaseCurrency    string        `yaml:"base_currency" mapstructure:"base_currency"`
	RefreshInterval time.Duration `yaml:"refresh_interval" mapstructure:"refresh_interval"`
}

// SourcesConfig contains external quote source configuration
type SourcesConfig struct {
	CoinGeckoURL       string            `yaml:"coingecko_url" mapstructure:"coingecko_url"`
	ExchangeRateAPIURL string            `yaml:"exchangerate_api_url" mapstructure:"exchangerate_api_url"`
	ExchangeRateAPIKey string            `yaml:"exchangerate_api_key" mapstructure:"exchangerate_api_key"`
	RequestTimeout     time.Duration     `yaml:"request_timeout" mapstructure:"request_timeout"`
	MaxRetries         int               `yaml:"max_retries" mapstructure:"max_retries"`
	FiatCurrencies     []string          `yaml:"fiat_currencies" mapstructure:"fiat_currencies"`
	CryptoIDs          map[string]string `yaml:"crypto_ids" mapstructure:"crypto_ids"`
}

// ServerConfig contains the updater daemon HTTP configuration
type ServerConfig struct {
	Port            int           `yaml:"port" mapstructure:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// LoggingConfig contains logging system configuration
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DevelopmentConfig contains development and testing switches
type DevelopmentConfig struct {
	MockSources bool `yaml:"mock_sources" mapstructure:"mock_sources"`
}

// GetDefaultConfig returns the default configuration
func GetDefaultConfig() *Config {
	dataDir := "data"
	return &Config{
		Storage: StorageConfig{
			DataDir:        dataDir,
			UsersFile:      filepath.Join(dataDir, "users.json"),
			PortfoliosFile: filepath.Join(dataDir, "portfolios.json"),
			RatesFile:      filepath.Join(dataDir, "rates.json"),
			HistoryFile:    filepath.Join(dataDir, "history.json"),
		},
		Rates: RatesConfig{
			TTL:             5 * time.Minute,
			BaseCurrency:    "USD",
			RefreshInterval: 2 * time.Minute,
		},
		Sources: SourcesConfig{
			CoinGeckoURL:       "https://api.coingecko.com/api/v3/simple/price",
			ExchangeRateAPIURL: "https://v6.exchangerate-api.com/v6",
			RequestTimeout:     10 * time.Second,
			MaxRetries:         3,
			FiatCurrencies:     []string{"EUR", "GBP", "RUB"},
			CryptoIDs: map[string]string{
				"BTC": "bitcoin",
				"ETH": "ethereum",
				"SOL": "solana",
			},
		},
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Development: DevelopmentConfig{
			MockSources: false,
		},
	}
}
