package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Validator validates loaded configuration
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the whole configuration
func (v *Validator) Validate(config *Config) error {
	if err := v.validateStorage(config.Storage); err != nil {
		return fmt.Errorf("storage config validation failed: %w", err)
	}

	if err := v.validateRates(config.Rates); err != nil {
		return fmt.Errorf("rates config validation failed: %w", err)
	}

	if err := v.validateSources(config.Sources); err != nil {
		return fmt.Errorf("sources config validation failed: %w", err)
	}

	if err := v.validateServer(config.Server); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}

	if err := v.validateLogging(config.Logging); err != nil {
		return fmt.Errorf("logging config validation failed: %w", err)
	}

	return nil
}

func (v *Validator) validateStorage(config StorageConfig) error {
	if strings.TrimSpace(config.DataDir) == "" {
		return fmt.Errorf("data_dir cannot be empty")
	}

	files := map[string]string{
		"users_file":      config.UsersFile,
		"portfolios_file": config.PortfoliosFile,
		"rates_file":      config.RatesFile,
		"history_file":    config.HistoryFile,
	}
	for name, path := range files {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("%s cannot be empty", name)
		}
	}

	return nil
}

func (v *Validator) validateRates(config RatesConfig) error {
	if config.TTL <= 0 {
		return fmt.Errorf("rates TTL must be positive, got: %v", config.TTL)
	}

	if config.TTL > 24*time.Hour {
		return fmt.Errorf("rates TTL too long: %v, max 24 hours", config.TTL)
	}

	base := strings.TrimSpace(config.BaseCurrency)
	if len(base) < 2 || len(base) > 5 {
		return fmt.Errorf("invalid base_currency: %q, expected a 2-5 character code", config.BaseCurrency)
	}

	if config.RefreshInterval <= 0 {
		return fmt.Errorf("refresh_interval must be positive, got: %v", config.RefreshInterval)
	}

	return nil
}

func (v *Validator) validateSources(config SourcesConfig) error {
	if err := v.validateURL(config.CoinGeckoURL, "coingecko_url"); err != nil {
		return err
	}

	if err := v.validateURL(config.ExchangeRateAPIURL, "exchangerate_api_url"); err != nil {
		return err
	}

	if config.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got: %v", config.RequestTimeout)
	}

	if config.MaxRetries < 1 || config.MaxRetries > 10 {
		return fmt.Errorf("max_retries must be between 1-10, got: %d", config.MaxRetries)
	}

	return nil
}

func (v *Validator) validateServer(config ServerConfig) error {
	if config.Port < 1 || config.Port > 65535 {
		return fmt.Errorf("invalid port: %d, must be between 1-65535", config.Port)
	}

	if config.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive, got: %v", config.ShutdownTimeout)
	}

	return nil
}

func (v *Validator) validateLogging(config LoggingConfig) error {
	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, config.Level) {
		return fmt.Errorf("invalid log level: %s, must be one of: %v", config.Level, validLevels)
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, config.Format) {
		return fmt.Errorf("invalid log format: %s, must be one of: %v", config.Format, validFormats)
	}

	return nil
}

func (v *Validator) validateURL(rawURL, fieldName string) error {
	if strings.TrimSpace(rawURL) == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid %s: %s, error: %v", fieldName, rawURL, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("invalid %s scheme: %s, must be http or https", fieldName, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s must have a host", fieldName)
	}

	return nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
