package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Loader handles configuration loading using Viper
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader instance
func NewLoader() *Loader {
	return &Loader{
		v: viper.New(),
	}
}

// Load loads configuration from files and environment variables, then
// validates it.
func Load() (*Config, error) {
	cfg, err := NewLoader().Load()
	if err != nil {
		return nil, err
	}
	if err := NewValidator().Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Load loads configuration from files and environment variables
func (l *Loader) Load() (*Config, error) {
	l.setupViper()

	if err := l.v.ReadInConfig(); err != nil {
		// Missing config.yaml is fine, defaults and env vars apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := GetDefaultConfig()
	if err := l.v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	l.overrideWithEnvVars(config)

	return config, nil
}

// setupViper configures Viper to read files and env vars
func (l *Loader) setupViper() {
	l.v.SetConfigName("config")
	l.v.SetConfigType("yaml")

	l.v.AddConfigPath("./configs")
	l.v.AddConfigPath("../configs")
	l.v.AddConfigPath(".")
	l.v.AddConfigPath("/etc/valutatrade")

	l.v.AutomaticEnv()
	l.v.SetEnvPrefix("VALUTATRADE")
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	l.bindEnvVars()
}

// bindEnvVars maps specific environment variables to configuration keys
func (l *Loader) bindEnvVars() {
	envMappings := map[string]string{
		"storage.data_dir":             "DATA_DIR",
		"storage.rates_file":           "RATES_FILE",
		"storage.portfolios_file":      "PORTFOLIOS_FILE",
		"storage.users_file":           "USERS_FILE",
		"storage.history_file":         "HISTORY_FILE",
		"rates.ttl":                    "RATES_TTL",
		"rates.base_currency":          "BASE_CURRENCY",
		"rates.refresh_interval":       "RATES_REFRESH_INTERVAL",
		"sources.exchangerate_api_key": "EXCHANGERATE_API_KEY",
		"sources.request_timeout":      "SOURCE_REQUEST_TIMEOUT",
		"logging.level":                "LOG_LEVEL",
		"logging.format":               "LOG_FORMAT",
		"server.port":                  "PORT",
	}

	for configKey, envVar := range envMappings {
		_ = l.v.BindEnv(configKey, envVar)
	}
}

// overrideWithEnvVars handles env vars that need custom parsing
func (l *Loader) overrideWithEnvVars(config *Config) {
	// FIAT_CURRENCIES as a comma separated list
	if fiatEnv := os.Getenv("FIAT_CURRENCIES"); fiatEnv != "" {
		var cleaned []string
		for _, code := range strings.Split(fiatEnv, ",") {
			code = strings.TrimSpace(strings.ToUpper(code))
			if code != "" {
				cleaned = append(cleaned, code)
			}
		}
		if len(cleaned) > 0 {
			config.Sources.FiatCurrencies = cleaned
		}
	}

	if mock := os.Getenv("MOCK_SOURCES"); mock == "true" || mock == "1" {
		config.Development.MockSources = true
	}
}
