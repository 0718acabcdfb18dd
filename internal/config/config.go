package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database  DatabaseConfig
	Teller    TellerConfig
	Transfer  TransferConfig
	UI        UIConfig
	Analytics AnalyticsConfig
}

// DatabaseConfig holds sqlite settings. The default is an in-memory database
// seeded with demo data; point Path at a file only for fixtures.
type DatabaseConfig struct {
	Path string
}

// TellerConfig identifies the staff member operating this terminal.
type TellerConfig struct {
	Operator string
}

// TransferConfig tunes the simulated submission call.
type TransferConfig struct {
	SubmitDelayMS int `mapstructure:"submit_delay_ms"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	CurrencySymbol string `mapstructure:"currency_symbol"`
	DateFormat     string `mapstructure:"date_format"`
	Timezone       string
}

// AnalyticsConfig points at the JSON-lines event log.
type AnalyticsConfig struct {
	Path string
}

// Load reads configuration from file and env. Env var overrides use prefix TELLER_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", ":memory:")
	v.SetDefault("teller.operator", "Teller 1")
	v.SetDefault("transfer.submit_delay_ms", 2000)
	v.SetDefault("ui.currency_symbol", "$")
	v.SetDefault("ui.date_format", "02 Jan 15:04")
	v.SetDefault("ui.timezone", "UTC")
	v.SetDefault("analytics.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "teller", "events.log"))

	v.SetConfigType("toml")

	cfgPath := os.Getenv("TELLER_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "teller"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TELLER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if
// needed. Used by the settings screen for operator and display preferences.
func Save(cfg Config) error {
	path := os.Getenv("TELLER_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "teller", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("teller.operator", cfg.Teller.Operator)
	v.Set("transfer.submit_delay_ms", cfg.Transfer.SubmitDelayMS)
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("analytics.path", cfg.Analytics.Path)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
