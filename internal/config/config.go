// Package config provides configuration management for the journal.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Storage     StorageConfig  `mapstructure:"storage"`
	Trading     TradingConfig  `mapstructure:"trading"`
	Feedback    FeedbackConfig `mapstructure:"feedback"`
	UI          UIConfig       `mapstructure:"ui"`
	Credentials Credentials    `mapstructure:"-"` // Loaded separately
}

// StorageConfig holds persistence configuration.
type StorageConfig struct {
	Path string `mapstructure:"path"` // SQLite database file
}

// TradingConfig holds journal defaults and bounds.
type TradingConfig struct {
	MaxLeverage        float64 `mapstructure:"max_leverage"`
	DefaultLeverage    float64 `mapstructure:"default_leverage"`
	DefaultRiskPercent float64 `mapstructure:"default_risk_percent"`
}

// FeedbackConfig holds AI feedback configuration.
type FeedbackConfig struct {
	Model string `mapstructure:"model"`
}

// UIConfig holds output configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// Credentials holds API credentials.
type Credentials struct {
	OpenAI OpenAICredentials `mapstructure:"openai"`
}

// OpenAICredentials holds OpenAI API credentials.
type OpenAICredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/crypto-journal"
	}
	return filepath.Join(home, ".config", "crypto-journal")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	// An explicit empty path in config.toml shadows the viper default.
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = filepath.Join(configDir, "journal.db")
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir string, target *Config) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("storage.path", filepath.Join(configDir, "journal.db"))
	v.SetDefault("trading.max_leverage", 150.0)
	v.SetDefault("trading.default_leverage", 20.0)
	v.SetDefault("trading.default_risk_percent", 1.0)
	v.SetDefault("feedback.model", "gpt-4o-mini")
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "2006-01-02 15:04")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if err := createTemplateConfig(configDir); err != nil {
				return err
			}
			return v.Unmarshal(target)
		}
		return err
	}

	return v.Unmarshal(target)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAI.APIKey = v
	}
	if v := os.Getenv("JOURNAL_DB_PATH"); v != "" {
		cfg.Storage.Path = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Trading.MaxLeverage < 1 {
		return fmt.Errorf("max_leverage must be at least 1")
	}
	if c.Trading.DefaultLeverage < 1 || c.Trading.DefaultLeverage > c.Trading.MaxLeverage {
		return fmt.Errorf("default_leverage must be between 1 and max_leverage")
	}
	if c.Trading.DefaultRiskPercent <= 0 || c.Trading.DefaultRiskPercent > 100 {
		return fmt.Errorf("default_risk_percent must be between 0 and 100")
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path must not be empty")
	}
	return nil
}
