// Package config provides configuration for the budget tracker CLI.
// Values are resolved from, in increasing precedence: built-in
// defaults, an optional YAML config file, environment variables
// (optionally loaded from a .env file).
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultDBPath is where the SQLite database lives when nothing
	// else is configured.
	DefaultDBPath = "budget.db"
	// DefaultCurrency is the currency label used for display.
	DefaultCurrency = "KES"
)

// Config represents the application configuration.
type Config struct {
	DBPath   string `yaml:"database_path"`
	Currency string `yaml:"currency"`
	Debug    bool   `yaml:"debug"`
}

// Load resolves the configuration. A non-empty cfgPath names a YAML
// config file that must exist; otherwise loading proceeds from
// defaults. A .env file in the current directory is picked up when
// present.
func Load(cfgPath string) (*Config, error) {
	// Missing .env is fine
	_ = godotenv.Load()

	cfg := &Config{
		DBPath:   DefaultDBPath,
		Currency: DefaultCurrency,
	}

	if cfgPath != "" {
		data, err := os.ReadFile(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if v := os.Getenv("BUDGET_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("BUDGET_CURRENCY"); v != "" {
		cfg.Currency = v
	}
	if v := os.Getenv("BUDGET_DEBUG"); v == "1" || v == "true" {
		cfg.Debug = true
	}

	if cfg.DBPath == "" {
		return nil, fmt.Errorf("database path must not be empty")
	}

	return cfg, nil
}
