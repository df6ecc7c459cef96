package config

import (
	"errors"
	"strings"
)

// Config holds application configuration.
type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Seed   SeedConfig   `mapstructure:"seed"`
	Export ExportConfig `mapstructure:"export"`
}

// Validate ensures required fields are present.
func (c Config) Validate() error {
	if c.App.Name == "" {
		return errors.New("app.name is required")
	}
	if c.App.DataDir == "" {
		return errors.New("app.data_dir is required")
	}
	if c.Export.CurrencySymbol == "" {
		return errors.New("export.currency_symbol is required")
	}
	return nil
}

func (c *Config) normalize() {
	c.App.Name = strings.TrimSpace(c.App.Name)
	c.App.DataDir = strings.TrimSpace(c.App.DataDir)
}

// AppConfig contains PocketBase app options.
type AppConfig struct {
	Name    string `mapstructure:"name"`
	DataDir string `mapstructure:"data_dir"`
	Dev     bool   `mapstructure:"dev"`
}

// SeedConfig controls demo data on startup.
type SeedConfig struct {
	Demo bool `mapstructure:"demo"`
}

// ExportConfig contains report rendering options.
type ExportConfig struct {
	CurrencySymbol string `mapstructure:"currency_symbol"`
}
