// Package config loads application configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPrefix = "ROM"
	envFile   = ".env"
)

// Load reads configuration from the environment, filling gaps from .env in the
// working directory when present.
func Load() (*Config, error) {
	return LoadFrom(envFile)
}

// LoadFrom is Load with an explicit env file path. Variables already set in
// the process environment win over the file.
func LoadFrom(path string) (*Config, error) {
	if envMap, err := godotenv.Read(path); err == nil {
		for k, val := range envMap {
			if _, exists := os.LookupEnv(k); !exists {
				_ = os.Setenv(k, val)
			}
		}
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvs(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "ROM Planner")
	v.SetDefault("app.data_dir", "pb_data")
	v.SetDefault("app.dev", false)

	v.SetDefault("seed.demo", false)

	v.SetDefault("export.currency_symbol", "$")
}

func bindEnvs(v *viper.Viper) {
	keys := []string{
		"app.name",
		"app.data_dir",
		"app.dev",
		"seed.demo",
		"export.currency_symbol",
	}

	for _, k := range keys {
		_ = v.BindEnv(k)
	}
}
