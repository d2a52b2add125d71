// Package config loads raid planner settings from file, environment and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. RAIDPLAN_DATABASE_PATH.
const EnvPrefix = "RAIDPLAN"

// Config is the main configuration struct combining all sub-configs.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Import   ImportConfig   `mapstructure:"import"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// DatabaseConfig locates the SQLite static data store.
type DatabaseConfig struct {
	// Path to the SQLite file, or ":memory:".
	Path string `mapstructure:"path" validate:"required"`
}

// EngineConfig tunes the planning engine.
type EngineConfig struct {
	// Ceiling for the scheduler and per-material day loops.
	IterationLimit int `mapstructure:"iteration_limit" validate:"min=1,max=100000"`

	// Number of flattened recipes kept in memory.
	RecipeCacheSize int `mapstructure:"recipe_cache_size" validate:"min=1"`
}

// ImportConfig holds defaults for the import command.
type ImportConfig struct {
	// Directory holding materials.json, campaigns.json and characters.json.
	Dir string `mapstructure:"dir"`
}

// LoadConfig loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. Config file (config.yaml)
// 3. Defaults (lowest priority)
func LoadConfig(configPath string) (*Config, error) {
	// A missing .env is fine.
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	// AutomaticEnv only resolves keys viper already knows about.
	registerDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	SetDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns a configuration populated only with defaults.
func Default() *Config {
	cfg := &Config{}
	SetDefaults(cfg)
	return cfg
}
