package config

import (
	"github.com/spf13/viper"

	"github.com/rsned/raid-planner/internal/planner/engine"
)

// Default values.
const (
	DefaultDatabasePath = "raid-planner.db"
	DefaultImportDir    = "./data"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	// JSON-RPC owns stdout.
	DefaultLogOutput = "stderr"
)

func registerDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("engine.iteration_limit", engine.DefaultIterationLimit)
	v.SetDefault("engine.recipe_cache_size", engine.DefaultRecipeCacheSize)
	v.SetDefault("import.dir", DefaultImportDir)
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
	v.SetDefault("logging.output", DefaultLogOutput)
	v.SetDefault("logging.file_path", "")
	v.SetDefault("logging.include_caller", false)
}

// SetDefaults sets default values for all configuration fields.
func SetDefaults(cfg *Config) {
	if cfg.Database.Path == "" {
		cfg.Database.Path = DefaultDatabasePath
	}

	if cfg.Engine.IterationLimit == 0 {
		cfg.Engine.IterationLimit = engine.DefaultIterationLimit
	}
	if cfg.Engine.RecipeCacheSize == 0 {
		cfg.Engine.RecipeCacheSize = engine.DefaultRecipeCacheSize
	}

	if cfg.Import.Dir == "" {
		cfg.Import.Dir = DefaultImportDir
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = DefaultLogOutput
	}
}
