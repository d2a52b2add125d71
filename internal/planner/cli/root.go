// Package cli wires the raid planner commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rsned/raid-planner/internal/planner/config"
	"github.com/rsned/raid-planner/internal/planner/db"
	"github.com/rsned/raid-planner/internal/planner/engine"
	"github.com/rsned/raid-planner/internal/planner/mcp"
)

var (
	configPath string
	dbPath     string
	verbose    bool
)

// NewRootCommand creates the root command with all subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "raid-planner",
		Short: "Plan the daily raids needed to reach character rank goals",
		Long: `raid-planner resolves character rank goals into base materials, picks the
campaign locations to farm them and lays out a day-by-day raid schedule.

It runs as an MCP server over stdio, or as one-shot commands against the
imported static dataset.

Examples:
  raid-planner import ./data
  raid-planner serve --db /var/lib/raid-planner/static.db
  raid-planner estimate --goals goals.json
  raid-planner locations iron --progress Indomitus=14 --preference most_efficient
  raid-planner recipe widget`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite database (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewImportCommand())
	rootCmd.AddCommand(NewEstimateCommand())
	rootCmd.AddCommand(NewLocationsCommand())
	rootCmd.AddCommand(NewRecipeCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute(ctx context.Context) {
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds what every command needs once flags and config are resolved.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	db       *db.DB
	logClose io.Closer
}

func (a *app) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
	if a.logClose != nil {
		_ = a.logClose.Close()
	}
}

// setup loads config, applies the global flag overrides, builds the logger
// and opens the database.
func setup(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger, closer, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	database, err := db.Open(ctx, cfg.Database.Path)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &app{cfg: cfg, logger: logger, db: database, logClose: closer}, nil
}

// newServer loads the static dataset into an engine and fronts it with the
// tool server the one-shot commands share with serve.
func (a *app) newServer(ctx context.Context) (*mcp.Server, error) {
	data, err := db.LoadStaticData(ctx, a.db)
	if err != nil {
		return nil, err
	}

	eng, err := engine.New(data, engine.Options{
		Logger:          a.logger,
		IterationLimit:  a.cfg.Engine.IterationLimit,
		RecipeCacheSize: a.cfg.Engine.RecipeCacheSize,
	})
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}

	return mcp.NewServer(eng, db.NewMaterialStore(a.db), a.logger), nil
}
