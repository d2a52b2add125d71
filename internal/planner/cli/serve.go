package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := setup(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			// stdout carries the JSON-RPC stream.
			if a.cfg.Logging.Output == "stdout" {
				return fmt.Errorf("logging.output must not be stdout when serving")
			}

			server, err := a.newServer(ctx)
			if err != nil {
				return err
			}

			a.logger.Info("starting MCP server", "db", a.cfg.Database.Path)
			if err := server.Run(ctx); err != nil && ctx.Err() == nil {
				return fmt.Errorf("server error: %w", err)
			}

			a.logger.Info("server stopped")
			return nil
		},
	}
}
