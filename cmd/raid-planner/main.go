// Raid Planner MCP server and command line.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rsned/raid-planner/internal/planner/cli"
)

func main() {
	// Cancel on SIGINT/SIGTERM so the server loop can exit cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cli.Execute(ctx)
}
