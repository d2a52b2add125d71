package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rsned/raid-planner/pkg/planner"
)

// NewEstimateCommand creates the estimate command.
func NewEstimateCommand() *cobra.Command {
	var (
		goalsPath string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the raids needed to reach character rank goals",
		Long: `Read an estimate request (settings plus goals, the same shape the
estimate_raids tool takes) and print the resulting plan summary.

Use "-" as the goals file to read the request from stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readRequest(cmd.InOrStdin(), goalsPath)
			if err != nil {
				return err
			}

			result, err := runTool(cmd.Context(), "estimate_raids", raw)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), result)
			}

			resp, ok := result.(planner.EstimateResponse)
			if !ok {
				return fmt.Errorf("unexpected estimate result %T", result)
			}
			fmt.Fprint(cmd.OutOrStdout(), resp.Summary.Text())
			if resp.Estimate != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "\nPlan ID: %s\n", resp.Estimate.PlanID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&goalsPath, "goals", "g", "", "Path to the estimate request JSON file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full estimate as JSON")
	_ = cmd.MarkFlagRequired("goals")

	return cmd
}

func readRequest(stdin io.Reader, path string) (json.RawMessage, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading request: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("request %s is not valid JSON", path)
	}
	return data, nil
}

// runTool sets up the planner and runs one tool call against it.
func runTool(ctx context.Context, name string, args any) (any, error) {
	raw, ok := args.(json.RawMessage)
	if !ok {
		var err error
		if raw, err = json.Marshal(args); err != nil {
			return nil, fmt.Errorf("encoding %s arguments: %w", name, err)
		}
	}

	a, err := setup(ctx)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	server, err := a.newServer(ctx)
	if err != nil {
		return nil, err
	}
	return server.CallTool(ctx, name, raw)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
