package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rsned/raid-planner/pkg/planner"
)

// NewLocationsCommand creates the locations command.
func NewLocationsCommand() *cobra.Command {
	var (
		progress   map[string]int
		preference string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "locations <material>",
		Short: "Show where a material can be farmed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := planner.SelectLocationsRequest{
				MaterialID:        args[0],
				CampaignsProgress: planner.CampaignProgress(progress),
				Preference:        planner.FarmPreference(preference),
			}

			result, err := runTool(cmd.Context(), "select_locations", req)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), result)
			}

			resp, ok := result.(planner.SelectLocationsResponse)
			if !ok {
				return fmt.Errorf("unexpected locations result %T", result)
			}
			printLocations(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	cmd.Flags().StringToIntVarP(&progress, "progress", "p", nil, "Unlocked node per campaign, e.g. Indomitus=14,Fall=3")
	cmd.Flags().StringVar(&preference, "preference", "", "most_efficient, more_efficient or least_efficient")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	return cmd
}

func printLocations(w io.Writer, resp planner.SelectLocationsResponse) {
	fmt.Fprintf(w, "Locations for %s\n", resp.MaterialID)
	if len(resp.Selected) == 0 {
		fmt.Fprintln(w, "  none unlocked")
	}
	for _, l := range resp.Selected {
		fmt.Fprintf(w, "  %-20s %5.1f energy/item  %s energy x %d/day\n",
			l.ID, l.EnergyPerItem, humanize.Comma(int64(l.EnergyCost)), l.DailyBattleCount)
	}

	if len(resp.Missing) > 0 {
		fmt.Fprintln(w, "Locked:")
		for _, l := range resp.Missing {
			fmt.Fprintf(w, "  %s\n", l.ID)
		}
	}
}
