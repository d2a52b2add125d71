package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rsned/raid-planner/pkg/planner"
)

// NewRecipeCommand creates the recipe command.
func NewRecipeCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "recipe <material>",
		Short: "Flatten a material's recipe to base materials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := runTool(cmd.Context(), "resolve_recipe", planner.ResolveRecipeRequest{MaterialID: args[0]})
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), result)
			}

			recipe, ok := result.(planner.FlattenedRecipe)
			if !ok {
				return fmt.Errorf("unexpected recipe result %T", result)
			}

			w := cmd.OutOrStdout()
			if len(recipe.Entries) == 1 && recipe.Entries[0].MaterialID == recipe.MaterialID {
				fmt.Fprintf(w, "%s is a base material\n", recipe.MaterialID)
				return nil
			}
			fmt.Fprintf(w, "%s needs:\n", recipe.MaterialID)
			for _, e := range recipe.Entries {
				fmt.Fprintf(w, "  %6s x %s\n", humanize.Comma(int64(e.Count)), e.MaterialID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	return cmd
}
