package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rsned/raid-planner/internal/planner/db"
	"github.com/rsned/raid-planner/internal/planner/sync"
)

// NewImportCommand creates the import command.
func NewImportCommand() *cobra.Command {
	var clearFirst bool

	cmd := &cobra.Command{
		Use:   "import [dir]",
		Short: "Import the static dataset from JSON exports",
		Long: `Import materials.json, campaigns.json and characters.json from a directory
into the SQLite database. Files that are absent are skipped; each file that is
present replaces the data it covers.

The directory defaults to import.dir from the config.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := setup(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			dir := a.cfg.Import.Dir
			if len(args) == 1 {
				dir = args[0]
			}

			syncer := sync.NewSyncer(a.db, a.logger)
			if clearFirst {
				if err := syncer.ClearAll(ctx); err != nil {
					return err
				}
			}

			if err := syncer.ImportDirectory(ctx, dir); err != nil {
				return err
			}

			status, err := a.db.ImportStatus(ctx)
			if err != nil {
				return err
			}

			counts, err := db.CountStaticData(ctx, a.db)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Imported static data from %s into %s\n", dir, a.cfg.Database.Path)
			for _, r := range status {
				fmt.Fprintf(w, "  %-12s %8s records, imported %s\n",
					r.Entity, humanize.Comma(int64(r.Count)), humanize.Time(r.ImportedAt))
			}
			fmt.Fprintf(w, "Dataset: %s materials, %s battles, %s characters\n",
				humanize.Comma(int64(counts.Materials)),
				humanize.Comma(int64(counts.Battles)),
				humanize.Comma(int64(counts.Characters)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearFirst, "clear", false, "Remove all existing static data before importing")

	return cmd
}
