package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"statwire/internal/app"
)

var (
	backfillDataset string
	backfillFrom    string
	backfillTo      string
	backfillDryRun  bool
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Normalize a historical range of raw snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		if backfillDataset == "" {
			return fmt.Errorf("--dataset must be provided")
		}
		if backfillFrom == "" || backfillTo == "" {
			return fmt.Errorf("--from and --to must be provided")
		}

		opts := app.BackfillOptions{
			Dataset: backfillDataset,
			From:    backfillFrom,
			To:      backfillTo,
			DryRun:  backfillDryRun,
		}
		return getApp().Backfill(cmd.Context(), opts)
	},
}

func init() {
	backfillCmd.Flags().StringVar(&backfillDataset, "dataset", "", "Dataset name from configuration")
	backfillCmd.Flags().StringVar(&backfillFrom, "from", "", "Start period (YYYY-MM, inclusive)")
	backfillCmd.Flags().StringVar(&backfillTo, "to", "", "End period (YYYY-MM, inclusive)")
	backfillCmd.Flags().BoolVar(&backfillDryRun, "dry-run", false, "Report the periods without writing snapshots")
}
