package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"statwire/internal/app"
)

var (
	draftDataset string
	draftPeriod  string
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Assemble a candidate document with AI-drafted prose",
	RunE: func(cmd *cobra.Command, args []string) error {
		if draftDataset == "" {
			return fmt.Errorf("--dataset must be provided")
		}

		opts := app.StageOptions{
			Dataset: draftDataset,
			Period:  draftPeriod,
		}
		return getApp().Draft(cmd.Context(), opts)
	},
}

func init() {
	draftCmd.Flags().StringVar(&draftDataset, "dataset", "", "Dataset name from configuration")
	draftCmd.Flags().StringVar(&draftPeriod, "period", "", "Reference period (YYYY-MM, defaults to newest normalized snapshot)")
}
