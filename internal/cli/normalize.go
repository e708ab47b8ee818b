package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"statwire/internal/app"
)

var (
	normalizeDataset string
	normalizePeriod  string
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Compute derived metrics from a raw snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		if normalizeDataset == "" {
			return fmt.Errorf("--dataset must be provided")
		}

		opts := app.StageOptions{
			Dataset: normalizeDataset,
			Period:  normalizePeriod,
		}
		return getApp().Normalize(cmd.Context(), opts)
	},
}

func init() {
	normalizeCmd.Flags().StringVar(&normalizeDataset, "dataset", "", "Dataset name from configuration")
	normalizeCmd.Flags().StringVar(&normalizePeriod, "period", "", "Reference period (YYYY-MM, defaults to newest raw snapshot)")
}
