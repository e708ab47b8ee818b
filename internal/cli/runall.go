package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"statwire/internal/app"
)

var (
	runAllDataset string
	runAllPeriod  string
)

var runAllCmd = &cobra.Command{
	Use:   "run-all",
	Short: "Run fetch, normalize, draft, and review in sequence",
	RunE: func(cmd *cobra.Command, args []string) error {
		if runAllDataset == "" {
			return fmt.Errorf("--dataset must be provided")
		}

		opts := app.StageOptions{
			Dataset: runAllDataset,
			Period:  runAllPeriod,
		}
		return getApp().RunAll(cmd.Context(), opts)
	},
}

func init() {
	runAllCmd.Flags().StringVar(&runAllDataset, "dataset", "", "Dataset name from configuration")
	runAllCmd.Flags().StringVar(&runAllPeriod, "period", "", "Reference period (YYYY-MM, defaults to newest available)")
}
