package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"statwire/internal/app"
)

var (
	showDataset string
	showLimit   int
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show recently archived releases",
	RunE: func(cmd *cobra.Command, args []string) error {
		if showDataset == "" {
			return fmt.Errorf("--dataset must be provided")
		}

		opts := app.ShowOptions{
			Dataset: showDataset,
			Limit:   showLimit,
		}
		return getApp().Show(cmd.Context(), opts)
	},
}

func init() {
	showCmd.Flags().StringVar(&showDataset, "dataset", "", "Dataset name from configuration")
	showCmd.Flags().IntVar(&showLimit, "limit", 10, "Number of releases to display")
}
