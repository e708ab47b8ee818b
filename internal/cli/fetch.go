package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"statwire/internal/app"
)

var fetchDataset string

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch source series and write the raw snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		if fetchDataset == "" {
			return fmt.Errorf("--dataset must be provided")
		}

		return getApp().Fetch(cmd.Context(), app.StageOptions{Dataset: fetchDataset})
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchDataset, "dataset", "", "Dataset name from configuration")
}
