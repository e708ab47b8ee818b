package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"statwire/internal/app"
)

var reviewDataset string

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Run the publish gate and promote the candidate on pass",
	RunE: func(cmd *cobra.Command, args []string) error {
		if reviewDataset == "" {
			return fmt.Errorf("--dataset must be provided")
		}

		return getApp().Review(cmd.Context(), app.StageOptions{Dataset: reviewDataset})
	},
}

func init() {
	reviewCmd.Flags().StringVar(&reviewDataset, "dataset", "", "Dataset name from configuration")
}
