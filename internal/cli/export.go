package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"statwire/internal/app"
)

var (
	exportDataset string
	exportPeriod  string
	exportPNGPath string
	exportCSVPath string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export trend windows as CSV and/or PNG chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportDataset == "" {
			return fmt.Errorf("--dataset must be provided")
		}

		opts := app.ExportOptions{
			Dataset: exportDataset,
			Period:  exportPeriod,
			PNGPath: exportPNGPath,
			CSVPath: exportCSVPath,
		}
		return getApp().Export(cmd.Context(), opts)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDataset, "dataset", "", "Dataset name from configuration")
	exportCmd.Flags().StringVar(&exportPeriod, "period", "", "Reference period (YYYY-MM, defaults to newest normalized snapshot)")
	exportCmd.Flags().StringVar(&exportPNGPath, "png", "", "Path to write PNG chart")
	exportCmd.Flags().StringVar(&exportCSVPath, "csv", "", "Path to write CSV data")
}
