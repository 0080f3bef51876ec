package cli

import (
	"github.com/spf13/cobra"

	"cronoscope/internal/app"
)

var (
	exportPNGPath  string
	exportCSVPath  string
	exportMaxPairs int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export normalized DEX pairs as CSV and/or PNG chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Export(cmd.Context(), app.ExportOptions{
			PNGPath:  exportPNGPath,
			CSVPath:  exportCSVPath,
			MaxPairs: exportMaxPairs,
		})
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportPNGPath, "png", "", "Path to write PNG chart")
	exportCmd.Flags().StringVar(&exportCSVPath, "csv", "", "Path to write CSV data")
	exportCmd.Flags().IntVar(&exportMaxPairs, "max-pairs", 0, "Maximum pairs to export (defaults to config)")
}
