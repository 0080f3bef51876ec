package cli

import (
	"github.com/spf13/cobra"

	"cronoscope/internal/app"
)

var pairsLimit int

var pairsCmd = &cobra.Command{
	Use:   "pairs",
	Short: "Print the top DEX pairs by liquidity",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Pairs(cmd.Context(), app.PairsOptions{Limit: pairsLimit})
	},
}

func init() {
	pairsCmd.Flags().IntVar(&pairsLimit, "limit", 0, "Maximum pairs to show (defaults to config)")
}
