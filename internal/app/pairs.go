package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
)

// Pairs fetches, normalizes, and prints the top DEX pairs.
func (a *App) Pairs(ctx context.Context, opts PairsOptions) error {
	client, normalizer := a.newDexClient()

	entries, _, err := client.Pairs(ctx)
	if err != nil {
		return err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = a.Config.Dex.MaxPairs
	}

	batch := normalizer.NormalizePairBatch(entries, limit)
	if len(batch.Records) == 0 {
		fmt.Fprintln(os.Stdout, "no valid pairs found")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Pair\tLiquidity\tBase Vol\tQuote Vol\tPrice\tStable\tNative")

	for _, record := range batch.Records {
		fmt.Fprintf(
			writer,
			"%s/%s\t%s\t%s\t%s\t%s\t%v\t%v\n",
			record.BaseSymbol,
			record.QuoteSymbol,
			record.Formatted.LiquidityUSD,
			record.Formatted.BaseVolume,
			record.Formatted.QuoteVolume,
			record.Formatted.LastPrice,
			record.IsStablePair,
			record.HasNativeToken,
		)
	}
	writer.Flush()

	fmt.Fprintf(
		os.Stdout,
		"\n%d of %d pairs valid (%d rejected)\n",
		batch.Report.ValidRecords,
		batch.Report.TotalRecords,
		batch.Report.RejectedRecords,
	)
	return nil
}
