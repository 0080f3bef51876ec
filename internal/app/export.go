package app

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"

	"cronoscope/internal/dex"
)

// Export writes the normalized top pairs as CSV and/or a PNG liquidity
// chart.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	client, normalizer := a.newDexClient()

	entries, _, err := client.Pairs(ctx)
	if err != nil {
		return err
	}

	limit := a.Config.ResolveMaxPairs(opts.MaxPairs)
	batch := normalizer.NormalizePairBatch(entries, limit)
	if len(batch.Records) == 0 {
		a.Logger.Info().Msg("no valid pairs to export")
		return nil
	}

	a.Logger.Info().
		Int("total", batch.Report.TotalRecords).
		Int("exported", len(batch.Records)).
		Msg("exporting pairs")

	if opts.CSVPath != "" {
		if err := writePairsCSV(opts.CSVPath, batch.Records); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := writePairsPNG(opts.PNGPath, batch.Records); err != nil {
			return err
		}
	}

	return nil
}

func writePairsCSV(path string, records []dex.CleanedPairRecord) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"pair_id", "base_symbol", "quote_symbol", "liquidity_usd", "liquidity_cro", "base_volume", "quote_volume", "last_price", "stable_pair", "has_native_token"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, record := range records {
		row := []string{
			record.PairID,
			record.BaseSymbol,
			record.QuoteSymbol,
			strconv.FormatFloat(record.LiquidityUSD, 'f', -1, 64),
			strconv.FormatFloat(record.LiquidityCRO, 'f', -1, 64),
			strconv.FormatFloat(record.BaseVolume, 'f', -1, 64),
			strconv.FormatFloat(record.QuoteVolume, 'f', -1, 64),
			strconv.FormatFloat(record.LastPrice, 'f', -1, 64),
			strconv.FormatBool(record.IsStablePair),
			strconv.FormatBool(record.HasNativeToken),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return writer.Error()
}

func writePairsPNG(path string, records []dex.CleanedPairRecord) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	// BarChart needs at least two bars to lay out an axis.
	if len(records) < 2 {
		return errors.New("need at least two pairs to render a chart")
	}

	bars := make([]chart.Value, 0, len(records))
	for _, record := range records {
		bars = append(bars, chart.Value{
			Label: record.BaseSymbol + "/" + record.QuoteSymbol,
			Value: record.LiquidityUSD,
		})
	}

	graph := chart.BarChart{
		Title:    "Top pairs by USD liquidity",
		Width:    1280,
		Height:   720,
		BarWidth: 40,
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return dex.FormatCurrency(f)
				}
				return fmt.Sprintf("%v", v)
			},
		},
		Bars: bars,
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
