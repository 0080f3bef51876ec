package dex

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNormalizer() *Normalizer {
	return NewNormalizer(WCROAddress, zerolog.Nop())
}

func TestSanitizeNumberIsTotal(t *testing.T) {
	cases := map[string]float64{
		"":          0,
		"   ":       0,
		"abc":       0,
		"Infinity":  0,
		"-Infinity": 0,
		"NaN":       0,
		"-5":        0,
		"1e20":      0,
		"1e15":      1e15,
		"0":         0,
		"42.5":      42.5,
		" 3.14 ":    3.14,
		"1e14":      1e14,
	}

	for input, want := range cases {
		assert.Equal(t, want, SanitizeNumber(input), "input %q", input)
	}
}

func TestLiquidityBounds(t *testing.T) {
	assert.False(t, IsValidLiquidityValue(0.5))
	assert.True(t, IsValidLiquidityValue(1))
	assert.True(t, IsValidLiquidityValue(1e9))
	assert.False(t, IsValidLiquidityValue(1e10))
}

func TestPriceBounds(t *testing.T) {
	assert.False(t, IsValidPrice(0))
	assert.True(t, IsValidPrice(0.000001))
	assert.True(t, IsValidPrice(100000))
	assert.False(t, IsValidPrice(200000))
}

func TestSanitizeLiquidityRescalesRawFixedPoint(t *testing.T) {
	// 5e15 is a raw 18-decimals value the aggregator failed to convert:
	// it must be rescaled to 0.005, not passed through and not zeroed.
	assert.InDelta(t, 0.005, sanitizeLiquidity("5e15"), 1e-12)

	// Values inside the plausible band pass through untouched.
	assert.Equal(t, 123456.78, sanitizeLiquidity("123456.78"))

	// Garbage still degrades to zero.
	assert.Equal(t, 0.0, sanitizeLiquidity("not-a-number"))
	assert.Equal(t, 0.0, sanitizeLiquidity("-10"))
}

func TestNormalizePairZeroesNegativeLiquidity(t *testing.T) {
	record := testNormalizer().NormalizePair("0xAAA_0xBBB", RawPairRecord{
		Liquidity:   "-10",
		BaseVolume:  "100",
		QuoteVolume: "50",
		LastPrice:   "1.5",
	})

	assert.Equal(t, 0.0, record.LiquidityUSD)
	assert.False(t, record.DataQuality.HasValidLiquidity)
	assert.True(t, record.DataQuality.HasValidPrice)
	assert.True(t, record.DataQuality.HasVolume)
}

func TestNormalizePairDetectsStablePairs(t *testing.T) {
	norm := testNormalizer()

	usdc := norm.NormalizePair("0xAAA_0xBBB", RawPairRecord{BaseSymbol: "USDC", QuoteSymbol: "WCRO"})
	assert.True(t, usdc.IsStablePair)

	lower := norm.NormalizePair("0xAAA_0xBBB", RawPairRecord{BaseSymbol: "FOO", QuoteSymbol: "usdt"})
	assert.True(t, lower.IsStablePair)

	exotic := norm.NormalizePair("0xAAA_0xBBB", RawPairRecord{BaseSymbol: "FOO", QuoteSymbol: "BAR"})
	assert.False(t, exotic.IsStablePair)
}

func TestNormalizePairFlagsNativeToken(t *testing.T) {
	norm := testNormalizer()

	with := norm.NormalizePair("0xAAA_"+WCROAddress, RawPairRecord{})
	assert.True(t, with.HasNativeToken)

	without := norm.NormalizePair("0xAAA_0xBBB", RawPairRecord{})
	assert.False(t, without.HasNativeToken)
}

func TestNormalizePairBatchCountsAndSorts(t *testing.T) {
	entries := []RawPairEntry{
		{PairID: "p1", Record: RawPairRecord{Liquidity: "1000", LastPrice: "1"}},
		{PairID: "p2", Record: RawPairRecord{Liquidity: "garbage", BaseVolume: "0", QuoteVolume: "0", LastPrice: "2"}},
		{PairID: "p3", Record: RawPairRecord{Liquidity: "50000", LastPrice: "3"}},
		{PairID: "p4", Record: RawPairRecord{Liquidity: "0", BaseVolume: "12", LastPrice: "0"}},
		{PairID: "p5", Record: RawPairRecord{Liquidity: "2500", LastPrice: "0.5"}},
	}

	result := testNormalizer().NormalizePairBatch(entries, 10)

	// p2 has no valid liquidity and no volume; price alone does not qualify.
	assert.Equal(t, 5, result.Report.TotalRecords)
	assert.Equal(t, 4, result.Report.ValidRecords)
	assert.Equal(t, 1, result.Report.RejectedRecords)
	assert.True(t, result.Report.IssuesDetected)

	require.Len(t, result.Records, 4)
	assert.Equal(t, "p3", result.Records[0].PairID)
	assert.Equal(t, "p5", result.Records[1].PairID)
	assert.Equal(t, "p1", result.Records[2].PairID)
	assert.Equal(t, "p4", result.Records[3].PairID)
}

func TestNormalizePairBatchLimitDoesNotTruncateReport(t *testing.T) {
	entries := make([]RawPairEntry, 0, 8)
	for i := 0; i < 8; i++ {
		entries = append(entries, RawPairEntry{
			PairID: fmt.Sprintf("p%d", i),
			Record: RawPairRecord{Liquidity: fmt.Sprintf("%d", 100*(i+1)), LastPrice: "1"},
		})
	}

	result := testNormalizer().NormalizePairBatch(entries, 3)

	assert.Len(t, result.Records, 3)
	assert.Equal(t, 8, result.Report.TotalRecords)
	assert.Equal(t, 8, result.Report.ValidRecords)
	assert.False(t, result.Report.IssuesDetected)
}

func TestNormalizePairBatchStableTieOrder(t *testing.T) {
	entries := []RawPairEntry{
		{PairID: "first", Record: RawPairRecord{Liquidity: "500", LastPrice: "1"}},
		{PairID: "second", Record: RawPairRecord{Liquidity: "500", LastPrice: "1"}},
		{PairID: "third", Record: RawPairRecord{Liquidity: "500", LastPrice: "1"}},
	}

	result := testNormalizer().NormalizePairBatch(entries, 10)

	require.Len(t, result.Records, 3)
	assert.Equal(t, "first", result.Records[0].PairID)
	assert.Equal(t, "second", result.Records[1].PairID)
	assert.Equal(t, "third", result.Records[2].PairID)
}

func TestNormalizePairBatchAllInvalidIsNotAnError(t *testing.T) {
	entries := []RawPairEntry{
		{PairID: "p1", Record: RawPairRecord{Liquidity: "junk"}},
		{PairID: "p2", Record: RawPairRecord{Liquidity: ""}},
	}

	result := testNormalizer().NormalizePairBatch(entries, 10)

	assert.Empty(t, result.Records)
	assert.Equal(t, 2, result.Report.TotalRecords)
	assert.Equal(t, 0, result.Report.ValidRecords)
	assert.Equal(t, 2, result.Report.RejectedRecords)
	assert.True(t, result.Report.IssuesDetected)
}

func TestNormalizePairIdempotent(t *testing.T) {
	norm := testNormalizer()
	raw := RawPairRecord{
		BaseSymbol:   "VVS",
		QuoteSymbol:  "WCRO",
		Liquidity:    "123456.78",
		LiquidityCRO: "987654.32",
		BaseVolume:   "1000",
		QuoteVolume:  "2000",
		LastPrice:    "0.0025",
	}

	first := norm.NormalizePair("p", raw)
	second := norm.NormalizePair("p", RawPairRecord{
		BaseSymbol:   first.BaseSymbol,
		QuoteSymbol:  first.QuoteSymbol,
		Liquidity:    fmt.Sprintf("%v", first.LiquidityUSD),
		LiquidityCRO: fmt.Sprintf("%v", first.LiquidityCRO),
		BaseVolume:   fmt.Sprintf("%v", first.BaseVolume),
		QuoteVolume:  fmt.Sprintf("%v", first.QuoteVolume),
		LastPrice:    fmt.Sprintf("%v", first.LastPrice),
	})

	assert.Equal(t, first.LiquidityUSD, second.LiquidityUSD)
	assert.Equal(t, first.LiquidityCRO, second.LiquidityCRO)
	assert.Equal(t, first.BaseVolume, second.BaseVolume)
	assert.Equal(t, first.QuoteVolume, second.QuoteVolume)
	assert.Equal(t, first.LastPrice, second.LastPrice)
}

func TestNormalizeTokenBatchValidity(t *testing.T) {
	entries := []RawTokenEntry{
		{Address: "0x1", Record: RawTokenRecord{Symbol: "AAA", PriceUSD: "1.25", PriceCRO: "garbage"}},
		{Address: "0x2", Record: RawTokenRecord{Symbol: "BBB", PriceUSD: "junk", PriceCRO: "0.5"}},
		{Address: "0x3", Record: RawTokenRecord{Symbol: "CCC", PriceUSD: "0", PriceCRO: ""}},
	}

	result := testNormalizer().NormalizeTokenBatch(entries)

	// Either leg passing the price band keeps the token.
	require.Len(t, result.Records, 2)
	assert.Equal(t, 3, result.Report.TotalRecords)
	assert.Equal(t, 2, result.Report.ValidRecords)
	assert.Equal(t, 1, result.Report.RejectedRecords)
	assert.True(t, result.Report.IssuesDetected)

	assert.Equal(t, 1.25, result.Records[0].PriceUSD)
	assert.Equal(t, 0.0, result.Records[0].PriceCRO)
	assert.False(t, result.Records[0].DataQuality.HasValidCROPrice)
}

func TestNormalizeTokenFlagsWrappedNative(t *testing.T) {
	norm := testNormalizer()

	wcro := norm.NormalizeToken(WCROAddress, RawTokenRecord{Symbol: "WCRO", PriceUSD: "0.08"})
	assert.True(t, wcro.IsCanonicalWrappedNative)

	lowered := norm.NormalizeToken("0x5c7f8a570d578ed84e63fdfa7b1ee72deae1ae23", RawTokenRecord{Symbol: "WCRO", PriceUSD: "0.08"})
	assert.True(t, lowered.IsCanonicalWrappedNative)

	other := norm.NormalizeToken("0x1", RawTokenRecord{Symbol: "FOO", PriceUSD: "0.08"})
	assert.False(t, other.IsCanonicalWrappedNative)
}
