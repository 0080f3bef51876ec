package dex

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Canonical token contracts on Cronos mainnet.
const (
	WCROAddress = "0x5C7F8A570d578ED84E63fdFA7b1eE72dEae1AE23"
	USDCAddress = "0xc21223249CA28397B4B6541dfFaEcC539BfF0c59"
)

// Plausibility bounds for aggregator values. Anything outside these bands is
// treated as corrupt upstream data, zeroed, and flagged rather than dropped.
const (
	// maxSaneMagnitude is the ceiling above which a parsed value is assumed
	// to be garbage rather than a legitimate quantity.
	maxSaneMagnitude = 1e15

	minLiquidityUSD = 1
	maxLiquidityUSD = 1e9

	minPriceUSD = 0.000001
	maxPriceUSD = 100000

	// scaleThreshold marks liquidity values the aggregator occasionally
	// emits as raw 18-decimals integers instead of decimal-adjusted ones.
	scaleThreshold = 1e12
	scaleDivisor   = 1e18
)

var stableSymbols = map[string]struct{}{
	"USDT": {},
	"USDC": {},
	"DAI":  {},
	"BUSD": {},
	"TUSD": {},
	"FRAX": {},
}

// SanitizeNumber parses a string-encoded decimal quantity into a usable
// float. It is total: parse failures, non-finite results, negative
// quantities, and magnitudes above the sanity ceiling all degrade to 0.
func SanitizeNumber(raw string) float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0
	}

	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v < 0 || math.Abs(v) > maxSaneMagnitude {
		return 0
	}
	return v
}

// IsValidLiquidityValue reports whether x is a plausible USD liquidity
// figure for a real trading pair.
func IsValidLiquidityValue(x float64) bool {
	return x >= minLiquidityUSD && x <= maxLiquidityUSD
}

// IsValidPrice reports whether x is a plausible USD unit price.
func IsValidPrice(x float64) bool {
	return x >= minPriceUSD && x <= maxPriceUSD
}

// sanitizeLiquidity parses a liquidity field and applies the unit-scale
// correction before the sanity ceiling: the aggregator sometimes leaves
// pool amounts at raw 18-decimals fixed point, and those values must be
// rescaled rather than rejected. The threshold is a heuristic for a known
// upstream bug class, not a documented encoding contract.
func sanitizeLiquidity(raw string) float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0
	}

	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	if v > scaleThreshold {
		v /= scaleDivisor
	}
	if v > maxSaneMagnitude {
		return 0
	}
	return v
}

// Normalizer converts untrusted aggregator records into bounded, typed,
// explainable records and reports how much of the input was trustworthy.
// It never fails on malformed field data: every defect degrades to 0 plus
// a quality flag.
type Normalizer struct {
	wrappedNative string
	logger        zerolog.Logger
}

// NewNormalizer constructs a Normalizer for the given wrapped-native-token
// contract address.
func NewNormalizer(wrappedNative string, logger zerolog.Logger) *Normalizer {
	if wrappedNative == "" {
		wrappedNative = WCROAddress
	}
	return &Normalizer{
		wrappedNative: wrappedNative,
		logger:        logger.With().Str("component", "dex_normalizer").Logger(),
	}
}

// NormalizePair cleans a single pair record. Invalid liquidity or price is
// zeroed and flagged; the record itself is always produced.
func (n *Normalizer) NormalizePair(pairID string, raw RawPairRecord) CleanedPairRecord {
	liquidityUSD := sanitizeLiquidity(raw.Liquidity)
	liquidityCRO := sanitizeLiquidity(raw.LiquidityCRO)
	baseVolume := SanitizeNumber(raw.BaseVolume)
	quoteVolume := SanitizeNumber(raw.QuoteVolume)
	lastPrice := SanitizeNumber(raw.LastPrice)

	quality := PairDataQuality{
		HasValidLiquidity: IsValidLiquidityValue(liquidityUSD),
		HasValidPrice:     IsValidPrice(lastPrice),
		HasVolume:         baseVolume > 0 || quoteVolume > 0,
	}

	if !quality.HasValidLiquidity {
		liquidityUSD = 0
	}
	if !quality.HasValidPrice {
		lastPrice = 0
	}

	return CleanedPairRecord{
		PairID:         pairID,
		BaseSymbol:     raw.BaseSymbol,
		QuoteSymbol:    raw.QuoteSymbol,
		LiquidityUSD:   liquidityUSD,
		LiquidityCRO:   liquidityCRO,
		BaseVolume:     baseVolume,
		QuoteVolume:    quoteVolume,
		LastPrice:      lastPrice,
		HasNativeToken: strings.Contains(pairID, n.wrappedNative),
		IsStablePair:   isStableSymbol(raw.BaseSymbol) || isStableSymbol(raw.QuoteSymbol),
		DataQuality:    quality,
		Formatted: PairFormatted{
			LiquidityUSD: FormatCurrency(liquidityUSD),
			LiquidityCRO: FormatTokenAmount(liquidityCRO),
			BaseVolume:   FormatTokenAmount(baseVolume),
			QuoteVolume:  FormatTokenAmount(quoteVolume),
			LastPrice:    FormatPrice(lastPrice),
		},
	}
}

// NormalizePairBatch cleans a whole batch, keeps only valid pairs (valid
// liquidity or non-zero volume; price alone does not qualify), sorts them
// by USD liquidity descending with input order preserved on ties, and
// truncates to limit. The report always covers the entire input batch.
func (n *Normalizer) NormalizePairBatch(entries []RawPairEntry, limit int) PairBatchResult {
	valid := make([]CleanedPairRecord, 0, len(entries))
	rejected := 0

	for _, entry := range entries {
		record := n.NormalizePair(entry.PairID, entry.Record)
		if record.DataQuality.HasValidLiquidity || record.DataQuality.HasVolume {
			valid = append(valid, record)
		} else {
			rejected++
		}
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].LiquidityUSD > valid[j].LiquidityUSD
	})

	report := DataQualityReport{
		TotalRecords:    len(entries),
		ValidRecords:    len(valid),
		RejectedRecords: rejected,
		IssuesDetected:  rejected > 0,
	}

	if rejected > 0 {
		n.logger.Debug().
			Int("total", report.TotalRecords).
			Int("rejected", rejected).
			Msg("pair batch contained invalid records")
	}

	if limit > 0 && len(valid) > limit {
		valid = valid[:limit]
	}

	return PairBatchResult{Records: valid, Report: report}
}

// NormalizeToken cleans a single token record.
func (n *Normalizer) NormalizeToken(address string, raw RawTokenRecord) CleanedTokenRecord {
	priceUSD := SanitizeNumber(raw.PriceUSD)
	priceCRO := SanitizeNumber(raw.PriceCRO)

	quality := TokenDataQuality{
		HasValidUSDPrice: IsValidPrice(priceUSD),
		HasValidCROPrice: IsValidPrice(priceCRO),
	}

	if !quality.HasValidUSDPrice {
		priceUSD = 0
	}
	if !quality.HasValidCROPrice {
		priceCRO = 0
	}

	return CleanedTokenRecord{
		Address:                  address,
		Name:                     raw.Name,
		Symbol:                   raw.Symbol,
		PriceUSD:                 priceUSD,
		PriceCRO:                 priceCRO,
		IsCanonicalWrappedNative: strings.EqualFold(address, n.wrappedNative),
		DataQuality:              quality,
		Formatted: TokenFormatted{
			PriceUSD: FormatPrice(priceUSD),
			PriceCRO: FormatTokenAmount(priceCRO),
		},
	}
}

// NormalizeTokenBatch cleans a batch of token records. A token is valid if
// either its USD or its CRO price passes the price band; invalid tokens are
// excluded from the result but counted in the report.
func (n *Normalizer) NormalizeTokenBatch(entries []RawTokenEntry) TokenBatchResult {
	valid := make([]CleanedTokenRecord, 0, len(entries))
	rejected := 0

	for _, entry := range entries {
		record := n.NormalizeToken(entry.Address, entry.Record)
		if record.DataQuality.HasValidUSDPrice || record.DataQuality.HasValidCROPrice {
			valid = append(valid, record)
		} else {
			rejected++
		}
	}

	report := DataQualityReport{
		TotalRecords:    len(entries),
		ValidRecords:    len(valid),
		RejectedRecords: rejected,
		IssuesDetected:  rejected > 0,
	}

	if rejected > 0 {
		n.logger.Debug().
			Int("total", report.TotalRecords).
			Int("rejected", rejected).
			Msg("token batch contained invalid records")
	}

	return TokenBatchResult{Records: valid, Report: report}
}

func isStableSymbol(symbol string) bool {
	_, ok := stableSymbols[strings.ToUpper(strings.TrimSpace(symbol))]
	return ok
}
