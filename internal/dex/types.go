package dex

// RawPairRecord is one trading-pair entry exactly as the aggregator returns
// it. Every numeric field is a string and none of them can be trusted:
// values may be missing, non-numeric, or left at raw 18-decimals scale.
type RawPairRecord struct {
	BaseID       string `json:"base_id"`
	BaseName     string `json:"base_name"`
	BaseSymbol   string `json:"base_symbol"`
	QuoteID      string `json:"quote_id"`
	QuoteName    string `json:"quote_name"`
	QuoteSymbol  string `json:"quote_symbol"`
	LastPrice    string `json:"last_price"`
	BaseVolume   string `json:"base_volume"`
	QuoteVolume  string `json:"quote_volume"`
	Liquidity    string `json:"liquidity"`
	LiquidityCRO string `json:"liquidity_CRO"`
}

// RawTokenRecord is one token entry from /tokens or /tokens/{address}.
type RawTokenRecord struct {
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	PriceUSD  string `json:"price"`
	PriceCRO  string `json:"price_CRO"`
	Volume    string `json:"base_volume,omitempty"`
	MarketCap string `json:"market_cap,omitempty"`
}

// RawPairEntry pairs an aggregator record with its pair id
// (BASEADDR_QUOTEADDR), preserving the order the API emitted it in.
type RawPairEntry struct {
	PairID string
	Record RawPairRecord
}

// RawTokenEntry pairs a token record with its contract address.
type RawTokenEntry struct {
	Address string
	Record  RawTokenRecord
}

// PairDataQuality records which fields of a pair survived validation.
type PairDataQuality struct {
	HasValidLiquidity bool `json:"hasValidLiquidity"`
	HasValidPrice     bool `json:"hasValidPrice"`
	HasVolume         bool `json:"hasVolume"`
}

// PairFormatted holds human-readable renderings of the cleaned values.
type PairFormatted struct {
	LiquidityUSD string `json:"liquidityUSD"`
	LiquidityCRO string `json:"liquidityCRO"`
	BaseVolume   string `json:"baseVolume"`
	QuoteVolume  string `json:"quoteVolume"`
	LastPrice    string `json:"lastPrice"`
}

// CleanedPairRecord is the bounded, unit-corrected form of a RawPairRecord.
// Every numeric field is finite and non-negative; liquidity and price either
// sit inside their plausibility bands or have been zeroed with the failure
// noted in DataQuality.
type CleanedPairRecord struct {
	PairID         string          `json:"pairId"`
	BaseSymbol     string          `json:"baseSymbol"`
	QuoteSymbol    string          `json:"quoteSymbol"`
	LiquidityUSD   float64         `json:"liquidityUSD"`
	LiquidityCRO   float64         `json:"liquidityCRO"`
	BaseVolume     float64         `json:"baseVolume"`
	QuoteVolume    float64         `json:"quoteVolume"`
	LastPrice      float64         `json:"lastPrice"`
	HasNativeToken bool            `json:"hasNativeToken"`
	IsStablePair   bool            `json:"isStablePair"`
	DataQuality    PairDataQuality `json:"dataQuality"`
	Formatted      PairFormatted   `json:"formatted"`
}

// TokenDataQuality records which token prices survived validation.
type TokenDataQuality struct {
	HasValidUSDPrice bool `json:"hasValidUsdPrice"`
	HasValidCROPrice bool `json:"hasValidCroPrice"`
}

// TokenFormatted holds human-readable renderings of token prices.
type TokenFormatted struct {
	PriceUSD string `json:"priceUSD"`
	PriceCRO string `json:"priceCRO"`
}

// CleanedTokenRecord is the bounded form of a RawTokenRecord.
type CleanedTokenRecord struct {
	Address                  string           `json:"address"`
	Name                     string           `json:"name"`
	Symbol                   string           `json:"symbol"`
	PriceUSD                 float64          `json:"priceUSD"`
	PriceCRO                 float64          `json:"priceCRO"`
	IsCanonicalWrappedNative bool             `json:"isCanonicalWrappedNative"`
	DataQuality              TokenDataQuality `json:"dataQuality"`
	Formatted                TokenFormatted   `json:"formatted"`
}

// DataQualityReport summarises how much of an input batch was trustworthy.
// It is attached to every batch result, even when nothing validated.
type DataQualityReport struct {
	TotalRecords    int  `json:"totalRecords"`
	ValidRecords    int  `json:"validRecords"`
	RejectedRecords int  `json:"rejectedRecords"`
	IssuesDetected  bool `json:"issuesDetected"`
}

// PairBatchResult is the outcome of normalizing a full /pairs or /summary
// response. Records holds only the top valid pairs; the report covers the
// entire input batch.
type PairBatchResult struct {
	Records   []CleanedPairRecord `json:"records"`
	Report    DataQualityReport   `json:"report"`
	UpdatedAt int64               `json:"updatedAt,omitempty"`
}

// TokenBatchResult is the outcome of normalizing a /tokens response.
type TokenBatchResult struct {
	Records   []CleanedTokenRecord `json:"records"`
	Report    DataQualityReport    `json:"report"`
	UpdatedAt int64                `json:"updatedAt,omitempty"`
}

// SupplyInfo is the cleaned form of the aggregator's /supply endpoint.
type SupplyInfo struct {
	TotalSupply          float64 `json:"totalSupply"`
	CirculatingSupply    float64 `json:"circulatingSupply"`
	BurnedSupply         float64 `json:"burnedSupply"`
	FormattedTotal       string  `json:"formattedTotal"`
	FormattedCirculating string  `json:"formattedCirculating"`
	FormattedBurned      string  `json:"formattedBurned"`
	UpdatedAt            int64   `json:"updatedAt,omitempty"`
}

// TokenPrice is the result of a direct or cross-pair price lookup.
type TokenPrice struct {
	Address        string  `json:"address"`
	Symbol         string  `json:"symbol,omitempty"`
	PriceUSD       float64 `json:"priceUSD"`
	FormattedPrice string  `json:"formattedPrice"`
	Source         string  `json:"source"`
}
