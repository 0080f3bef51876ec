package dex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	supplyPath  = "/supply"
	summaryPath = "/summary"
	tokensPath  = "/tokens"
	pairsPath   = "/pairs"
)

// ClientOptions parameterise the aggregator client.
type ClientOptions struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Client fetches raw aggregate data from the DEX pricing API. It owns no
// retry or cache; a failed fetch is returned as an error for the caller to
// wrap into a structured result.
type Client struct {
	opts    ClientOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewClient constructs an aggregator client.
func NewClient(opts ClientOptions, logger zerolog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.vvs.finance/info/api"
	}

	return &Client{
		opts:    opts,
		logger:  logger.With().Str("component", "dex_client").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Supply fetches and cleans the aggregator's token supply figures.
func (c *Client) Supply(ctx context.Context) (*SupplyInfo, error) {
	body, err := c.get(ctx, supplyPath)
	if err != nil {
		return nil, err
	}

	var payload struct {
		TotalSupply       string `json:"total_supply"`
		CirculatingSupply string `json:"circulating_supply"`
		BurnedSupply      string `json:"burned_supply"`
		UpdatedAt         int64  `json:"updated_at"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode supply response: %w", err)
	}

	total := SanitizeNumber(payload.TotalSupply)
	circulating := SanitizeNumber(payload.CirculatingSupply)
	burned := SanitizeNumber(payload.BurnedSupply)

	return &SupplyInfo{
		TotalSupply:          total,
		CirculatingSupply:    circulating,
		BurnedSupply:         burned,
		FormattedTotal:       FormatTokenAmount(total),
		FormattedCirculating: FormatTokenAmount(circulating),
		FormattedBurned:      FormatTokenAmount(burned),
		UpdatedAt:            payload.UpdatedAt,
	}, nil
}

// Summary fetches the per-pair summary feed in aggregator emission order.
func (c *Client) Summary(ctx context.Context) ([]RawPairEntry, int64, error) {
	return c.fetchPairs(ctx, summaryPath)
}

// Pairs fetches the full pair feed in aggregator emission order.
func (c *Client) Pairs(ctx context.Context) ([]RawPairEntry, int64, error) {
	return c.fetchPairs(ctx, pairsPath)
}

func (c *Client) fetchPairs(ctx context.Context, path string) ([]RawPairEntry, int64, error) {
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, 0, err
	}

	entries := make([]RawPairEntry, 0, 64)
	updatedAt, err := decodeKeyedData(body, func(key string, rec RawPairRecord) {
		entries = append(entries, RawPairEntry{PairID: key, Record: rec})
	})
	if err != nil {
		return nil, 0, fmt.Errorf("decode %s response: %w", path, err)
	}
	return entries, updatedAt, nil
}

// Tokens fetches the token feed in aggregator emission order.
func (c *Client) Tokens(ctx context.Context) ([]RawTokenEntry, int64, error) {
	body, err := c.get(ctx, tokensPath)
	if err != nil {
		return nil, 0, err
	}

	entries := make([]RawTokenEntry, 0, 64)
	updatedAt, err := decodeKeyedData(body, func(key string, rec RawTokenRecord) {
		entries = append(entries, RawTokenEntry{Address: key, Record: rec})
	})
	if err != nil {
		return nil, 0, fmt.Errorf("decode tokens response: %w", err)
	}
	return entries, updatedAt, nil
}

// TokenByAddress fetches a single token record.
func (c *Client) TokenByAddress(ctx context.Context, address string) (*RawTokenRecord, int64, error) {
	body, err := c.get(ctx, tokensPath+"/"+address)
	if err != nil {
		return nil, 0, err
	}

	var payload struct {
		Data      RawTokenRecord `json:"data"`
		UpdatedAt int64          `json:"updated_at"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, 0, fmt.Errorf("decode token response: %w", err)
	}
	return &payload.Data, payload.UpdatedAt, nil
}

// LookupTokenPrice resolves a token's USD price: first via the direct token
// endpoint, then, only if that fetch fails or yields no valid price, by
// scanning the pair feed for an ordered list of candidate pair ids
// (wrapped-native quote first, then USDC). Lookups run sequentially with
// early exit on the first valid price.
func (c *Client) LookupTokenPrice(ctx context.Context, norm *Normalizer, address string) (*TokenPrice, error) {
	rec, _, err := c.TokenByAddress(ctx, address)
	if err == nil {
		token := norm.NormalizeToken(address, *rec)
		if token.DataQuality.HasValidUSDPrice {
			return &TokenPrice{
				Address:        address,
				Symbol:         token.Symbol,
				PriceUSD:       token.PriceUSD,
				FormattedPrice: token.Formatted.PriceUSD,
				Source:         "tokens",
			}, nil
		}
	} else {
		c.logger.Debug().Err(err).Str("address", address).Msg("direct token lookup failed; trying pair feed")
	}

	entries, _, err := c.Pairs(ctx)
	if err != nil {
		return nil, fmt.Errorf("fallback pair lookup: %w", err)
	}

	candidates := []string{
		address + "_" + WCROAddress,
		address + "_" + USDCAddress,
	}

	for _, candidate := range candidates {
		for _, entry := range entries {
			if !strings.EqualFold(entry.PairID, candidate) {
				continue
			}
			pair := norm.NormalizePair(entry.PairID, entry.Record)
			if !pair.DataQuality.HasValidPrice {
				continue
			}
			return &TokenPrice{
				Address:        address,
				Symbol:         pair.BaseSymbol,
				PriceUSD:       pair.LastPrice,
				FormattedPrice: pair.Formatted.LastPrice,
				Source:         "pair:" + entry.PairID,
			}, nil
		}
	}

	return nil, fmt.Errorf("no valid price found for token %s", address)
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(c.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	} else {
		req.Header.Set("User-Agent", "cronoscope/1.0")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseHTTPError(resp.StatusCode, payload)
	}

	return payload, nil
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func parseHTTPError(status int, payload []byte) error {
	var apiErr errorResponse
	if err := json.Unmarshal(payload, &apiErr); err == nil {
		if apiErr.Error != "" {
			return fmt.Errorf("dex api error (%d): %s", status, apiErr.Error)
		}
		if apiErr.Message != "" {
			return fmt.Errorf("dex api error (%d): %s", status, apiErr.Message)
		}
	}
	if len(payload) > 0 {
		return fmt.Errorf("dex api error (%d): %s", status, strings.TrimSpace(string(payload)))
	}
	return fmt.Errorf("dex api error (%d)", status)
}

// decodeKeyedData walks a {"updated_at": ..., "data": {key: record}} body
// with a streaming decoder so record emission order is preserved; Go maps
// would shuffle it and break stable batch ordering.
func decodeKeyedData[T any](body []byte, emit func(key string, rec T)) (int64, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	if err := expectDelim(dec, '{'); err != nil {
		return 0, err
	}

	var updatedAt int64
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return 0, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return 0, fmt.Errorf("unexpected token %v", keyTok)
		}

		switch key {
		case "updated_at":
			var n json.Number
			if err := dec.Decode(&n); err != nil {
				return 0, err
			}
			if v, err := n.Int64(); err == nil {
				updatedAt = v
			}
		case "data":
			if err := expectDelim(dec, '{'); err != nil {
				return 0, err
			}
			for dec.More() {
				idTok, err := dec.Token()
				if err != nil {
					return 0, err
				}
				id, ok := idTok.(string)
				if !ok {
					return 0, fmt.Errorf("unexpected token %v", idTok)
				}
				var rec T
				if err := dec.Decode(&rec); err != nil {
					return 0, err
				}
				emit(id, rec)
			}
			if _, err := dec.Token(); err != nil {
				return 0, err
			}
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return 0, err
			}
		}
	}

	return updatedAt, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
