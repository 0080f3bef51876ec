package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const tickersPath = "/public/get-tickers"

// Options parameterise the exchange client.
type Options struct {
	BaseURL string
	Timeout time.Duration
}

// Client fetches public tickers from the exchange API.
type Client struct {
	opts    Options
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewClient constructs an exchange client.
func NewClient(opts Options, logger zerolog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.crypto.com/exchange/v1"
	}

	return &Client{
		opts:    opts,
		logger:  logger.With().Str("component", "exchange_client").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Ticker is one instrument's 24h market snapshot.
type Ticker struct {
	Instrument string          `json:"instrument"`
	LastPrice  decimal.Decimal `json:"lastPrice"`
	BestBid    decimal.Decimal `json:"bestBid"`
	BestAsk    decimal.Decimal `json:"bestAsk"`
	High24h    decimal.Decimal `json:"high24h"`
	Low24h     decimal.Decimal `json:"low24h"`
	Volume24h  decimal.Decimal `json:"volume24h"`
	Change24h  decimal.Decimal `json:"change24h"`
	Timestamp  int64           `json:"timestamp"`
}

type tickerEntry struct {
	Instrument string `json:"i"`
	High       string `json:"h"`
	Low        string `json:"l"`
	Last       string `json:"a"`
	Volume     string `json:"v"`
	Change     string `json:"c"`
	Bid        string `json:"b"`
	Ask        string `json:"k"`
	Timestamp  int64  `json:"t"`
}

type tickersResponse struct {
	Code   int    `json:"code"`
	Result struct {
		Data []tickerEntry `json:"data"`
	} `json:"result"`
	Message string `json:"message"`
}

// Tickers returns all instruments, or a single one when instrument is
// non-empty.
func (c *Client) Tickers(ctx context.Context, instrument string) ([]Ticker, error) {
	endpoint := c.baseURL + tickersPath
	if instrument != "" {
		query := url.Values{}
		query.Set("instrument_name", instrument)
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

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
		return nil, fmt.Errorf("exchange api error (%d): %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var parsed tickersResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, fmt.Errorf("decode tickers response: %w", err)
	}
	if parsed.Code != 0 {
		return nil, fmt.Errorf("exchange api error: code %d %s", parsed.Code, parsed.Message)
	}

	tickers := make([]Ticker, 0, len(parsed.Result.Data))
	for _, entry := range parsed.Result.Data {
		tickers = append(tickers, Ticker{
			Instrument: entry.Instrument,
			LastPrice:  parseDecimal(entry.Last),
			BestBid:    parseDecimal(entry.Bid),
			BestAsk:    parseDecimal(entry.Ask),
			High24h:    parseDecimal(entry.High),
			Low24h:     parseDecimal(entry.Low),
			Volume24h:  parseDecimal(entry.Volume),
			Change24h:  parseDecimal(entry.Change),
			Timestamp:  entry.Timestamp,
		})
	}
	return tickers, nil
}

// TickerByInstrument returns a single instrument's ticker; a miss is a nil
// ticker, not an error.
func (c *Client) TickerByInstrument(ctx context.Context, instrument string) (*Ticker, error) {
	tickers, err := c.Tickers(ctx, instrument)
	if err != nil {
		return nil, err
	}
	for i := range tickers {
		if strings.EqualFold(tickers[i].Instrument, instrument) {
			return &tickers[i], nil
		}
	}
	return nil, nil
}

func parseDecimal(raw string) decimal.Decimal {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero
	}
	return v
}
