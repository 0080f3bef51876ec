package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"cronoscope/internal/dex"
)

// Options parameterise the explorer/developer-platform client.
type Options struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	UserAgent string
}

// Client talks to the explorer API for the lookups the RPC node cannot
// serve: per-address transaction history, DeFi farm listings, and .cro
// domain resolution.
type Client struct {
	opts    Options
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewClient constructs a platform client.
func NewClient(opts Options, logger zerolog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		opts:    opts,
		logger:  logger.With().Str("component", "platform_client").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
	}
}

// AddressTransaction is one entry of an address's transaction history.
type AddressTransaction struct {
	Hash      string          `json:"hash"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	ValueCRO  decimal.Decimal `json:"valueCRO"`
	Timestamp int64           `json:"timestamp"`
	Status    string          `json:"status"`
}

// TransactionsByAddress returns the most recent transactions of an address.
func (c *Client) TransactionsByAddress(ctx context.Context, address string, limit int) ([]AddressTransaction, error) {
	if limit <= 0 {
		limit = 20
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	body, err := c.get(ctx, "/account/"+address+"/transactions", query)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data []struct {
			Hash      string `json:"hash"`
			From      string `json:"from"`
			To        string `json:"to"`
			Value     string `json:"value"`
			Timestamp int64  `json:"timestamp"`
			Status    string `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode transactions response: %w", err)
	}

	txs := make([]AddressTransaction, 0, len(payload.Data))
	for _, entry := range payload.Data {
		value := decimal.Zero
		if wei, err := decimal.NewFromString(entry.Value); err == nil {
			value = wei.Shift(-18)
		}
		txs = append(txs, AddressTransaction{
			Hash:      entry.Hash,
			From:      entry.From,
			To:        entry.To,
			ValueCRO:  value,
			Timestamp: entry.Timestamp,
			Status:    entry.Status,
		})
	}
	return txs, nil
}

// Farm is one DeFi farm listing. TVL and APR arrive string-encoded from the
// platform API and go through the same sanitization as DEX aggregates.
type Farm struct {
	PairName     string  `json:"pairName"`
	LPAddress    string  `json:"lpAddress"`
	BaseSymbol   string  `json:"baseSymbol"`
	QuoteSymbol  string  `json:"quoteSymbol"`
	APR          float64 `json:"apr"`
	TVL          float64 `json:"tvl"`
	FormattedTVL string  `json:"formattedTVL"`
	RewardToken  string  `json:"rewardToken"`
	Multiplier   string  `json:"multiplier"`
}

// Farms lists the active DeFi farms.
func (c *Client) Farms(ctx context.Context) ([]Farm, error) {
	body, err := c.get(ctx, "/defi/farms", nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data []struct {
			PairName    string `json:"pair_name"`
			LPAddress   string `json:"lp_address"`
			BaseSymbol  string `json:"base_symbol"`
			QuoteSymbol string `json:"quote_symbol"`
			APR         string `json:"apr"`
			TVL         string `json:"tvl"`
			RewardToken string `json:"reward_token"`
			Multiplier  string `json:"multiplier"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode farms response: %w", err)
	}

	farms := make([]Farm, 0, len(payload.Data))
	for _, entry := range payload.Data {
		tvl := dex.SanitizeNumber(entry.TVL)
		farms = append(farms, Farm{
			PairName:     entry.PairName,
			LPAddress:    entry.LPAddress,
			BaseSymbol:   entry.BaseSymbol,
			QuoteSymbol:  entry.QuoteSymbol,
			APR:          dex.SanitizeNumber(entry.APR),
			TVL:          tvl,
			FormattedTVL: dex.FormatCurrency(tvl),
			RewardToken:  entry.RewardToken,
			Multiplier:   entry.Multiplier,
		})
	}
	return farms, nil
}

// FarmBySymbol returns the farm whose pair name or either leg matches the
// given symbol (case-insensitive). A miss is a nil farm, not an error.
func (c *Client) FarmBySymbol(ctx context.Context, symbol string) (*Farm, error) {
	farms, err := c.Farms(ctx)
	if err != nil {
		return nil, err
	}

	for i := range farms {
		farm := &farms[i]
		if strings.EqualFold(farm.PairName, symbol) ||
			strings.EqualFold(farm.BaseSymbol, symbol) ||
			strings.EqualFold(farm.QuoteSymbol, symbol) {
			return farm, nil
		}
	}
	return nil, nil
}

// DomainResolution is the outcome of a forward or reverse domain lookup.
// Found=false is a legitimate miss, not an error.
type DomainResolution struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
	Found   bool   `json:"found"`
}

// ResolveDomain resolves a .cro name to an address.
func (c *Client) ResolveDomain(ctx context.Context, name string) (*DomainResolution, error) {
	query := url.Values{}
	query.Set("name", name)

	body, err := c.get(ctx, "/domains/resolve", query)
	if err != nil {
		if isNotFound(err) {
			return &DomainResolution{Name: name, Found: false}, nil
		}
		return nil, err
	}

	var payload struct {
		Data struct {
			Address string `json:"address"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode resolve response: %w", err)
	}

	if payload.Data.Address == "" {
		return &DomainResolution{Name: name, Found: false}, nil
	}
	return &DomainResolution{Name: name, Address: payload.Data.Address, Found: true}, nil
}

// LookupAddress reverse-resolves an address to its .cro name.
func (c *Client) LookupAddress(ctx context.Context, address string) (*DomainResolution, error) {
	query := url.Values{}
	query.Set("address", address)

	body, err := c.get(ctx, "/domains/reverse", query)
	if err != nil {
		if isNotFound(err) {
			return &DomainResolution{Address: address, Found: false}, nil
		}
		return nil, err
	}

	var payload struct {
		Data struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode reverse response: %w", err)
	}

	if payload.Data.Name == "" {
		return &DomainResolution{Address: address, Found: false}, nil
	}
	return &DomainResolution{Address: address, Name: payload.Data.Name, Found: true}, nil
}

type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string {
	if e.message != "" {
		return fmt.Sprintf("platform api error (%d): %s", e.status, e.message)
	}
	return fmt.Sprintf("platform api error (%d)", e.status)
}

func isNotFound(err error) bool {
	apiErr, ok := err.(*apiError)
	return ok && apiErr.status == http.StatusNotFound
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("platform base url not configured")
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.opts.APIKey != "" {
		req.Header.Set("x-api-key", c.opts.APIKey)
	}
	if ua := strings.TrimSpace(c.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
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
		var parsed struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		message := strings.TrimSpace(string(payload))
		if err := json.Unmarshal(payload, &parsed); err == nil {
			if parsed.Error != "" {
				message = parsed.Error
			} else if parsed.Message != "" {
				message = parsed.Message
			}
		}
		return nil, &apiError{status: resp.StatusCode, message: message}
	}

	return payload, nil
}
