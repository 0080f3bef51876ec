package dex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return NewClient(ClientOptions{
		BaseURL:   baseURL,
		Timeout:   time.Second,
		UserAgent: "test",
	}, zerolog.Nop())
}

func TestPairsPreservesEmissionOrder(t *testing.T) {
	body := `{
		"updated_at": 1700000000,
		"data": {
			"0xC_0xD": {"base_symbol": "BBB", "quote_symbol": "WCRO", "liquidity": "200", "last_price": "2"},
			"0xA_0xB": {"base_symbol": "AAA", "quote_symbol": "WCRO", "liquidity": "100", "last_price": "1"},
			"0xE_0xF": {"base_symbol": "CCC", "quote_symbol": "WCRO", "liquidity": "300", "last_price": "3"}
		}
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pairs", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	entries, updatedAt, err := newTestClient(srv.URL).Pairs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1700000000), updatedAt)
	require.Len(t, entries, 3)
	assert.Equal(t, "0xC_0xD", entries[0].PairID)
	assert.Equal(t, "0xA_0xB", entries[1].PairID)
	assert.Equal(t, "0xE_0xF", entries[2].PairID)
	assert.Equal(t, "BBB", entries[0].Record.BaseSymbol)
}

func TestPairsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error": "upstream unavailable"}`))
	}))
	defer srv.Close()

	_, _, err := newTestClient(srv.URL).Pairs(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream unavailable")
}

func TestPairsMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	_, _, err := newTestClient(srv.URL).Pairs(context.Background())
	require.Error(t, err)
}

func TestTokensParsesRecords(t *testing.T) {
	body := `{
		"updated_at": 1700000001,
		"data": {
			"0x1": {"name": "Token One", "symbol": "ONE", "price": "1.5", "price_CRO": "20"},
			"0x2": {"name": "Token Two", "symbol": "TWO", "price": "0.5", "price_CRO": "6"}
		}
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tokens", r.URL.Path)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	entries, _, err := newTestClient(srv.URL).Tokens(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "0x1", entries[0].Address)
	assert.Equal(t, "ONE", entries[0].Record.Symbol)
}

func TestSupplySanitizesAndFormats(t *testing.T) {
	body := `{"total_supply": "50000000000", "circulating_supply": "23000000000", "burned_supply": "garbage", "updated_at": 5}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/supply", r.URL.Path)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	supply, err := newTestClient(srv.URL).Supply(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5e10, supply.TotalSupply)
	assert.Equal(t, "50.00B", supply.FormattedTotal)
	assert.Equal(t, 0.0, supply.BurnedSupply)
	assert.Equal(t, "0.00", supply.FormattedBurned)
	assert.Equal(t, int64(5), supply.UpdatedAt)
}

func TestLookupTokenPriceDirectHit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tokens/0xAAA", r.URL.Path)
		_, _ = w.Write([]byte(`{"data": {"symbol": "AAA", "price": "2.5", "price_CRO": "30"}, "updated_at": 1}`))
	}))
	defer srv.Close()

	price, err := newTestClient(srv.URL).LookupTokenPrice(context.Background(), testNormalizer(), "0xAAA")
	require.NoError(t, err)

	assert.Equal(t, 2.5, price.PriceUSD)
	assert.Equal(t, "tokens", price.Source)
}

func TestLookupTokenPriceFallsBackToPairFeed(t *testing.T) {
	var pairsFetched bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tokens/0xAAA":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error": "boom"}`))
		case "/pairs":
			pairsFetched = true
			_, _ = w.Write([]byte(`{
				"updated_at": 1,
				"data": {
					"0xAAA_` + USDCAddress + `": {"base_symbol": "AAA", "quote_symbol": "USDC", "liquidity": "5000", "last_price": "1.75"},
					"0xAAA_` + WCROAddress + `": {"base_symbol": "AAA", "quote_symbol": "WCRO", "liquidity": "9000", "last_price": "2.25"}
				}
			}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	price, err := newTestClient(srv.URL).LookupTokenPrice(context.Background(), testNormalizer(), "0xAAA")
	require.NoError(t, err)

	assert.True(t, pairsFetched)
	// The wrapped-native candidate is tried first even though the USDC
	// pair appears earlier in the feed.
	assert.Equal(t, 2.25, price.PriceUSD)
	assert.Equal(t, "pair:0xAAA_"+WCROAddress, price.Source)
}

func TestLookupTokenPriceNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tokens/0xAAA":
			w.WriteHeader(http.StatusNotFound)
		case "/pairs":
			_, _ = w.Write([]byte(`{"updated_at": 1, "data": {}}`))
		}
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).LookupTokenPrice(context.Background(), testNormalizer(), "0xAAA")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no valid price")
}
