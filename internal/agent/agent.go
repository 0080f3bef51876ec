package agent

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"cronoscope/internal/chain"
	"cronoscope/internal/dex"
	"cronoscope/internal/exchange"
	"cronoscope/internal/platform"
)

// Result statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result is the envelope every agent operation resolves to. Errors from the
// underlying clients are folded into an error-status result here; nothing
// panics or leaks a raw error across the tool boundary.
type Result struct {
	Status    string `json:"status"`
	Network   string `json:"network,omitempty"`
	Protocol  string `json:"protocol,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Data      any    `json:"data,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Clients bundles the external collaborators the agent forwards to.
type Clients struct {
	Chain    *chain.Client
	Platform *platform.Client
	Dex      *dex.Client
	Exchange *exchange.Client
}

// Agent is a thin facade over the chain, platform, DEX, and exchange
// clients. It owns no business logic beyond envelope normalization and the
// DEX data-quality pipeline it delegates to.
type Agent struct {
	clients    Clients
	normalizer *dex.Normalizer
	network    string
	dexLimit   int
	logger     zerolog.Logger
	now        func() time.Time
}

// New constructs an agent for the given network.
func New(clients Clients, normalizer *dex.Normalizer, network string, dexLimit int, logger zerolog.Logger) *Agent {
	if dexLimit <= 0 {
		dexLimit = 10
	}
	return &Agent{
		clients:    clients,
		normalizer: normalizer,
		network:    network,
		dexLimit:   dexLimit,
		logger:     logger.With().Str("component", "agent").Logger(),
		now:        time.Now,
	}
}

func (a *Agent) success(data any) Result {
	return Result{
		Status:    StatusSuccess,
		Network:   a.network,
		Timestamp: a.now().UTC().Format(time.RFC3339),
		Data:      data,
	}
}

func (a *Agent) failure(op string, err error) Result {
	a.logger.Error().Err(err).Str("operation", op).Msg("operation failed")
	return Result{
		Status:    StatusError,
		Network:   a.network,
		Timestamp: a.now().UTC().Format(time.RFC3339),
		Message:   err.Error(),
	}
}

func (a *Agent) dexSuccess(data any) Result {
	result := a.success(data)
	result.Protocol = "vvs-finance"
	return result
}

// NativeBalance returns an address's CRO balance.
func (a *Agent) NativeBalance(ctx context.Context, address string) Result {
	balance, blockNumber, err := a.clients.Chain.NativeBalance(ctx, address)
	if err != nil {
		return a.failure("native_balance", err)
	}
	return a.success(map[string]any{
		"address":     address,
		"balanceCRO":  balance,
		"blockNumber": blockNumber,
	})
}

// ERC20Balance returns a holder's balance of an ERC-20 token.
func (a *Agent) ERC20Balance(ctx context.Context, token, holder string) Result {
	balance, symbol, err := a.clients.Chain.ERC20Balance(ctx, token, holder)
	if err != nil {
		return a.failure("erc20_balance", err)
	}
	return a.success(map[string]any{
		"token":   token,
		"holder":  holder,
		"balance": balance,
		"symbol":  symbol,
	})
}

// Block returns a block summary; an empty tag means latest.
func (a *Agent) Block(ctx context.Context, tag string) Result {
	var number *big.Int
	if tag != "" && tag != "latest" {
		parsed, err := strconv.ParseUint(tag, 10, 64)
		if err != nil {
			return a.failure("block", fmt.Errorf("invalid block number %q", tag))
		}
		number = new(big.Int).SetUint64(parsed)
	}

	block, err := a.clients.Chain.BlockByNumber(ctx, number)
	if err != nil {
		return a.failure("block", err)
	}
	return a.success(block)
}

// Transaction returns a transaction summary by hash.
func (a *Agent) Transaction(ctx context.Context, hash string) Result {
	tx, err := a.clients.Chain.TransactionByHash(ctx, hash)
	if err != nil {
		return a.failure("transaction", err)
	}
	return a.success(tx)
}

// TransactionStatus resolves a transaction's execution state.
func (a *Agent) TransactionStatus(ctx context.Context, hash string) Result {
	status, err := a.clients.Chain.TransactionStatus(ctx, hash)
	if err != nil {
		return a.failure("transaction_status", err)
	}
	return a.success(map[string]any{"hash": hash, "txStatus": status})
}

// TransactionsByAddress returns recent transactions for an address.
func (a *Agent) TransactionsByAddress(ctx context.Context, address string, limit int) Result {
	txs, err := a.clients.Platform.TransactionsByAddress(ctx, address, limit)
	if err != nil {
		return a.failure("transactions_by_address", err)
	}
	return a.success(map[string]any{"address": address, "transactions": txs})
}

// Farms lists active DeFi farms.
func (a *Agent) Farms(ctx context.Context) Result {
	farms, err := a.clients.Platform.Farms(ctx)
	if err != nil {
		return a.failure("farms", err)
	}
	return a.success(map[string]any{"farms": farms, "count": len(farms)})
}

// FarmBySymbol returns one farm by pair or leg symbol.
func (a *Agent) FarmBySymbol(ctx context.Context, symbol string) Result {
	farm, err := a.clients.Platform.FarmBySymbol(ctx, symbol)
	if err != nil {
		return a.failure("farm_by_symbol", err)
	}
	if farm == nil {
		return a.success(map[string]any{"symbol": symbol, "found": false})
	}
	return a.success(map[string]any{"symbol": symbol, "found": true, "farm": farm})
}

// ResolveDomain resolves a .cro name to an address.
func (a *Agent) ResolveDomain(ctx context.Context, name string) Result {
	resolution, err := a.clients.Platform.ResolveDomain(ctx, name)
	if err != nil {
		return a.failure("resolve_domain", err)
	}
	return a.success(resolution)
}

// LookupAddress reverse-resolves an address to a .cro name.
func (a *Agent) LookupAddress(ctx context.Context, address string) Result {
	resolution, err := a.clients.Platform.LookupAddress(ctx, address)
	if err != nil {
		return a.failure("lookup_address", err)
	}
	return a.success(resolution)
}

// DexSummary normalizes the aggregator's summary feed.
func (a *Agent) DexSummary(ctx context.Context, limit int) Result {
	entries, updatedAt, err := a.clients.Dex.Summary(ctx)
	if err != nil {
		return a.failure("dex_summary", err)
	}
	batch := a.normalizer.NormalizePairBatch(entries, a.resolveLimit(limit))
	batch.UpdatedAt = updatedAt
	return a.dexSuccess(batch)
}

// DexPairs normalizes the aggregator's pair feed.
func (a *Agent) DexPairs(ctx context.Context, limit int) Result {
	entries, updatedAt, err := a.clients.Dex.Pairs(ctx)
	if err != nil {
		return a.failure("dex_pairs", err)
	}
	batch := a.normalizer.NormalizePairBatch(entries, a.resolveLimit(limit))
	batch.UpdatedAt = updatedAt
	return a.dexSuccess(batch)
}

// DexTokens normalizes the aggregator's token feed.
func (a *Agent) DexTokens(ctx context.Context) Result {
	entries, updatedAt, err := a.clients.Dex.Tokens(ctx)
	if err != nil {
		return a.failure("dex_tokens", err)
	}
	batch := a.normalizer.NormalizeTokenBatch(entries)
	batch.UpdatedAt = updatedAt
	return a.dexSuccess(batch)
}

// DexTokenPrice resolves a token's USD price with cross-pair fallback.
func (a *Agent) DexTokenPrice(ctx context.Context, address string) Result {
	price, err := a.clients.Dex.LookupTokenPrice(ctx, a.normalizer, address)
	if err != nil {
		return a.failure("dex_token_price", err)
	}
	return a.dexSuccess(price)
}

// DexSupply returns cleaned token supply figures.
func (a *Agent) DexSupply(ctx context.Context) Result {
	supply, err := a.clients.Dex.Supply(ctx)
	if err != nil {
		return a.failure("dex_supply", err)
	}
	return a.dexSuccess(supply)
}

// Tickers returns all exchange tickers.
func (a *Agent) Tickers(ctx context.Context) Result {
	tickers, err := a.clients.Exchange.Tickers(ctx, "")
	if err != nil {
		return a.failure("tickers", err)
	}
	return a.success(map[string]any{"tickers": tickers, "count": len(tickers)})
}

// Ticker returns one instrument's ticker.
func (a *Agent) Ticker(ctx context.Context, instrument string) Result {
	ticker, err := a.clients.Exchange.TickerByInstrument(ctx, instrument)
	if err != nil {
		return a.failure("ticker", err)
	}
	if ticker == nil {
		return a.success(map[string]any{"instrument": instrument, "found": false})
	}
	return a.success(map[string]any{"instrument": instrument, "found": true, "ticker": ticker})
}

func (a *Agent) resolveLimit(limit int) int {
	if limit > 0 {
		return limit
	}
	return a.dexLimit
}
