package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const erc20ABIJSON = `[
{"inputs":[{"internalType":"address","name":"account","type":"address"}],"name":"balanceOf","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
{"inputs":[],"name":"decimals","outputs":[{"internalType":"uint8","name":"","type":"uint8"}],"stateMutability":"view","type":"function"},
{"inputs":[],"name":"symbol","outputs":[{"internalType":"string","name":"","type":"string"}],"stateMutability":"view","type":"function"}]`

var erc20ABI abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		panic("failed to parse ERC-20 ABI: " + err.Error())
	}
	erc20ABI = parsed
}

// Options parameterise the RPC client.
type Options struct {
	RPCURL  string
	ChainID int64
	Timeout time.Duration
}

// Client provides read-only chain lookups over Cronos RPC.
type Client struct {
	opts      Options
	logger    zerolog.Logger
	client    *ethclient.Client
	clientMux sync.Mutex
}

// NewClient builds a new chain client. The RPC connection is dialled lazily
// on first use.
func NewClient(opts Options, logger zerolog.Logger) *Client {
	return &Client{opts: opts, logger: logger.With().Str("component", "chain_client").Logger()}
}

// NativeBalance returns the CRO balance of an address, together with the
// block height the balance was read at.
func (c *Client) NativeBalance(ctx context.Context, address string) (decimal.Decimal, uint64, error) {
	if !common.IsHexAddress(address) {
		return decimal.Decimal{}, 0, fmt.Errorf("invalid address %q", address)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	client, err := c.getClient(ctx)
	if err != nil {
		return decimal.Decimal{}, 0, err
	}

	blockNumber, err := client.BlockNumber(ctx)
	if err != nil {
		return decimal.Decimal{}, 0, err
	}

	wei, err := client.BalanceAt(ctx, common.HexToAddress(address), new(big.Int).SetUint64(blockNumber))
	if err != nil {
		return decimal.Decimal{}, 0, err
	}

	return decimal.NewFromBigInt(wei, -18), blockNumber, nil
}

// ERC20Balance returns a holder's balance of an ERC-20 token, adjusted by
// the token's own decimals, plus the token symbol when readable.
func (c *Client) ERC20Balance(ctx context.Context, token, holder string) (decimal.Decimal, string, error) {
	if !common.IsHexAddress(token) {
		return decimal.Decimal{}, "", fmt.Errorf("invalid token address %q", token)
	}
	if !common.IsHexAddress(holder) {
		return decimal.Decimal{}, "", fmt.Errorf("invalid holder address %q", holder)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	client, err := c.getClient(ctx)
	if err != nil {
		return decimal.Decimal{}, "", err
	}

	tokenAddr := common.HexToAddress(token)

	raw, err := c.callUint(ctx, client, tokenAddr, "balanceOf", common.HexToAddress(holder))
	if err != nil {
		return decimal.Decimal{}, "", fmt.Errorf("balanceOf call: %w", err)
	}

	decimals := int32(18)
	if d, err := c.callUint(ctx, client, tokenAddr, "decimals"); err == nil {
		decimals = int32(d.Int64())
	}

	symbol := ""
	if s, err := c.callString(ctx, client, tokenAddr, "symbol"); err == nil {
		symbol = s
	}

	return decimal.NewFromBigInt(raw, -decimals), symbol, nil
}

// BlockInfo is a condensed block summary.
type BlockInfo struct {
	Number     uint64 `json:"number"`
	Hash       string `json:"hash"`
	ParentHash string `json:"parentHash"`
	Timestamp  uint64 `json:"timestamp"`
	TxCount    int    `json:"txCount"`
	GasUsed    uint64 `json:"gasUsed"`
	GasLimit   uint64 `json:"gasLimit"`
}

// BlockByNumber returns a block summary; number nil means latest.
func (c *Client) BlockByNumber(ctx context.Context, number *big.Int) (*BlockInfo, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	client, err := c.getClient(ctx)
	if err != nil {
		return nil, err
	}

	block, err := client.BlockByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	return &BlockInfo{
		Number:     block.NumberU64(),
		Hash:       block.Hash().Hex(),
		ParentHash: block.ParentHash().Hex(),
		Timestamp:  block.Time(),
		TxCount:    len(block.Transactions()),
		GasUsed:    block.GasUsed(),
		GasLimit:   block.GasLimit(),
	}, nil
}

// TransactionInfo is a condensed transaction summary.
type TransactionInfo struct {
	Hash     string          `json:"hash"`
	To       string          `json:"to,omitempty"`
	ValueCRO decimal.Decimal `json:"valueCRO"`
	Gas      uint64          `json:"gas"`
	GasPrice string          `json:"gasPrice"`
	Nonce    uint64          `json:"nonce"`
	Pending  bool            `json:"pending"`
}

// TransactionByHash returns a transaction summary.
func (c *Client) TransactionByHash(ctx context.Context, hash string) (*TransactionInfo, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	client, err := c.getClient(ctx)
	if err != nil {
		return nil, err
	}

	tx, pending, err := client.TransactionByHash(ctx, common.HexToHash(hash))
	if err != nil {
		return nil, err
	}

	info := &TransactionInfo{
		Hash:     tx.Hash().Hex(),
		ValueCRO: decimal.NewFromBigInt(tx.Value(), -18),
		Gas:      tx.Gas(),
		GasPrice: tx.GasPrice().String(),
		Nonce:    tx.Nonce(),
		Pending:  pending,
	}
	if to := tx.To(); to != nil {
		info.To = to.Hex()
	}
	return info, nil
}

// Transaction execution states.
const (
	StatusSuccess  = "success"
	StatusFailed   = "failed"
	StatusPending  = "pending"
	StatusNotFound = "not_found"
)

// TransactionStatus resolves the execution state of a transaction.
func (c *Client) TransactionStatus(ctx context.Context, hash string) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	client, err := c.getClient(ctx)
	if err != nil {
		return "", err
	}

	receipt, err := client.TransactionReceipt(ctx, common.HexToHash(hash))
	if err == nil {
		if receipt.Status == 1 {
			return StatusSuccess, nil
		}
		return StatusFailed, nil
	}
	if !errors.Is(err, ethereum.NotFound) {
		return "", err
	}

	_, pending, err := client.TransactionByHash(ctx, common.HexToHash(hash))
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return StatusNotFound, nil
		}
		return "", err
	}
	if pending {
		return StatusPending, nil
	}
	return StatusNotFound, nil
}

func (c *Client) callUint(ctx context.Context, client *ethclient.Client, to common.Address, method string, args ...interface{}) (*big.Int, error) {
	outputs, err := c.call(ctx, client, to, method, args...)
	if err != nil {
		return nil, err
	}
	if len(outputs) != 1 {
		return nil, fmt.Errorf("unexpected %s response", method)
	}
	switch v := outputs[0].(type) {
	case *big.Int:
		return v, nil
	case uint8:
		return big.NewInt(int64(v)), nil
	default:
		return nil, fmt.Errorf("failed to decode %s output", method)
	}
}

func (c *Client) callString(ctx context.Context, client *ethclient.Client, to common.Address, method string) (string, error) {
	outputs, err := c.call(ctx, client, to, method)
	if err != nil {
		return "", err
	}
	if len(outputs) != 1 {
		return "", fmt.Errorf("unexpected %s response", method)
	}
	s, ok := outputs[0].(string)
	if !ok {
		return "", fmt.Errorf("failed to decode %s output", method)
	}
	return s, nil
}

func (c *Client) call(ctx context.Context, client *ethclient.Client, to common.Address, method string, args ...interface{}) ([]interface{}, error) {
	payload, err := erc20ABI.Pack(method, args...)
	if err != nil {
		return nil, err
	}

	res, err := client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: payload}, nil)
	if err != nil {
		return nil, err
	}

	return erc20ABI.Unpack(method, res)
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := c.opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

func (c *Client) getClient(ctx context.Context) (*ethclient.Client, error) {
	c.clientMux.Lock()
	defer c.clientMux.Unlock()

	if c.client != nil {
		return c.client, nil
	}
	if c.opts.RPCURL == "" {
		return nil, errors.New("rpc url not configured")
	}

	client, err := ethclient.DialContext(ctx, c.opts.RPCURL)
	if err != nil {
		return nil, err
	}
	c.client = client
	return client, nil
}
