package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"cronoscope/internal/agent"
	"cronoscope/internal/version"
)

// NewServer builds the MCP server with every analytics tool registered.
func NewServer(ag *agent.Agent, logger zerolog.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		"cronoscope",
		version.Version,
		server.WithToolCapabilities(false),
	)

	h := &handlers{agent: ag, logger: logger.With().Str("component", "mcpserver").Logger()}

	s.AddTool(toolGetNativeBalance, h.getNativeBalance)
	s.AddTool(toolGetERC20Balance, h.getERC20Balance)
	s.AddTool(toolGetBlock, h.getBlock)
	s.AddTool(toolGetTransaction, h.getTransaction)
	s.AddTool(toolGetTransactionStatus, h.getTransactionStatus)
	s.AddTool(toolGetTransactionsByAddress, h.getTransactionsByAddress)
	s.AddTool(toolGetFarms, h.getFarms)
	s.AddTool(toolGetFarmBySymbol, h.getFarmBySymbol)
	s.AddTool(toolResolveDomain, h.resolveDomain)
	s.AddTool(toolLookupAddress, h.lookupAddress)
	s.AddTool(toolGetDexSummary, h.getDexSummary)
	s.AddTool(toolGetDexPairs, h.getDexPairs)
	s.AddTool(toolGetDexTokens, h.getDexTokens)
	s.AddTool(toolGetDexTokenPrice, h.getDexTokenPrice)
	s.AddTool(toolGetDexSupply, h.getDexSupply)
	s.AddTool(toolGetExchangeTickers, h.getExchangeTickers)
	s.AddTool(toolGetTicker, h.getTicker)

	return s
}

type handlers struct {
	agent  *agent.Agent
	logger zerolog.Logger
}

// render marshals an agent result into a tool response. Error-status
// results still come back as well-formed JSON so the client can always
// display something.
func (h *handlers) render(result agent.Result) (*mcp.CallToolResult, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	if result.Status == agent.StatusError {
		return mcp.NewToolResultError(string(payload)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func requireString(req mcp.CallToolRequest, key string) (string, *mcp.CallToolResult) {
	args := req.GetArguments()
	value, ok := args[key].(string)
	if !ok || value == "" {
		return "", mcp.NewToolResultError(fmt.Sprintf("required parameter %q missing", key))
	}
	return value, nil
}

func optionalString(req mcp.CallToolRequest, key string) string {
	value, _ := req.GetArguments()[key].(string)
	return value
}

func optionalInt(req mcp.CallToolRequest, key string) int {
	if value, ok := req.GetArguments()[key].(float64); ok {
		return int(value)
	}
	return 0
}

func (h *handlers) getNativeBalance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	address, errRes := requireString(req, "address")
	if errRes != nil {
		return errRes, nil
	}
	return h.render(h.agent.NativeBalance(ctx, address))
}

func (h *handlers) getERC20Balance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token, errRes := requireString(req, "token")
	if errRes != nil {
		return errRes, nil
	}
	address, errRes := requireString(req, "address")
	if errRes != nil {
		return errRes, nil
	}
	return h.render(h.agent.ERC20Balance(ctx, token, address))
}

func (h *handlers) getBlock(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.render(h.agent.Block(ctx, optionalString(req, "number")))
}

func (h *handlers) getTransaction(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hash, errRes := requireString(req, "hash")
	if errRes != nil {
		return errRes, nil
	}
	return h.render(h.agent.Transaction(ctx, hash))
}

func (h *handlers) getTransactionStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hash, errRes := requireString(req, "hash")
	if errRes != nil {
		return errRes, nil
	}
	return h.render(h.agent.TransactionStatus(ctx, hash))
}

func (h *handlers) getTransactionsByAddress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	address, errRes := requireString(req, "address")
	if errRes != nil {
		return errRes, nil
	}
	return h.render(h.agent.TransactionsByAddress(ctx, address, optionalInt(req, "limit")))
}

func (h *handlers) getFarms(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.render(h.agent.Farms(ctx))
}

func (h *handlers) getFarmBySymbol(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	symbol, errRes := requireString(req, "symbol")
	if errRes != nil {
		return errRes, nil
	}
	return h.render(h.agent.FarmBySymbol(ctx, symbol))
}

func (h *handlers) resolveDomain(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, errRes := requireString(req, "name")
	if errRes != nil {
		return errRes, nil
	}
	return h.render(h.agent.ResolveDomain(ctx, name))
}

func (h *handlers) lookupAddress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	address, errRes := requireString(req, "address")
	if errRes != nil {
		return errRes, nil
	}
	return h.render(h.agent.LookupAddress(ctx, address))
}

func (h *handlers) getDexSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.render(h.agent.DexSummary(ctx, optionalInt(req, "limit")))
}

func (h *handlers) getDexPairs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.render(h.agent.DexPairs(ctx, optionalInt(req, "limit")))
}

func (h *handlers) getDexTokens(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.render(h.agent.DexTokens(ctx))
}

func (h *handlers) getDexTokenPrice(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	address, errRes := requireString(req, "address")
	if errRes != nil {
		return errRes, nil
	}
	return h.render(h.agent.DexTokenPrice(ctx, address))
}

func (h *handlers) getDexSupply(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.render(h.agent.DexSupply(ctx))
}

func (h *handlers) getExchangeTickers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.render(h.agent.Tickers(ctx))
}

func (h *handlers) getTicker(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instrument, errRes := requireString(req, "instrument")
	if errRes != nil {
		return errRes, nil
	}
	return h.render(h.agent.Ticker(ctx, instrument))
}
