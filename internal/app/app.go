package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"cronoscope/internal/agent"
	"cronoscope/internal/chain"
	"cronoscope/internal/config"
	"cronoscope/internal/dex"
	"cronoscope/internal/exchange"
	"cronoscope/internal/mcpserver"
	"cronoscope/internal/platform"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newDexClient() (*dex.Client, *dex.Normalizer) {
	client := dex.NewClient(dex.ClientOptions{
		BaseURL:   a.Config.Dex.BaseURL,
		Timeout:   a.Config.Dex.RequestTimeout,
		UserAgent: a.Config.Dex.UserAgent,
	}, a.Logger)

	normalizer := dex.NewNormalizer(dex.WCROAddress, a.Logger)
	return client, normalizer
}

func (a *App) newAgent() *agent.Agent {
	dexClient, normalizer := a.newDexClient()

	clients := agent.Clients{
		Chain: chain.NewClient(chain.Options{
			RPCURL:  a.Config.Network.RPCURL,
			ChainID: a.Config.Network.ChainID,
			Timeout: a.Config.Network.RequestTimeout,
		}, a.Logger),
		Platform: platform.NewClient(platform.Options{
			BaseURL:   a.Config.Network.ExplorerURL,
			APIKey:    a.Config.Network.APIKey,
			Timeout:   a.Config.Explorer.RequestTimeout,
			UserAgent: a.Config.Dex.UserAgent,
		}, a.Logger),
		Dex: dexClient,
		Exchange: exchange.NewClient(exchange.Options{
			BaseURL: a.Config.Exchange.BaseURL,
			Timeout: a.Config.Exchange.RequestTimeout,
		}, a.Logger),
	}

	return agent.New(clients, normalizer, a.Config.Network.Name, a.Config.Dex.MaxPairs, a.Logger)
}

// Serve runs the MCP server over stdio until the client disconnects or a
// termination signal arrives.
func (a *App) Serve(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ag := a.newAgent()
	srv := mcpserver.NewServer(ag, a.Logger)

	a.Logger.Info().
		Str("network", a.Config.Network.Name).
		Msg("starting MCP server on stdio")

	stdio := server.NewStdioServer(srv)
	err := stdio.Listen(ctx, os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("server terminated with error")
		return err
	}

	a.Logger.Info().Msg("MCP server stopped")
	return nil
}

// PairsOptions configure the pairs command.
type PairsOptions struct {
	Limit int
}

// ExportOptions hold parameters for exporting normalized pair data.
type ExportOptions struct {
	PNGPath  string
	CSVPath  string
	MaxPairs int
}
