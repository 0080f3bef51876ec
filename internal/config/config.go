package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"cronoscope/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Logging  logging.Config `mapstructure:"logging"`
	Network  NetworkConfig  `mapstructure:"network"`
	Dex      DexConfig      `mapstructure:"dex"`
	Exchange ExchangeConfig `mapstructure:"exchange"`
	Explorer ExplorerConfig `mapstructure:"explorer"`
	Export   ExportConfig   `mapstructure:"export"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// NetworkConfig selects the active chain and its endpoints. The credential
// fields double as the auto-detection input: when no explicit name is set,
// the presence of a network-specific API key picks the network.
type NetworkConfig struct {
	Name           string        `mapstructure:"name"`
	RPCURL         string        `mapstructure:"rpc_url"`
	ExplorerURL    string        `mapstructure:"explorer_url"`
	ChainID        int64         `mapstructure:"chain_id"`
	APIKey         string        `mapstructure:"api_key"`
	TestnetAPIKey  string        `mapstructure:"testnet_api_key"`
	ZkEVMAPIKey    string        `mapstructure:"zkevm_api_key"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// DexConfig captures DEX aggregator connectivity.
type DexConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
	MaxPairs       int           `mapstructure:"max_pairs"`
}

// ExchangeConfig captures exchange public API connectivity.
type ExchangeConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// ExplorerConfig tunes the explorer/platform API client.
type ExplorerConfig struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxTxResults   int           `mapstructure:"max_tx_results"`
}

// ExportConfig sets CLI export behaviour.
type ExportConfig struct {
	MaxPairs int `mapstructure:"max_pairs"`
}

// Known network names.
const (
	NetworkCronos        = "cronos"
	NetworkCronosTestnet = "cronos-testnet"
	NetworkCronosZkEVM   = "cronos-zkevm"
)

type networkDefaults struct {
	chainID     int64
	rpcURL      string
	explorerURL string
}

var knownNetworks = map[string]networkDefaults{
	NetworkCronos: {
		chainID:     25,
		rpcURL:      "https://evm.cronos.org",
		explorerURL: "https://explorer-api.cronos.org/mainnet/api/v1",
	},
	NetworkCronosTestnet: {
		chainID:     338,
		rpcURL:      "https://evm-t3.cronos.org",
		explorerURL: "https://explorer-api.cronos.org/testnet/api/v1",
	},
	NetworkCronosZkEVM: {
		chainID:     388,
		rpcURL:      "https://mainnet.zkevm.cronos.org",
		explorerURL: "https://explorer-api.zkevm.cronos.org/api/v1",
	},
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CRONOSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Network.resolve()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "cronoscope")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Empty defaults keep env-only keys visible to Unmarshal.
	v.SetDefault("network.name", "")
	v.SetDefault("network.rpc_url", "")
	v.SetDefault("network.explorer_url", "")
	v.SetDefault("network.chain_id", 0)
	v.SetDefault("network.api_key", "")
	v.SetDefault("network.testnet_api_key", "")
	v.SetDefault("network.zkevm_api_key", "")
	v.SetDefault("network.request_timeout", "10s")

	v.SetDefault("dex.base_url", "https://api.vvs.finance/info/api")
	v.SetDefault("dex.request_timeout", "10s")
	v.SetDefault("dex.user_agent", "cronoscope/1.0")
	v.SetDefault("dex.max_pairs", 10)

	v.SetDefault("exchange.base_url", "https://api.crypto.com/exchange/v1")
	v.SetDefault("exchange.request_timeout", "10s")

	v.SetDefault("explorer.request_timeout", "10s")
	v.SetDefault("explorer.max_tx_results", 20)

	v.SetDefault("export.max_pairs", 25)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// resolve pins down the active network and fills endpoint defaults. An
// explicit name wins; otherwise the most specific credential present decides.
func (n *NetworkConfig) resolve() {
	if n.Name == "" {
		switch {
		case n.ZkEVMAPIKey != "":
			n.Name = NetworkCronosZkEVM
		case n.TestnetAPIKey != "":
			n.Name = NetworkCronosTestnet
		default:
			n.Name = NetworkCronos
		}
	}

	defaults, ok := knownNetworks[n.Name]
	if !ok {
		return
	}

	if n.ChainID == 0 {
		n.ChainID = defaults.chainID
	}
	if n.RPCURL == "" {
		n.RPCURL = defaults.rpcURL
	}
	if n.ExplorerURL == "" {
		n.ExplorerURL = defaults.explorerURL
	}
	if n.APIKey == "" {
		switch n.Name {
		case NetworkCronosTestnet:
			n.APIKey = n.TestnetAPIKey
		case NetworkCronosZkEVM:
			n.APIKey = n.ZkEVMAPIKey
		}
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if _, ok := knownNetworks[c.Network.Name]; !ok {
		return fmt.Errorf("network.name %q is not a known network", c.Network.Name)
	}
	if c.Dex.MaxPairs <= 0 {
		return fmt.Errorf("dex.max_pairs must be greater than zero")
	}
	if c.Explorer.MaxTxResults <= 0 {
		return fmt.Errorf("explorer.max_tx_results must be greater than zero")
	}
	if c.Export.MaxPairs <= 0 {
		return fmt.Errorf("export.max_pairs must be greater than zero")
	}
	return nil
}

// ResolveMaxPairs returns either the CLI override or config default.
func (c *Config) ResolveMaxPairs(override int) int {
	if override > 0 {
		return override
	}
	return c.Export.MaxPairs
}
