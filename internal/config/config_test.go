package config

import (
	"testing"
)

func TestNetworkAutoDetectionDefaultsToMainnet(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Network.Name != NetworkCronos {
		t.Fatalf("expected %s, got %s", NetworkCronos, cfg.Network.Name)
	}
	if cfg.Network.ChainID != 25 {
		t.Fatalf("expected chain id 25, got %d", cfg.Network.ChainID)
	}
	if cfg.Network.RPCURL == "" {
		t.Fatal("rpc url default should be filled")
	}
}

func TestNetworkAutoDetectionPrefersZkEVMKey(t *testing.T) {
	t.Setenv("CRONOSCOPE_NETWORK_ZKEVM_API_KEY", "zk-key")
	t.Setenv("CRONOSCOPE_NETWORK_TESTNET_API_KEY", "tn-key")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Network.Name != NetworkCronosZkEVM {
		t.Fatalf("expected %s, got %s", NetworkCronosZkEVM, cfg.Network.Name)
	}
	if cfg.Network.APIKey != "zk-key" {
		t.Fatalf("active credential should be the zkEVM key, got %q", cfg.Network.APIKey)
	}
	if cfg.Network.ChainID != 388 {
		t.Fatalf("expected chain id 388, got %d", cfg.Network.ChainID)
	}
}

func TestNetworkAutoDetectionTestnetKey(t *testing.T) {
	t.Setenv("CRONOSCOPE_NETWORK_TESTNET_API_KEY", "tn-key")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Network.Name != NetworkCronosTestnet {
		t.Fatalf("expected %s, got %s", NetworkCronosTestnet, cfg.Network.Name)
	}
	if cfg.Network.APIKey != "tn-key" {
		t.Fatalf("active credential should be the testnet key, got %q", cfg.Network.APIKey)
	}
}

func TestExplicitNetworkNameWins(t *testing.T) {
	t.Setenv("CRONOSCOPE_NETWORK_NAME", "cronos")
	t.Setenv("CRONOSCOPE_NETWORK_ZKEVM_API_KEY", "zk-key")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Network.Name != NetworkCronos {
		t.Fatalf("explicit name should win, got %s", cfg.Network.Name)
	}
}

func TestUnknownNetworkRejected(t *testing.T) {
	t.Setenv("CRONOSCOPE_NETWORK_NAME", "dogecoin")

	if _, err := Load(""); err == nil {
		t.Fatal("unknown network should fail validation")
	}
}

func TestResolveMaxPairs(t *testing.T) {
	cfg := &Config{Export: ExportConfig{MaxPairs: 25}}
	if got := cfg.ResolveMaxPairs(0); got != 25 {
		t.Fatalf("expected config default 25, got %d", got)
	}
	if got := cfg.ResolveMaxPairs(7); got != 7 {
		t.Fatalf("expected override 7, got %d", got)
	}
}
