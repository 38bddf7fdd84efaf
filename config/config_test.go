package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestEnsureRoot_WritesReadableConfig(t *testing.T) {
	home := t.TempDir()

	EnsureRoot(home)

	path := filepath.Join(home, defaultConfigFilePath)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file was not written: %s", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		t.Fatal(err)
	}

	def := DefaultConfig()
	if cfg.KeepLastStates != def.KeepLastStates {
		t.Errorf("keep_last_states want %d, got %d", def.KeepLastStates, cfg.KeepLastStates)
	}
	if cfg.APIListenAddress != def.APIListenAddress {
		t.Errorf("api_listen_addr want %s, got %s", def.APIListenAddress, cfg.APIListenAddress)
	}
	if cfg.Consensus.TimeoutCommit != def.Consensus.TimeoutCommit {
		t.Errorf("timeout_commit want %s, got %s", def.Consensus.TimeoutCommit, cfg.Consensus.TimeoutCommit)
	}
	if err := cfg.ValidateBasic(); err != nil {
		t.Fatal(err)
	}
}

func TestConfig_ValidateBasic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KeepLastStates = 0
	if err := cfg.ValidateBasic(); err == nil {
		t.Error("expected error for keep_last_states = 0")
	}

	cfg = DefaultConfig()
	cfg.LogFormat = "xml"
	if err := cfg.ValidateBasic(); err == nil {
		t.Error("expected error for unknown log format")
	}
}

func TestGetTmConfig(t *testing.T) {
	cfg := DefaultConfig().SetRoot("/tmp/ballot")
	tmCfg := GetTmConfig(cfg)

	if tmCfg.RootDir != "/tmp/ballot" {
		t.Errorf("root want %s, got %s", "/tmp/ballot", tmCfg.RootDir)
	}
	if tmCfg.GenesisFile() != filepath.Join("/tmp/ballot", defaultGenesisJSONPath) {
		t.Errorf("unexpected genesis path %s", tmCfg.GenesisFile())
	}
	if tmCfg.StateSync == nil || tmCfg.FastSync == nil {
		t.Fatal("sync sections must be set")
	}
	if err := tmCfg.ValidateBasic(); err != nil {
		t.Fatal(err)
	}
}

func TestGetTmConfig_PprofAddress(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ProfListenAddress = "localhost:6060"
	tmCfg := GetTmConfig(cfg)

	if tmCfg.RPC.PprofListenAddress != "localhost:6060" {
		t.Errorf("pprof address want %s, got %s", "localhost:6060", tmCfg.RPC.PprofListenAddress)
	}
	if cfg.RPC.PprofListenAddress == "localhost:6060" {
		t.Error("ballot rpc section must not be modified")
	}
}
