package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8090 {
		t.Fatalf("port = %d, want default 8090", cfg.Server.Port)
	}
	if cfg.AI.Primary != "anthropic" {
		t.Fatalf("primary = %s", cfg.AI.Primary)
	}
	if cfg.Pipeline.ProcessTimeoutSec != 180 {
		t.Fatalf("timeout = %d", cfg.Pipeline.ProcessTimeoutSec)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("server:\n  port: 9000\nai:\n  primary: openai\n")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Fatalf("port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.AI.Primary != "openai" {
		t.Fatalf("primary = %s, want openai", cfg.AI.Primary)
	}
	// Untouched sections keep their defaults.
	if cfg.Store.Path == "" {
		t.Fatal("store path default lost")
	}
}

func TestLoadExpandsEnvReferences(t *testing.T) {
	t.Setenv("TEST_TERRA_KEY", "sk-123")

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("ai:\n  providers:\n    - name: anthropic\n      type: anthropic\n      api_key: ${TEST_TERRA_KEY}\n")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p := cfg.AI.Provider("anthropic")
	if p == nil {
		t.Fatal("anthropic provider missing")
	}
	if p.APIKey != "sk-123" {
		t.Fatalf("api key = %q, want expanded value", p.APIKey)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Server.Port = 9090
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Server.Port != 9090 {
		t.Fatalf("port = %d, want 9090", got.Server.Port)
	}
}
