package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigFlagOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[chat]\nmode = \"light\"\nstore = \"memory\"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := loadConfig(flags{configPath: path, mode: "dark", store: "sqlite", debug: true})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Chat.Mode != "dark" {
		t.Errorf("mode = %q, want dark", cfg.Chat.Mode)
	}
	if cfg.Chat.Store != "sqlite" {
		t.Errorf("store = %q, want sqlite", cfg.Chat.Store)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadConfigRejectsBadFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")

	_, err := loadConfig(flags{configPath: path, mode: "sepia"})
	if err == nil || !strings.Contains(err.Error(), "unknown mode") {
		t.Errorf("expected unknown mode error, got %v", err)
	}
}

func TestRootCmdFlags(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"config", "mode", "store", "debug"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("missing --%s flag", name)
		}
	}
	if err := cmd.Flags().Parse([]string{"--mode", "dark"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
}
