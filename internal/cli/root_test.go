package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestFindConfig(t *testing.T) {
	dir := t.TempDir()
	if got := findConfig(dir); got != "" {
		t.Errorf("findConfig(empty dir) = %q, want empty", got)
	}

	yamlPath := filepath.Join(dir, "spore.yaml")
	if err := os.WriteFile(yamlPath, []byte("log:\n  level: info\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := findConfig(dir); got != yamlPath {
		t.Errorf("findConfig = %q, want %q", got, yamlPath)
	}

	tomlPath := filepath.Join(dir, "spore.toml")
	if err := os.WriteFile(tomlPath, []byte("[log]\nlevel = \"info\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := findConfig(dir); got != tomlPath {
		t.Errorf("findConfig = %q, want %q (toml wins)", got, tomlPath)
	}
}

func TestLoadConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	if err := os.WriteFile(path, []byte("[layout]\nalgorithm = \"compact\"\n\n[server]\naddr = \":7070\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, LogInfo)
	c.ConfigPath = path
	if err := c.loadConfig(); err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if c.Config.Layout.Algorithm != "compact" {
		t.Errorf("Algorithm = %q, want compact", c.Config.Layout.Algorithm)
	}
	if c.Config.Server.Addr != ":7070" {
		t.Errorf("Addr = %q, want :7070", c.Config.Server.Addr)
	}
}

func TestLoadConfigMissingFlag(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.ConfigPath = filepath.Join(t.TempDir(), "missing.toml")
	if err := c.loadConfig(); err == nil {
		t.Error("expected error for missing --config file")
	}
}
