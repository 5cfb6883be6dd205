package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("DEEPWIKI_CONFIG_DIR", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerAddr != ":8001" {
		t.Fatalf("ServerAddr = %q, want :8001", cfg.ServerAddr)
	}
	if cfg.Languages.Default != "en" {
		t.Fatalf("Languages.Default = %q, want en", cfg.Languages.Default)
	}
	if len(cfg.Languages.Supported) == 0 {
		t.Fatal("expected non-empty supported language list")
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DEEPWIKI_CONFIG_DIR", dir)

	body := "server_addr: \":9999\"\nlanguages:\n  default: ja\n"
	if err := os.WriteFile(filepath.Join(dir, "deepwiki.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerAddr != ":9999" {
		t.Fatalf("ServerAddr = %q, want :9999", cfg.ServerAddr)
	}
	if cfg.Languages.Default != "ja" {
		t.Fatalf("Languages.Default = %q, want ja", cfg.Languages.Default)
	}
	// Fields absent from the file keep their defaults.
	if cfg.CommandTimeoutSeconds != 120 {
		t.Fatalf("CommandTimeoutSeconds = %d, want 120", cfg.CommandTimeoutSeconds)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DEEPWIKI_CONFIG_DIR", dir)

	if err := os.WriteFile(filepath.Join(dir, "deepwiki.yaml"), []byte("server_addr: [broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoad_ExpandsTildeInDirs(t *testing.T) {
	oldHome := os.Getenv("HOME")
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Cleanup(func() { _ = os.Setenv("HOME", oldHome) })

	dir := t.TempDir()
	t.Setenv("DEEPWIKI_CONFIG_DIR", dir)

	body := "wiki_cache_dir: ~/caches/wiki\n"
	if err := os.WriteFile(filepath.Join(dir, "deepwiki.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := filepath.Join(home, "caches", "wiki")
	if cfg.WikiCacheDir != want {
		t.Fatalf("WikiCacheDir = %q, want %q", cfg.WikiCacheDir, want)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DEEPWIKI_CONFIG_DIR", dir)

	cfg, err := DefaultConfig()
	if err != nil {
		t.Fatal(err)
	}
	cfg.ServerAddr = ":7777"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ServerAddr != ":7777" {
		t.Fatalf("ServerAddr = %q, want :7777", got.ServerAddr)
	}
}

func TestCommandTimeout(t *testing.T) {
	cfg := &Config{CommandTimeoutSeconds: 5}
	if got := cfg.CommandTimeout(); got != 5*time.Second {
		t.Fatalf("CommandTimeout = %v, want 5s", got)
	}
	cfg = &Config{}
	if got := cfg.CommandTimeout(); got != 120*time.Second {
		t.Fatalf("CommandTimeout default = %v, want 120s", got)
	}
}

func TestDir_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DEEPWIKI_CONFIG_DIR", dir)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}
	if got != dir {
		t.Fatalf("Dir = %q, want %q", got, dir)
	}
}
