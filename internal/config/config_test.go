package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Pacer.Interval != time.Second {
		t.Errorf("expected 1s pacer interval, got %v", cfg.Pacer.Interval)
	}
	if cfg.Adapters.Timeout != 30*time.Second {
		t.Errorf("expected 30s adapter timeout, got %v", cfg.Adapters.Timeout)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default addr, got %q", cfg.Server.Addr)
	}
	if cfg.History.Driver != "" {
		t.Errorf("expected history disabled by default, got %q", cfg.History.Driver)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dossier.yaml")
	content := `
pacer:
  interval: 250ms
  jitter: 0.2
adapters:
  fingerprint: chrome
  github_token: tok123
history:
  driver: sqlite
  dsn: file:test.db
server:
  addr: ":9090"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Pacer.Interval != 250*time.Millisecond {
		t.Errorf("expected 250ms interval, got %v", cfg.Pacer.Interval)
	}
	if cfg.Pacer.Jitter != 0.2 {
		t.Errorf("expected 0.2 jitter, got %v", cfg.Pacer.Jitter)
	}
	if cfg.Adapters.Fingerprint != "chrome" {
		t.Errorf("expected chrome fingerprint, got %q", cfg.Adapters.Fingerprint)
	}
	if cfg.Adapters.GitHubToken != "tok123" {
		t.Errorf("expected token, got %q", cfg.Adapters.GitHubToken)
	}
	if cfg.History.Driver != "sqlite" || cfg.History.DSN != "file:test.db" {
		t.Errorf("unexpected history config: %+v", cfg.History)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("expected :9090, got %q", cfg.Server.Addr)
	}
}

func TestLoad_InvalidHistoryDriver(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dossier.yaml")
	if err := os.WriteFile(path, []byte("history:\n  driver: mongodb\n  dsn: x\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown history driver")
	}
}

func TestLoad_DriverWithoutDSN(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dossier.yaml")
	if err := os.WriteFile(path, []byte("history:\n  driver: sqlite\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for missing dsn")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/dossier.yaml"); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
