package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadServer_MissingFile(t *testing.T) {
	cfg, err := LoadServer(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should yield defaults, got error: %v", err)
	}

	if cfg.TCPPort != 27130 {
		t.Errorf("expected default tcp_port 27130, got %d", cfg.TCPPort)
	}
	if cfg.PolicyPort != 27132 {
		t.Errorf("expected default policy_port 27132, got %d", cfg.PolicyPort)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("expected default database port 5432, got %d", cfg.Database.Port)
	}
}

func TestLoadServer_Overlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rccserver.yaml")
	content := `
host: 127.0.0.1
tcp_port: 37130
database:
  host: db.internal
  password: secret
debug:
  binary: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}

	cfg, err := LoadServer(path)
	if err != nil {
		t.Fatalf("LoadServer failed: %v", err)
	}

	if cfg.Host != "127.0.0.1" {
		t.Errorf("host not overlaid: %s", cfg.Host)
	}
	if cfg.TCPPort != 37130 {
		t.Errorf("tcp_port not overlaid: %d", cfg.TCPPort)
	}
	// Untouched keys keep defaults.
	if cfg.HTTPPort != 80 {
		t.Errorf("http_port default lost: %d", cfg.HTTPPort)
	}
	if cfg.Database.Host != "db.internal" || cfg.Database.Port != 5432 {
		t.Errorf("database overlay wrong: %+v", cfg.Database)
	}
	if !cfg.Debug.Binary || cfg.Debug.TCP {
		t.Errorf("debug overlay wrong: %+v", cfg.Debug)
	}
}

func TestLoadServer_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("tcp_port: [not a number"), 0o644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}

	if _, err := LoadServer(path); err == nil {
		t.Error("expected error for malformed YAML, got nil")
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "localhost", Port: 5432,
		User: "rcc", Password: "pw", DBName: "rccemu", SSLMode: "disable",
	}

	expected := "postgres://rcc:pw@localhost:5432/rccemu?sslmode=disable"
	if got := d.DSN(); got != expected {
		t.Errorf("expected %s, got %s", expected, got)
	}
}
