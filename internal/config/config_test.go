package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
database:
  dsn: "postgres://u:p@localhost:5432/testdb"
  max_conns: 10
  min_conns: 2

import:
  data_dir: "./testdata/cards"
  language: "en"

log:
  level: "debug"
  format: "text"
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	os.Unsetenv("DATABASE_DSN")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}
	if cfg.Database.DSN != "postgres://u:p@localhost:5432/testdb" {
		t.Errorf("DSN mismatch: got %s", cfg.Database.DSN)
	}
	if cfg.Import.DataDir != "./testdata/cards" {
		t.Errorf("DataDir mismatch: got %s", cfg.Import.DataDir)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level mismatch: got %s", cfg.Log.Level)
	}
	// Defaults fill unset fields.
	if cfg.Database.MaxConnLifetime != time.Hour {
		t.Errorf("MaxConnLifetime default mismatch: got %s", cfg.Database.MaxConnLifetime)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("DATABASE_DSN", "postgres://env:env@db:5432/envdb")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: unexpected error: %v", err)
	}
	if cfg.Database.DSN != "postgres://env:env@db:5432/envdb" {
		t.Errorf("DSN: env should win, got %s", cfg.Database.DSN)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Format: env should win, got %s", cfg.Log.Format)
	}
}

func TestLoad_MissingDSN(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, "log:\n  level: info\n")
	t.Setenv("CONFIG_PATH", path)
	os.Unsetenv("DATABASE_DSN")

	if _, err := Load(); err == nil {
		t.Fatal("Load: expected error for missing dsn")
	}
}

func TestLoad_ExplicitPathMissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	if _, err := Load(); err == nil {
		t.Fatal("Load: expected error for missing explicit config file")
	}
}

func TestValidate_BadLogFormat(t *testing.T) {
	cfg := Config{}
	cfg.Database.DSN = "postgres://u:p@localhost/db"
	cfg.Database.MaxConns = 10
	cfg.Database.MinConns = 2
	cfg.Import.Language = "en"
	cfg.Log.Format = "xml"

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate: expected error for log format xml")
	}
}

func TestValidate_ConnBounds(t *testing.T) {
	cfg := Config{}
	cfg.Database.DSN = "postgres://u:p@localhost/db"
	cfg.Database.MaxConns = 1
	cfg.Database.MinConns = 5
	cfg.Import.Language = "en"
	cfg.Log.Format = "text"

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate: expected error for max_conns < min_conns")
	}
}
