package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8081" {
		t.Fatalf("port: got %q", cfg.Port)
	}
	if cfg.DataBackend != "sqlite" {
		t.Fatalf("backend: got %q", cfg.DataBackend)
	}
	if cfg.SnapshotKey != "myfinance_v1" {
		t.Fatalf("snapshot key: got %q", cfg.SnapshotKey)
	}
	if cfg.ExportFilename != "meus_dados_financeiros.json" {
		t.Fatalf("export filename: got %q", cfg.ExportFilename)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("SNAPSHOT_KEY", "custom_v2")

	cfg := Load()
	if cfg.Port != "9000" || cfg.DataBackend != "memory" || cfg.SnapshotKey != "custom_v2" {
		t.Fatalf("env not applied: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:           "8081",
			DataBackend:    "sqlite",
			SQLiteDBPath:   filepath.Join(t.TempDir(), "db", "myfinance.db"),
			SnapshotKey:    "myfinance_v1",
			ExportFilename: "meus_dados_financeiros.json",
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Port = "abc" }, "invalid port"},
		{"port range", func(c *Config) { c.Port = "70000" }, "invalid port"},
		{"bad backend", func(c *Config) { c.DataBackend = "redis" }, "invalid data backend"},
		{"empty db path", func(c *Config) { c.SQLiteDBPath = "" }, "database path"},
		{"empty key", func(c *Config) { c.SnapshotKey = "  " }, "snapshot key"},
		{"empty export name", func(c *Config) { c.ExportFilename = "" }, "export filename"},
		{"export name with path", func(c *Config) { c.ExportFilename = "../x.json" }, "export filename"},
	}
	for _, tc := range cases {
		cfg := valid()
		tc.mutate(cfg)
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected error containing %q, got %v", tc.name, tc.want, err)
		}
	}
}

func TestValidateMemoryBackendIgnoresDBPath(t *testing.T) {
	cfg := &Config{
		Port:           "8081",
		DataBackend:    "memory",
		SQLiteDBPath:   "",
		SnapshotKey:    "myfinance_v1",
		ExportFilename: "meus_dados_financeiros.json",
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("memory backend must not require a db path, got %v", err)
	}
}
