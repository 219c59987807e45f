package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
	if cfg.GetAddress() != "0.0.0.0:8080" {
		t.Errorf("address = %q", cfg.GetAddress())
	}
	if len(cfg.Content.StaticSections) == 0 {
		t.Error("default config should name static sections")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid defaults", func(c *Config) {}, ""},
		{"empty port", func(c *Config) { c.Server.Port = "" }, "port"},
		{"empty host", func(c *Config) { c.Server.Host = "" }, "host"},
		{"negative read timeout", func(c *Config) { c.Server.ReadTimeout = -1 }, "timeout"},
		{"empty content base", func(c *Config) { c.Content.Base = "" }, "content base"},
		{"no static sections", func(c *Config) { c.Content.StaticSections = nil }, "static section"},
		{"empty section name", func(c *Config) { c.Content.StaticSections = []string{"home", ""} }, "empty"},
		{"reserved section name", func(c *Config) { c.Content.StaticSections = []string{"music"} }, "reserved"},
		{"zero fetch timeout", func(c *Config) { c.Content.FetchTimeout = 0 }, "fetch timeout"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "log level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadConfigCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q, expected default", cfg.Server.Port)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("default config file was not written: %v", err)
	}

	// Second load reads the file it just wrote
	again, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("reloading written config: %v", err)
	}
	if again.GetAddress() != cfg.GetAddress() {
		t.Error("reloaded config differs from the written defaults")
	}
}

func TestLoadConfigReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[server]
port = "9000"
host = "127.0.0.1"

[site]
title = "Night Drive"

[content]
base = "https://cdn.example.com/band"
static_sections = ["home", "about"]
fetch_timeout_seconds = 5

[logging]
level = "debug"
format = "json"
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GetAddress() != "127.0.0.1:9000" {
		t.Errorf("address = %q", cfg.GetAddress())
	}
	if cfg.Site.Title != "Night Drive" {
		t.Errorf("title = %q", cfg.Site.Title)
	}
	if cfg.Content.Base != "https://cdn.example.com/band" {
		t.Errorf("base = %q", cfg.Content.Base)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
}

func TestLoadConfigRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[server]
port = ""
host = "127.0.0.1"
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected validation to reject an empty port")
	}
}
