package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.Plugin.UseMenuTitle {
		t.Error("use_menu_title should default to true")
	}
	if !reflect.DeepEqual(cfg.Plugin.Taxonomies, DefaultTaxonomies) {
		t.Errorf("Expected default taxonomies, got %v", cfg.Plugin.Taxonomies)
	}
	if cfg.Index.BatchSize != 50 {
		t.Errorf("Expected batch size 50, got %d", cfg.Index.BatchSize)
	}
	if cfg.Snapshot.Backend != "memory" {
		t.Errorf("Expected memory snapshot backend, got %s", cfg.Snapshot.Backend)
	}
}

func TestLoad_TaxonomyList(t *testing.T) {
	t.Setenv("FINDER_TAXONOMIES", "type, language")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := []string{"type", "language"}
	if !reflect.DeepEqual(cfg.Plugin.Taxonomies, want) {
		t.Errorf("Expected %v, got %v", want, cfg.Plugin.Taxonomies)
	}
}

func TestLoad_EmptyTaxonomyList(t *testing.T) {
	t.Setenv("FINDER_TAXONOMIES", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Plugin.Taxonomies) != 0 {
		t.Errorf("Expected no taxonomies, got %v", cfg.Plugin.Taxonomies)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing host", func(c *Config) { c.Database.Host = "" }, true},
		{"bad batch size", func(c *Config) { c.Index.BatchSize = 0 }, true},
		{"unknown backend", func(c *Config) { c.Snapshot.Backend = "memcached" }, true},
		{"redis without addr", func(c *Config) { c.Snapshot.Backend = "redis"; c.Snapshot.RedisAddr = "" }, true},
		{"unknown taxonomy", func(c *Config) { c.Plugin.Taxonomies = []string{"category"} }, true},
		{"zero snapshot ttl", func(c *Config) { c.Snapshot.TTL = 0 }, true},
		{"negative snapshot ttl", func(c *Config) { c.Snapshot.TTL = -time.Second }, true},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Database: DatabaseConfig{Host: "localhost", Name: "jdocmanual"},
				Plugin:   PluginConfig{Taxonomies: DefaultTaxonomies},
				Index:    IndexConfig{BatchSize: 10},
				Snapshot: SnapshotConfig{Backend: "memory", RedisAddr: "localhost:6379", TTL: time.Minute},
				Log:      LogConfig{Level: "info", Format: "json"},
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_ZeroSnapshotTTL(t *testing.T) {
	t.Setenv("SNAPSHOT_TTL", "0s")

	if _, err := Load(); err == nil {
		t.Error("Expected error for zero SNAPSHOT_TTL")
	}
}

func TestLoad_LogFormat(t *testing.T) {
	t.Setenv("ENV", "development")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Log.Format != "pretty" {
		t.Errorf("Expected pretty logs in development, got %s", cfg.Log.Format)
	}

	t.Setenv("LOG_FORMAT", "json")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Expected LOG_FORMAT to win, got %s", cfg.Log.Format)
	}
}
