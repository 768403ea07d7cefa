package config

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Store != StoreMemory {
		t.Errorf("expected memory store by default, got %q", cfg.Store)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Errorf("unexpected log defaults: %+v", cfg.Log)
	}
	settings, err := cfg.Purchasing.Settings()
	if err != nil {
		t.Fatalf("Settings failed: %v", err)
	}
	if !settings.BufferPercent.IsZero() || !settings.BufferQty.IsZero() {
		t.Errorf("expected zero buffers, got %+v", settings)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("PURCHASING_BUFFER_PERCENT", "10")
	t.Setenv("PURCHASING_BUFFER_QTY", "1.5")
	t.Setenv("STORE", "postgres")
	t.Setenv("DB_DSN", "host=localhost dbname=procure")
	t.Setenv("SEED_SCENARIO", "scenarios/gala")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("unexpected log config: %+v", cfg.Log)
	}
	if cfg.Store != StorePostgres || cfg.Database.DSN != "host=localhost dbname=procure" {
		t.Errorf("unexpected store config: %q %q", cfg.Store, cfg.Database.DSN)
	}
	if cfg.SeedScenario != "scenarios/gala" {
		t.Errorf("expected seed scenario, got %q", cfg.SeedScenario)
	}
	settings, _ := cfg.Purchasing.Settings()
	if !settings.BufferPercent.Equal(decimal.NewFromInt(10)) {
		t.Errorf("expected buffer percent 10, got %s", settings.BufferPercent)
	}
	if !settings.BufferQty.Equal(decimal.RequireFromString("1.5")) {
		t.Errorf("expected buffer qty 1.5, got %s", settings.BufferQty)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"memory ok", Config{Store: StoreMemory}, ""},
		{"postgres without dsn", Config{Store: StorePostgres}, "requires database.dsn"},
		{"unknown store", Config{Store: "sqlite"}, "unknown store"},
		{"negative buffer", Config{Store: StoreMemory, Purchasing: PurchasingConfig{BufferQty: "-1"}}, "cannot be negative"},
		{"garbage buffer", Config{Store: StoreMemory, Purchasing: PurchasingConfig{BufferPercent: "ten"}}, "invalid purchasing.buffer_percent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
