package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Refresh.Interval != 60*time.Second {
		t.Errorf("expected 60s refresh interval, got %v", cfg.Refresh.Interval)
	}
	if cfg.Refresh.CountdownSeconds != 60 {
		t.Errorf("expected countdown 60, got %d", cfg.Refresh.CountdownSeconds)
	}
	if cfg.Refresh.HistoryHours != 6 {
		t.Errorf("expected 6 history hours, got %d", cfg.Refresh.HistoryHours)
	}
	if cfg.Refresh.StalePolicy != PolicyLatestRequest {
		t.Errorf("expected policy %s, got %s", PolicyLatestRequest, cfg.Refresh.StalePolicy)
	}
	if cfg.Store.Driver != StoreMemory {
		t.Errorf("expected memory store, got %s", cfg.Store.Driver)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://waits.internal:9000")
	t.Setenv("REFRESH_INTERVAL", "30s")
	t.Setenv("STALE_POLICY", PolicyLastWriteWins)
	t.Setenv("STORE_DRIVER", StoreSQLite)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend.URL != "http://waits.internal:9000" {
		t.Errorf("unexpected backend url %s", cfg.Backend.URL)
	}
	if cfg.Refresh.Interval != 30*time.Second {
		t.Errorf("expected 30s, got %v", cfg.Refresh.Interval)
	}
	if cfg.Refresh.StalePolicy != PolicyLastWriteWins {
		t.Errorf("unexpected policy %s", cfg.Refresh.StalePolicy)
	}
	if cfg.Store.Driver != StoreSQLite {
		t.Errorf("unexpected store driver %s", cfg.Store.Driver)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad port", "SERVER_PORT", "70000"},
		{"bad backend", "BACKEND_URL", "not a url"},
		{"short refresh", "REFRESH_INTERVAL", "10ms"},
		{"history too long", "HISTORY_HOURS", "48"},
		{"bad policy", "STALE_POLICY", "first-wins"},
		{"bad store", "STORE_DRIVER", "redis"},
		{"bad level", "LOG_LEVEL", "verbose"},
		{"zero countdown", "COUNTDOWN_SECONDS", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
