package config

import (
	"os"
	"testing"
	"time"
)

// chdir mirrors testing.T.Chdir (Go 1.24+): it changes the working directory
// for the duration of the test and restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir()) // keep a developer .env out of the test
	for _, k := range []string{"PORT", "STORE_BACKEND", "HTTP_TIMEOUT", "CURRENT_REFRESH_INTERVAL", "DEFAULT_LOCATION", "HISTORY_MAX_DAYS", "DISPLAY_TIMEZONE"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.StoreBackend != "sqlite" {
		t.Errorf("expected sqlite backend, got %s", cfg.StoreBackend)
	}
	if cfg.CurrentRefreshInterval != 30*time.Minute || cfg.CurrentStaleAfter != 10*time.Minute || cfg.ForecastStaleAfter != 30*time.Minute {
		t.Errorf("unexpected refresh timings %v/%v/%v", cfg.CurrentRefreshInterval, cfg.CurrentStaleAfter, cfg.ForecastStaleAfter)
	}
	if cfg.DefaultLocation != "New York" {
		t.Errorf("expected New York, got %s", cfg.DefaultLocation)
	}
	if cfg.HistoryMaxDays != 365 {
		t.Errorf("expected 365, got %d", cfg.HistoryMaxDays)
	}
}

func TestLoadOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("DISPLAY_TIMEZONE", "Asia/Dhaka")
	t.Setenv("HTTP_TIMEOUT", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.StoreBackend != "redis" {
		t.Errorf("expected redis, got %s", cfg.StoreBackend)
	}
	if cfg.DisplayTimeZone.String() != "Asia/Dhaka" {
		t.Errorf("expected Asia/Dhaka, got %s", cfg.DisplayTimeZone)
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Errorf("expected 3s, got %v", cfg.HTTPTimeout)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"STORE_BACKEND":            "etcd",
		"HTTP_TIMEOUT":             "soon",
		"CURRENT_REFRESH_INTERVAL": "-5m",
		"DISPLAY_TIMEZONE":         "Mars/Olympus",
		"HISTORY_MAX_DAYS":         "abc",
		"REDIS_DB":                 "one",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			chdir(t, t.TempDir())
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}
