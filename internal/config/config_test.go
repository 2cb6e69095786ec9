package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("Interval = %v", cfg.Interval)
	}
	if cfg.HistoryCap != 240 {
		t.Errorf("HistoryCap = %d", cfg.HistoryCap)
	}
	if len(cfg.Sources) != 2 || cfg.Sources[0].ID != "zs" || cfg.Sources[1].ID != "ms" {
		t.Errorf("Sources = %+v", cfg.Sources)
	}
	if cfg.RedisAddr != "" || cfg.PostgresDSN != "" {
		t.Errorf("optional backends should default off: %q, %q", cfg.RedisAddr, cfg.PostgresDSN)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("POLL_INTERVAL", "30s")
	t.Setenv("HISTORY_CAPACITY", "100")
	t.Setenv("ZS_URL", "http://localhost:1234/zs")

	cfg := Load()

	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.Interval != 30*time.Second {
		t.Errorf("Interval = %v", cfg.Interval)
	}
	if cfg.HistoryCap != 100 {
		t.Errorf("HistoryCap = %d", cfg.HistoryCap)
	}
	if cfg.Sources[0].URL != "http://localhost:1234/zs" {
		t.Errorf("zs URL = %q", cfg.Sources[0].URL)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "not-a-duration")
	t.Setenv("HISTORY_CAPACITY", "many")

	cfg := Load()

	if cfg.Interval != 15*time.Second {
		t.Errorf("Interval = %v, want default", cfg.Interval)
	}
	if cfg.HistoryCap != 240 {
		t.Errorf("HistoryCap = %d, want default", cfg.HistoryCap)
	}
}
