package daemon

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 9465 {
		t.Errorf("API.Port = %d, want %d", cfg.API.Port, 9465)
	}
	if !cfg.Sync.Enabled {
		t.Error("Sync.Enabled = false, want true")
	}
	if cfg.Pedometer.StepsPerXP != 100 {
		t.Errorf("Pedometer.StepsPerXP = %d, want 100", cfg.Pedometer.StepsPerXP)
	}
	if cfg.Pedometer.MaxXPPerDay != 500 {
		t.Errorf("Pedometer.MaxXPPerDay = %d, want 500", cfg.Pedometer.MaxXPPerDay)
	}
	if cfg.Gamify.SettleDelay != "100ms" {
		t.Errorf("Gamify.SettleDelay = %q, want %q", cfg.Gamify.SettleDelay, "100ms")
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input    string
		fallback time.Duration
		want     time.Duration
	}{
		{"30s", time.Minute, 30 * time.Second},
		{"100ms", time.Second, 100 * time.Millisecond},
		{"", 5 * time.Second, 5 * time.Second},
		{"garbage", time.Minute, time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseDuration(tt.input, tt.fallback)
			if got != tt.want {
				t.Errorf("parseDuration(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadConfigRoundTrip(t *testing.T) {
	t.Setenv("TRAILFORGE_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.API.Port = 9999
	cfg.Sync.Enabled = false
	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.API.Port != 9999 {
		t.Errorf("API.Port = %d, want 9999", loaded.API.Port)
	}
	if loaded.Sync.Enabled {
		t.Error("Sync.Enabled = true, want false")
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("TRAILFORGE_HOME", filepath.Join(t.TempDir(), "nonexistent"))

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.API.Port != 9465 {
		t.Errorf("API.Port = %d, want default 9465", cfg.API.Port)
	}
}
