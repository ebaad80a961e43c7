// Package daemon manages the TrailForge daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all daemon configuration.
type Config struct {
	API       APIConfig       `toml:"api"`
	Sync      SyncConfig      `toml:"sync"`
	Pedometer PedometerConfig `toml:"pedometer"`
	Gamify    GamifyConfig    `toml:"gamify"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	Logging   LoggingConfig   `toml:"logging"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// SyncConfig controls the remote community sync.
type SyncConfig struct {
	Enabled  bool   `toml:"enabled"`
	Endpoint string `toml:"endpoint"`
}

// PedometerConfig controls the anti-cheat policy.
type PedometerConfig struct {
	MaxStepsPerUpdate int64  `toml:"max_steps_per_update"`
	MaxStepsPerSecond int64  `toml:"max_steps_per_second"`
	MaxStepsPerHour   int64  `toml:"max_steps_per_hour"`
	StepsPerXP        int64  `toml:"steps_per_xp"`
	MaxXPPerDay       int64  `toml:"max_xp_per_day"`
	MinUpdateInterval string `toml:"min_update_interval"`
}

// GamifyConfig controls the engine debounce windows.
type GamifyConfig struct {
	SettleDelay string `toml:"settle_delay"`
	SyncDelay   string `toml:"sync_delay"`
}

// TelemetryConfig controls observability endpoints.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	homeDir := trailforgeHome()
	return Config{
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 9465,
		},
		Sync: SyncConfig{
			Enabled:  true,
			Endpoint: "https://community.trailforge.app/api/sync/points",
		},
		Pedometer: PedometerConfig{
			MaxStepsPerUpdate: 5000,
			MaxStepsPerSecond: 6,
			MaxStepsPerHour:   8000,
			StepsPerXP:        100,
			MaxXPPerDay:       500,
			MinUpdateInterval: "30s",
		},
		Gamify: GamifyConfig{
			SettleDelay: "100ms",
			SyncDelay:   "5s",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(homeDir, "trailforge.log"),
		},
	}
}

// LoadConfig reads config from ~/.trailforge/config.toml, falling back to
// defaults when no file exists yet.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(trailforgeHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes the config to ~/.trailforge/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(trailforgeHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// parseDuration parses a config duration, using fallback for empty or bad
// values.
func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// trailforgeHome returns the TrailForge data directory.
func trailforgeHome() string {
	if env := os.Getenv("TRAILFORGE_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".trailforge")
}

// TrailforgeHome is exported for use by other packages.
func TrailforgeHome() string {
	return trailforgeHome()
}
