package config

import (
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"familyties-server/internal/util"
)

// Config provides configuration for the Family Ties server
type Config struct {
	loaded bool

	// SnapshotPath is where the best-effort room snapshot is written
	SnapshotPath string `yaml:"snapshotPath" envconfig:"snapshot_path"`

	// SeatHoldSeconds is how long a disconnected player's seat is held
	SeatHoldSeconds int `yaml:"seatHoldSeconds" envconfig:"seat_hold_seconds"`

	Log struct {
		Level             string `yaml:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	}
}

// DefaultConfig returns the configuration defaults
func DefaultConfig() Config {
	cfg := Config{
		SnapshotPath:    "rooms.json",
		SeatHoldSeconds: 300,
	}

	return cfg
}

// SeatHoldWindow returns the seat hold window as a duration
func (c Config) SeatHoldWindow() time.Duration {
	return time.Duration(c.SeatHoldSeconds) * time.Second
}

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// A missing config file is fine; every key has a default and can be set from
// the environment.
func Load() error {
	config = DefaultConfig()

	configFile := util.Getenv("FTS_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err == nil {
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := envconfig.Process("fts", &config); err != nil {
		return err
	}

	config.loaded = true
	return nil
}
