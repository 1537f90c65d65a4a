package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstance(t *testing.T) {
	clear1 := setEnv("FTS_CONFIG_FILE", "testdata/config.yaml")
	defer clear1()
	clear2 := setEnv("FTS_SEAT_HOLD_SECONDS", "60")
	defer clear2()

	a := assert.New(t)
	assert.NoError(t, Load())
	cfg := Instance()
	a.Equal("/var/lib/familyties/rooms.json", cfg.SnapshotPath)
	a.Equal(60, cfg.SeatHoldSeconds)
	a.Equal("debug", cfg.Log.Level)

	// ensure that it's only loaded once
	_ = os.Setenv("FTS_SEAT_HOLD_SECONDS", "90")
	// ensure we aren't using a pointer
	cfg.SeatHoldSeconds = 1
	cfg = Instance()
	a.Equal(60, cfg.SeatHoldSeconds)
}

func TestDefaults(t *testing.T) {
	clear1 := setEnv("FTS_CONFIG_FILE", "does-not-exist.yaml")
	defer clear1()
	_ = os.Unsetenv("FTS_SEAT_HOLD_SECONDS")

	assert.NoError(t, Load())
	cfg := Instance()
	assert.Equal(t, "rooms.json", cfg.SnapshotPath)
	assert.Equal(t, 300, cfg.SeatHoldSeconds)
}

func setEnv(key, val string) func() {
	orig := os.Getenv(key)
	_ = os.Setenv(key, val)
	return func() {
		if orig == "" {
			_ = os.Unsetenv(key)
			return
		}

		_ = os.Setenv(key, orig)
	}
}
