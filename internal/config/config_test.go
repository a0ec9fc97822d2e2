package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gym-access-service", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())

	assert.Equal(t, 2*time.Second, cfg.Presence.CoalesceWindow())
	assert.Equal(t, 30*time.Second, cfg.Presence.HighlightWindow())
	assert.Equal(t, time.Second, cfg.Presence.SweepInterval())

	assert.Equal(t, "gym:feed", cfg.Feed.RedisChannel)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PRESENCE_SCAN_COALESCE_MS", "500")
	t.Setenv("PRESENCE_HIGHLIGHT_WINDOW_SECONDS", "10")
	t.Setenv("FEED_REDIS_CHANNEL", "gym:feed:test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.Presence.CoalesceWindow())
	assert.Equal(t, 10*time.Second, cfg.Presence.HighlightWindow())
	assert.Equal(t, "gym:feed:test", cfg.Feed.RedisChannel)
}

func TestLoadInvalidIntFallsBack(t *testing.T) {
	t.Setenv("PRESENCE_SCAN_COALESCE_MS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Presence.CoalesceWindow())
}
