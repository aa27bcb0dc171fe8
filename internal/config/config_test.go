package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, 500*time.Millisecond, cfg.Goals.CompletionDelay)
	assert.Equal(t, 3, cfg.Goals.RefreshCount)
	assert.Equal(t, 1, cfg.Goals.SuggestCount)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
	assert.Equal(t, 15*time.Second, cfg.Gemini.Timeout)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("GOAL_COMPLETION_DELAY", "2s")
	t.Setenv("GOAL_REFRESH_COUNT", "5")
	t.Setenv("KAFKA_ENABLED", "false")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := LoadConfig()

	assert.Equal(t, StoreDriverMemory, cfg.Database.Driver)
	assert.Equal(t, 2*time.Second, cfg.Goals.CompletionDelay)
	assert.Equal(t, 5, cfg.Goals.RefreshCount)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, 0, cfg.Redis.DB, "unparsable values fall back to the default")
}

func TestValidate(t *testing.T) {
	cfg := LoadConfig()
	cfg.Database.Driver = "sqlite"
	assert.Error(t, cfg.Validate())

	cfg = LoadConfig()
	cfg.Goals.RefreshCount = 0
	assert.Error(t, cfg.Validate())

	cfg = LoadConfig()
	cfg.Goals.CompletionDelay = -time.Second
	assert.Error(t, cfg.Validate())
}
