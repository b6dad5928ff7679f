package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "swap_events", cfg.RedisChannel)
	assert.Equal(t, "events.log", cfg.AuditLogPath)
	assert.Equal(t, 15*time.Second, cfg.PollInterval)
	assert.Equal(t, 25, cfg.BatchSize)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, ":8090", cfg.APIAddr)
	assert.False(t, cfg.DevMode)
	assert.False(t, cfg.ArchiveEnabled())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("REDIS_ADDR", "redis.internal:6380")
	t.Setenv("REDIS_CHANNEL", "swaps")
	t.Setenv("POLL_INTERVAL", "5s")
	t.Setenv("SWAP_BATCH_SIZE", "50")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("CLICKHOUSE_ADDR", "clickhouse:9000")

	cfg := Load()

	assert.Equal(t, "redis.internal:6380", cfg.RedisAddr)
	assert.Equal(t, "swaps", cfg.RedisChannel)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.True(t, cfg.DevMode)
	assert.True(t, cfg.ArchiveEnabled())
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("SWAP_BATCH_SIZE", "lots")
	t.Setenv("POLL_INTERVAL", "soon")
	t.Setenv("DEV_MODE", "yep")

	cfg := Load()

	assert.Equal(t, 25, cfg.BatchSize)
	assert.Equal(t, 15*time.Second, cfg.PollInterval)
	assert.False(t, cfg.DevMode)
}

func TestValidate(t *testing.T) {
	cfg := Load()
	require.NoError(t, cfg.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing redis addr", func(c *Config) { c.RedisAddr = "" }, "REDIS_ADDR"},
		{"missing channel", func(c *Config) { c.RedisChannel = "" }, "REDIS_CHANNEL"},
		{"missing audit path", func(c *Config) { c.AuditLogPath = "" }, "AUDIT_LOG_PATH"},
		{"missing subgraph url", func(c *Config) { c.SubgraphV2URL = "" }, "subgraph URLs"},
		{"poll interval too small", func(c *Config) { c.PollInterval = 100 * time.Millisecond }, "POLL_INTERVAL"},
		{"batch size zero", func(c *Config) { c.BatchSize = 0 }, "SWAP_BATCH_SIZE"},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }, "MAX_RETRIES"},
		{"zero backoff", func(c *Config) { c.RetryBackoff = 0 }, "RETRY_BACKOFF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
