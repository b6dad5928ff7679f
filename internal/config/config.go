package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Redis settings
	RedisAddr    string
	RedisChannel string

	// Listener settings
	AuditLogPath string

	// Subgraph settings
	SubgraphV2URL string
	SubgraphV3URL string
	PollInterval  time.Duration
	BatchSize     int

	// HTTP client settings
	HTTPTimeout   time.Duration
	MaxRetries    int
	RetryBackoff  time.Duration
	RetryMaxDelay time.Duration

	// ClickHouse settings (archive is disabled when the addr is empty)
	ClickHouseAddr     string
	ClickHouseDatabase string
	ClickHouseUsername string
	ClickHousePassword string

	// API server settings
	APIAddr string
	APIKey  string
	DevMode bool

	// Telemetry
	MetricsInterval time.Duration

	// AI settings (optional)
	OpenRouterAPIKey string
}

func Load() *Config {
	return &Config{
		// Redis
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisChannel: getEnv("REDIS_CHANNEL", "swap_events"),

		// Listener
		AuditLogPath: getEnv("AUDIT_LOG_PATH", "events.log"),

		// Subgraphs
		SubgraphV2URL: getEnv("UNISWAP_V2_SUBGRAPH_URL", "https://api.thegraph.com/subgraphs/name/uniswap/uniswap-v2"),
		SubgraphV3URL: getEnv("UNISWAP_V3_SUBGRAPH_URL", "https://api.thegraph.com/subgraphs/name/uniswap/uniswap-v3"),
		PollInterval:  getDurationEnv("POLL_INTERVAL", 15*time.Second),
		BatchSize:     getIntEnv("SWAP_BATCH_SIZE", 25),

		// HTTP
		HTTPTimeout:   getDurationEnv("HTTP_TIMEOUT", 30*time.Second),
		MaxRetries:    getIntEnv("MAX_RETRIES", 3),
		RetryBackoff:  getDurationEnv("RETRY_BACKOFF", time.Second),
		RetryMaxDelay: getDurationEnv("RETRY_MAX_DELAY", 30*time.Second),

		// ClickHouse
		ClickHouseAddr:     getEnv("CLICKHOUSE_ADDR", ""),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "uniswap"),
		ClickHouseUsername: getEnv("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),

		// API
		APIAddr: getEnv("API_ADDR", ":8090"),
		APIKey:  getEnv("API_KEY", ""),
		DevMode: getBoolEnv("DEV_MODE", false),

		// Telemetry
		MetricsInterval: getDurationEnv("METRICS_INTERVAL", 15*time.Second),

		// AI
		OpenRouterAPIKey: getEnv("OPENROUTER_API_KEY", ""),
	}
}

// Validate checks the invariants the daemons rely on. It is called once at
// startup; a failure here is fatal.
func (c *Config) Validate() error {
	if c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required")
	}
	if c.RedisChannel == "" {
		return fmt.Errorf("REDIS_CHANNEL is required")
	}
	if c.AuditLogPath == "" {
		return fmt.Errorf("AUDIT_LOG_PATH is required")
	}
	if c.SubgraphV2URL == "" || c.SubgraphV3URL == "" {
		return fmt.Errorf("subgraph URLs are required")
	}
	if c.PollInterval < time.Second {
		return fmt.Errorf("POLL_INTERVAL must be at least 1s, got %s", c.PollInterval)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("SWAP_BATCH_SIZE must be positive, got %d", c.BatchSize)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("MAX_RETRIES must not be negative, got %d", c.MaxRetries)
	}
	if c.RetryBackoff <= 0 {
		return fmt.Errorf("RETRY_BACKOFF must be positive, got %s", c.RetryBackoff)
	}
	return nil
}

// ArchiveEnabled reports whether swaps should also be written to ClickHouse.
func (c *Config) ArchiveEnabled() bool {
	return c.ClickHouseAddr != ""
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
