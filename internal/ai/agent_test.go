package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeSQL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"plain query",
			"SELECT count() FROM uniswap.swaps",
			"SELECT count() FROM uniswap.swaps",
		},
		{
			"fenced with language tag",
			"```sql\nSELECT count() FROM uniswap.swaps\n```",
			"SELECT count() FROM uniswap.swaps",
		},
		{
			"fenced without language tag",
			"```\nSELECT 1 FROM swaps\n```",
			"SELECT 1 FROM swaps",
		},
		{
			"trailing semicolon",
			"SELECT count() FROM uniswap.swaps;",
			"SELECT count() FROM uniswap.swaps",
		},
		{
			"surrounding whitespace",
			"   SELECT dex FROM swaps   ",
			"SELECT dex FROM swaps",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeSQL(tt.in))
		})
	}
}

func TestValidateSQLAccepts(t *testing.T) {
	queries := []string{
		"SELECT count() FROM uniswap.swaps",
		"SELECT dex, count() AS n FROM swaps GROUP BY dex ORDER BY n DESC LIMIT 5",
		"select sum(toFloat64OrZero(amount_usd)) from uniswap.swaps",
	}
	for _, q := range queries {
		assert.NoError(t, validateSQL(q), q)
	}
}

func TestValidateSQLRejects(t *testing.T) {
	tests := []struct {
		name string
		sql  string
	}{
		{"empty", ""},
		{"not a select", "SHOW TABLES"},
		{"insert", "SELECT 1 FROM swaps; INSERT INTO swaps VALUES ('x')"},
		{"drop", "SELECT count() FROM swaps UNION ALL SELECT 1 WHERE 1=1 -- DROP TABLE swaps"},
		{"semicolon", "SELECT 1 FROM swaps; SELECT 2 FROM swaps"},
		{"wrong table", "SELECT * FROM system.tables"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, validateSQL(tt.sql))
		})
	}
}

func TestNewAgentRequiresAPIKey(t *testing.T) {
	_, err := NewAgent(context.Background(), AgentConfig{ClickHouseAddr: "localhost:9000"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENROUTER_API_KEY")
}
