package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayFallbacks(t *testing.T) {
	ev := &SwapEvent{}

	assert.Equal(t, Unknown, ev.DisplayChain())
	assert.Equal(t, Unknown, ev.DisplayDex())
	assert.Equal(t, Unknown, ev.DisplayAmountIn())
	assert.Equal(t, Unknown, ev.DisplayAmountOut())
	assert.Equal(t, Unknown, ev.DisplayTimestamp())
	assert.Equal(t, Unknown, ev.DisplayTokenIn())
	assert.Equal(t, Unknown, ev.DisplayTokenOut())
	assert.Equal(t, Unknown, ev.ShortHash())
}

func TestDisplayValues(t *testing.T) {
	ev := &SwapEvent{
		Chain:     "Ethereum",
		Dex:       "UniswapV3",
		TokenIn:   Token{Symbol: "ETH"},
		TokenOut:  Token{Symbol: "USDC"},
		AmountIn:  "1.0",
		AmountOut: "3200.0",
		Timestamp: "2024-01-01T00:00:00Z",
	}

	assert.Equal(t, "Ethereum", ev.DisplayChain())
	assert.Equal(t, "UniswapV3", ev.DisplayDex())
	assert.Equal(t, "ETH", ev.DisplayTokenIn())
	assert.Equal(t, "USDC", ev.DisplayTokenOut())
	assert.Equal(t, "1.0", ev.DisplayAmountIn())
	assert.Equal(t, "3200.0", ev.DisplayAmountOut())
	assert.Equal(t, "2024-01-01T00:00:00Z", ev.DisplayTimestamp())
}

func TestShortHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
		want string
	}{
		{"long hash keeps first 10 chars", "0xabcdef1234567890", "0xabcdef12..."},
		{"exactly 10 chars", "0123456789", "0123456789..."},
		{"short hash keeps what is there", "0xabc", "0xabc..."},
		{"missing hash", "", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := &SwapEvent{TransactionHash: tt.hash}
			assert.Equal(t, tt.want, ev.ShortHash())
		})
	}
}

func TestFlexStringDecoding(t *testing.T) {
	var ev SwapEvent
	payload := `{"amount_in":"1.5","amount_out":2500,"timestamp":1704067200}`
	require.NoError(t, json.Unmarshal([]byte(payload), &ev))

	assert.Equal(t, FlexString("1.5"), ev.AmountIn)
	assert.Equal(t, FlexString("2500"), ev.AmountOut)
	assert.Equal(t, FlexString("1704067200"), ev.Timestamp)
}

func TestFlexStringNull(t *testing.T) {
	var ev SwapEvent
	require.NoError(t, json.Unmarshal([]byte(`{"amount_in":null}`), &ev))
	assert.Equal(t, FlexString(""), ev.AmountIn)
}

func TestFlexStringRoundTrip(t *testing.T) {
	ev := SwapEvent{AmountIn: "1.0", TokenIn: Token{Symbol: "ETH"}}
	data, err := json.Marshal(&ev)
	require.NoError(t, err)

	var back SwapEvent
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, ev.AmountIn, back.AmountIn)
	assert.Equal(t, "ETH", back.TokenIn.Symbol)
}
