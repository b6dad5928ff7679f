package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"uniswap-relay/internal/models"
	"uniswap-relay/internal/subgraph"
)

func v2Fixture() *subgraph.V2Swap {
	return &subgraph.V2Swap{
		ID:          "0xaaa-3",
		Timestamp:   "1704067200",
		Transaction: subgraph.TxRef{ID: "0xaaa"},
		Pair: subgraph.V2Pair{
			ID:     "0xpair",
			Token0: subgraph.TokenRef{ID: "0xweth", Symbol: "WETH"},
			Token1: subgraph.TokenRef{ID: "0xusdc", Symbol: "USDC"},
		},
		Sender:     "0xsender",
		Amount0In:  "1.5",
		Amount1In:  "0",
		Amount0Out: "0",
		Amount1Out: "4800",
		AmountUSD:  "4800.12",
	}
}

func TestFromV2Token0In(t *testing.T) {
	ev := FromV2(v2Fixture())

	assert.Equal(t, "Ethereum", ev.Chain)
	assert.Equal(t, "UniswapV2", ev.Dex)
	assert.Equal(t, "0xaaa", ev.TransactionHash)
	assert.Equal(t, "0xpair", ev.PoolAddress)
	assert.Equal(t, "WETH", ev.TokenIn.Symbol)
	assert.Equal(t, "USDC", ev.TokenOut.Symbol)
	assert.Equal(t, models.FlexString("1.5"), ev.AmountIn)
	assert.Equal(t, models.FlexString("4800"), ev.AmountOut)
	assert.Equal(t, models.FlexString("2024-01-01T00:00:00Z"), ev.Timestamp)
}

func TestFromV2Token1In(t *testing.T) {
	s := v2Fixture()
	s.Amount0In = "0"
	s.Amount1In = "4800"
	s.Amount0Out = "1.5"
	s.Amount1Out = "0"

	ev := FromV2(s)

	assert.Equal(t, "USDC", ev.TokenIn.Symbol)
	assert.Equal(t, "WETH", ev.TokenOut.Symbol)
	assert.Equal(t, models.FlexString("4800"), ev.AmountIn)
	assert.Equal(t, models.FlexString("1.5"), ev.AmountOut)
}

func TestFromV3PositiveAmount0(t *testing.T) {
	ev := FromV3(&subgraph.V3Swap{
		ID:          "0xbbb#7",
		Timestamp:   "1704067200",
		Transaction: subgraph.TxRef{ID: "0xbbb"},
		Pool:        subgraph.V3Pool{ID: "0xpool", FeeTier: "3000"},
		Token0:      subgraph.TokenRef{ID: "0xweth", Symbol: "WETH"},
		Token1:      subgraph.TokenRef{ID: "0xusdc", Symbol: "USDC"},
		Amount0:     "2.0",
		Amount1:     "-6400",
		AmountUSD:   "6400.5",
	})

	assert.Equal(t, "UniswapV3", ev.Dex)
	assert.Equal(t, "WETH", ev.TokenIn.Symbol)
	assert.Equal(t, "USDC", ev.TokenOut.Symbol)
	assert.Equal(t, models.FlexString("2.0"), ev.AmountIn)
	assert.Equal(t, models.FlexString("6400"), ev.AmountOut)
}

func TestFromV3NegativeAmount0(t *testing.T) {
	ev := FromV3(&subgraph.V3Swap{
		Token0:  subgraph.TokenRef{Symbol: "WETH"},
		Token1:  subgraph.TokenRef{Symbol: "USDC"},
		Amount0: "-2.0",
		Amount1: "6400",
	})

	assert.Equal(t, "USDC", ev.TokenIn.Symbol)
	assert.Equal(t, "WETH", ev.TokenOut.Symbol)
	assert.Equal(t, models.FlexString("6400"), ev.AmountIn)
	assert.Equal(t, models.FlexString("2.0"), ev.AmountOut)
}

func TestTxHash(t *testing.T) {
	assert.Equal(t, "0xaaa", txHash("0xaaa", "0xbbb-1"))
	assert.Equal(t, "0xbbb", txHash("", "0xbbb-1"))
	assert.Equal(t, "0xccc", txHash("", "0xccc"))
}

func TestNormalizeTimestamp(t *testing.T) {
	assert.Equal(t, "2024-01-01T00:00:00Z", normalizeTimestamp("1704067200"))
	assert.Equal(t, "already-formatted", normalizeTimestamp("already-formatted"))
}

func TestIsPositive(t *testing.T) {
	assert.True(t, isPositive("1.5"))
	assert.False(t, isPositive("0"))
	assert.False(t, isPositive("-1"))
	assert.False(t, isPositive("not a number"))
}
