package collector

import (
	"strconv"
	"strings"
	"time"

	"uniswap-relay/internal/models"
	"uniswap-relay/internal/subgraph"
)

const (
	chainName = "Ethereum"
	dexV2     = "UniswapV2"
	dexV3     = "UniswapV3"
)

// FromV2 normalizes a V2 subgraph row into the wire event. V2 reports four
// unsigned amounts; whichever amountXIn is non-zero marks the input token.
func FromV2(s *subgraph.V2Swap) *models.SwapEvent {
	ev := &models.SwapEvent{
		Chain:           chainName,
		Dex:             dexV2,
		TransactionHash: txHash(s.Transaction.ID, s.ID),
		PoolAddress:     s.Pair.ID,
		AmountUSD:       models.FlexString(s.AmountUSD),
		Sender:          s.Sender,
		Timestamp:       models.FlexString(normalizeTimestamp(s.Timestamp)),
	}

	if isPositive(s.Amount0In) {
		ev.TokenIn = models.Token{Symbol: s.Pair.Token0.Symbol, Address: s.Pair.Token0.ID}
		ev.TokenOut = models.Token{Symbol: s.Pair.Token1.Symbol, Address: s.Pair.Token1.ID}
		ev.AmountIn = models.FlexString(s.Amount0In)
		ev.AmountOut = models.FlexString(s.Amount1Out)
	} else {
		ev.TokenIn = models.Token{Symbol: s.Pair.Token1.Symbol, Address: s.Pair.Token1.ID}
		ev.TokenOut = models.Token{Symbol: s.Pair.Token0.Symbol, Address: s.Pair.Token0.ID}
		ev.AmountIn = models.FlexString(s.Amount1In)
		ev.AmountOut = models.FlexString(s.Amount0Out)
	}
	return ev
}

// FromV3 normalizes a V3 subgraph row. V3 amounts are signed from the pool's
// point of view: the positive amount entered the pool.
func FromV3(s *subgraph.V3Swap) *models.SwapEvent {
	ev := &models.SwapEvent{
		Chain:           chainName,
		Dex:             dexV3,
		TransactionHash: txHash(s.Transaction.ID, s.ID),
		PoolAddress:     s.Pool.ID,
		AmountUSD:       models.FlexString(s.AmountUSD),
		Sender:          s.Sender,
		Timestamp:       models.FlexString(normalizeTimestamp(s.Timestamp)),
	}

	if !strings.HasPrefix(s.Amount0, "-") {
		ev.TokenIn = models.Token{Symbol: s.Token0.Symbol, Address: s.Token0.ID}
		ev.TokenOut = models.Token{Symbol: s.Token1.Symbol, Address: s.Token1.ID}
		ev.AmountIn = models.FlexString(s.Amount0)
		ev.AmountOut = models.FlexString(strings.TrimPrefix(s.Amount1, "-"))
	} else {
		ev.TokenIn = models.Token{Symbol: s.Token1.Symbol, Address: s.Token1.ID}
		ev.TokenOut = models.Token{Symbol: s.Token0.Symbol, Address: s.Token0.ID}
		ev.AmountIn = models.FlexString(s.Amount1)
		ev.AmountOut = models.FlexString(strings.TrimPrefix(s.Amount0, "-"))
	}
	return ev
}

// txHash prefers the transaction reference; older subgraph deployments omit
// it, in which case the swap id ("<txhash>-<logindex>") still carries it.
func txHash(txID, swapID string) string {
	if txID != "" {
		return txID
	}
	if i := strings.IndexByte(swapID, '-'); i > 0 {
		return swapID[:i]
	}
	return swapID
}

// normalizeTimestamp turns the subgraph's unix-seconds string into RFC 3339
// UTC. Unparseable values pass through untouched.
func normalizeTimestamp(s string) string {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return s
	}
	return time.Unix(n, 0).UTC().Format(time.RFC3339)
}

func isPositive(amount string) bool {
	f, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return false
	}
	return f > 0
}
