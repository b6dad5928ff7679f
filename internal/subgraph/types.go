package subgraph

import "encoding/json"

// queryResult is the standard GraphQL response envelope.
type queryResult struct {
	Data   json.RawMessage `json:"data"`
	Errors []queryError    `json:"errors"`
}

type queryError struct {
	Message string `json:"message"`
}

// TokenRef is the token projection shared by both subgraphs.
type TokenRef struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// TxRef carries the transaction hash a swap belongs to.
type TxRef struct {
	ID string `json:"id"`
}

// V2Swap is one row from the Uniswap V2 subgraph swaps query. Amounts are
// decimal strings; the in/out direction is whichever amountXIn is non-zero.
type V2Swap struct {
	ID          string `json:"id"`
	Timestamp   string `json:"timestamp"`
	Transaction TxRef  `json:"transaction"`
	Pair        V2Pair `json:"pair"`
	Sender      string `json:"sender"`
	Amount0In   string `json:"amount0In"`
	Amount1In   string `json:"amount1In"`
	Amount0Out  string `json:"amount0Out"`
	Amount1Out  string `json:"amount1Out"`
	AmountUSD   string `json:"amountUSD"`
}

type V2Pair struct {
	ID     string   `json:"id"`
	Token0 TokenRef `json:"token0"`
	Token1 TokenRef `json:"token1"`
}

// V3Swap is one row from the Uniswap V3 subgraph swaps query. amount0 and
// amount1 are signed: the positive one entered the pool.
type V3Swap struct {
	ID          string   `json:"id"`
	Timestamp   string   `json:"timestamp"`
	Transaction TxRef    `json:"transaction"`
	Pool        V3Pool   `json:"pool"`
	Token0      TokenRef `json:"token0"`
	Token1      TokenRef `json:"token1"`
	Sender      string   `json:"sender"`
	Amount0     string   `json:"amount0"`
	Amount1     string   `json:"amount1"`
	AmountUSD   string   `json:"amountUSD"`
}

type V3Pool struct {
	ID      string `json:"id"`
	FeeTier string `json:"feeTier"`
}
