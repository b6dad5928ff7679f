// ============================================================================
// models/swap.go
// ============================================================================
package models

// Unknown is the placeholder shown for any field a publisher left out.
const Unknown = "Unknown"

// Token identifies one side of a swap. Only the symbol is needed for
// display; the address is carried when the publisher knows it.
type Token struct {
	Symbol  string `json:"symbol,omitempty"`
	Address string `json:"address,omitempty"`
}

// SwapEvent is the wire format published on the swap_events channel.
// Every field is optional: publishers fill in what they know and consumers
// substitute Unknown for the rest. Amounts and timestamps travel as strings
// so the listener can echo them back without reformatting.
type SwapEvent struct {
	Chain           string     `json:"chain,omitempty"`
	Dex             string     `json:"dex,omitempty"`
	TransactionHash string     `json:"transaction_hash,omitempty"`
	BlockNumber     uint64     `json:"block_number,omitempty"`
	PoolAddress     string     `json:"pool_address,omitempty"`
	TokenIn         Token      `json:"token_in"`
	TokenOut        Token      `json:"token_out"`
	AmountIn        FlexString `json:"amount_in,omitempty"`
	AmountOut       FlexString `json:"amount_out,omitempty"`
	AmountUSD       FlexString `json:"amount_usd,omitempty"`
	Sender          string     `json:"sender,omitempty"`
	Timestamp       FlexString `json:"timestamp,omitempty"`
}

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}

// DisplayChain returns the chain name or Unknown.
func (e *SwapEvent) DisplayChain() string { return orUnknown(e.Chain) }

// DisplayDex returns the DEX name or Unknown.
func (e *SwapEvent) DisplayDex() string { return orUnknown(e.Dex) }

// DisplayAmountIn returns the input amount or Unknown.
func (e *SwapEvent) DisplayAmountIn() string { return orUnknown(string(e.AmountIn)) }

// DisplayAmountOut returns the output amount or Unknown.
func (e *SwapEvent) DisplayAmountOut() string { return orUnknown(string(e.AmountOut)) }

// DisplayTimestamp returns the event timestamp or Unknown.
func (e *SwapEvent) DisplayTimestamp() string { return orUnknown(string(e.Timestamp)) }

// DisplayTokenIn returns the input token symbol or Unknown.
func (e *SwapEvent) DisplayTokenIn() string { return orUnknown(e.TokenIn.Symbol) }

// DisplayTokenOut returns the output token symbol or Unknown.
func (e *SwapEvent) DisplayTokenOut() string { return orUnknown(e.TokenOut.Symbol) }

// ShortHash returns the first 10 characters of the transaction hash followed
// by an ellipsis. Shorter hashes keep whatever characters are available; a
// missing hash yields Unknown with no ellipsis.
func (e *SwapEvent) ShortHash() string {
	if e.TransactionHash == "" {
		return Unknown
	}
	h := e.TransactionHash
	if len(h) > 10 {
		h = h[:10]
	}
	return h + "..."
}
