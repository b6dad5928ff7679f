package listener

import (
	"encoding/json"
	"fmt"

	"uniswap-relay/internal/models"
)

// rawPreviewLen is how many characters of an undecodable payload are shown.
const rawPreviewLen = 100

// Format renders one inbound payload as a single summary line. Payloads that
// do not decode as a swap-event object fall back to a raw preview; decode
// trouble is never fatal here.
func Format(payload []byte) string {
	var ev models.SwapEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return rawFallback(payload)
	}
	return FormatEvent(&ev)
}

// FormatEvent renders a decoded swap event:
//
//	[<timestamp>] <chain> | <dex> | <tx> | <amount_in> <in> → <amount_out> <out>
//
// Missing fields show as Unknown.
func FormatEvent(e *models.SwapEvent) string {
	return fmt.Sprintf("[%s] %s | %s | %s | %s %s → %s %s",
		e.DisplayTimestamp(),
		e.DisplayChain(),
		e.DisplayDex(),
		e.ShortHash(),
		e.DisplayAmountIn(),
		e.DisplayTokenIn(),
		e.DisplayAmountOut(),
		e.DisplayTokenOut(),
	)
}

func rawFallback(payload []byte) string {
	r := []rune(string(payload))
	if len(r) > rawPreviewLen {
		r = r[:rawPreviewLen]
	}
	return fmt.Sprintf("Raw data: %s...", string(r))
}
