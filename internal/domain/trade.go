package domain

import "errors"

// Side is an order direction on the venue.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// RejectReason is a trade-policy rejection.
type RejectReason string

const (
	RejectNoLiquidity         RejectReason = "NO_LIQUIDITY"
	RejectInsufficientBalance RejectReason = "INSUFFICIENT_BALANCE"
	RejectInvalidSize         RejectReason = "INVALID_SIZE"
)

// ErrMarketNotFound is reported by the venue when the market is closed or
// resolved. Callers suppress further alarm on it.
var ErrMarketNotFound = errors.New("market not found")

// TradeDecision is the outcome of the copy-trade policy for one position
// change. Computed fresh per change, never persisted.
type TradeDecision struct {
	AssetID   string
	Side      Side
	Size      float64
	Price     float64
	Notional  float64
	Simulated bool         // dry-run: computed and logged, not submitted
	Reject    RejectReason // empty when the trade was approved
	OrderID   string       // set after a successful submission
}

// Rejected reports whether the policy declined to trade.
func (d TradeDecision) Rejected() bool {
	return d.Reject != ""
}
