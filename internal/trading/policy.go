package trading

import (
	"github.com/shopspring/decimal"
)

// Policy holds the copy-trade sizing rules.
type Policy struct {
	// Notional is the fixed USDC budget spent per mirrored trade.
	Notional float64
	// MaxNotional caps the budget; 0 disables the cap.
	MaxNotional float64
	// DryRun computes and logs decisions without submitting orders.
	DryRun bool
}

// EffectiveNotional is the budget after the cap.
func (p Policy) EffectiveNotional() float64 {
	if p.MaxNotional > 0 && p.Notional > p.MaxNotional {
		return p.MaxNotional
	}
	return p.Notional
}

// SizeFor returns the smallest two-decimal share count whose cost at the
// given price covers the effective notional, so the order never falls below
// the venue's minimum order value. Returns 0 for a non-positive price.
func (p Policy) SizeFor(price float64) float64 {
	if price <= 0 {
		return 0
	}
	notional := p.EffectiveNotional()
	if notional <= 0 {
		return 0
	}
	size := decimal.NewFromFloat(notional).
		Div(decimal.NewFromFloat(price)).
		RoundUp(2)
	f, _ := size.Float64()
	return f
}
