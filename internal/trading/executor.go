package trading

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/betbot/copycat/internal/domain"
	"github.com/betbot/copycat/internal/notify"
	"github.com/betbot/copycat/pkg/logger"
)

// Venue is the order-book venue the executor trades on.
type Venue interface {
	BestAsk(ctx context.Context, assetID string) (float64, error)
	BestBid(ctx context.Context, assetID string) (float64, error)
	CollateralBalance(ctx context.Context) (float64, error)
	SubmitOrder(ctx context.Context, assetID string, side domain.Side, price, size float64) (string, error)
}

// Executor mirrors observed accumulations as buy orders. Only NEW and
// INCREASE changes trigger trading; sells and closures are never copied.
type Executor struct {
	venue    Venue
	notifier notify.Sender
	policy   Policy
}

// NewExecutor wires the executor. The notifier is best-effort and may be nil.
func NewExecutor(venue Venue, notifier notify.Sender, policy Policy) *Executor {
	return &Executor{venue: venue, notifier: notifier, policy: policy}
}

// Mirror runs the trade policy for one change and submits the resulting
// order unless rejected or in dry-run. A non-nil error is a transport or
// venue failure for this instrument only; the caller logs it and moves on.
func (e *Executor) Mirror(ctx context.Context, change domain.PositionChange) (domain.TradeDecision, error) {
	d := domain.TradeDecision{AssetID: change.AssetID, Side: domain.SideBuy}
	if change.Kind != domain.ChangeNew && change.Kind != domain.ChangeIncrease {
		return d, errors.Errorf("change kind %s is not tradeable", change.Kind)
	}

	ask, err := e.venue.BestAsk(ctx, change.AssetID)
	if err != nil {
		return d, errors.Wrap(err, "quote best ask")
	}
	if ask <= 0 {
		d.Reject = domain.RejectNoLiquidity
		logger.Warnf("[trade] %s: no asks on the book, skipping", change.AssetID)
		return d, nil
	}
	d.Price = ask

	if bid, err := e.venue.BestBid(ctx, change.AssetID); err == nil && bid > 0 {
		logger.Debugf("[trade] %s: book bid=%.2f ask=%.2f", change.AssetID, bid, ask)
	}

	notional := e.policy.EffectiveNotional()
	d.Notional = notional

	balance, err := e.venue.CollateralBalance(ctx)
	if err != nil {
		return d, errors.Wrap(err, "quote balance")
	}
	if balance < notional {
		d.Reject = domain.RejectInsufficientBalance
		logger.Warnf("[trade] %s: balance %.2f below notional %.2f", change.AssetID, balance, notional)
		e.sendFailure(ctx, change.Position,
			fmt.Sprintf("Insufficient balance: %.2f USDC available, %.2f needed", balance, notional))
		return d, nil
	}

	size := e.policy.SizeFor(ask)
	if size <= 0 {
		d.Reject = domain.RejectInvalidSize
		logger.Warnf("[trade] %s: computed size %.2f is not tradeable", change.AssetID, size)
		return d, nil
	}
	d.Size = size

	if e.policy.DryRun {
		d.Simulated = true
		logger.Infof("[trade] dry-run: would BUY %.2f %s @ %.2f (~$%.2f)", size, change.AssetID, ask, size*ask)
		return d, nil
	}

	orderID, err := e.venue.SubmitOrder(ctx, change.AssetID, domain.SideBuy, ask, size)
	if errors.Is(err, domain.ErrMarketNotFound) {
		// market closed or resolved between fetch and submit, not an alarm
		logger.Infof("[trade] %s: market gone, order skipped", change.AssetID)
		return d, nil
	}
	if err != nil {
		e.sendFailure(ctx, change.Position, fmt.Sprintf("Order submission failed: %v", err))
		return d, errors.Wrap(err, "submit order")
	}

	d.OrderID = orderID
	logger.Infof("[trade] %s: BUY %.2f @ %.2f placed, order=%s", change.AssetID, size, ask, orderID)
	e.sendSuccess(ctx, d, change.Position)
	return d, nil
}

func (e *Executor) sendSuccess(ctx context.Context, d domain.TradeDecision, pos domain.Position) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.Send(ctx, notify.RenderTradeSuccess(d, pos)); err != nil {
		logger.Warnf("[trade] success notification failed: %v", err)
	}
}

func (e *Executor) sendFailure(ctx context.Context, pos domain.Position, detail string) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.Send(ctx, notify.RenderTradeFailure(pos, detail)); err != nil {
		logger.Warnf("[trade] failure notification failed: %v", err)
	}
}
