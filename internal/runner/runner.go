package runner

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/betbot/copycat/internal/diff"
	"github.com/betbot/copycat/internal/domain"
	"github.com/betbot/copycat/internal/notify"
	"github.com/betbot/copycat/pkg/logger"
)

// PositionFetcher retrieves the tracked wallet's open positions.
type PositionFetcher interface {
	OpenPositions(ctx context.Context, wallet string) ([]domain.Position, error)
}

// Trader mirrors one tradeable change. nil disables copy trading.
type Trader interface {
	Mirror(ctx context.Context, change domain.PositionChange) (domain.TradeDecision, error)
}

// SnapshotStore persists the asset -> size baseline between runs.
type SnapshotStore interface {
	Load() map[string]float64
	Save(state map[string]float64) error
}

// Runner executes one watch cycle: fetch, diff, notify, trade, persist. It is
// meant to be invoked once per process by an external scheduler.
type Runner struct {
	wallet   string
	fetcher  PositionFetcher
	store    SnapshotStore
	notifier notify.Sender
	trader   Trader
}

// New wires a runner. notifier and trader may be nil (alerts or copy trading
// disabled).
func New(wallet string, fetcher PositionFetcher, store SnapshotStore, notifier notify.Sender, trader Trader) *Runner {
	return &Runner{
		wallet:   wallet,
		fetcher:  fetcher,
		store:    store,
		notifier: notifier,
		trader:   trader,
	}
}

// RunOnce performs the full cycle. Per-instrument notify/trade failures are
// isolated and never prevent the final snapshot persistence; only a failed
// fetch aborts the run, leaving the previous snapshot untouched.
func (r *Runner) RunOnce(ctx context.Context) error {
	if strings.TrimSpace(r.wallet) == "" {
		return errors.New("tracked wallet is not configured")
	}

	log := logger.WithField("run", uuid.NewString()[:8])
	log.Infof("watching positions of %s", r.wallet)

	current, err := r.fetcher.OpenPositions(ctx, r.wallet)
	if err != nil {
		// keep the old baseline rather than diffing against nothing
		return errors.Wrap(err, "fetch positions")
	}
	log.Infof("found %d open positions", len(current))

	last := r.store.Load()
	if len(last) == 0 {
		log.Info("no prior snapshot, alerting on all current positions")
	}

	res := diff.Compute(current, last)
	for _, asset := range res.Closed {
		// closures carry no retained metadata and are deliberately not alerted
		log.Debugf("position closed: %s", asset)
	}
	if len(res.Changes) == 0 {
		log.Info("no position changes")
	}

	for _, change := range res.Changes {
		log.Infof("%s %s: delta=%.2f size=%.2f title=%q",
			change.Kind, change.AssetID, change.SizeDelta, change.Position.Size, change.Position.Title)

		r.alert(ctx, log, change)

		if r.trader == nil {
			continue
		}
		if change.Kind != domain.ChangeNew && change.Kind != domain.ChangeIncrease {
			continue
		}
		decision, err := r.trader.Mirror(ctx, change)
		switch {
		case err != nil:
			log.Errorf("mirror %s failed: %v", change.AssetID, err)
		case decision.Rejected():
			log.Infof("mirror %s rejected: %s", change.AssetID, decision.Reject)
		case decision.Simulated:
			log.Infof("mirror %s simulated: BUY %.2f @ %.2f", change.AssetID, decision.Size, decision.Price)
		default:
			log.Infof("mirror %s placed: order=%s", change.AssetID, decision.OrderID)
		}
	}

	if err := r.store.Save(res.Snapshot); err != nil {
		return errors.Wrap(err, "persist snapshot")
	}
	log.Info("run complete")
	return nil
}

func (r *Runner) alert(ctx context.Context, log *logrus.Entry, change domain.PositionChange) {
	if r.notifier == nil {
		return
	}
	msg, err := notify.Render(change, r.wallet)
	if err != nil {
		log.Warnf("render alert for %s failed: %v", change.AssetID, err)
		return
	}
	if err := r.notifier.Send(ctx, msg); err != nil {
		log.Warnf("deliver alert for %s failed: %v", change.AssetID, err)
	}
}
