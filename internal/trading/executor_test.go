package trading

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betbot/copycat/internal/domain"
)

type fakeVenue struct {
	ask        float64
	askErr     error
	bid        float64
	balance    float64
	balanceErr error

	submitErr    error
	orderID      string
	submitCalls  int
	lastSide     domain.Side
	lastPrice    float64
	lastSize     float64
	lastAssetID  string
	balanceCalls int
}

func (v *fakeVenue) BestAsk(ctx context.Context, assetID string) (float64, error) {
	return v.ask, v.askErr
}

func (v *fakeVenue) BestBid(ctx context.Context, assetID string) (float64, error) {
	return v.bid, nil
}

func (v *fakeVenue) CollateralBalance(ctx context.Context) (float64, error) {
	v.balanceCalls++
	return v.balance, v.balanceErr
}

func (v *fakeVenue) SubmitOrder(ctx context.Context, assetID string, side domain.Side, price, size float64) (string, error) {
	v.submitCalls++
	v.lastAssetID = assetID
	v.lastSide = side
	v.lastPrice = price
	v.lastSize = size
	if v.submitErr != nil {
		return "", v.submitErr
	}
	return v.orderID, nil
}

type fakeSender struct {
	sent []string
	err  error
}

func (s *fakeSender) Send(ctx context.Context, text string) error {
	s.sent = append(s.sent, text)
	return s.err
}

func newChange(kind domain.ChangeKind) domain.PositionChange {
	return domain.PositionChange{
		AssetID:   "123456",
		Kind:      kind,
		Position:  domain.Position{AssetID: "123456", Title: "Test Market", Size: 5},
		SizeDelta: 5,
	}
}

func TestMirrorSubmitsGTCBuyAtAsk(t *testing.T) {
	venue := &fakeVenue{ask: 0.37, bid: 0.35, balance: 100, orderID: "order-1"}
	sender := &fakeSender{}
	exec := NewExecutor(venue, sender, Policy{Notional: 1.0})

	d, err := exec.Mirror(context.Background(), newChange(domain.ChangeNew))
	require.NoError(t, err)
	assert.False(t, d.Rejected())
	assert.Equal(t, "order-1", d.OrderID)
	assert.Equal(t, 1, venue.submitCalls)
	assert.Equal(t, domain.SideBuy, venue.lastSide)
	assert.Equal(t, 0.37, venue.lastPrice)
	assert.Equal(t, 2.71, venue.lastSize)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "Copy Trade Executed")
}

func TestMirrorRejectsWithoutLiquidity(t *testing.T) {
	venue := &fakeVenue{ask: 0, balance: 100}
	exec := NewExecutor(venue, nil, Policy{Notional: 1.0})

	d, err := exec.Mirror(context.Background(), newChange(domain.ChangeIncrease))
	require.NoError(t, err)
	assert.Equal(t, domain.RejectNoLiquidity, d.Reject)
	assert.Zero(t, venue.submitCalls)
	// balance is never quoted when there is nothing to buy
	assert.Zero(t, venue.balanceCalls)
}

func TestMirrorRejectsInsufficientBalance(t *testing.T) {
	venue := &fakeVenue{ask: 0.37, balance: 0.5}
	sender := &fakeSender{}
	exec := NewExecutor(venue, sender, Policy{Notional: 1.0})

	d, err := exec.Mirror(context.Background(), newChange(domain.ChangeNew))
	require.NoError(t, err)
	assert.Equal(t, domain.RejectInsufficientBalance, d.Reject)
	assert.Zero(t, venue.submitCalls)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "Copy Trade Failed")
}

func TestMirrorDryRunNeverSubmits(t *testing.T) {
	venue := &fakeVenue{ask: 0.37, balance: 100}
	exec := NewExecutor(venue, nil, Policy{Notional: 1.0, DryRun: true})

	d, err := exec.Mirror(context.Background(), newChange(domain.ChangeNew))
	require.NoError(t, err)
	assert.True(t, d.Simulated)
	assert.False(t, d.Rejected())
	assert.Equal(t, 2.71, d.Size) // sizing still runs
	assert.Zero(t, venue.submitCalls)
}

func TestMirrorSkipsNonBuyKinds(t *testing.T) {
	venue := &fakeVenue{ask: 0.37, balance: 100}
	exec := NewExecutor(venue, nil, Policy{Notional: 1.0})

	_, err := exec.Mirror(context.Background(), newChange(domain.ChangeDecrease))
	require.Error(t, err)
	assert.Zero(t, venue.submitCalls)
}

func TestMirrorSuppressesMarketNotFound(t *testing.T) {
	venue := &fakeVenue{ask: 0.37, balance: 100, submitErr: domain.ErrMarketNotFound}
	sender := &fakeSender{}
	exec := NewExecutor(venue, sender, Policy{Notional: 1.0})

	d, err := exec.Mirror(context.Background(), newChange(domain.ChangeNew))
	require.NoError(t, err)
	assert.Empty(t, d.OrderID)
	// no alarm for a market that resolved mid-run
	assert.Empty(t, sender.sent)
}

func TestMirrorReportsSubmitFailure(t *testing.T) {
	venue := &fakeVenue{ask: 0.37, balance: 100, submitErr: errors.New("rate limited")}
	sender := &fakeSender{}
	exec := NewExecutor(venue, sender, Policy{Notional: 1.0})

	_, err := exec.Mirror(context.Background(), newChange(domain.ChangeNew))
	require.Error(t, err)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "rate limited")
}

func TestMirrorTransportErrorOnQuote(t *testing.T) {
	venue := &fakeVenue{askErr: errors.New("timeout"), balance: 100}
	exec := NewExecutor(venue, nil, Policy{Notional: 1.0})

	_, err := exec.Mirror(context.Background(), newChange(domain.ChangeNew))
	require.Error(t, err)
	assert.Zero(t, venue.submitCalls)
}
