package runner

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betbot/copycat/internal/domain"
)

type fakeFetcher struct {
	positions []domain.Position
	err       error
}

func (f *fakeFetcher) OpenPositions(ctx context.Context, wallet string) ([]domain.Position, error) {
	return f.positions, f.err
}

type memStore struct {
	state map[string]float64
	saved []map[string]float64
}

func (s *memStore) Load() map[string]float64 {
	if s.state == nil {
		return map[string]float64{}
	}
	return s.state
}

func (s *memStore) Save(state map[string]float64) error {
	s.saved = append(s.saved, state)
	s.state = state
	return nil
}

type fakeSender struct {
	sent []string
	err  error
}

func (s *fakeSender) Send(ctx context.Context, text string) error {
	s.sent = append(s.sent, text)
	return s.err
}

type fakeTrader struct {
	mirrored []domain.PositionChange
	err      error
}

func (t *fakeTrader) Mirror(ctx context.Context, change domain.PositionChange) (domain.TradeDecision, error) {
	t.mirrored = append(t.mirrored, change)
	if t.err != nil {
		return domain.TradeDecision{}, t.err
	}
	return domain.TradeDecision{AssetID: change.AssetID, OrderID: "order-1"}, nil
}

func TestRunOnceEndToEnd(t *testing.T) {
	fetcher := &fakeFetcher{positions: []domain.Position{
		{AssetID: "A", Size: 10.0},
		{AssetID: "B", Size: 5.0, Title: "X"},
	}}
	store := &memStore{state: map[string]float64{"A": 10.0}}
	sender := &fakeSender{}
	trader := &fakeTrader{}

	r := New("0xwallet", fetcher, store, sender, trader)
	require.NoError(t, r.RunOnce(context.Background()))

	// one NEW event for B, nothing for A
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], "New Position Detected")
	assert.Contains(t, sender.sent[0], "X")

	require.Len(t, trader.mirrored, 1)
	assert.Equal(t, "B", trader.mirrored[0].AssetID)

	require.Len(t, store.saved, 1)
	assert.Equal(t, map[string]float64{"A": 10.0, "B": 5.0}, store.saved[0])
}

func TestRunOnceDecreaseNeverTrades(t *testing.T) {
	fetcher := &fakeFetcher{positions: []domain.Position{{AssetID: "A", Size: 5.0}}}
	store := &memStore{state: map[string]float64{"A": 10.0}}
	trader := &fakeTrader{}

	r := New("0xwallet", fetcher, store, &fakeSender{}, trader)
	require.NoError(t, r.RunOnce(context.Background()))

	assert.Empty(t, trader.mirrored)
	assert.Equal(t, map[string]float64{"A": 5.0}, store.state)
}

func TestRunOnceFailuresAreIsolated(t *testing.T) {
	fetcher := &fakeFetcher{positions: []domain.Position{
		{AssetID: "A", Size: 3.0},
		{AssetID: "B", Size: 4.0},
	}}
	store := &memStore{}
	sender := &fakeSender{err: errors.New("telegram down")}
	trader := &fakeTrader{err: errors.New("venue down")}

	r := New("0xwallet", fetcher, store, sender, trader)
	require.NoError(t, r.RunOnce(context.Background()))

	// both instruments were still attempted and the snapshot persisted
	assert.Len(t, trader.mirrored, 2)
	require.Len(t, store.saved, 1)
	assert.Equal(t, map[string]float64{"A": 3.0, "B": 4.0}, store.saved[0])
}

func TestRunOnceFetchFailureKeepsSnapshot(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("data api down")}
	store := &memStore{state: map[string]float64{"A": 10.0}}

	r := New("0xwallet", fetcher, store, &fakeSender{}, &fakeTrader{})
	require.Error(t, r.RunOnce(context.Background()))

	assert.Empty(t, store.saved)
	assert.Equal(t, map[string]float64{"A": 10.0}, store.state)
}

func TestRunOnceMissingWallet(t *testing.T) {
	r := New("", &fakeFetcher{}, &memStore{}, nil, nil)
	require.Error(t, r.RunOnce(context.Background()))
}

func TestRunOnceWithoutTraderOrNotifier(t *testing.T) {
	fetcher := &fakeFetcher{positions: []domain.Position{{AssetID: "A", Size: 1.0}}}
	store := &memStore{}

	r := New("0xwallet", fetcher, store, nil, nil)
	require.NoError(t, r.RunOnce(context.Background()))
	assert.Equal(t, map[string]float64{"A": 1.0}, store.state)
}
