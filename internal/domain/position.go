package domain

// ChangeKind classifies a detected position change.
type ChangeKind string

const (
	ChangeNew      ChangeKind = "NEW"
	ChangeIncrease ChangeKind = "INCREASE"
	ChangeDecrease ChangeKind = "DECREASE"
)

// Position is one open position of the tracked wallet as reported by the
// Data API. It is transient: only Size survives a run, keyed by AssetID in
// the snapshot.
type Position struct {
	AssetID      string
	Title        string
	Outcome      string
	Size         float64 // shares held, always > 0 for a fetched position
	AvgPrice     float64
	CurrentValue float64
	PercentPnl   float64 // fraction, 0.05 means +5%
}

// PositionChange is one classified difference between the current fetch and
// the last snapshot. Consumed by the notifier and the trade policy within
// the same run, never persisted.
type PositionChange struct {
	AssetID   string
	Kind      ChangeKind
	Position  Position
	SizeDelta float64 // signed; negative for DECREASE
}
