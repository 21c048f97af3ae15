package diff

import (
	"github.com/betbot/copycat/internal/domain"
)

// NoiseThreshold is the minimum absolute size change (in shares) required to
// classify a change as real rather than rounding or settlement noise.
const NoiseThreshold = 0.1

// Result is the output of one comparison pass.
type Result struct {
	// Changes in fetch order: NEW, INCREASE and DECREASE events.
	Changes []domain.PositionChange
	// Snapshot is the full replacement state to persist: asset -> size for
	// every currently open position, whether or not it changed.
	Snapshot map[string]float64
	// Closed lists assets present in the last snapshot but absent from the
	// current fetch. The snapshot keeps no metadata for them, so they are
	// not alertable; callers may log them.
	Closed []string
}

// Compute compares the current open positions against the last persisted
// sizes and classifies every difference. Positions are visited in fetch
// order and no additional sort is imposed.
func Compute(current []domain.Position, last map[string]float64) Result {
	res := Result{
		Snapshot: make(map[string]float64, len(current)),
	}

	for _, pos := range current {
		res.Snapshot[pos.AssetID] = pos.Size

		lastSize, known := last[pos.AssetID]
		if !known {
			res.Changes = append(res.Changes, domain.PositionChange{
				AssetID:   pos.AssetID,
				Kind:      domain.ChangeNew,
				Position:  pos,
				SizeDelta: pos.Size,
			})
			continue
		}

		delta := pos.Size - lastSize
		switch {
		case delta > NoiseThreshold:
			res.Changes = append(res.Changes, domain.PositionChange{
				AssetID:   pos.AssetID,
				Kind:      domain.ChangeIncrease,
				Position:  pos,
				SizeDelta: delta,
			})
		case delta < -NoiseThreshold:
			res.Changes = append(res.Changes, domain.PositionChange{
				AssetID:   pos.AssetID,
				Kind:      domain.ChangeDecrease,
				Position:  pos,
				SizeDelta: delta,
			})
		}
	}

	for asset := range last {
		if _, open := res.Snapshot[asset]; !open {
			res.Closed = append(res.Closed, asset)
		}
	}

	return res
}
