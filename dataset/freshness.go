package dataset

import (
	"time"

	"github.com/sig-0/exilian/storage/types"
)

// DefaultThreshold is the age under which a snapshot is served without re-fetching
const DefaultThreshold = 15 * time.Minute

// State is the freshness state of a key's snapshot
type State string

const (
	StateNoData State = "no_data"
	StateFresh  State = "fresh"
	StateStale  State = "stale"
)

// IsFresh reports whether the snapshot is younger than the threshold.
// Snapshots that were never fetched are never fresh
func IsFresh[R types.Record](s types.Snapshot[R], now time.Time, threshold time.Duration) bool {
	if s.Updated == nil {
		return false
	}

	return now.Sub(*s.Updated) < threshold
}

// StateOf classifies the snapshot as of now
func StateOf[R types.Record](s types.Snapshot[R], now time.Time, threshold time.Duration) State {
	switch {
	case !s.HasData():
		return StateNoData
	case IsFresh(s, now, threshold):
		return StateFresh
	default:
		return StateStale
	}
}
