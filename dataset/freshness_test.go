package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sig-0/exilian/storage/types"
)

func snapshotAt(at time.Time, records ...testRecord) types.Snapshot[testRecord] {
	if records == nil {
		records = []testRecord{}
	}

	return types.Snapshot[testRecord]{
		Lines:   records,
		Updated: &at,
	}
}

func TestIsFresh(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	testTable := []struct {
		name      string
		age       time.Duration
		threshold time.Duration
		fresh     bool
	}{
		{"just fetched", 0, 15 * time.Minute, true},
		{"younger than threshold", 5 * time.Minute, 15 * time.Minute, true},
		{"one second short", 15*time.Minute - time.Second, 15 * time.Minute, true},
		{"exactly at threshold", 15 * time.Minute, 15 * time.Minute, false},
		{"older than threshold", 20 * time.Minute, 15 * time.Minute, false},
		{"zero threshold", 0, 0, false},
		{"custom threshold", 59 * time.Minute, time.Hour, true},
		{"timestamp in the future", -5 * time.Minute, 15 * time.Minute, true},
	}

	for _, testCase := range testTable {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			s := snapshotAt(now.Add(-testCase.age))

			assert.Equal(t, testCase.fresh, IsFresh(s, now, testCase.threshold))
		})
	}

	t.Run("empty sentinel", func(t *testing.T) {
		t.Parallel()

		for _, threshold := range []time.Duration{0, time.Minute, 24 * time.Hour} {
			assert.False(t, IsFresh(types.Empty[testRecord](), now, threshold))
		}
	})

	t.Run("different offsets", func(t *testing.T) {
		t.Parallel()

		// 11:55 UTC, expressed at UTC+2
		updated := time.Date(2024, 4, 1, 13, 55, 0, 0, time.FixedZone("CEST", 2*60*60))

		assert.True(t, IsFresh(snapshotAt(updated), now, 15*time.Minute))
		assert.False(t, IsFresh(snapshotAt(updated), now, 5*time.Minute))
	})
}

func TestStateOf(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, StateNoData, StateOf(types.Empty[testRecord](), now, DefaultThreshold))
	assert.Equal(t, StateFresh, StateOf(snapshotAt(now.Add(-time.Minute)), now, DefaultThreshold))
	assert.Equal(t, StateStale, StateOf(snapshotAt(now.Add(-time.Hour)), now, DefaultThreshold))
}
