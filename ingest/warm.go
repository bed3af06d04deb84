package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/sig-0/exilian/dataset"
	"github.com/sig-0/exilian/storage/types"
)

var (
	errNoData        = errors.New("no data available")
	errStaleSnapshot = errors.New("snapshot is stale")
)

// Loader loads (and caches) snapshots by key
type Loader interface {
	Load(context.Context, types.Key) types.Snapshot[types.Record]
	State(types.Snapshot[types.Record]) dataset.State
}

// WarmJob keeps a single key's cached snapshot fresh
type WarmJob struct {
	loader   Loader
	key      types.Key
	interval time.Duration
}

// NewWarmJob creates a job that reloads the key every interval
func NewWarmJob(loader Loader, key types.Key, interval time.Duration) *WarmJob {
	return &WarmJob{
		loader:   loader,
		key:      key,
		interval: interval,
	}
}

func (j *WarmJob) Name() string {
	return "warm " + j.key.String()
}

func (j *WarmJob) Interval() time.Duration {
	return j.interval
}

// Run reloads the key. The loader already falls back to older data
// when the remote fails, so anything short of fresh counts as a failure
func (j *WarmJob) Run(ctx context.Context) error {
	snapshot := j.loader.Load(ctx, j.key)

	switch j.loader.State(snapshot) {
	case dataset.StateFresh:
		return nil
	case dataset.StateStale:
		return errStaleSnapshot
	default:
		return errNoData
	}
}
