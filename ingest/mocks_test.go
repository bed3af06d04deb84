package ingest

import (
	"context"
	"time"

	"github.com/sig-0/exilian/dataset"
	"github.com/sig-0/exilian/storage/types"
)

type (
	nameDelegate     func() string
	intervalDelegate func() time.Duration
	runDelegate      func(context.Context) error

	loadDelegate  func(context.Context, types.Key) types.Snapshot[types.Record]
	stateDelegate func(types.Snapshot[types.Record]) dataset.State
)

type mockJob struct {
	nameFn     nameDelegate
	intervalFn intervalDelegate
	runFn      runDelegate
}

func (m *mockJob) Name() string {
	if m.nameFn != nil {
		return m.nameFn()
	}

	return ""
}

func (m *mockJob) Interval() time.Duration {
	if m.intervalFn != nil {
		return m.intervalFn()
	}

	return 0
}

func (m *mockJob) Run(ctx context.Context) error {
	if m.runFn != nil {
		return m.runFn(ctx)
	}

	return nil
}

type mockLoader struct {
	loadFn  loadDelegate
	stateFn stateDelegate
}

func (m *mockLoader) Load(ctx context.Context, key types.Key) types.Snapshot[types.Record] {
	if m.loadFn != nil {
		return m.loadFn(ctx, key)
	}

	return types.Empty[types.Record]()
}

func (m *mockLoader) State(s types.Snapshot[types.Record]) dataset.State {
	if m.stateFn != nil {
		return m.stateFn(s)
	}

	return dataset.StateNoData
}
