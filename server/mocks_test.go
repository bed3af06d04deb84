package server

import (
	"context"

	"github.com/sig-0/exilian/dataset"
	"github.com/sig-0/exilian/storage/types"
)

type (
	loadDelegate  func(context.Context, types.Key) types.Snapshot[types.Record]
	stateDelegate func(types.Snapshot[types.Record]) dataset.State
)

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

	if s.HasData() {
		return dataset.StateFresh
	}

	return dataset.StateNoData
}
