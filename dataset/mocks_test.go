package dataset

import (
	"context"
	"errors"

	"github.com/sig-0/exilian/storage/types"
)

var errFetchFailed = errors.New("fetch failed")

type testRecord struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

func (r testRecord) DisplayName() string {
	return r.Name
}

func (r testRecord) Price() float64 {
	return r.Value
}

type fetchDelegate func(context.Context, types.League, types.DatasetType) (types.Snapshot[testRecord], error)

type mockFetcher struct {
	fetchFn fetchDelegate
}

func (m *mockFetcher) Fetch(
	ctx context.Context,
	league types.League,
	typ types.DatasetType,
) (types.Snapshot[testRecord], error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, league, typ)
	}

	return types.Snapshot[testRecord]{}, errFetchFailed
}
