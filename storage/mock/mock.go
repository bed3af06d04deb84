package mock

import (
	"context"

	"github.com/sig-0/exilian/storage"
	"github.com/sig-0/exilian/storage/types"
)

type (
	GetDelegate func(context.Context, types.Key) ([]byte, error)
	PutDelegate func(context.Context, types.Key, []byte) error
)

type Storage struct {
	GetFn GetDelegate
	PutFn PutDelegate
}

func (m *Storage) Get(ctx context.Context, key types.Key) ([]byte, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, key)
	}

	return nil, storage.ErrNotFound
}

func (m *Storage) Put(ctx context.Context, key types.Key, payload []byte) error {
	if m.PutFn != nil {
		return m.PutFn(ctx, key, payload)
	}

	return nil
}
