package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sig-0/exilian/storage"
	"github.com/sig-0/exilian/storage/types"
)

var (
	// ErrCacheMiss is returned when the key has no cached snapshot
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheCorrupt is returned when the cached payload is not a valid snapshot
	ErrCacheCorrupt = errors.New("cache corrupt")

	// ErrEmptySnapshot is returned when writing a snapshot that was never fetched
	ErrEmptySnapshot = errors.New("empty snapshot")
)

// Store reads and writes typed snapshots over a raw payload storage
type Store[R types.Record] struct {
	storage storage.Storage
}

// NewStore creates a typed snapshot store
func NewStore[R types.Record](s storage.Storage) *Store[R] {
	return &Store[R]{
		storage: s,
	}
}

// Read fetches the cached snapshot for the key.
// A missing slot yields ErrCacheMiss, an unreadable one ErrCacheCorrupt
func (s *Store[R]) Read(ctx context.Context, key types.Key) (types.Snapshot[R], error) {
	payload, err := s.storage.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return types.Snapshot[R]{}, ErrCacheMiss
		}

		return types.Snapshot[R]{}, fmt.Errorf("unable to read cache slot: %w", err)
	}

	var snapshot types.Snapshot[R]
	if err = json.Unmarshal(payload, &snapshot); err != nil {
		return types.Snapshot[R]{}, fmt.Errorf("%w: %w", ErrCacheCorrupt, err)
	}

	if snapshot.Updated == nil {
		return types.Snapshot[R]{}, fmt.Errorf("%w: missing timestamp", ErrCacheCorrupt)
	}

	if snapshot.Lines == nil {
		snapshot.Lines = []R{}
	}

	return snapshot, nil
}

// Write replaces the cached snapshot for the key
func (s *Store[R]) Write(ctx context.Context, key types.Key, snapshot types.Snapshot[R]) error {
	if !snapshot.HasData() {
		return ErrEmptySnapshot
	}

	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to marshal snapshot: %w", err)
	}

	if err = s.storage.Put(ctx, key, payload); err != nil {
		return fmt.Errorf("unable to write cache slot: %w", err)
	}

	return nil
}
