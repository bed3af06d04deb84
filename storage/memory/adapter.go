package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/sig-0/exilian/storage"
	"github.com/sig-0/exilian/storage/types"
)

type Storage struct {
	data map[types.Key][]byte

	mu sync.RWMutex
}

func NewStorage() *Storage {
	return &Storage{
		data: make(map[types.Key][]byte),
	}
}

func (s *Storage) Get(_ context.Context, key types.Key) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payload, ok := s.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}

	return slices.Clone(payload), nil
}

func (s *Storage) Put(_ context.Context, key types.Key, payload []byte) error {
	elem := slices.Clone(payload)

	s.mu.Lock()
	s.data[key] = elem // replaced wholesale
	s.mu.Unlock()

	return nil
}
