package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/sig-0/exilian/storage"
	"github.com/sig-0/exilian/storage/types"
)

// Storage keeps one JSON file per key under a base directory:
// <dir>/<league>/<family>/<type>.json
type Storage struct {
	dir string

	locks sync.Map // types.Key -> *sync.RWMutex
}

// NewStorage creates a file storage rooted at dir.
// The directory is created lazily, on first write
func NewStorage(dir string) *Storage {
	return &Storage{
		dir: dir,
	}
}

// Path returns the file location of the key's slot
func (s *Storage) Path(key types.Key) string {
	return filepath.Join(
		s.dir,
		key.League.String(),
		key.Category.Family(),
		key.Type.String()+".json",
	)
}

func (s *Storage) Get(_ context.Context, key types.Key) ([]byte, error) {
	mu := s.lock(key)

	mu.RLock()
	defer mu.RUnlock()

	payload, err := os.ReadFile(s.Path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, storage.ErrNotFound
		}

		return nil, fmt.Errorf("unable to read snapshot file: %w", err)
	}

	return payload, nil
}

// Put replaces the slot contents atomically (temp file + rename),
// so a reader observes either the old or the new payload
func (s *Storage) Put(_ context.Context, key types.Key, payload []byte) error {
	mu := s.lock(key)

	mu.Lock()
	defer mu.Unlock()

	path := s.Path(key)
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("unable to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("unable to create temp file: %w", err)
	}

	// Clean up the temp file on any failure below
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(payload); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("unable to write temp file: %w", err)
	}

	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("unable to sync temp file: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("unable to close temp file: %w", err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("unable to replace snapshot file: %w", err)
	}

	committed = true

	return nil
}

// lock returns the per-key lock, creating it if needed
func (s *Storage) lock(key types.Key) *sync.RWMutex {
	mu, _ := s.locks.LoadOrStore(key, &sync.RWMutex{})

	return mu.(*sync.RWMutex) //nolint:forcetypeassert // only *sync.RWMutex is stored
}
