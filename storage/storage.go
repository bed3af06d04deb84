package storage

import (
	"context"
	"errors"

	"github.com/sig-0/exilian/storage/types"
)

// ErrNotFound is returned when a key has no stored payload
var ErrNotFound = errors.New("snapshot not found")

// Storage is an abstraction over persisted snapshot payloads.
// Every key holds at most one payload, replaced wholesale on Put
type Storage interface {
	// Get fetches the payload stored for the key
	Get(context.Context, types.Key) ([]byte, error)

	// Put replaces the payload stored for the key
	Put(context.Context, types.Key, []byte) error
}
