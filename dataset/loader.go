package dataset

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/rs/xid"
	"golang.org/x/sync/singleflight"

	"github.com/sig-0/exilian/storage"
	"github.com/sig-0/exilian/storage/types"
)

// DefaultTimeout bounds a single shared load
const DefaultTimeout = 30 * time.Second

// Fetcher retrieves a fresh snapshot from the remote source
type Fetcher[R types.Record] interface {
	Fetch(ctx context.Context, league types.League, typ types.DatasetType) (types.Snapshot[R], error)
}

// Loader serves snapshots of a single dataset family,
// from the cache when fresh and from the remote otherwise.
// Load never fails: every failure degrades to an older or empty snapshot
type Loader[R types.Record] struct {
	options

	category types.Category
	store    *Store[R]
	fetcher  Fetcher[R]

	group singleflight.Group
}

// New creates a new Loader for the category
func New[R types.Record](
	category types.Category,
	s storage.Storage,
	fetcher Fetcher[R],
	opts ...Option,
) *Loader[R] {
	l := &Loader[R]{
		options: options{
			logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
			now:       time.Now,
			threshold: DefaultThreshold,
			timeout:   DefaultTimeout,
		},
		category: category,
		store:    NewStore[R](s),
		fetcher:  fetcher,
	}

	// Apply the options
	for _, opt := range opts {
		opt(&l.options)
	}

	return l
}

// Category returns the category the loader serves
func (l *Loader[R]) Category() types.Category {
	return l.category
}

// Threshold returns the freshness threshold
func (l *Loader[R]) Threshold() time.Duration {
	return l.threshold
}

// Load returns the best available snapshot for the league and type.
// Concurrent loads of the same key share a single cache read and fetch
func (l *Loader[R]) Load(ctx context.Context, league types.League, typ types.DatasetType) types.Snapshot[R] {
	key := types.Key{
		League:   league,
		Category: l.category,
		Type:     typ,
	}

	res, _, _ := l.group.Do(key.String(), func() (any, error) {
		// The load is shared by every waiting caller,
		// so it outlives the cancellation of whoever started it
		loadCtx := context.WithoutCancel(ctx)

		if l.timeout > 0 {
			var cancelFn context.CancelFunc

			loadCtx, cancelFn = context.WithTimeout(loadCtx, l.timeout)
			defer cancelFn()
		}

		return l.load(loadCtx, key), nil
	})

	snapshot, _ := res.(types.Snapshot[R])

	return snapshot
}

func (l *Loader[R]) load(ctx context.Context, key types.Key) types.Snapshot[R] {
	logger := l.logger.With(
		"key", key.String(),
		"fetch_id", xid.New().String(),
	)

	cached, err := l.store.Read(ctx, key)
	if isBackendError(err) {
		logger.Warn(
			"unable to read cache slot, retrying",
			"err", err,
		)

		cached, err = l.store.Read(ctx, key)
	}

	switch {
	case err == nil:
		if IsFresh(cached, l.now(), l.threshold) {
			logger.Debug(
				"serving cached snapshot",
				"updated", cached.Updated.Format(time.RFC3339),
			)

			return cached
		}

		logger.Info(
			"cached snapshot is out of date",
			"updated", cached.Updated.Format(time.RFC3339),
		)
	case errors.Is(err, ErrCacheMiss):
		logger.Debug("no cached snapshot")
	default:
		// Corrupt or unreadable slots count as absent
		logger.Warn(
			"unable to read cached snapshot",
			"err", err,
		)

		cached = types.Empty[R]()
	}

	logger.Info("fetching snapshot")

	fresh, err := l.fetcher.Fetch(ctx, key.League, key.Type)
	if err == nil {
		if fresh.Updated == nil {
			now := l.now()
			fresh.Updated = &now
		}

		if fresh.Lines == nil {
			fresh.Lines = []R{}
		}

		if err = l.store.Write(ctx, key, fresh); err != nil {
			logger.Error(
				"unable to cache snapshot",
				"err", err,
			)
		}

		logger.Info(
			"fetched snapshot",
			"lines", len(fresh.Lines),
		)

		return fresh
	}

	logger.Warn(
		"unable to fetch snapshot",
		"err", err,
	)

	if cached.HasData() {
		logger.Info(
			"using cached snapshot",
			"updated", cached.Updated.Format(time.RFC3339),
		)

		return cached
	}

	logger.Warn("no data available")

	return types.Empty[R]()
}

// isBackendError reports whether the cache read failed in the backend itself,
// as opposed to a missing or corrupt slot
func isBackendError(err error) bool {
	return err != nil && !errors.Is(err, ErrCacheMiss) && !errors.Is(err, ErrCacheCorrupt)
}
