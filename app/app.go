// Package app wires the cache backend, the remote client
// and the per-family loaders together
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sig-0/exilian/config"
	"github.com/sig-0/exilian/dataset"
	"github.com/sig-0/exilian/provider/poeninja"
	"github.com/sig-0/exilian/storage"
	"github.com/sig-0/exilian/storage/file"
	"github.com/sig-0/exilian/storage/memory"
	"github.com/sig-0/exilian/storage/sql"
	"github.com/sig-0/exilian/storage/types"
)

var errUnknownCategory = errors.New("unknown category")

// App serves snapshots of every dataset family
type App struct {
	logger     *slog.Logger
	storage    storage.Storage
	httpClient poeninja.HTTPClient
	now        func() time.Time
	closer     io.Closer

	threshold time.Duration

	currency *dataset.Loader[poeninja.CurrencyLine]
	items    *dataset.Loader[poeninja.ItemLine]
}

// New creates a new App from the configuration
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration, %w", err)
	}

	a := &App{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
		now:       time.Now,
		threshold: cfg.Threshold(),
	}

	// Apply the options
	for _, opt := range opts {
		opt(a)
	}

	// Open the configured backend, unless one was given
	if a.storage == nil {
		s, closer, err := OpenStorage(ctx, cfg.Cache)
		if err != nil {
			return nil, err
		}

		a.storage = s
		a.closer = closer
	}

	client := poeninja.NewClient(
		poeninja.WithBaseURL(cfg.Remote.BaseURL),
		poeninja.WithHTTPClient(a.httpClient),
		poeninja.WithUserAgent(cfg.Remote.UserAgent),
		poeninja.WithClock(a.now),
	)

	loaderOpts := []dataset.Option{
		dataset.WithLogger(a.logger),
		dataset.WithThreshold(a.threshold),
		dataset.WithTimeout(cfg.Timeout()),
		dataset.WithClock(a.now),
	}

	a.currency = dataset.New[poeninja.CurrencyLine](
		types.CategoryCurrency,
		a.storage,
		poeninja.NewFetcher(client, poeninja.CurrencyFamily),
		loaderOpts...,
	)

	a.items = dataset.New[poeninja.ItemLine](
		types.CategoryItem,
		a.storage,
		poeninja.NewFetcher(client, poeninja.ItemFamily),
		loaderOpts...,
	)

	return a, nil
}

// Load returns the best available snapshot for the key,
// dispatching on its category
func (a *App) Load(ctx context.Context, key types.Key) types.Snapshot[types.Record] {
	switch key.Category {
	case types.CategoryCurrency:
		return types.Erase(a.currency.Load(ctx, key.League, key.Type))
	case types.CategoryItem:
		return types.Erase(a.items.Load(ctx, key.League, key.Type))
	default:
		a.logger.Error(
			"unable to load snapshot",
			"key", key.String(),
			"err", errUnknownCategory,
		)

		return types.Empty[types.Record]()
	}
}

// Threshold returns the freshness threshold
func (a *App) Threshold() time.Duration {
	return a.threshold
}

// State returns the freshness state of the snapshot, as of now
func (a *App) State(s types.Snapshot[types.Record]) dataset.State {
	return dataset.StateOf(s, a.now(), a.threshold)
}

// Close releases the cache backend, if it holds any resources
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}

	return a.closer.Close()
}

// OpenStorage opens the configured cache backend.
// The returned closer is nil for backends without resources
func OpenStorage(ctx context.Context, cfg config.Cache) (storage.Storage, io.Closer, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return file.NewStorage(cfg.Dir), nil, nil
	case config.BackendMemory:
		return memory.NewStorage(), nil, nil
	case config.BackendSQLite:
		db, err := sql.Open(sql.DriverSQLite, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}

		s := sql.NewStorage(db, sql.DriverSQLite)

		// The schema is idempotent, and sqlite files are usually local
		if err = s.Migrate(ctx); err != nil {
			_ = db.Close()

			return nil, nil, err
		}

		return s, db, nil
	case config.BackendPostgres:
		db, err := sql.Open(sql.DriverPostgres, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}

		// Check DB reachability
		pingCtx, cancelPing := context.WithTimeout(ctx, time.Second*5)
		defer cancelPing()

		if err = db.PingContext(pingCtx); err != nil {
			_ = db.Close()

			return nil, nil, fmt.Errorf("unable to reach DB (ping): %w", err)
		}

		return sql.NewStorage(db, sql.DriverPostgres), db, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrInvalidBackend, cfg.Backend)
	}
}
