package app

import (
	"log/slog"
	"time"

	"github.com/sig-0/exilian/provider/poeninja"
	"github.com/sig-0/exilian/storage"
)

type Option func(a *App)

// WithLogger specifies the logger for the app and its loaders
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithStorage overrides the configured cache backend
func WithStorage(s storage.Storage) Option {
	return func(a *App) {
		a.storage = s
	}
}

// WithHTTPClient overrides the HTTP client used for remote fetches
func WithHTTPClient(c poeninja.HTTPClient) Option {
	return func(a *App) {
		a.httpClient = c
	}
}

// WithClock overrides the clock used for freshness and timestamps
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}
