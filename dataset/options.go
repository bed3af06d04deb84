package dataset

import (
	"log/slog"
	"time"
)

type options struct {
	logger    *slog.Logger
	now       func() time.Time
	threshold time.Duration
	timeout   time.Duration
}

type Option func(o *options)

// WithLogger specifies the logger for the loader
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithThreshold specifies the freshness threshold.
// Defaults to 15m
func WithThreshold(t time.Duration) Option {
	return func(o *options) {
		o.threshold = t
	}
}

// WithClock specifies the clock freshness is judged against
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithTimeout bounds a single load (cache read, fetch and cache write).
// Defaults to 30s, zero disables it
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}
