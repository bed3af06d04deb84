package ingest

import (
	"context"
	"time"
)

// Job is a single recurring ingest job
type Job interface {
	// Name returns the human-readable name of the job
	Name() string

	// Interval returns the interval at which the job should be run
	Interval() time.Duration

	// Run is the job's main routine.
	// A failed run is retried sooner than the regular interval
	Run(context.Context) error
}
