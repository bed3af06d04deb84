package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/sig-0/iq"
)

var (
	errInvalidJob      = errors.New("invalid job")
	errInvalidInterval = errors.New("invalid interval")
)

// Orchestrator is the main scheduler for registered jobs
type Orchestrator struct {
	logger *slog.Logger

	registeredJobs sync.Map

	q             iq.Queue[scheduledRun]
	queryInterval time.Duration
	retryDelay    time.Duration
	qMux          sync.Mutex
}

// New creates a new Orchestrator instance
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		q:             iq.NewQueue[scheduledRun](),
		queryInterval: time.Second, // every second
		retryDelay:    time.Second * 10,
	}

	// Apply the options
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Register registers a new job with the orchestrator.
// The job is immediately queued up for execution
func (o *Orchestrator) Register(j Job) error {
	if j == nil || j.Name() == "" {
		return errInvalidJob
	}

	if j.Interval() <= 0 {
		return errInvalidInterval
	}

	// Register the job
	id := xid.New()
	o.registeredJobs.Store(id, j)

	o.logger.Info(
		"registered new job",
		"name", j.Name(),
		"interval", j.Interval().String(),
	)

	// Schedule the run
	o.scheduleRun(
		time.Now().UTC(),
		id,
		j,
	)

	return nil
}

// Start starts the job orchestration service loop [BLOCKING]
func (o *Orchestrator) Start(ctx context.Context) error {
	collectorCh := make(chan *workerResponse, 100)

	// Start a listener for monitoring jobs
	ticker := time.NewTicker(o.queryInterval)
	defer ticker.Stop()

	// handleRuns initializes all jobs that are executable (due)
	handleRuns := func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
				next := o.nextRun()
				if next == nil {
					return // nothing to schedule anymore
				}

				o.logger.Debug(
					"scheduling job run",
					"name", next.job.Name(),
				)

				// Spawn worker
				info := &workerInfo{
					job:   next.job,
					jobID: next.jobID,
					resCh: collectorCh,
				}

				go handleJob(ctx, info)
			}
		}
	}

	// Initialize the first set of due jobs (on boot)
	handleRuns()

	for {
		select {
		case <-ctx.Done():
			o.logger.Info("orchestrator service shut down")

			return nil
		case <-ticker.C:
			handleRuns()
		case response := <-collectorCh:
			now := time.Now().UTC()

			jRaw, ok := o.registeredJobs.Load(response.jobID)
			if !ok {
				o.logger.Error(
					"unable to load registered job",
					"id", response.jobID.String(),
				)

				continue
			}

			j, _ := jRaw.(Job)

			if response.error != nil {
				o.logger.Warn(
					"job run failed",
					"name", j.Name(),
					"id", response.jobID.String(),
					"err", response.error.Error(),
				)

				// Retry the job soon
				o.scheduleRun(
					now.Add(o.retryDelay),
					response.jobID,
					j,
				)

				continue
			}

			o.logger.Info(
				"job run complete",
				"name", j.Name(),
				"duration", response.duration.String(),
			)

			// Schedule the next regular run
			o.scheduleRun(
				now.Add(j.Interval()),
				response.jobID,
				j,
			)
		}
	}
}

// scheduleRun schedules a new job run
func (o *Orchestrator) scheduleRun(
	at time.Time,
	jobID xid.ID,
	job Job,
) {
	o.qMux.Lock()
	defer o.qMux.Unlock()

	o.q.Push(scheduledRun{
		at:    at,
		jobID: jobID,
		job:   job,
	})
}

// nextRun fetches the next due job run, as of the moment of calling
func (o *Orchestrator) nextRun() *scheduledRun {
	o.qMux.Lock()
	defer o.qMux.Unlock()

	now := time.Now().UTC()

	// Check if anything needs to be scheduled
	if o.q.Len() == 0 {
		return nil // nothing to schedule, all jobs are running
	}

	// Check if the top element is due
	if o.q.Index(0).at.After(now) {
		return nil // nothing to schedule, latest job is in the future
	}

	return o.q.PopFront()
}
