package ingest

import (
	"context"
	"time"

	"github.com/rs/xid"
)

// scheduledRun is a single scheduled Job run
type scheduledRun struct {
	at    time.Time
	job   Job
	jobID xid.ID
}

// Less is utilized to sort scheduled runs by their due-time (latest == first)
func (a scheduledRun) Less(b scheduledRun) bool {
	return a.at.Before(b.at)
}

// workerInfo is the work context for the job routine
type workerInfo struct {
	job   Job
	resCh chan<- *workerResponse
	jobID xid.ID
}

// workerResponse is the job routine response
type workerResponse struct {
	error    error         // encountered error, if any
	jobID    xid.ID        // the job ID
	duration time.Duration // how long the run took
}

// handleJob runs the job once
func handleJob(
	ctx context.Context,
	info *workerInfo,
) {
	start := time.Now()
	err := info.job.Run(ctx)

	response := &workerResponse{
		error:    err,
		jobID:    info.jobID,
		duration: time.Since(start),
	}

	select {
	case <-ctx.Done():
	case info.resCh <- response:
	}
}
