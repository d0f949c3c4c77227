package worker

import (
	"context"
	"errors"

	"github.com/nguyentantai21042004/slidecast/internal/pipeline"
)

var (
	// ErrQueueFull is returned when the job queue has no free slot.
	ErrQueueFull = errors.New("job queue is full")
	// ErrClosed is returned by Submit after Shutdown.
	ErrClosed = errors.New("worker pool is shut down")
)

// Pool runs generation jobs on a fixed number of workers.
type Pool interface {
	// Submit records a queued job and returns its ID without waiting for
	// it to run.
	Submit(ctx context.Context, req pipeline.Request) (string, error)

	// Shutdown stops accepting jobs and waits for queued and running jobs
	// to finish. If ctx expires first, running jobs are cancelled.
	Shutdown(ctx context.Context) error
}
