package jobs

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned for an unknown job ID.
var ErrNotFound = errors.New("job not found")

// Status is the lifecycle state of a job.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Terminal reports whether no further transitions are expected.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// Job is the tracked state of one video generation.
type Job struct {
	ID         string     `json:"job_id"`
	Status     Status     `json:"status"`
	Progress   int        `json:"progress"`
	Message    string     `json:"message"`
	OutputPath string     `json:"output_path,omitempty"`
	Degraded   bool       `json:"degraded,omitempty"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DoneAt     *time.Time `json:"done_at,omitempty"`
}

// Store persists jobs. Updates to a single job are atomic; nothing is
// coordinated across jobs.
type Store interface {
	Create(ctx context.Context, job Job) error
	// Update loads the job, applies fn and saves the result.
	Update(ctx context.Context, id string, fn func(*Job)) error
	Get(ctx context.Context, id string) (Job, error)
	// List returns up to limit jobs, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]Job, error)
	Close() error
}

// stamp refreshes timestamps after a change.
func stamp(j *Job, now time.Time) {
	if j.CreatedAt.IsZero() {
		j.CreatedAt = now
	}
	j.UpdatedAt = now
	if j.Status.Terminal() && j.DoneAt == nil {
		done := now
		j.DoneAt = &done
	}
}
