package retention

import (
	"context"
	"time"
)

// Sweeper periodically removes generated files that outlived their retention.
type Sweeper interface {
	// Start schedules the sweep. It returns an error for an invalid schedule.
	Start(ctx context.Context) error
	Stop()

	// Purge removes every entry older than the max age relative to now and
	// returns how many were removed.
	Purge(ctx context.Context, now time.Time) (int, error)
}
