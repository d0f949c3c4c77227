package retention

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

func (s *implSweeper) Start(ctx context.Context) error {
	if s.maxAge <= 0 {
		s.logger.Info(ctx, "Retention disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		n, err := s.Purge(ctx, time.Now())
		if err != nil {
			s.logger.Warn(ctx, "Retention sweep finished with errors: %v", err)
		}
		if n > 0 {
			s.logger.Info(ctx, "Retention sweep removed %d entries", n)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule retention %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.logger.Info(ctx, "Retention: removing files older than %s (%s)", s.maxAge, s.schedule)
	return nil
}

// Stop halts the schedule and waits for a running sweep.
func (s *implSweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *implSweeper) Purge(ctx context.Context, now time.Time) (int, error) {
	cutoff := now.Add(-s.maxAge)
	removed := 0
	var errs []error

	for _, dir := range s.dirs {
		entries, err := os.ReadDir(dir)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}

		for _, e := range entries {
			info, err := e.Info()
			if err != nil {
				continue
			}
			if !info.ModTime().Before(cutoff) {
				continue
			}

			path := filepath.Join(dir, e.Name())
			if err := os.RemoveAll(path); err != nil {
				errs = append(errs, err)
				continue
			}
			s.logger.Debug(ctx, "Removed expired %s", path)
			removed++
		}
	}

	return removed, errors.Join(errs...)
}
