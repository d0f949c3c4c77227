package worker

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/slidecast/internal/jobs"
	"github.com/nguyentantai21042004/slidecast/internal/pipeline"
)

func newJobID() string {
	return uuid.NewString()
}

func (p *implPool) start(workers int) {
	if workers <= 0 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.run(i + 1)
	}
	p.logger.Info(p.ctx, "Worker pool started: %d workers, queue size %d", workers, cap(p.queue))
}

func (p *implPool) run(n int) {
	defer p.wg.Done()
	for t := range p.queue {
		p.logger.Debug(p.ctx, "Worker %d picked job %s", n, t.id)
		if _, err := p.processor.Process(p.ctx, t.id, t.req); err != nil {
			p.logger.Debug(p.ctx, "Worker %d: job %s ended with error: %v", n, t.id, err)
		}
	}
}

func (p *implPool) Submit(ctx context.Context, req pipeline.Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return "", ErrClosed
	}

	id := p.newID()
	if err := p.jobs.Create(ctx, jobs.Job{ID: id, Status: jobs.StatusQueued, Message: "Starting video generation..."}); err != nil {
		return "", fmt.Errorf("create job: %w", err)
	}

	select {
	case p.queue <- task{id: id, req: req}:
		p.logger.Info(ctx, "Queued job %s", id)
		return id, nil
	default:
		if err := p.jobs.Update(ctx, id, func(j *jobs.Job) {
			j.Status = jobs.StatusError
			j.Message = "Error: " + ErrQueueFull.Error()
			j.Error = ErrQueueFull.Error()
		}); err != nil {
			p.logger.Warn(ctx, "Failed to mark job %s rejected: %v", id, err)
		}
		return "", ErrQueueFull
	}
}

func (p *implPool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		p.logger.Info(ctx, "Worker pool drained")
		return nil
	case <-ctx.Done():
		p.cancel()
		<-done
		return ctx.Err()
	}
}
