package worker

import (
	"context"
	"sync"

	"github.com/nguyentantai21042004/slidecast/internal/config"
	"github.com/nguyentantai21042004/slidecast/internal/jobs"
	"github.com/nguyentantai21042004/slidecast/internal/logger"
	"github.com/nguyentantai21042004/slidecast/internal/pipeline"
)

type task struct {
	id  string
	req pipeline.Request
}

type implPool struct {
	processor pipeline.Processor
	jobs      jobs.Store
	logger    logger.Logger
	queue     chan task
	newID     func() string

	mu     sync.RWMutex
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New starts cfg.Workers workers with a queue of cfg.QueueSize jobs.
func New(cfg config.PerformanceConfig, proc pipeline.Processor, store jobs.Store, log logger.Logger) Pool {
	p := newPool(cfg, proc, store, log, newJobID)
	p.start(cfg.Workers)
	return p
}

func newPool(cfg config.PerformanceConfig, proc pipeline.Processor, store jobs.Store, log logger.Logger, newID func() string) *implPool {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &implPool{
		processor: proc,
		jobs:      store,
		logger:    log,
		queue:     make(chan task, cfg.QueueSize),
		newID:     newID,
		ctx:       ctx,
		cancel:    cancel,
	}
}
