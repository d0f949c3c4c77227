package retention

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/nguyentantai21042004/slidecast/internal/config"
	"github.com/nguyentantai21042004/slidecast/internal/logger"
)

type implSweeper struct {
	schedule string
	maxAge   time.Duration
	dirs     []string
	cron     *cron.Cron
	logger   logger.Logger
}

// New creates a Sweeper over the top-level entries of dirs.
func New(cfg config.RetentionConfig, log logger.Logger, dirs ...string) Sweeper {
	return &implSweeper{
		schedule: cfg.Schedule,
		maxAge:   cfg.MaxAge,
		dirs:     dirs,
		cron:     cron.New(),
		logger:   log,
	}
}
