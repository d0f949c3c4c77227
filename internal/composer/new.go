package composer

import (
	"github.com/nguyentantai21042004/slidecast/internal/config"
	"github.com/nguyentantai21042004/slidecast/internal/logger"
	"github.com/nguyentantai21042004/slidecast/pkg/executor"
)

type implComposer struct {
	cfg         config.VideoConfig
	concurrency int
	executor    executor.Executor
	logger      logger.Logger
}

// New creates a Composer. concurrency bounds parallel clip encodes.
func New(cfg config.VideoConfig, concurrency int, exec executor.Executor, log logger.Logger) Composer {
	if cfg.FPS <= 0 {
		cfg.FPS = 24
	}
	if cfg.Width <= 0 {
		cfg.Width = 1920
	}
	if cfg.Height <= 0 {
		cfg.Height = 1080
	}
	if cfg.TransitionDuration < 0 {
		cfg.TransitionDuration = 0
	}
	if cfg.Codec == "" {
		cfg.Codec = "libx264"
	}
	if cfg.AudioCodec == "" {
		cfg.AudioCodec = "aac"
	}
	if cfg.Preset == "" {
		cfg.Preset = "medium"
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	return &implComposer{
		cfg:         cfg,
		concurrency: concurrency,
		executor:    exec,
		logger:      log,
	}
}
