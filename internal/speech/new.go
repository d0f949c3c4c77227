package speech

import (
	"github.com/nguyentantai21042004/slidecast/internal/config"
	"github.com/nguyentantai21042004/slidecast/internal/logger"
	"github.com/nguyentantai21042004/slidecast/pkg/executor"
)

type implSynthesizer struct {
	chunkSize int
	language  string
	providers []Provider
	executor  executor.Executor
	logger    logger.Logger
}

// New creates a Synthesizer that tries providers in order for every chunk.
func New(cfg config.SpeechConfig, exec executor.Executor, log logger.Logger, providers ...Provider) Synthesizer {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 500
	}
	if !IsSupportedLanguage(cfg.Language) {
		cfg.Language = "en"
	}

	return &implSynthesizer{
		chunkSize: cfg.ChunkSize,
		language:  cfg.Language,
		providers: providers,
		executor:  exec,
		logger:    log,
	}
}
