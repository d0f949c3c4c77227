package pipeline

import (
	"github.com/nguyentantai21042004/slidecast/internal/composer"
	"github.com/nguyentantai21042004/slidecast/internal/config"
	"github.com/nguyentantai21042004/slidecast/internal/jobs"
	"github.com/nguyentantai21042004/slidecast/internal/logger"
	"github.com/nguyentantai21042004/slidecast/internal/render"
	"github.com/nguyentantai21042004/slidecast/internal/segmenter"
	"github.com/nguyentantai21042004/slidecast/internal/source"
	"github.com/nguyentantai21042004/slidecast/internal/speech"
)

// Stages are the collaborators a Processor drives.
type Stages struct {
	Source    source.Source
	Segmenter segmenter.Segmenter
	Speech    speech.Synthesizer
	Renderer  render.Renderer
	Composer  composer.Composer
}

type implProcessor struct {
	cfg    *config.Config
	stages Stages
	jobs   jobs.Store
	logger logger.Logger
}

// New creates a Processor that records progress in store.
func New(cfg *config.Config, stages Stages, store jobs.Store, log logger.Logger) Processor {
	return &implProcessor{
		cfg:    cfg,
		stages: stages,
		jobs:   store,
		logger: log,
	}
}
