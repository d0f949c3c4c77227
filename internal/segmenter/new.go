package segmenter

import (
	"github.com/nguyentantai21042004/slidecast/internal/config"
	"github.com/nguyentantai21042004/slidecast/internal/logger"
)

type implSegmenter struct {
	cfg        config.SlidesConfig
	extractors []KeywordExtractor
	logger     logger.Logger
}

// New creates a Segmenter. Extractors are tried in the given order; the
// frequency extractor is always appended as the last resort.
func New(cfg config.SlidesConfig, log logger.Logger, extractors ...KeywordExtractor) Segmenter {
	if cfg.MaxSlides <= 0 {
		cfg.MaxSlides = 8
	}
	if cfg.WordsPerSlide <= 0 {
		cfg.WordsPerSlide = 50
	}
	if cfg.MinSlideDuration <= 0 {
		cfg.MinSlideDuration = 3.0
	}
	if cfg.MaxSlideDuration < cfg.MinSlideDuration {
		cfg.MaxSlideDuration = 8.0
	}
	if cfg.MaxKeywords <= 0 {
		cfg.MaxKeywords = 10
	}

	chain := make([]KeywordExtractor, 0, len(extractors)+1)
	for _, e := range extractors {
		if e != nil {
			chain = append(chain, e)
		}
	}
	chain = append(chain, NewFrequencyExtractor())

	return &implSegmenter{
		cfg:        cfg,
		extractors: chain,
		logger:     log,
	}
}
