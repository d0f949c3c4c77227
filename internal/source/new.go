package source

import (
	"net/http"

	"github.com/nguyentantai21042004/slidecast/internal/config"
	"github.com/nguyentantai21042004/slidecast/internal/logger"
)

type implSource struct {
	cfg    config.SourceConfig
	client *http.Client
	logger logger.Logger
}

// New creates a Source. A nil client gets one with the configured timeout.
func New(cfg config.SourceConfig, client *http.Client, log logger.Logger) Source {
	if cfg.MinTextLength <= 0 {
		cfg.MinTextLength = 50
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &implSource{
		cfg:    cfg,
		client: client,
		logger: log,
	}
}
