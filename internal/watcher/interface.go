package watcher

import (
	"context"

	"github.com/nguyentantai21042004/slidecast/internal/pipeline"
)

// Watcher defines the interface for inbox monitoring
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// Submitter accepts generation requests found in the inbox.
type Submitter interface {
	Submit(ctx context.Context, req pipeline.Request) (string, error)
}
