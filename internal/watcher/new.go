package watcher

import (
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/slidecast/internal/logger"
)

// settleDelay gives writers time to finish a file before it is read.
const settleDelay = 500 * time.Millisecond

// New creates a Watcher on inboxDir that moves each request file to
// archivedDir and submits it.
func New(inboxDir, archivedDir string, submitter Submitter, log logger.Logger) (Watcher, error) {
	for _, dir := range []string{inboxDir, archivedDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inboxDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	return &implWatcher{
		inboxDir:    inboxDir,
		archivedDir: archivedDir,
		submitter:   submitter,
		logger:      log,
		watcher:     watcher,
		settle:      settleDelay,
	}, nil
}
