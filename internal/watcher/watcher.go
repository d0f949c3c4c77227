package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/slidecast/internal/logger"
)

type implWatcher struct {
	inboxDir    string
	archivedDir string
	submitter   Submitter
	logger      logger.Logger
	watcher     *fsnotify.Watcher
	settle      time.Duration
}

// Start submits files already in the inbox, then monitors it for new ones.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "Inbox watcher started. Monitoring: %s", w.inboxDir)
	w.logger.Info(ctx, "Supported requests: .txt, .url, .pdf, .json")

	entries, err := os.ReadDir(w.inboxDir)
	if err != nil {
		return fmt.Errorf("read inbox: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() && isRequestFile(e.Name()) {
			w.handle(ctx, filepath.Join(w.inboxDir, e.Name()))
		}
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Inbox watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			// Only process CREATE events
			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !isRequestFile(event.Name) {
				w.logger.Debug(ctx, "Ignoring non-request file: %s", event.Name)
				continue
			}

			w.logger.Info(ctx, "New request detected: %s", event.Name)
			select {
			case <-time.After(w.settle):
			case <-ctx.Done():
				return ctx.Err()
			}
			w.handle(ctx, event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

// handle archives a request file and submits it. The file is moved first
// so a PDF stays readable after the inbox entry is gone.
func (w *implWatcher) handle(ctx context.Context, path string) {
	archived, err := w.archive(path)
	if err != nil {
		w.logger.Error(ctx, "Failed to archive %s: %v", path, err)
		return
	}

	req, err := ParseRequest(archived)
	if err != nil {
		w.logger.Error(ctx, "Invalid request %s: %v", archived, err)
		return
	}

	id, err := w.submitter.Submit(ctx, req)
	if err != nil {
		w.logger.Error(ctx, "Failed to submit %s: %v", archived, err)
		return
	}
	w.logger.Info(ctx, "Submitted %s as job %s", filepath.Base(path), id)
}

// archive moves path into the archived directory under a unique name.
func (w *implWatcher) archive(path string) (string, error) {
	name := fmt.Sprintf("%s_%s", time.Now().Format("20060102_150405.000"), filepath.Base(path))
	dest := filepath.Join(w.archivedDir, name)
	if err := os.Rename(path, dest); err != nil {
		return "", err
	}
	return dest, nil
}
