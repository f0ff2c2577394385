package config

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch observes path for writes, creates, and renames and logs a
// restart-hint warning for each. Batch concurrency is rejected once a
// server is running and a client has nothing to hot-swap, so there is no
// live-reload path — the watcher exists purely to tell an operator their
// edit hasn't taken effect yet. The watcher stops when ctx is canceled.
func Watch(ctx context.Context, path string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: create watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return fmt.Errorf("config: watch %s: %w", path, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					logger.Warn("config file changed on disk; restart the process to apply it",
						zap.String("path", path), zap.String("op", event.Op.String()))
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Error("config watcher error", zap.Error(err), zap.String("path", path))
			}
		}
	}()
	return nil
}
