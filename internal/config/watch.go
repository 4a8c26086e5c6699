package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const debounce = 100 * time.Millisecond

// Watch calls fn with the reloaded configuration after every change to the
// file at path, until ctx is done. Files that fail to parse are logged and
// skipped. The parent directory is watched so that editors which replace
// the file on save are seen too.
func Watch(ctx context.Context, path string, fn func(*Config), logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	path = filepath.Clean(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	logger.Info("watching config", zap.String("path", path))

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			logger.Debug("config event", zap.String("op", event.Op.String()))
			pending = time.After(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))

		case <-pending:
			pending = nil
			cfg, err := Load(path)
			if err != nil {
				logger.Warn("skipping config", zap.String("path", path), zap.Error(err))
				continue
			}
			fn(cfg)
		}
	}
}
