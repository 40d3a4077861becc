package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/Lin-Jiong-HDU/jarvis/internal/logger"
	"github.com/fsnotify/fsnotify"
)

// ReloadFunc receives the freshly loaded config after a file change
type ReloadFunc func(cfg *Config, event fsnotify.Event)

// WatchConfig reloads the config at path whenever it is written, created or
// renamed into place, and passes the result to onReload. Reload failures are
// logged and the previous config stays in effect. WatchConfig blocks until
// ctx is done.
func WatchConfig(ctx context.Context, path string, onReload ReloadFunc, log logger.Logger) error {
	if log == nil {
		log = logger.Discard()
	}
	log = log.With("component", "config-watch", "file", path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so editors that replace the file are still seen.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("config watcher closed unexpectedly")
			}
			if !eventMatchesFile(event, path) {
				continue
			}
			cfg, err := InitConfig(path)
			if err != nil {
				log.Warn("config reload failed, keeping previous config", "err", err)
				continue
			}
			log.Info("config reloaded", "op", event.Op.String())
			onReload(cfg, event)
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return errors.New("config watcher closed unexpectedly")
			}
			log.Warn("config watcher error", "err", watchErr)
		}
	}
}

func eventMatchesFile(event fsnotify.Event, target string) bool {
	if event.Name == "" {
		return false
	}
	if filepath.Clean(event.Name) != filepath.Clean(target) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
