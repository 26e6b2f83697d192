package storage

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeCallback is invoked after the data file changes on disk with the new
// content checksum (empty string when the file was removed).
type ChangeCallback func(sum string)

// Watch starts an fsnotify watcher on the data file's directory and invokes
// cb whenever the file content actually changes, until ctx is cancelled.
//
// The directory (not the file) is watched so that atomic rename-into-place
// writes and external recreation of the file are both observed. Events are
// debounced, and the checksum is compared against the last seen value so
// editors that fire multiple events per save trigger a single callback.
func Watch(ctx context.Context, store Provider, logger *slog.Logger, cb ChangeCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dataPath := store.Path()
	if err := w.Add(filepath.Dir(dataPath)); err != nil {
		return err
	}

	lastSum, err := store.Checksum()
	if err != nil {
		logger.Warn("watcher: initial checksum failed", slog.String("error", err.Error()))
	}

	logger.Info("watcher: started", slog.String("path", dataPath))

	var debounce *time.Timer
	var debounceCh <-chan time.Time

	schedule := func() {
		if debounce == nil {
			debounce = time.NewTimer(200 * time.Millisecond)
			debounceCh = debounce.C
		} else {
			debounce.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-debounceCh:
			sum, err := store.Checksum()
			if err != nil {
				logger.Warn("watcher: checksum failed", slog.String("error", err.Error()))
				continue
			}
			if sum == lastSum {
				continue
			}
			lastSum = sum
			logger.Debug("watcher: data file changed", slog.String("checksum", sum))
			if cb != nil {
				cb(sum)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Name != dataPath {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			schedule()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: error", slog.String("error", err.Error()))
		}
	}
}
