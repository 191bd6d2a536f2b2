package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce absorbs the burst of write+rename events a single save
// produces (editors like vim/nano replace the file atomically rather
// than writing it in place) into one reload signal.
const watchDebounce = 500 * time.Millisecond

// WatchConfig watches files for changes and returns a channel that
// receives a debounced reload signal each time one of them is written.
// The watcher goroutine runs until ctx is cancelled.
func WatchConfig(ctx context.Context, files ...string) <-chan struct{} {
	reloadCh := make(chan struct{}, 1) // buffered so a debounced fire never blocks

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Error("failed to create config watcher", "error", err)
		return reloadCh
	}

	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			slog.Warn("could not resolve config path", "file", f)
			continue
		}
		if err := watcher.Add(abs); err != nil {
			slog.Warn("could not watch config file", "file", f, "error", err)
		} else {
			slog.Debug("watching config file", "file", f)
		}
	}

	go func() {
		defer watcher.Close()
		defer close(reloadCh)

		var debounce *time.Timer
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(watchDebounce, func() {
					slog.Info("config file changed", "file", ev.Name)
					select {
					case reloadCh <- struct{}{}:
					default:
					}
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Error("config watcher error", "error", err)
			}
		}
	}()

	return reloadCh
}
