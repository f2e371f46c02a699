package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"speview/internal/spelist"
)

// watchDir calls onChange once SPE files in dir were created, removed or
// renamed and no further change arrived for settle. It returns after the
// watcher is set up; the event loop runs until ctx is cancelled. onChange is
// called on the watcher goroutine.
func watchDir(ctx context.Context, dir string, settle time.Duration, onChange func(), l *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	l.Info("watching directory", zap.String("dir", dir))

	go func() {
		defer watcher.Close()
		timer := time.NewTimer(settle)
		timer.Stop()
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				l.Debug("watcher stopped", zap.String("dir", dir))
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !spelist.IsSPE(ev.Name) || ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				l.Debug("directory changed", zap.String("event", ev.String()))
				timer.Reset(settle)
			case <-timer.C:
				onChange()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				l.Warn("watch error", zap.Error(err))
			}
		}
	}()
	return nil
}
