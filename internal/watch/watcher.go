// Package watch re-renders dashboards when a file-backed stats source changes.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/huangsam/learnstat/core"
	"github.com/huangsam/learnstat/internal/contract"
)

// RenderFunc renders one dashboard pass.
type RenderFunc func(ctx context.Context) error

// Watcher monitors a stats file and re-renders after it settles.
type Watcher struct {
	path     string
	debounce time.Duration
	render   RenderFunc
}

// New returns a watcher for the stats file at path.
func New(path string, debounce time.Duration, render RenderFunc) *Watcher {
	return &Watcher{path: path, debounce: debounce, render: render}
}

// relevant reports whether the event touches the watched file's contents.
func (w *Watcher) relevant(evt fsnotify.Event, target string) bool {
	if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Clean(evt.Name) == target
}

// Run renders once, then watches the file's directory and re-renders on change
// until ctx is cancelled. Re-renders bypass the fetch cache.
func (w *Watcher) Run(ctx context.Context) error {
	target, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("failed to resolve stats path %s: %w", w.path, err)
	}

	if err := w.render(ctx); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory so editors that replace the file are still seen
	dir := filepath.Dir(target)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	_, _ = fmt.Fprintf(os.Stderr, "👀 Watching %s for changes\n", target)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(evt, target) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if err := w.render(core.WithSkipCache(ctx)); err != nil {
				contract.LogWarn("Re-render failed", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			contract.LogWarn("Watcher error", err)
		}
	}
}
