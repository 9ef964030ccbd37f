// Package watch re-runs the listing when watched directories change.
package watch

import (
	"context"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the event coalescing window used when none is
// configured.
const DefaultDebounce = 600 * time.Millisecond

// Watcher observes a set of directories and fires a callback on changes,
// debounced so bursts of filesystem events trigger one refresh.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logf     func(string, ...any)
}

// New creates a Watcher over the given directories. Non-directories are
// watched through their parent. logf may be nil.
func New(paths []string, debounce time.Duration, logf func(string, ...any)) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{watcher: fsWatcher, debounce: debounce, logf: logf}
	for _, path := range paths {
		if info, err := os.Stat(path); err != nil || !info.IsDir() {
			continue
		}
		if err := fsWatcher.Add(path); err != nil {
			w.debugf("watch add failed for %s: %v", path, err)
		}
	}

	return w, nil
}

// Run blocks, invoking refresh after each debounced batch of events, until
// the context is cancelled.
func (w *Watcher) Run(ctx context.Context, refresh func()) error {
	defer func() { _ = w.watcher.Close() }()

	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Chmod) == 0 {
				continue
			}
			w.debugf("watch event: %s", event)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				pending = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.debugf("watch error: %v", err)
		case <-pending:
			timer = nil
			pending = nil
			refresh()
		}
	}
}

func (w *Watcher) debugf(format string, args ...any) {
	if w.logf == nil {
		return
	}
	w.logf(format, args...)
}
