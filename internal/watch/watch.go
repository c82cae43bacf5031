// Package watch re-runs generation when Go sources change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the watcher waits for edits to settle.
const DefaultDebounce = 300 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	// Debounce is the quiet period after the last change before the
	// callback runs. Zero means DefaultDebounce.
	Debounce time.Duration

	// Ignore reports paths whose changes never trigger a run, such as
	// generated files.
	Ignore func(path string) bool

	Logger *zap.Logger
}

// Func is called with the changed paths, sorted, once edits settle.
type Func func(ctx context.Context, changed []string) error

// Watcher watches package directories for Go source changes.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	ignore   func(string) bool
	logger   *zap.Logger

	mu   sync.Mutex
	dirs map[string]bool
}

// New returns a Watcher watching nothing yet.
func New(opts Options) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	w := &Watcher{
		fs:       fs,
		debounce: opts.Debounce,
		ignore:   opts.Ignore,
		logger:   opts.Logger,
		dirs:     make(map[string]bool),
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.ignore == nil {
		w.ignore = func(string) bool { return false }
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	return w, nil
}

// SetDirs makes dirs the watched set, adding new directories and dropping
// ones no longer listed. Package sets change as sources are edited.
func (w *Watcher) SetDirs(dirs []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	want := make(map[string]bool, len(dirs))
	for _, d := range dirs {
		want[filepath.Clean(d)] = true
	}

	var errs []error
	for d := range w.dirs {
		if !want[d] {
			if err := w.fs.Remove(d); err != nil && !errors.Is(err, fsnotify.ErrNonExistentWatch) {
				errs = append(errs, fmt.Errorf("unwatching %s: %w", d, err))
			}
			delete(w.dirs, d)
			w.logger.Debug("unwatching directory", zap.String("dir", d))
		}
	}
	for d := range want {
		if w.dirs[d] {
			continue
		}
		if err := w.fs.Add(d); err != nil {
			errs = append(errs, fmt.Errorf("watching %s: %w", d, err))
			continue
		}
		w.dirs[d] = true
		w.logger.Debug("watching directory", zap.String("dir", d))
	}
	return errors.Join(errs...)
}

// Dirs returns the watched directories, sorted.
func (w *Watcher) Dirs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.dirs))
	for d := range w.dirs {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Run delivers settled changes to fn until ctx is cancelled or the watcher
// is closed. Errors from fn are logged and watching continues.
func (w *Watcher) Run(ctx context.Context, fn Func) error {
	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("source changed", zap.String("path", event.Name), zap.Stringer("op", event.Op))
			pending[event.Name] = true
			timer.Reset(w.debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			clear(pending)

			if err := fn(ctx, changed); err != nil {
				w.logger.Error("regeneration failed", zap.Strings("changed", changed), zap.Error(err))
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if !strings.HasSuffix(event.Name, ".go") || strings.HasSuffix(event.Name, "_test.go") {
		return false
	}
	return !w.ignore(event.Name)
}

// Close stops watching. Run returns once the event channels close.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
