package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-compgen/pkg/descriptor"
	"github.com/goliatone/go-compgen/pkg/utils/logging"
)

// Default timings.
const (
	DefaultDebounce = 300 * time.Millisecond
	DefaultTick     = 50 * time.Millisecond
)

// ErrStopped is returned by Start once the watcher has been stopped. A
// stopped watcher has released its fsnotify handle and cannot be restarted.
var ErrStopped = errors.New("watch: watcher is stopped")

// Handler receives the files that settled since the previous call, sorted.
type Handler func(ctx context.Context, changed []string) error

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long a path must stay quiet before it is handled.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithTick sets how often pending paths are checked.
func WithTick(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.tick = d
		}
	}
}

// WithFilter replaces the default descriptor file filter.
func WithFilter(filter func(path string) bool) Option {
	return func(w *Watcher) {
		if filter != nil {
			w.filter = filter
		}
	}
}

// Stats tracks watcher activity.
type Stats struct {
	Events    int
	Runs      int
	Errors    int
	LastError string
	LastRun   time.Time
}

// Watcher reruns a Handler when descriptor files below the watched
// directories change. Directories created after Start are picked up.
type Watcher struct {
	mu       sync.RWMutex
	watcher  *fsnotify.Watcher
	dirs     []string
	handler  Handler
	filter   func(path string) bool
	debounce time.Duration
	tick     time.Duration
	pending  map[string]time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	stopped  bool
	stats    Stats
}

// New creates a Watcher over dirs. It does not watch anything until Start.
func New(dirs []string, handler Handler, options ...Option) (*Watcher, error) {
	if len(dirs) == 0 {
		return nil, errors.New("watch: at least one directory is required")
	}
	if handler == nil {
		return nil, errors.New("watch: handler is required")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	w := &Watcher{
		watcher:  watcher,
		dirs:     append([]string(nil), dirs...),
		handler:  handler,
		filter:   descriptor.IsDescriptorFile,
		debounce: DefaultDebounce,
		tick:     DefaultTick,
		pending:  make(map[string]time.Time),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range options {
		if opt != nil {
			opt(w)
		}
	}
	return w, nil
}

// Start registers the directories and begins the event loop in a goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return ErrStopped
	}
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	for _, dir := range w.dirs {
		if err := w.addTree(dir); err != nil {
			w.mu.Lock()
			w.running = false
			w.mu.Unlock()
			return err
		}
	}
	logging.From(ctx).Info("watching descriptors", "dirs", w.dirs)

	go w.run(ctx)
	return nil
}

// Stop ends the event loop and releases the fsnotify watcher. It is safe to
// call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	w.stopped = true
	if !w.running {
		w.mu.Unlock()
		return w.watcher.Close()
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	return w.watcher.Close()
}

// Run starts the watcher and blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	if err := w.Stop(); err != nil {
		return err
	}
	return nil
}

// Stats returns a snapshot of the counters.
func (w *Watcher) Stats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

// WatchList returns the registered directories.
func (w *Watcher) WatchList() []string {
	list := w.watcher.WatchList()
	sort.Strings(list)
	return list
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	logger := logging.From(ctx)

	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Error("watcher error", "error", err)
			w.recordError(err)
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				logging.From(ctx).Warn("cannot watch new directory", "path", event.Name, "error", err)
			}
			return
		}
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	if !w.filter(event.Name) {
		return
	}
	logging.From(ctx).Debug("descriptor changed", "path", event.Name, "op", event.Op.String())

	w.mu.Lock()
	w.stats.Events++
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

// flush hands every path that has been quiet for the debounce window to the
// handler in one call.
func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	now := time.Now()
	var settled []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			settled = append(settled, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()
	if len(settled) == 0 {
		return
	}
	sort.Strings(settled)

	err := w.handler(ctx, settled)
	w.mu.Lock()
	w.stats.Runs++
	w.stats.LastRun = now
	w.mu.Unlock()
	if err != nil {
		logging.From(ctx).Error("regeneration failed", "error", err, "changed", settled)
		w.recordError(err)
	}
}

func (w *Watcher) recordError(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stats.Errors++
	w.stats.LastError = err.Error()
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("watch: %s: %w", path, err)
		}
		if !entry.IsDir() {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("watch: add %s: %w", path, err)
		}
		return nil
	})
}
