package envfile

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vyrodovalexey/envproxy"
	"github.com/vyrodovalexey/envproxy/observability"
)

// SnapshotCallback is called with the new snapshot after a successful
// reload.
type SnapshotCallback func(envproxy.Snapshot)

// ErrorCallback is called when a reload fails.
type ErrorCallback func(error)

// Watcher watches a Source's backing file and reloads it on change.
type Watcher struct {
	source        *Source
	watcher       *fsnotify.Watcher
	callback      SnapshotCallback
	errorCallback ErrorCallback
	logger        observability.Logger
	debounceDelay time.Duration
	mu            sync.Mutex
	stopCh        chan struct{}
	stoppedCh     chan struct{}
	running       bool
}

// WatcherOption is a functional option for configuring the watcher.
type WatcherOption func(*Watcher)

// WithDebounceDelay sets the debounce delay for file changes.
func WithDebounceDelay(delay time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounceDelay = delay
	}
}

// WithLogger sets the logger for the watcher.
func WithLogger(logger observability.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithErrorCallback sets the callback invoked when a reload fails.
func WithErrorCallback(callback ErrorCallback) WatcherOption {
	return func(w *Watcher) {
		w.errorCallback = callback
	}
}

// NewWatcher creates a watcher for the source's backing file. The callback
// may be nil when only the Source state matters.
func NewWatcher(source *Source, callback SnapshotCallback, opts ...WatcherOption) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		source:        source,
		watcher:       fsWatcher,
		callback:      callback,
		debounceDelay: 100 * time.Millisecond,
		logger:        observability.NopLogger(),
		stopCh:        make(chan struct{}),
		stoppedCh:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Start begins watching the backing file. Starting an already running
// watcher is a no-op.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	// Watch the directory rather than the file so that editors and
	// config-map style replace-by-rename updates are seen.
	if err := w.watcher.Add(filepath.Dir(w.source.Path())); err != nil {
		return err
	}
	w.running = true

	w.logger.Info("started watching proxy variable file",
		observability.String("path", w.source.Path()),
	)

	go w.watch(ctx)

	return nil
}

// Stop stops watching the backing file. A stopped watcher cannot be
// restarted.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.stoppedCh

	return w.watcher.Close()
}

// watch is the main watch loop.
func (w *Watcher) watch(ctx context.Context) {
	defer close(w.stoppedCh)

	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("proxy variable watcher stopped due to context cancellation")
			return

		case <-w.stopCh:
			w.logger.Info("proxy variable watcher stopped")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			debounceTimer, debounceCh = w.handleFileEvent(event, debounceTimer, debounceCh)

		case <-debounceCh:
			debounceCh = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.handleWatchError(err)
		}
	}
}

// handleFileEvent processes a file system event and returns the updated
// debounce timer.
func (w *Watcher) handleFileEvent(
	event fsnotify.Event,
	debounceTimer *time.Timer,
	debounceCh <-chan time.Time,
) (timer *time.Timer, ch <-chan time.Time) {
	if filepath.Clean(event.Name) != w.source.Path() {
		return debounceTimer, debounceCh
	}

	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return debounceTimer, debounceCh
	}

	w.logger.Debug("proxy variable file changed",
		observability.String("path", event.Name),
		observability.String("op", event.Op.String()),
	)

	if debounceTimer != nil {
		debounceTimer.Stop()
	}
	debounceTimer = time.NewTimer(w.debounceDelay)
	return debounceTimer, debounceTimer.C
}

// handleWatchError handles watcher errors.
func (w *Watcher) handleWatchError(err error) {
	w.logger.Error("proxy variable watcher error",
		observability.Error(err),
	)
	if w.errorCallback != nil {
		w.errorCallback(err)
	}
}

// reload re-reads the backing file through the source.
func (w *Watcher) reload() {
	w.logger.Info("reloading proxy variables",
		observability.String("path", w.source.Path()),
	)

	if err := w.source.Reload(); err != nil {
		w.logger.Error("failed to reload proxy variables",
			observability.Error(err),
		)
		if w.errorCallback != nil {
			w.errorCallback(err)
		}
		return
	}

	w.logger.Info("proxy variables reloaded successfully")

	if w.callback != nil {
		w.callback(w.source.Snapshot())
	}
}

// ForceReload reloads the backing file immediately, bypassing the
// debounce.
func (w *Watcher) ForceReload() error {
	if err := w.source.Reload(); err != nil {
		return err
	}

	if w.callback != nil {
		w.callback(w.source.Snapshot())
	}

	return nil
}
