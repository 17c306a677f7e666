package translation

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatcherConfig configures a table Watcher.
type WatcherConfig struct {
	Dirs          []string
	DebounceDelay time.Duration
	Logger        *slog.Logger
}

// Watcher reports changed translation table files after a debounce delay.
type Watcher struct {
	config  WatcherConfig
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	changes chan []string
}

// NewWatcher creates a watcher over the configured directories.
func NewWatcher(config WatcherConfig) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if config.DebounceDelay == 0 {
		config.DebounceDelay = 200 * time.Millisecond
	}

	return &Watcher{
		config:  config,
		watcher: fsw,
		logger:  logger,
		pending: make(map[string]fsnotify.Op),
		changes: make(chan []string, 16),
	}, nil
}

// Changes returns batches of changed table paths.
func (w *Watcher) Changes() <-chan []string {
	return w.changes
}

// Start adds the watches and processes events until ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	for _, dir := range w.config.Dirs {
		if err := w.watcher.Add(dir); err != nil {
			return err
		}
		w.logger.Debug("Watching translation tables", "dir", dir)
	}
	go w.processEvents(ctx)
	return nil
}

// Stop closes the underlying watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func (w *Watcher) processEvents(ctx context.Context) {
	ticker := time.NewTicker(w.config.DebounceDelay)
	defer ticker.Stop()
	defer close(w.changes)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			ext := filepath.Ext(event.Name)
			if ext != ".yaml" && ext != ".yml" {
				continue
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				continue
			}
			w.pendingMu.Lock()
			w.pending[event.Name] = event.Op
			w.pendingMu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	select {
	case w.changes <- paths:
	case <-ctx.Done():
	}
}
