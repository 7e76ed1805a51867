package file

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/openhymnal/hymnal-cli/internal/logger"
)

// debounceWindow coalesces the event bursts editors and atomic renames
// produce into a single reload.
const debounceWindow = 200 * time.Millisecond

// Watcher reloads a ConfigStore when its file changes on disk and notifies
// a callback. Long-running surfaces (the TUI, the background trigger) use it
// to pick up settings edits without a restart.
type Watcher struct {
	store    *ConfigStore
	onReload func()

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewWatcher creates a watcher for the given store. onReload may be nil;
// it is called after each successful reload.
func NewWatcher(store *ConfigStore, onReload func()) *Watcher {
	return &Watcher{
		store:    store,
		onReload: onReload,
	}
}

// Start begins watching the config file's directory. Watching the directory
// rather than the file survives rename-based writes.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher != nil {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	dir := filepath.Dir(w.store.Path())
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	w.watcher = fsw
	w.done = make(chan struct{})
	w.wg.Add(1)
	go w.loop(fsw, w.done)

	return nil
}

// Stop stops watching. Safe to call when not started.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher == nil {
		return
	}

	close(w.done)
	w.watcher.Close()
	w.wg.Wait()
	w.watcher = nil
}

// loop consumes filesystem events until Stop is called.
func (w *Watcher) loop(fsw *fsnotify.Watcher, done chan struct{}) {
	defer w.wg.Done()

	target := filepath.Base(w.store.Path())
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-done:
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceWindow, w.reload)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("config watcher error: %v", err)
		}
	}
}

// reload re-reads the config file and fires the callback.
func (w *Watcher) reload() {
	if err := w.store.Load(); err != nil {
		logger.Warn("reloading config: %v", err)
		return
	}
	logger.Debug("config reloaded from %s", w.store.Path())
	if w.onReload != nil {
		w.onReload()
	}
}
