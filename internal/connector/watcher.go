package connector

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"connecthub/pkg/logging"
)

// Watcher invalidates DocCache entries when connector package files change on
// disk. It watches the connector root plus each connector directory; fsnotify
// does not recurse, so new connector directories are added to the watch set
// as create events arrive.
type Watcher struct {
	mu      sync.Mutex
	root    string
	cache   *DocCache
	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	running bool
}

// NewWatcher creates a watcher for the given connector root directory.
func NewWatcher(root string, cache *DocCache) *Watcher {
	return &Watcher{
		root:   root,
		cache:  cache,
		stopCh: make(chan struct{}),
	}
}

// Start begins watching. The root directory is created if missing so the
// watch can be established before the first connector is installed.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	if err := os.MkdirAll(w.root, 0755); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := watcher.Add(w.root); err != nil {
		watcher.Close()
		return err
	}

	// Watch existing connector directories.
	entries, err := os.ReadDir(w.root)
	if err == nil {
		for _, entry := range entries {
			if entry.IsDir() && ValidName(entry.Name()) {
				_ = watcher.Add(filepath.Join(w.root, entry.Name()))
			}
		}
	}

	w.watcher = watcher
	w.running = true

	go w.loop()

	logging.Debug("Docs", "Watching connector root %s", w.root)
	return nil
}

// Stop stops watching and releases the underlying fsnotify watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	close(w.stopCh)
	w.watcher.Close()
	w.running = false
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Warn("Docs", "Watcher error: %v", err)
		case <-w.stopCh:
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	name := parts[0]
	if !ValidName(name) {
		return
	}

	// A freshly installed connector directory needs its own watch for the
	// doc files inside it.
	if len(parts) == 1 && event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.watcher.Add(event.Name)
		}
	}

	w.cache.Invalidate(name)
	logging.Debug("Docs", "Invalidated cached docs for %s (%s)", name, event.Op)
}
