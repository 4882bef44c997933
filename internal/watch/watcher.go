// Package watch reports edits to a single file, such as the keymap being
// checked by `vjj check --watch`.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/noahmayr/vjj/internal/log"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the bursts of events editors produce on save.
const DefaultDebounce = 100 * time.Millisecond

// Change is a settled modification of the watched file
type Change struct {
	Path      string
	Op        fsnotify.Op
	Timestamp time.Time
}

// Removed reports whether the file no longer exists at its path.
func (c Change) Removed() bool {
	_, err := os.Stat(c.Path)
	return os.IsNotExist(err)
}

// Option configures a Watcher
type Option func(*Watcher)

// WithDebounce sets how long the file must be quiet before a Change is sent
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// Watcher monitors one file using fsnotify. The parent directory is watched
// because editors often save by replacing the file.
type Watcher struct {
	path     string
	debounce time.Duration

	changes   chan Change
	stopChan  chan struct{}
	done      chan struct{}
	fsWatcher *fsnotify.Watcher

	mutex   sync.RWMutex
	running bool
}

// New creates a watcher for path. The file itself may not exist yet, but its
// directory must.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	dir := filepath.Dir(abs)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}

	w := &Watcher{
		path:      abs,
		debounce:  DefaultDebounce,
		changes:   make(chan Change, 1),
		fsWatcher: fsWatcher,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Changes delivers settled modifications. It is closed after Stop.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Start begins delivering changes.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.running {
		return fmt.Errorf("watcher already running")
	}
	if w.done != nil {
		return fmt.Errorf("watcher has been stopped")
	}
	w.running = true
	w.stopChan = make(chan struct{})
	w.done = make(chan struct{})

	go w.loop()

	log.LogWithFields(log.F("file", w.path)).Info("Watching file")
	return nil
}

func (w *Watcher) loop() {
	defer close(w.done)
	defer close(w.changes)

	var (
		pending Change
		settle  <-chan time.Time
	)
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if pending.Op == 0 {
				pending = Change{Path: w.path}
			}
			pending.Op |= event.Op
			pending.Timestamp = time.Now()
			settle = time.After(w.debounce)

		case <-settle:
			settle = nil
			select {
			case w.changes <- pending:
			default:
				// An unread change is merged into the newer one. The loop is
				// the only sender, so the second send cannot block.
				select {
				case old := <-w.changes:
					pending.Op |= old.Op
					log.LogWithFields(log.F("file", w.path)).Debug("merged unread change")
				default:
				}
				w.changes <- pending
			}
			pending = Change{}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

		case <-w.stopChan:
			return
		}
	}
}

// Stop halts the watcher and closes the Changes channel.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if !w.running {
		return
	}
	close(w.stopChan)
	<-w.done
	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
	w.running = false
	log.Info("Watcher stopped.")
}

// IsRunning returns whether the watcher is currently active
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}
