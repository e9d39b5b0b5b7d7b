package reload

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type fileState struct {
	modTime time.Time
	size    int64
}

// Watcher tracks the configuration file and detects modifications by polling
// modification time and size.
type Watcher struct {
	mu    sync.Mutex
	path  string
	state fileState
}

// NewWatcher builds a watcher for the given configuration file.
func NewWatcher(path string) (*Watcher, error) {
	w := &Watcher{}
	if err := w.Update(path); err != nil {
		return nil, err
	}
	return w, nil
}

// Update rebaselines the watcher on the (possibly new) configuration path.
func (w *Watcher) Update(path string) error {
	if w == nil {
		return nil
	}
	if path == "" {
		return errors.New("watcher path must not be empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return errors.New("watcher path must reference a file")
	}
	w.mu.Lock()
	w.path = abs
	w.state = fileState{modTime: info.ModTime(), size: info.Size()}
	w.mu.Unlock()
	return nil
}

// Changed reports whether the file changed since the last baseline. A missing
// file counts as changed.
func (w *Watcher) Changed() bool {
	if w == nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	info, err := os.Stat(w.path)
	if err != nil {
		return true
	}
	if info.IsDir() {
		return false
	}
	return info.ModTime().After(w.state.modTime) || info.Size() != w.state.size
}
