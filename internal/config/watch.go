package config

import (
	"fmt"
	"os"
	"time"
)

// Watcher detects config file changes by modification time.
type Watcher struct {
	path    string
	modTime time.Time
	exists  bool
}

// NewWatcher records the current state of path.
func NewWatcher(path string) *Watcher {
	w := &Watcher{path: path}
	w.modTime, w.exists = stat(path)
	return w
}

// Path returns the watched path.
func (w *Watcher) Path() string {
	return w.path
}

// Poll reports whether the file changed since the last poll and, if so,
// returns the freshly decoded config. A deleted file decodes as empty.
func (w *Watcher) Poll() (FileConfig, bool, error) {
	modTime, exists := stat(w.path)
	if exists == w.exists && modTime.Equal(w.modTime) {
		return FileConfig{}, false, nil
	}
	w.modTime, w.exists = modTime, exists
	cfg, err := LoadConfig(w.path)
	if err != nil {
		return FileConfig{}, true, fmt.Errorf("failed to reload config: %w", err)
	}
	return cfg, true, nil
}

func stat(path string) (time.Time, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}
