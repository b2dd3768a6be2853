// Package watch re-runs a callback when a single file's content changes.
package watch

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	"github.com/zeebo/blake3"
)

// Watcher handles filesystem events for one file
type Watcher struct {
	fs       afero.Fs
	path     string
	watcher  *fsnotify.Watcher
	debounce func(func())
	onChange func(path string)
	logger   *slog.Logger

	mu       sync.Mutex
	lastHash string
}

// New creates a watcher for path. The containing directory is watched so
// editors that save by rename are still seen. onChange runs after the
// file has been quiet for the debounce period and only if its content
// differs from what was last seen.
func New(fsys afero.Fs, path string, quiet time.Duration, onChange func(path string), logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		fs:       fsys,
		path:     abs,
		watcher:  fw,
		debounce: debounce.New(quiet),
		onChange: onChange,
		logger:   logger,
	}
	// Seed with the current content so startup does not count as a change.
	w.lastHash, _ = w.hash()
	return w, nil
}

// Run blocks until ctx is cancelled or the watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.watcher.Close(); err != nil {
			w.logger.Warn("Failed to close file watcher", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			// Ignore chmod and other meta events
			if event.Op&fsnotify.Chmod == fsnotify.Chmod {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			w.debounce(w.check)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", "error", err)
		}
	}
}

// check runs onChange when the content hash moved. The hash is taken again
// afterwards so a write made by onChange itself is not reported back.
func (w *Watcher) check() {
	w.mu.Lock()
	defer w.mu.Unlock()

	sum, err := w.hash()
	if err != nil {
		w.logger.Debug("Skipping unreadable file", "path", w.path, "error", err)
		return
	}
	if sum == w.lastHash {
		return
	}

	w.onChange(w.path)

	if sum, err = w.hash(); err == nil {
		w.lastHash = sum
	}
}

func (w *Watcher) hash() (string, error) {
	data, err := afero.ReadFile(w.fs, w.path)
	if err != nil {
		return "", err
	}
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:]), nil
}
