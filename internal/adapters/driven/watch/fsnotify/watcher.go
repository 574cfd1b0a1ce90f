// Package fsnotify provides the file watcher adapter backed by
// inotify/kqueue via github.com/fsnotify/fsnotify.
package fsnotify

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/designsync-cli/internal/core/ports/driven"
	"github.com/custodia-labs/designsync-cli/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.FileWatcher = (*Watcher)(nil)

// Watcher reports writes to a single file. It watches the parent
// directory rather than the file itself: many editors save by writing
// a temp file and renaming it over the target, which replaces the
// inode and would silently detach a direct file watch.
type Watcher struct {
	fw *fsnotify.Watcher
}

// NewWatcher creates an OS-level file watcher.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	return &Watcher{fw: fw}, nil
}

// Watch starts watching the file at path. The returned channel carries
// one signal per observed write or rename-replace; signals coalesce
// when the consumer lags.
func (w *Watcher) Watch(ctx context.Context, path string) (<-chan struct{}, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if err := w.fw.Add(filepath.Dir(abs)); err != nil {
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				select {
				case out <- struct{}{}:
				default:
					// Consumer already has an unread signal.
				}

			case err, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				logger.Warn("Watcher error: %v", err)
			}
		}
	}()
	return out, nil
}

// Close releases the watcher and its resources. The channel returned
// by Watch closes shortly after.
func (w *Watcher) Close() error {
	return w.fw.Close()
}
