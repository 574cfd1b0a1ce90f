package driven

import "context"

// FileWatcher reports writes to a single file. The returned channel
// carries one signal per observed write; implementations may coalesce
// bursts. The channel closes when the context is cancelled or the
// watcher is closed.
type FileWatcher interface {
	// Watch starts watching the file at path.
	Watch(ctx context.Context, path string) (<-chan struct{}, error)

	// Close releases the watcher and its resources.
	Close() error
}
