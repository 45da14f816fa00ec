package driven

import "context"

// SchemaWatcher notifies when a local schema file changes.
type SchemaWatcher interface {
	// Watch emits on the returned channel after each change to path.
	// The channel is closed when ctx is cancelled.
	Watch(ctx context.Context, path string) (<-chan struct{}, error)
}
