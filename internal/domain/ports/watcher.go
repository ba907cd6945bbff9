package ports

import (
	"context"
	"time"
)

// FileWatcher reports changes to a single deck file. Events are debounced:
// one burst of writes produces one event.
type FileWatcher interface {
	Watch(ctx context.Context, path string) (<-chan FileChangeEvent, error)
	Stop() error
}

// ChangeType is what happened to the watched file
type ChangeType string

const (
	Created  ChangeType = "created"
	Modified ChangeType = "modified"
	Deleted  ChangeType = "deleted"
)

// FileChangeEvent is a settled change of the watched file
type FileChangeEvent struct {
	Path      string
	Type      ChangeType
	Timestamp time.Time
}
