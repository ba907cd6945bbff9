package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/marpview/internal/domain/entities"
	"github.com/fredcamaral/marpview/internal/domain/ports"
)

type fakeWatcher struct {
	events   chan ports.FileChangeEvent
	watchErr error
	stopped  bool
}

func (w *fakeWatcher) Watch(ctx context.Context, path string) (<-chan ports.FileChangeEvent, error) {
	if w.watchErr != nil {
		return nil, w.watchErr
	}
	return w.events, nil
}

func (w *fakeWatcher) Stop() error {
	w.stopped = true
	return nil
}

type recordingReloader struct {
	mu      sync.Mutex
	sources []string
	calls   chan string
}

func (r *recordingReloader) Reload(ctx context.Context, name, source string) (entities.View, error) {
	r.mu.Lock()
	r.sources = append(r.sources, name+":"+source)
	r.mu.Unlock()
	r.calls <- source
	return entities.View{}, nil
}

func (r *recordingReloader) Sources() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.sources...)
}

func TestLiveReloadService(t *testing.T) {
	watcher := &fakeWatcher{events: make(chan ports.FileChangeEvent)}
	reloader := &recordingReloader{calls: make(chan string, 4)}
	svc := NewLiveReloadService(watcher, reloader, quietLogger())
	svc.readFile = func(path string) ([]byte, error) {
		assert.Equal(t, "/decks/talk.md", path)
		return []byte("A|B"), nil
	}

	require.NoError(t, svc.Start(context.Background(), "/decks/talk.md"))
	assert.True(t, svc.IsWatching())
	assert.Error(t, svc.Start(context.Background(), "/decks/talk.md"))

	watcher.events <- ports.FileChangeEvent{Path: "/decks/talk.md", Type: ports.Deleted, Timestamp: time.Now()}
	watcher.events <- ports.FileChangeEvent{Path: "/decks/talk.md", Type: ports.Modified, Timestamp: time.Now()}

	select {
	case source := <-reloader.calls:
		assert.Equal(t, "A|B", source)
	case <-time.After(2 * time.Second):
		t.Fatal("reload was not triggered")
	}

	require.NoError(t, svc.Stop())
	assert.False(t, svc.IsWatching())
	assert.True(t, watcher.stopped)
	assert.Equal(t, []string{"talk.md:A|B"}, reloader.Sources())

	assert.NoError(t, svc.Stop())
}

func TestLiveReloadService_ReadFailure(t *testing.T) {
	watcher := &fakeWatcher{events: make(chan ports.FileChangeEvent, 1)}
	reloader := &recordingReloader{calls: make(chan string, 1)}
	svc := NewLiveReloadService(watcher, reloader, quietLogger())
	svc.readFile = func(string) ([]byte, error) { return nil, errors.New("permission denied") }

	err := svc.reload(context.Background())
	assert.ErrorIs(t, err, entities.ErrFileRead)
	assert.Empty(t, reloader.Sources())
}

func TestLiveReloadService_WatchError(t *testing.T) {
	watcher := &fakeWatcher{watchErr: errors.New("too many open files")}
	svc := NewLiveReloadService(watcher, &recordingReloader{}, quietLogger())

	err := svc.Start(context.Background(), "talk.md")
	assert.ErrorContains(t, err, "too many open files")
	assert.False(t, svc.IsWatching())
}

func TestLiveReloadService_ClosedEvents(t *testing.T) {
	watcher := &fakeWatcher{events: make(chan ports.FileChangeEvent)}
	svc := NewLiveReloadService(watcher, &recordingReloader{calls: make(chan string, 1)}, quietLogger())

	require.NoError(t, svc.Start(context.Background(), "talk.md"))
	close(watcher.events)

	assert.NoError(t, svc.Stop())
}
