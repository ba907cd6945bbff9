package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/fredcamaral/marpview/internal/domain/entities"
	"github.com/fredcamaral/marpview/internal/domain/ports"
)

// New returns the watcher selected by configuration
func New(cfg entities.WatcherConfig, logger logrus.FieldLogger) ports.FileWatcher {
	if cfg.Poll {
		return NewPollingWatcher(cfg.GetInterval(), cfg.GetDebounce(), logger)
	}
	return NewFSWatcher(cfg.GetDebounce(), logger)
}

// FSWatcher watches a single file with filesystem notifications. The parent
// directory is watched so editors that save by renaming are still seen.
type FSWatcher struct {
	debounce time.Duration
	logger   logrus.FieldLogger

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	events  chan ports.FileChangeEvent
	stopCh  chan struct{}
	stopped bool
	wg      sync.WaitGroup
}

// NewFSWatcher creates a notification based watcher
func NewFSWatcher(debounce time.Duration, logger logrus.FieldLogger) *FSWatcher {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &FSWatcher{
		debounce: debounce,
		logger:   logger.WithField("component", "watcher"),
		events:   make(chan ports.FileChangeEvent, 10),
		stopCh:   make(chan struct{}),
	}
}

// Watch starts watching path. Only one file can be watched per watcher.
func (w *FSWatcher) Watch(ctx context.Context, path string) (<-chan ports.FileChangeEvent, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	sum, err := fingerprint(absPath)
	if err != nil {
		return nil, fmt.Errorf("initial scan: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(absPath), err)
	}

	w.mu.Lock()
	if w.stopped || w.watcher != nil {
		w.mu.Unlock()
		_ = fsw.Close()
		return nil, errors.New("watcher already in use")
	}
	w.watcher = fsw
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()
		w.loop(ctx, fsw, absPath, sum)
	}()

	return w.events, nil
}

// Stop stops the watcher and closes the event channel
func (w *FSWatcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	close(w.stopCh)
	fsw := w.watcher
	w.mu.Unlock()

	w.wg.Wait()
	close(w.events)

	if fsw != nil {
		return fsw.Close()
	}
	return nil
}

func (w *FSWatcher) loop(ctx context.Context, fsw *fsnotify.Watcher, path, last string) {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Warn("Watch error")

		case <-fire:
			fire = nil
			event, sum, changed := w.settle(path, last)
			if !changed {
				continue
			}
			last = sum

			select {
			case w.events <- event:
			case <-ctx.Done():
				return
			case <-w.stopCh:
				return
			}
		}
	}
}

// settle classifies a burst of raw events once the file is quiet, by
// comparing fingerprints. A file present before and after is modified,
// whatever the raw events were.
func (w *FSWatcher) settle(path, last string) (ports.FileChangeEvent, string, bool) {
	event := ports.FileChangeEvent{Path: path, Timestamp: time.Now()}

	sum, err := fingerprint(path)
	if err != nil {
		if os.IsNotExist(err) {
			event.Type = ports.Deleted
			return event, "", last != ""
		}
		w.logger.WithError(err).WithField("path", path).Warn("Unable to read watched file")
		return event, last, false
	}

	if sum == last {
		return event, last, false
	}
	event.Type = ports.Modified
	if last == "" {
		event.Type = ports.Created
	}
	return event, sum, true
}

// Ensure FSWatcher implements ports.FileWatcher
var _ ports.FileWatcher = (*FSWatcher)(nil)
