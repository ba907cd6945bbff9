package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fredcamaral/marpview/internal/domain/ports"
)

// PollingWatcher watches a file by periodically comparing content
// fingerprints. It serves filesystems without change notifications.
type PollingWatcher struct {
	interval time.Duration
	debounce time.Duration
	logger   logrus.FieldLogger

	mu      sync.Mutex
	events  chan ports.FileChangeEvent
	stopCh  chan struct{}
	stopped bool
	wg      sync.WaitGroup
}

// NewPollingWatcher creates a new polling-based file watcher
func NewPollingWatcher(interval, debounce time.Duration, logger logrus.FieldLogger) *PollingWatcher {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &PollingWatcher{
		interval: interval,
		debounce: debounce,
		logger:   logger.WithField("component", "watcher"),
		events:   make(chan ports.FileChangeEvent, 10),
		stopCh:   make(chan struct{}),
	}
}

// Watch starts polling path for changes
func (w *PollingWatcher) Watch(ctx context.Context, path string) (<-chan ports.FileChangeEvent, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	sum, err := fingerprint(absPath)
	if err != nil {
		return nil, fmt.Errorf("initial scan: %w", err)
	}

	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil, fmt.Errorf("watcher stopped")
	}
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()
		w.pollLoop(ctx, absPath, sum)
	}()

	return w.events, nil
}

// Stop stops the watcher and closes the event channel
func (w *PollingWatcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	close(w.stopCh)
	w.mu.Unlock()

	w.wg.Wait()
	close(w.events)
	return nil
}

func (w *PollingWatcher) pollLoop(ctx context.Context, path, last string) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var lastEvent time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			if time.Since(lastEvent) < w.debounce {
				continue
			}

			event, sum, changed := w.check(path, last)
			if !changed {
				continue
			}
			last = sum

			select {
			case w.events <- event:
				lastEvent = time.Now()
			case <-ctx.Done():
				return
			case <-w.stopCh:
				return
			}
		}
	}
}

func (w *PollingWatcher) check(path, last string) (ports.FileChangeEvent, string, bool) {
	event := ports.FileChangeEvent{Path: path, Type: ports.Modified, Timestamp: time.Now()}

	sum, err := fingerprint(path)
	switch {
	case os.IsNotExist(err):
		event.Type = ports.Deleted
		return event, "", last != ""
	case err != nil:
		w.logger.WithError(err).WithField("path", path).Warn("Unable to read watched file")
		return event, last, false
	case sum == last:
		return event, last, false
	case last == "":
		event.Type = ports.Created
	}
	return event, sum, true
}

// fingerprint returns the SHA-256 of the file content
func fingerprint(path string) (string, error) {
	file, err := os.Open(path) // #nosec G304 - watched deck path
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

// Ensure PollingWatcher implements ports.FileWatcher
var _ ports.FileWatcher = (*PollingWatcher)(nil)
