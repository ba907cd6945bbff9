package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/fredcamaral/marpview/internal/domain/entities"
	"github.com/fredcamaral/marpview/internal/domain/ports"
)

// DeckReloader replaces the shown deck from new source text
type DeckReloader interface {
	Reload(ctx context.Context, name, source string) (entities.View, error)
}

// LiveReloadService reloads the deck whenever its source file changes
type LiveReloadService struct {
	watcher     ports.FileWatcher
	reloader    DeckReloader
	readFile    func(string) ([]byte, error)
	logger      logrus.FieldLogger
	mu          sync.Mutex
	watching    bool
	watchCancel context.CancelFunc
	deckPath    string
	done        chan struct{}
}

// NewLiveReloadService creates a new live reload service
func NewLiveReloadService(watcher ports.FileWatcher, reloader DeckReloader, logger logrus.FieldLogger) *LiveReloadService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &LiveReloadService{
		watcher:  watcher,
		reloader: reloader,
		readFile: os.ReadFile,
		logger:   logger.WithField("component", "live_reload"),
	}
}

// Start starts watching the deck file
func (s *LiveReloadService) Start(ctx context.Context, deckPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.watching {
		return errors.New("already watching")
	}

	watchCtx, cancel := context.WithCancel(ctx)
	events, err := s.watcher.Watch(watchCtx, deckPath)
	if err != nil {
		cancel()
		return fmt.Errorf("starting watcher: %w", err)
	}

	s.watching = true
	s.watchCancel = cancel
	s.deckPath = deckPath
	s.done = make(chan struct{})

	go s.handleEvents(watchCtx, events, s.done)

	return nil
}

// Stop stops the live reload service and waits for the event loop to exit
func (s *LiveReloadService) Stop() error {
	s.mu.Lock()
	if !s.watching {
		s.mu.Unlock()
		return nil
	}
	s.watchCancel()
	s.watchCancel = nil
	s.watching = false
	done := s.done
	s.mu.Unlock()

	<-done
	return s.watcher.Stop()
}

// IsWatching returns whether the service is currently watching
func (s *LiveReloadService) IsWatching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watching
}

func (s *LiveReloadService) handleEvents(ctx context.Context, events <-chan ports.FileChangeEvent, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				return
			}

			log := s.logger.WithFields(logrus.Fields{
				"path": event.Path,
				"type": event.Type,
			})

			if event.Type == ports.Deleted {
				log.Warn("Deck file removed, keeping current deck")
				continue
			}

			log.Info("Deck file changed")
			if err := s.reload(ctx); err != nil {
				log.WithError(err).Error("Failed to reload deck")
			}
		}
	}
}

func (s *LiveReloadService) reload(ctx context.Context) error {
	s.mu.Lock()
	path := s.deckPath
	s.mu.Unlock()

	data, err := s.readFile(path)
	if err != nil {
		return &entities.FileReadError{Name: filepath.Base(path), Err: err}
	}

	_, err = s.reloader.Reload(ctx, filepath.Base(path), string(data))
	return err
}
