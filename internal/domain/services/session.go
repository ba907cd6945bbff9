package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fredcamaral/marpview/internal/domain/entities"
	"github.com/fredcamaral/marpview/internal/domain/ports"
)

// Session is the application state machine: file-select, processing,
// slide-view and error. It owns the navigation controller and serializes all
// access to it; every state change is pushed to the subscribed surfaces.
//
// Overlapping loads cancel each other: a new load cancels the context of the
// one in flight and a result from a superseded load is discarded. Reloads
// never cancel a user load.
type Session struct {
	mu         sync.Mutex
	loader     *DeckLoader
	controller *NavigationController
	binder     *PresentationBinder
	bindings   *InputBindings
	localizer  ports.Localizer
	prefs      ports.PreferenceStore
	observer   ports.SessionObserver
	logger     logrus.FieldLogger

	state      entities.ViewState
	lastErr    error
	theme      entities.ThemePreference
	generation string
	cancelLoad context.CancelFunc
	source     string

	surfaces map[string]ports.DisplaySurface
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithLocalizer sets the localizer used for error messages
func WithLocalizer(l ports.Localizer) SessionOption {
	return func(s *Session) { s.localizer = l }
}

// WithPreferences sets the store for the theme preference
func WithPreferences(p ports.PreferenceStore) SessionOption {
	return func(s *Session) { s.prefs = p }
}

// WithObserver reports loads and slide moves to o
func WithObserver(o ports.SessionObserver) SessionOption {
	return func(s *Session) { s.observer = o }
}

// WithLogger sets the session logger
func WithLogger(l logrus.FieldLogger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// WithDefaultTheme sets the theme used when no preference is stored
func WithDefaultTheme(t entities.ThemePreference) SessionOption {
	return func(s *Session) {
		if t.Valid() {
			s.theme = t
		}
	}
}

// WithBindings replaces the default key bindings
func WithBindings(b *InputBindings) SessionOption {
	return func(s *Session) { s.bindings = b }
}

// NewSession creates a session in the file-select state
func NewSession(loader *DeckLoader, opts ...SessionOption) *Session {
	s := &Session{
		loader:     loader,
		controller: NewNavigationController(),
		binder:     NewPresentationBinder(),
		bindings:   NewInputBindings(),
		logger:     logrus.StandardLogger(),
		state:      entities.ViewStateFileSelect,
		theme:      entities.ThemeLight,
		surfaces:   make(map[string]ports.DisplaySurface),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithField("component", "session")

	if s.prefs != nil {
		if t, ok := s.prefs.Theme(); ok {
			s.theme = t
		}
	}

	return s
}

// Subscribe registers a surface and immediately shows it the current view.
// It returns an id for Unsubscribe.
func (s *Session) Subscribe(surface ports.DisplaySurface) string {
	id := uuid.New().String()

	s.mu.Lock()
	s.surfaces[id] = surface
	view := s.viewLocked()
	s.mu.Unlock()

	surface.Show(view)
	return id
}

// Unsubscribe removes a surface
func (s *Session) Unsubscribe(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.surfaces, id)
}

// View returns the current projection
func (s *Session) View() entities.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// State returns the current view state
func (s *Session) State() entities.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Navigation returns a snapshot of the navigation controller
func (s *Session) Navigation() entities.NavigationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controller.Snapshot()
}

// Deck returns the loaded deck, or nil
func (s *Session) Deck() *entities.Deck {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controller.Deck()
}

// Err returns the error behind the error state
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Load reads, renders and shows a deck. Unsupported names are rejected before r is read.
func (s *Session) Load(ctx context.Context, name string, r io.Reader) (entities.View, error) {
	if err := s.loader.CheckName(name); err != nil {
		return s.fail(err), err
	}

	start := time.Now()
	gen, loadCtx, _ := s.begin(ctx, name, false)
	deck, err := s.loader.Load(loadCtx, name, r)
	return s.finish(gen, start, deck, err, false)
}

// LoadSource shows a deck from already-read source text
func (s *Session) LoadSource(ctx context.Context, name, source string) (entities.View, error) {
	if err := s.loader.CheckName(name); err != nil {
		return s.fail(err), err
	}

	start := time.Now()
	gen, loadCtx, _ := s.begin(ctx, name, false)
	deck, err := s.loader.LoadSource(loadCtx, name, source)
	return s.finish(gen, start, deck, err, false)
}

// Reload replaces the deck after its source changed, keeping the slide
// position when it still exists. A failed reload keeps the current deck and
// a reload while the file picker is shown does not leave it.
//
// Only the file the session last loaded is reloaded. A change to it while
// another load is processing, or after the user chose another file, is
// skipped and leaves the view untouched.
func (s *Session) Reload(ctx context.Context, name, source string) (entities.View, error) {
	start := time.Now()
	gen, loadCtx, ok := s.begin(ctx, name, true)
	if !ok {
		s.logger.WithField("deck", name).Debug("Skipped reload of a deck that is not shown")
		return s.View(), nil
	}
	deck, err := s.loader.LoadSource(loadCtx, name, source)
	return s.finish(gen, start, deck, err, true)
}

// begin starts a load generation. A reload only starts when name is the
// current source and no user load is processing.
func (s *Session) begin(ctx context.Context, name string, reload bool) (string, context.Context, bool) {
	s.mu.Lock()
	if reload && (s.state == entities.ViewStateProcessing || s.source != name) {
		s.mu.Unlock()
		return "", ctx, false
	}

	loadCtx, cancel := context.WithCancel(ctx)
	gen := uuid.New().String()
	if s.cancelLoad != nil {
		s.cancelLoad()
		s.logger.WithField("generation", s.generation).Debug("Cancelled superseded load")
	}
	s.generation = gen
	s.cancelLoad = cancel
	if !reload {
		s.source = name
		s.state = entities.ViewStateProcessing
		s.lastErr = nil
	}
	view, surfaces := s.viewLocked(), s.surfaceList()
	s.mu.Unlock()

	if !reload {
		s.logger.WithFields(logrus.Fields{"deck": name, "generation": gen}).Info("Loading deck")
		broadcast(surfaces, view)
	}
	return gen, loadCtx, true
}

func (s *Session) finish(gen string, start time.Time, deck *entities.Deck, err error, reload bool) (entities.View, error) {
	s.mu.Lock()
	if gen != s.generation {
		view := s.viewLocked()
		s.mu.Unlock()
		s.logger.WithField("generation", gen).Debug("Discarded superseded load result")
		if err == nil {
			err = context.Canceled
		}
		return view, err
	}
	if s.cancelLoad != nil {
		s.cancelLoad()
		s.cancelLoad = nil
	}

	switch {
	case err != nil && reload && s.state == entities.ViewStateError:
		s.lastErr = err
		s.logger.WithError(err).WithField("kind", entities.KindOf(err)).Warn("Deck reload failed")
	case err != nil && reload:
		s.logger.WithError(err).Warn("Reload failed, keeping current deck")
	case err != nil:
		s.state = entities.ViewStateError
		s.lastErr = err
		s.controller.Reset(nil)
		s.logger.WithError(err).WithField("kind", entities.KindOf(err)).Warn("Deck load failed")
	default:
		prev := s.controller.Index()
		s.controller.Reset(deck)
		if reload {
			s.controller.GoTo(prev)
		}
		if !reload || s.state != entities.ViewStateFileSelect {
			s.state = entities.ViewStateSlideView
		}
		s.lastErr = nil
	}
	view, surfaces := s.viewLocked(), s.surfaceList()
	s.mu.Unlock()

	if s.observer != nil {
		s.observer.DeckLoaded(time.Since(start), deck.Len(), err)
	}
	broadcast(surfaces, view)
	return view, err
}

func (s *Session) fail(err error) entities.View {
	s.mu.Lock()
	if s.cancelLoad != nil {
		s.cancelLoad()
		s.cancelLoad = nil
	}
	s.generation = uuid.New().String()
	s.source = ""
	s.state = entities.ViewStateError
	s.lastErr = err
	s.controller.Reset(nil)
	view, surfaces := s.viewLocked(), s.surfaceList()
	s.mu.Unlock()

	s.logger.WithError(err).Warn("Rejected file")
	if s.observer != nil {
		s.observer.DeckLoaded(0, 0, err)
	}
	broadcast(surfaces, view)
	return view
}

// Back returns to the file-select state
func (s *Session) Back() entities.View {
	return s.transition(func() bool {
		s.state = entities.ViewStateFileSelect
		s.lastErr = nil
		return true
	})
}

// Retry leaves the error state for file-select
func (s *Session) Retry() entities.View {
	return s.transition(func() bool {
		if s.state != entities.ViewStateError {
			return false
		}
		s.state = entities.ViewStateFileSelect
		s.lastErr = nil
		return true
	})
}

// Theme returns the display theme preference
func (s *Session) Theme() entities.ThemePreference {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// SetTheme changes and persists the display theme preference
func (s *Session) SetTheme(theme entities.ThemePreference) (entities.View, error) {
	if !theme.Valid() {
		return s.View(), errors.New("theme must be light or dark")
	}

	if s.prefs != nil {
		if err := s.prefs.SetTheme(theme); err != nil {
			s.logger.WithError(err).Warn("Failed to persist theme preference")
		}
	}

	return s.transition(func() bool {
		changed := s.theme != theme
		s.theme = theme
		return changed
	}), nil
}

// HandleKey applies the action bound to key
func (s *Session) HandleKey(key string) entities.View {
	action := s.bindings.Key(key)
	if action == entities.ActionNone {
		return s.View()
	}
	view, _ := s.HandleCommand(entities.Command{Action: action})
	return view
}

// HandleSwipe applies a horizontal swipe gesture
func (s *Session) HandleSwipe(dx, dy float64) entities.View {
	action := ClassifySwipe(dx, dy)
	if action == entities.ActionNone {
		return s.View()
	}
	view, _ := s.HandleCommand(entities.Command{Action: action})
	return view
}

// HandleCommand applies a command from a key, gesture or button.
// Navigation is only active in the slide view.
func (s *Session) HandleCommand(cmd entities.Command) (entities.View, error) {
	state := s.State()
	if !ActiveInState(cmd.Action, state) {
		return s.View(), nil
	}

	switch cmd.Action {
	case entities.ActionNext:
		return s.navigate(s.controller.Next), nil
	case entities.ActionPrevious:
		return s.navigate(s.controller.Previous), nil
	case entities.ActionFirst:
		return s.navigate(s.controller.First), nil
	case entities.ActionLast:
		return s.navigate(s.controller.Last), nil
	case entities.ActionGoTo:
		s.mu.Lock()
		err := s.controller.ValidateIndex(cmd.Index)
		s.mu.Unlock()
		if err != nil {
			return s.View(), err
		}
		return s.navigate(func() bool { return s.controller.GoTo(cmd.Index) }), nil
	case entities.ActionBack:
		return s.Back(), nil
	case entities.ActionRetry:
		return s.Retry(), nil
	case entities.ActionToggleTheme:
		return s.SetTheme(s.Theme().Toggle())
	case entities.ActionToggleFullscreen, entities.ActionPrint:
		s.perform(cmd.Action)
		return s.View(), nil
	default:
		return s.View(), nil
	}
}

// HandleFile loads a selected or dropped file
func (s *Session) HandleFile(ctx context.Context, name string, r io.Reader) (entities.View, error) {
	return s.Load(ctx, name, r)
}

func (s *Session) navigate(move func() bool) entities.View {
	moved := false
	view := s.transition(func() bool {
		moved = move()
		return moved
	})
	if moved && s.observer != nil {
		s.observer.SlideChanged(view.Current)
	}
	return view
}

// transition runs change under the lock and notifies surfaces when it reports a change
func (s *Session) transition(change func() bool) entities.View {
	s.mu.Lock()
	changed := change()
	view, surfaces := s.viewLocked(), s.surfaceList()
	s.mu.Unlock()

	if changed {
		broadcast(surfaces, view)
	}
	return view
}

func (s *Session) perform(action entities.Action) {
	s.mu.Lock()
	surfaces := s.surfaceList()
	s.mu.Unlock()

	for _, surface := range surfaces {
		if effect, ok := surface.(ports.EffectSurface); ok {
			effect.Perform(action)
		}
	}
}

func (s *Session) viewLocked() entities.View {
	var view entities.View
	switch s.state {
	case entities.ViewStateSlideView:
		view = s.binder.Render(s.controller.Deck(), s.controller.Index())
	case entities.ViewStateError:
		view = entities.View{
			State:     entities.ViewStateError,
			Indicator: "0/0",
			Error:     s.message(s.lastErr),
			ErrorKind: entities.KindOf(s.lastErr),
		}
	default:
		view = entities.View{State: s.state, Indicator: "0/0"}
	}
	view.Theme = s.theme
	return view
}

func (s *Session) message(err error) string {
	if err == nil {
		return ""
	}
	if s.localizer != nil {
		return s.localizer.Message(err)
	}
	return strings.TrimSpace(err.Error())
}

func (s *Session) surfaceList() []ports.DisplaySurface {
	list := make([]ports.DisplaySurface, 0, len(s.surfaces))
	for _, surface := range s.surfaces {
		list = append(list, surface)
	}
	return list
}

func broadcast(surfaces []ports.DisplaySurface, view entities.View) {
	for _, surface := range surfaces {
		surface.Show(view)
	}
}

// Ensure Session implements ports.InputHandler
var _ ports.InputHandler = (*Session)(nil)
