package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/marpview/internal/domain/entities"
	"github.com/fredcamaral/marpview/internal/domain/ports"
)

type stubLocalizer struct{}

func (stubLocalizer) Message(err error) string { return "localized: " + string(entities.KindOf(err)) }

func (stubLocalizer) Language() string { return "xx" }

func newTestSession(opts ...SessionOption) *Session {
	opts = append([]SessionOption{WithLogger(quietLogger())}, opts...)
	return NewSession(newTestLoader(entities.ViewerConfig{}), opts...)
}

func loadedSession(t *testing.T, source string, opts ...SessionOption) *Session {
	t.Helper()
	s := newTestSession(opts...)
	_, err := s.LoadSource(context.Background(), "deck.md", source)
	require.NoError(t, err)
	return s
}

func states(views []entities.View) []entities.ViewState {
	out := make([]entities.ViewState, len(views))
	for i, v := range views {
		out[i] = v.State
	}
	return out
}

func TestSession_Initial(t *testing.T) {
	s := newTestSession()

	view := s.View()
	assert.Equal(t, entities.ViewStateFileSelect, view.State)
	assert.Equal(t, "0/0", view.Indicator)
	assert.Equal(t, entities.ThemeLight, view.Theme)
	assert.Nil(t, s.Deck())
	assert.NoError(t, s.Err())
}

func TestSession_Load(t *testing.T) {
	s := newTestSession()
	surface := &recordingSurface{}
	s.Subscribe(surface)

	view, err := s.Load(context.Background(), "deck.md", strings.NewReader("A|B|C"))
	require.NoError(t, err)

	assert.Equal(t, entities.ViewStateSlideView, view.State)
	assert.Equal(t, "1/3", view.Indicator)
	assert.Equal(t, "A", view.SlideTitle)
	assert.Equal(t, []entities.ViewState{
		entities.ViewStateFileSelect,
		entities.ViewStateProcessing,
		entities.ViewStateSlideView,
	}, states(surface.Views()))
}

func TestSession_LoadErrors(t *testing.T) {
	t.Run("unsupported file is rejected unread", func(t *testing.T) {
		s := newTestSession()
		r := &failingReader{}

		view, err := s.HandleFile(context.Background(), "slides.pptx", r)

		assert.ErrorIs(t, err, entities.ErrUnsupportedFileType)
		assert.False(t, r.read)
		assert.Equal(t, entities.ViewStateError, view.State)
		assert.Equal(t, entities.ErrorKindUnsupportedFileType, view.ErrorKind)
		assert.NotEmpty(t, view.Error)
		assert.ErrorIs(t, s.Err(), entities.ErrUnsupportedFileType)
	})

	t.Run("empty deck", func(t *testing.T) {
		s := newTestSession()
		view, err := s.LoadSource(context.Background(), "deck.md", "  ")

		assert.ErrorIs(t, err, entities.ErrEmptyDeck)
		assert.Equal(t, entities.ViewStateError, view.State)
		assert.Equal(t, entities.ErrorKindEmptyDeck, view.ErrorKind)
	})

	t.Run("localized message", func(t *testing.T) {
		s := newTestSession(WithLocalizer(stubLocalizer{}))
		view, _ := s.LoadSource(context.Background(), "deck.md", "")

		assert.Equal(t, "localized: empty_deck", view.Error)
	})

	t.Run("error replaces a loaded deck", func(t *testing.T) {
		s := loadedSession(t, "A|B")
		_, err := s.Load(context.Background(), "notes.doc", &failingReader{})

		require.Error(t, err)
		assert.Nil(t, s.Deck())
		assert.Equal(t, entities.PositionNoDeck, s.Navigation().Position)
	})
}

func TestSession_RetryAndBack(t *testing.T) {
	s := newTestSession()
	_, _ = s.LoadSource(context.Background(), "deck.md", "")
	require.Equal(t, entities.ViewStateError, s.State())

	view := s.HandleKey("Escape")
	assert.Equal(t, entities.ViewStateError, view.State, "back is inactive in the error state")

	view, err := s.HandleCommand(entities.Command{Action: entities.ActionRetry})
	require.NoError(t, err)
	assert.Equal(t, entities.ViewStateFileSelect, view.State)
	assert.NoError(t, s.Err())

	view = s.Retry()
	assert.Equal(t, entities.ViewStateFileSelect, view.State)

	s = loadedSession(t, "A|B")
	view = s.HandleKey("Escape")
	assert.Equal(t, entities.ViewStateFileSelect, view.State)
}

func TestSession_Navigation(t *testing.T) {
	s := loadedSession(t, "A|B|C")
	surface := &recordingSurface{}
	s.Subscribe(surface)

	assert.Equal(t, "2/3", s.HandleKey("ArrowRight").Indicator)
	assert.Equal(t, "3/3", s.HandleKey(" ").Indicator)
	assert.Equal(t, "3/3", s.HandleKey("ArrowRight").Indicator)
	assert.Equal(t, "2/3", s.HandleSwipe(60, 5).Indicator)
	assert.Equal(t, "3/3", s.HandleSwipe(-60, 5).Indicator)
	assert.Equal(t, "3/3", s.HandleSwipe(30, 40).Indicator)
	assert.Equal(t, "1/3", s.HandleKey("Home").Indicator)
	assert.Equal(t, "3/3", s.HandleKey("End").Indicator)
	assert.Equal(t, "3/3", s.HandleKey("q").Indicator)

	// one view on subscribe plus one per effective move
	assert.Len(t, surface.Views(), 7)

	t.Run("goto", func(t *testing.T) {
		view, err := s.HandleCommand(entities.Command{Action: entities.ActionGoTo, Index: 1})
		require.NoError(t, err)
		assert.Equal(t, "2/3", view.Indicator)

		view, err = s.HandleCommand(entities.Command{Action: entities.ActionGoTo, Index: 9})
		assert.ErrorIs(t, err, entities.ErrOutOfRange)
		assert.Equal(t, "2/3", view.Indicator)
	})
}

func TestSession_NavigationInactiveOutsideSlideView(t *testing.T) {
	s := newTestSession()

	view := s.HandleKey("ArrowRight")
	assert.Equal(t, entities.ViewStateFileSelect, view.State)

	view, err := s.HandleCommand(entities.Command{Action: entities.ActionGoTo, Index: 0})
	assert.NoError(t, err)
	assert.Equal(t, entities.ViewStateFileSelect, view.State)
	assert.Equal(t, 0, s.Navigation().Index)
}

func TestSession_Effects(t *testing.T) {
	s := newTestSession()
	surface := &recordingSurface{}
	s.Subscribe(surface)
	plain := &recordingSurface{}
	s.Subscribe(ports.DisplaySurfaceFunc(plain.Show))

	s.HandleKey("f")
	s.HandleCommand(entities.Command{Action: entities.ActionPrint})
	assert.Equal(t, []entities.Action{entities.ActionToggleFullscreen}, surface.Actions(),
		"print needs a deck")

	_, err := s.LoadSource(context.Background(), "deck.md", "A|B")
	require.NoError(t, err)
	s.HandleCommand(entities.Command{Action: entities.ActionPrint})

	assert.Equal(t, []entities.Action{entities.ActionToggleFullscreen, entities.ActionPrint}, surface.Actions())
	assert.Empty(t, plain.Actions())
	assert.Equal(t, entities.ViewStateSlideView, plain.Last().State)
}

func TestSession_Unsubscribe(t *testing.T) {
	s := loadedSession(t, "A|B")
	surface := &recordingSurface{}
	id := s.Subscribe(surface)
	s.Unsubscribe(id)

	s.HandleKey("ArrowRight")
	assert.Len(t, surface.Views(), 1)
}

func TestSession_CancelPrevious(t *testing.T) {
	started := make(chan struct{})
	renderer := &MockRenderer{}
	renderer.On("Render", mock.Anything, "slow").Run(func(args mock.Arguments) {
		close(started)
		<-args.Get(0).(context.Context).Done()
	}).Return(nil, context.Canceled)
	renderer.On("Render", mock.Anything, "A|B").Return(&ports.RenderResult{Markup: "A|B"}, nil)

	loader := NewDeckLoader(renderer, splitExtractor{}, entities.ViewerConfig{}, quietLogger())
	s := NewSession(loader, WithLogger(quietLogger()))

	slowErr := make(chan error, 1)
	go func() {
		_, err := s.LoadSource(context.Background(), "slow.md", "slow")
		slowErr <- err
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("slow load never started")
	}

	view, err := s.LoadSource(context.Background(), "fast.md", "A|B")
	require.NoError(t, err)
	assert.Equal(t, "fast.md", view.DeckName)

	select {
	case err := <-slowErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("superseded load was not cancelled")
	}

	assert.Equal(t, entities.ViewStateSlideView, s.State())
	assert.Equal(t, "fast.md", s.Deck().Name)
	renderer.AssertExpectations(t)
}

func TestSession_Reload(t *testing.T) {
	t.Run("keeps the slide index", func(t *testing.T) {
		s := loadedSession(t, "A|B|C")
		s.HandleKey("End")

		view, err := s.Reload(context.Background(), "deck.md", "A|B|C2|D")
		require.NoError(t, err)
		assert.Equal(t, "3/4", view.Indicator)
		assert.Equal(t, "C2", view.SlideTitle)
	})

	t.Run("resets when the index is gone", func(t *testing.T) {
		s := loadedSession(t, "A|B|C")
		s.HandleKey("End")

		view, err := s.Reload(context.Background(), "deck.md", "X")
		require.NoError(t, err)
		assert.Equal(t, "1/1", view.Indicator)
	})

	t.Run("failure keeps the current deck", func(t *testing.T) {
		s := loadedSession(t, "A|B|C")
		s.HandleKey("ArrowRight")

		view, err := s.Reload(context.Background(), "deck.md", "")
		assert.ErrorIs(t, err, entities.ErrEmptyDeck)
		assert.Equal(t, entities.ViewStateSlideView, view.State)
		assert.Equal(t, "2/3", view.Indicator)
	})

	t.Run("stays in file select", func(t *testing.T) {
		s := loadedSession(t, "A|B")
		s.Back()

		view, err := s.Reload(context.Background(), "deck.md", "A|B|C")
		require.NoError(t, err)
		assert.Equal(t, entities.ViewStateFileSelect, view.State)
		assert.Equal(t, 3, s.Deck().Len())
	})

	t.Run("does not broadcast processing", func(t *testing.T) {
		s := loadedSession(t, "A|B")
		surface := &recordingSurface{}
		s.Subscribe(surface)

		_, err := s.Reload(context.Background(), "deck.md", "A|B|C")
		require.NoError(t, err)
		assert.Equal(t, []entities.ViewState{
			entities.ViewStateSlideView,
			entities.ViewStateSlideView,
		}, states(surface.Views()))
	})

	t.Run("skips a file the user replaced", func(t *testing.T) {
		s := loadedSession(t, "A|B")
		_, err := s.LoadSource(context.Background(), "other.md", "X|Y|Z")
		require.NoError(t, err)
		s.HandleKey("ArrowRight")

		view, err := s.Reload(context.Background(), "deck.md", "A|B|C")
		require.NoError(t, err)
		assert.Equal(t, "other.md", view.DeckName)
		assert.Equal(t, "2/3", view.Indicator)
		assert.Equal(t, "other.md", s.Deck().Name)
	})

	t.Run("skips after a rejected file", func(t *testing.T) {
		s := loadedSession(t, "A|B")
		_, err := s.LoadSource(context.Background(), "deck.pptx", "A")
		require.Error(t, err)

		view, err := s.Reload(context.Background(), "deck.md", "A|B|C")
		require.NoError(t, err)
		assert.Equal(t, entities.ViewStateError, view.State)
		assert.Equal(t, entities.ErrorKindUnsupportedFileType, view.ErrorKind)
	})

	t.Run("recovers from the error screen", func(t *testing.T) {
		s := newTestSession()
		_, err := s.LoadSource(context.Background(), "deck.md", "")
		require.Error(t, err)

		view, err := s.Reload(context.Background(), "deck.md", "A|B")
		require.NoError(t, err)
		assert.Equal(t, entities.ViewStateSlideView, view.State)
		assert.Equal(t, "1/2", view.Indicator)
	})

	t.Run("failure on the error screen stays there", func(t *testing.T) {
		s := newTestSession()
		_, err := s.LoadSource(context.Background(), "deck.md", "")
		require.Error(t, err)

		view, err := s.Reload(context.Background(), "deck.md", " ")
		assert.ErrorIs(t, err, entities.ErrEmptyDeck)
		assert.Equal(t, entities.ViewStateError, view.State)
	})
}

func TestSession_ReloadDuringUserLoad(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	renderer := &MockRenderer{}
	renderer.On("Render", mock.Anything, "A|B").Return(&ports.RenderResult{Markup: "A|B"}, nil)
	renderer.On("Render", mock.Anything, "slow").Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Return(&ports.RenderResult{Markup: "X|Y|Z"}, nil)

	loader := NewDeckLoader(renderer, splitExtractor{}, entities.ViewerConfig{}, quietLogger())
	s := NewSession(loader, WithLogger(quietLogger()))
	_, err := s.LoadSource(context.Background(), "deck.md", "A|B")
	require.NoError(t, err)

	type result struct {
		view entities.View
		err  error
	}
	userLoad := make(chan result, 1)
	go func() {
		view, err := s.LoadSource(context.Background(), "new.md", "slow")
		userLoad <- result{view, err}
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("user load never started")
	}

	view, err := s.Reload(context.Background(), "deck.md", "broken")
	require.NoError(t, err)
	assert.Equal(t, entities.ViewStateProcessing, view.State)

	close(release)
	select {
	case res := <-userLoad:
		require.NoError(t, res.err)
		assert.Equal(t, "new.md", res.view.DeckName)
		assert.Equal(t, entities.ViewStateSlideView, res.view.State)
	case <-time.After(2 * time.Second):
		t.Fatal("user load did not finish")
	}

	assert.Equal(t, entities.ViewStateSlideView, s.State())
	assert.Equal(t, "new.md", s.Deck().Name)
	renderer.AssertNotCalled(t, "Render", mock.Anything, "broken")
}

func TestSession_Theme(t *testing.T) {
	t.Run("stored preference wins", func(t *testing.T) {
		store := &MockPreferenceStore{}
		store.On("Theme").Return(entities.ThemeDark, true)

		s := newTestSession(WithDefaultTheme(entities.ThemeLight), WithPreferences(store))
		assert.Equal(t, entities.ThemeDark, s.Theme())
		assert.Equal(t, entities.ThemeDark, s.View().Theme)
	})

	t.Run("default when nothing is stored", func(t *testing.T) {
		store := &MockPreferenceStore{}
		store.On("Theme").Return(entities.ThemePreference(""), false)

		s := newTestSession(WithDefaultTheme(entities.ThemeDark), WithPreferences(store))
		assert.Equal(t, entities.ThemeDark, s.Theme())
	})

	t.Run("toggle persists", func(t *testing.T) {
		store := &MockPreferenceStore{}
		store.On("Theme").Return(entities.ThemePreference(""), false)
		store.On("SetTheme", entities.ThemeDark).Return(nil).Once()
		store.On("SetTheme", entities.ThemeLight).Return(nil).Once()

		s := newTestSession(WithPreferences(store))
		surface := &recordingSurface{}
		s.Subscribe(surface)

		assert.Equal(t, entities.ThemeDark, s.HandleKey("t").Theme)
		view, err := s.HandleCommand(entities.Command{Action: entities.ActionToggleTheme})
		require.NoError(t, err)
		assert.Equal(t, entities.ThemeLight, view.Theme)
		assert.Len(t, surface.Views(), 3)
		store.AssertExpectations(t)
	})

	t.Run("invalid theme", func(t *testing.T) {
		s := newTestSession()
		_, err := s.SetTheme("sepia")
		assert.Error(t, err)
		assert.Equal(t, entities.ThemeLight, s.Theme())
	})
}

func TestSession_Observer(t *testing.T) {
	obs := &recordingObserver{}
	s := newTestSession(WithObserver(obs))

	_, err := s.LoadSource(context.Background(), "deck.md", "A|B|C")
	require.NoError(t, err)
	second := s.HandleKey("ArrowRight")
	s.HandleKey("ArrowLeft")
	s.HandleKey("ArrowLeft")
	_, err = s.LoadSource(context.Background(), "deck.pptx", "A")
	require.Error(t, err)

	require.Len(t, obs.loads, 2)
	assert.Equal(t, 3, obs.loads[0].slides)
	assert.NoError(t, obs.loads[0].err)
	assert.ErrorIs(t, obs.loads[1].err, entities.ErrUnsupportedFileType)
	assert.Len(t, obs.changes, 2, "a move past the first slide is not reported")
	assert.Equal(t, second.Current, obs.changes[0])
}
