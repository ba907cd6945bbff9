package services

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"github.com/fredcamaral/marpview/internal/domain/entities"
	"github.com/fredcamaral/marpview/internal/domain/ports"
)

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(ctx context.Context, source string) (*ports.RenderResult, error) {
	args := m.Called(ctx, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.RenderResult), args.Error(1)
}

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(markup string) ([]entities.Slide, error) {
	args := m.Called(markup)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Slide), args.Error(1)
}

type MockPreferenceStore struct {
	mock.Mock
}

func (m *MockPreferenceStore) Theme() (entities.ThemePreference, bool) {
	args := m.Called()
	return args.Get(0).(entities.ThemePreference), args.Bool(1)
}

func (m *MockPreferenceStore) SetTheme(theme entities.ThemePreference) error {
	args := m.Called(theme)
	return args.Error(0)
}

// splitRenderer and splitExtractor turn "A|B|C" into a three slide deck
// without the markdown engine
type splitRenderer struct{}

func (splitRenderer) Render(ctx context.Context, source string) (*ports.RenderResult, error) {
	return &ports.RenderResult{Markup: source, Stylesheet: "css", Theme: "default"}, nil
}

type splitExtractor struct{}

func (splitExtractor) Extract(markup string) ([]entities.Slide, error) {
	var slides []entities.Slide
	for _, chunk := range splitChunks(markup) {
		slides = append(slides, entities.Slide{Title: chunk, HTML: "<section>" + chunk + "</section>", Text: chunk})
	}
	if len(slides) == 0 {
		return nil, &entities.EmptyDeckError{}
	}
	return slides, nil
}

func splitChunks(markup string) []string {
	var out []string
	for _, chunk := range strings.Split(markup, "|") {
		if chunk = strings.TrimSpace(chunk); chunk != "" {
			out = append(out, chunk)
		}
	}
	return out
}

// recordingSurface captures every view and effect it receives
type recordingSurface struct {
	mu      sync.Mutex
	views   []entities.View
	actions []entities.Action
}

func (s *recordingSurface) Show(view entities.View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views = append(s.views, view)
}

func (s *recordingSurface) Perform(action entities.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, action)
}

func (s *recordingSurface) Views() []entities.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.View{}, s.views...)
}

func (s *recordingSurface) Last() entities.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.views) == 0 {
		return entities.View{}
	}
	return s.views[len(s.views)-1]
}

func (s *recordingSurface) Actions() []entities.Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.Action{}, s.actions...)
}

// failingReader fails the test if the loader reads it
type failingReader struct {
	read bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	r.read = true
	return 0, io.ErrUnexpectedEOF
}

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestLoader(cfg entities.ViewerConfig) *DeckLoader {
	return NewDeckLoader(splitRenderer{}, splitExtractor{}, cfg, quietLogger())
}

// recordingObserver keeps every load and slide change it is told about
type recordingObserver struct {
	mu      sync.Mutex
	loads   []observedLoad
	changes []int
}

type observedLoad struct {
	slides int
	err    error
}

func (o *recordingObserver) DeckLoaded(_ time.Duration, slides int, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.loads = append(o.loads, observedLoad{slides: slides, err: err})
}

func (o *recordingObserver) SlideChanged(current int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.changes = append(o.changes, current)
}
