package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fredcamaral/marpview/internal/domain/entities"
	"github.com/fredcamaral/marpview/internal/domain/ports"
)

// DeckLoader turns a selected file into a deck: extension check, read, render, extract
type DeckLoader struct {
	renderer   ports.Renderer
	extractor  ports.SlideExtractor
	extensions []string
	maxSize    int64
	logger     logrus.FieldLogger
}

// NewDeckLoader creates a loader accepting the given extensions
func NewDeckLoader(renderer ports.Renderer, extractor ports.SlideExtractor, cfg entities.ViewerConfig, logger logrus.FieldLogger) *DeckLoader {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &DeckLoader{
		renderer:   renderer,
		extractor:  extractor,
		extensions: cfg.Extensions(),
		maxSize:    cfg.GetMaxFileSize(),
		logger:     logger.WithField("component", "loader"),
	}
}

// Extensions returns the allowed file extensions
func (l *DeckLoader) Extensions() []string {
	return append([]string{}, l.extensions...)
}

// CheckName validates the file extension against the allow-list
func (l *DeckLoader) CheckName(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range l.extensions {
		if ext == allowed {
			return nil
		}
	}
	return &entities.UnsupportedFileTypeError{Name: name, Ext: ext, Allowed: l.Extensions()}
}

// Load builds a deck from r. The extension is checked before r is read.
func (l *DeckLoader) Load(ctx context.Context, name string, r io.Reader) (*entities.Deck, error) {
	if err := l.CheckName(name); err != nil {
		return nil, err
	}

	source, err := l.read(name, r)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return l.LoadSource(ctx, name, source)
}

// LoadSource renders and extracts already-read source text
func (l *DeckLoader) LoadSource(ctx context.Context, name, source string) (*entities.Deck, error) {
	result, err := l.renderer.Render(ctx, source)
	if err != nil {
		var renderErr *entities.RenderError
		if errors.As(err, &renderErr) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, &entities.RenderError{Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slides, err := l.extractor.Extract(result.Markup)
	if err != nil {
		return nil, err
	}

	deck := entities.NewDeck(name, slides, result.Stylesheet)
	deck.Theme = result.Theme
	if result.Title != "" {
		deck.Title = result.Title
	}
	if err := deck.Validate(); err != nil {
		return nil, err
	}

	l.logger.WithFields(logrus.Fields{
		"deck":   name,
		"slides": deck.Len(),
		"theme":  deck.Theme,
	}).Debug("Deck loaded")

	return deck, nil
}

func (l *DeckLoader) read(name string, r io.Reader) (string, error) {
	if r == nil {
		return "", &entities.FileReadError{Name: name, Err: errors.New("no content reader")}
	}

	data, err := io.ReadAll(io.LimitReader(r, l.maxSize+1))
	if err != nil {
		return "", &entities.FileReadError{Name: name, Err: err}
	}
	if int64(len(data)) > l.maxSize {
		return "", &entities.FileReadError{Name: name, Err: fmt.Errorf("file exceeds %d bytes", l.maxSize)}
	}

	return string(data), nil
}
