package ports

import (
	"context"

	"github.com/fredcamaral/marpview/internal/domain/entities"
)

// RenderResult is the output of the markdown rendering engine
type RenderResult struct {
	// Markup contains one slide container element per slide
	Markup string

	// Stylesheet is the theme CSS plus any custom style blocks from the source
	Stylesheet string

	// Theme is the theme name selected by the source
	Theme string

	// Title is the front-matter title, if any
	Title string
}

// Renderer turns deck source text into slide markup and a stylesheet
type Renderer interface {
	Render(ctx context.Context, source string) (*RenderResult, error)
}

// SlideExtractor splits rendered markup into ordered slides
type SlideExtractor interface {
	Extract(markup string) ([]entities.Slide, error)
}
