package extractor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/marpview/internal/adapters/secondary/renderer"
	"github.com/fredcamaral/marpview/internal/domain/entities"
)

func TestHTMLExtractor_Extract(t *testing.T) {
	e := NewHTMLExtractor()

	t.Run("sections in document order", func(t *testing.T) {
		markup := `<div class="marpit"><section id="1"><h1>A</h1><p>first</p></section>` +
			`<section id="2"><h2>B</h2></section><section id="3"><p>no heading</p></section></div>`

		slides, err := e.Extract(markup)
		require.NoError(t, err)
		require.Len(t, slides, 3)

		assert.Equal(t, 0, slides[0].Index)
		assert.Equal(t, "A", slides[0].Title)
		assert.Equal(t, "A first", slides[0].Text)
		assert.True(t, strings.HasPrefix(slides[0].HTML, `<section id="1">`))
		assert.Equal(t, "B", slides[1].Title)
		assert.Empty(t, slides[2].Title)
		assert.Equal(t, "no heading", slides[2].Text)
	})

	t.Run("nested sections belong to their parent", func(t *testing.T) {
		markup := `<section><h1>Outer</h1><section><p>inner</p></section></section><section><p>next</p></section>`

		slides, err := e.Extract(markup)
		require.NoError(t, err)
		require.Len(t, slides, 2)
		assert.Contains(t, slides[0].HTML, "inner")
		assert.Equal(t, "next", slides[1].Text)
	})

	t.Run("markup without sections is a single slide", func(t *testing.T) {
		slides, err := e.Extract("<h1>Only</h1><p>content</p>")
		require.NoError(t, err)
		require.Len(t, slides, 1)
		assert.Equal(t, "Only", slides[0].Title)
		assert.Equal(t, "<h1>Only</h1><p>content</p>", slides[0].HTML)
	})

	t.Run("blank markup is an empty deck", func(t *testing.T) {
		_, err := e.Extract("  \n ")
		require.Error(t, err)
		assert.True(t, errors.Is(err, entities.ErrEmptyDeck))
	})

	t.Run("style and script text is not slide text", func(t *testing.T) {
		slides, err := e.Extract(`<section><style>h1{}</style><p>shown</p><script>hidden()</script></section>`)
		require.NoError(t, err)
		require.Len(t, slides, 1)
		assert.Equal(t, "shown", slides[0].Text)
	})
}

func TestHTMLExtractor_RendererOutput(t *testing.T) {
	r := renderer.NewMarpRenderer(entities.RendererConfig{Emoji: true})
	result, err := r.Render(context.Background(), "# A\n\n---\n\n# B\n\n---\n\n# C")
	require.NoError(t, err)

	slides, err := NewHTMLExtractor().Extract(result.Markup)
	require.NoError(t, err)
	require.Len(t, slides, 3)

	for i, title := range []string{"A", "B", "C"} {
		assert.Equal(t, i, slides[i].Index)
		assert.Equal(t, title, slides[i].Title)
	}
}
