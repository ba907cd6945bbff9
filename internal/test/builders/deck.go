package builders

import (
	"strconv"
	"strings"

	"github.com/fredcamaral/marpview/internal/domain/entities"
)

// DeckBuilder helps build Deck entities for testing
type DeckBuilder struct {
	name       string
	title      string
	theme      string
	stylesheet string
	slides     []entities.Slide
}

// NewDeckBuilder creates a new deck builder with sensible defaults
func NewDeckBuilder() *DeckBuilder {
	return &DeckBuilder{
		name:  "deck.md",
		theme: "default",
	}
}

// WithName sets the source file name
func (b *DeckBuilder) WithName(name string) *DeckBuilder {
	b.name = name
	return b
}

// WithTitle sets the deck title
func (b *DeckBuilder) WithTitle(title string) *DeckBuilder {
	b.title = title
	return b
}

// WithTheme sets the deck theme
func (b *DeckBuilder) WithTheme(theme string) *DeckBuilder {
	b.theme = theme
	return b
}

// WithStylesheet sets the deck stylesheet
func (b *DeckBuilder) WithStylesheet(css string) *DeckBuilder {
	b.stylesheet = css
	return b
}

// WithSlide adds a slide with the given markup
func (b *DeckBuilder) WithSlide(html string) *DeckBuilder {
	b.slides = append(b.slides, entities.Slide{HTML: html})
	return b
}

// WithTitledSlide adds a slide with a single heading
func (b *DeckBuilder) WithTitledSlide(title string) *DeckBuilder {
	b.slides = append(b.slides, entities.Slide{
		Title: title,
		HTML:  "<section><h1>" + title + "</h1></section>",
		Text:  title,
	})
	return b
}

// WithSlideCount adds count titled slides named "Slide 1".."Slide N"
func (b *DeckBuilder) WithSlideCount(count int) *DeckBuilder {
	start := len(b.slides)
	for i := 0; i < count; i++ {
		b.WithTitledSlide("Slide " + strconv.Itoa(start+i+1))
	}
	return b
}

// Build creates the final Deck entity
func (b *DeckBuilder) Build() *entities.Deck {
	deck := entities.NewDeck(b.name, b.slides, b.stylesheet)
	deck.Theme = b.theme
	if b.title != "" {
		deck.Title = b.title
	}
	return deck
}

// MinimalDeck creates a one-slide deck
func MinimalDeck() *entities.Deck {
	return NewDeckBuilder().WithSlideCount(1).Build()
}

// ThreeSlideDeck creates the A, B, C deck
func ThreeSlideDeck() *entities.Deck {
	return NewDeckBuilder().
		WithTitledSlide("A").
		WithTitledSlide("B").
		WithTitledSlide("C").
		Build()
}

// MarkdownBuilder helps build deck sources for testing
type MarkdownBuilder struct {
	front  []string
	slides []string
}

// NewMarkdownBuilder creates an empty source builder
func NewMarkdownBuilder() *MarkdownBuilder {
	return &MarkdownBuilder{}
}

// WithFrontMatter adds a "key: value" front-matter line
func (b *MarkdownBuilder) WithFrontMatter(key, value string) *MarkdownBuilder {
	b.front = append(b.front, key+": "+value)
	return b
}

// WithSlide adds a slide body
func (b *MarkdownBuilder) WithSlide(body string) *MarkdownBuilder {
	b.slides = append(b.slides, body)
	return b
}

// WithSlideCount adds count slides headed "# Slide 1".."# Slide N"
func (b *MarkdownBuilder) WithSlideCount(count int) *MarkdownBuilder {
	start := len(b.slides)
	for i := 0; i < count; i++ {
		b.WithSlide("# Slide " + strconv.Itoa(start+i+1))
	}
	return b
}

// Build returns the deck source
func (b *MarkdownBuilder) Build() string {
	var sb strings.Builder
	if len(b.front) > 0 {
		sb.WriteString("---\n")
		sb.WriteString(strings.Join(b.front, "\n"))
		sb.WriteString("\n---\n\n")
	}
	sb.WriteString(strings.Join(b.slides, "\n\n---\n\n"))
	return sb.String()
}
