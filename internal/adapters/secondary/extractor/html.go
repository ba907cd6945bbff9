package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/fredcamaral/marpview/internal/domain/entities"
	"github.com/fredcamaral/marpview/internal/domain/ports"
)

// HTMLExtractor splits rendered deck markup into slides, one per top-level <section>
type HTMLExtractor struct{}

// NewHTMLExtractor creates a new extractor
func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{}
}

// Extract returns the slides found in markup in document order.
// Markup without any section becomes a single slide; blank markup is an empty deck.
func (e *HTMLExtractor) Extract(markup string) ([]entities.Slide, error) {
	if strings.TrimSpace(markup) == "" {
		return nil, &entities.EmptyDeckError{}
	}

	nodes, err := html.ParseFragment(strings.NewReader(markup), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return nil, &entities.RenderError{Err: fmt.Errorf("parsing slide markup: %w", err)}
	}

	var sections []*html.Node
	for _, n := range nodes {
		sections = append(sections, findSections(n)...)
	}

	if len(sections) == 0 {
		return []entities.Slide{fallbackSlide(markup, nodes)}, nil
	}

	slides := make([]entities.Slide, 0, len(sections))
	for i, section := range sections {
		var buf bytes.Buffer
		if err := html.Render(&buf, section); err != nil {
			return nil, &entities.RenderError{Err: fmt.Errorf("serializing slide %d: %w", i+1, err)}
		}
		slides = append(slides, entities.Slide{
			Index: i,
			Title: headingText(section),
			HTML:  buf.String(),
			Text:  plainText(section),
		})
	}
	return slides, nil
}

func fallbackSlide(markup string, nodes []*html.Node) entities.Slide {
	slide := entities.Slide{HTML: markup}
	var text []string
	for _, n := range nodes {
		if slide.Title == "" {
			slide.Title = headingText(n)
		}
		if t := plainText(n); t != "" {
			text = append(text, t)
		}
	}
	slide.Text = strings.Join(text, " ")
	return slide
}

// findSections collects section elements without descending into them
func findSections(n *html.Node) []*html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Section {
		return []*html.Node{n}
	}
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, findSections(c)...)
	}
	return out
}

func isHeading(a atom.Atom) bool {
	switch a {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}

// headingText returns the text of the first heading under n
func headingText(n *html.Node) string {
	if n.Type == html.ElementNode && isHeading(n.DataAtom) {
		return plainText(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := headingText(c); t != "" {
			return t
		}
	}
	return ""
}

// plainText concatenates visible text, collapsing whitespace
func plainText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			b.WriteByte(' ')
		case html.CommentNode:
			return
		case html.ElementNode:
			if n.DataAtom == atom.Style || n.DataAtom == atom.Script {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// Ensure HTMLExtractor implements ports.SlideExtractor
var _ ports.SlideExtractor = (*HTMLExtractor)(nil)
