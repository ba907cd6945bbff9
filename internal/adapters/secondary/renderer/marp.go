package renderer

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmrenderer "github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/fredcamaral/marpview/internal/domain/entities"
	"github.com/fredcamaral/marpview/internal/domain/ports"
)

// MarpRenderer renders Marp-flavoured markdown decks with Goldmark.
// Every slide becomes a <section> element; the stylesheet is the selected
// theme followed by the deck's own style blocks.
type MarpRenderer struct {
	md           goldmark.Markdown
	themes       *ThemeSet
	defaultTheme string
	strictThemes bool
	sanitizer    *bluemonday.Policy
}

// NewMarpRenderer creates a renderer from configuration
func NewMarpRenderer(cfg entities.RendererConfig) *MarpRenderer {
	extensions := []goldmark.Extender{
		extension.GFM, // tables, strikethrough, task lists, linkify
		extension.Typographer,
	}
	if cfg.Emoji {
		extensions = append(extensions, emoji.Emoji)
	}

	rendererOptions := []gmrenderer.Option{gmhtml.WithUnsafe()}
	if cfg.Breaks {
		rendererOptions = append(rendererOptions, gmhtml.WithHardWraps())
	}

	md := goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(rendererOptions...),
	)

	r := &MarpRenderer{
		md:           md,
		themes:       NewThemeSet(),
		defaultTheme: cfg.GetTheme(),
		strictThemes: cfg.StrictThemes,
	}
	if cfg.Sanitize {
		r.sanitizer = newSlidePolicy()
	}
	return r
}

// Themes returns the built-in theme set
func (r *MarpRenderer) Themes() *ThemeSet {
	return r.themes
}

// Render converts deck source into slide markup and a stylesheet.
// Blank source renders to empty markup; it is not an error here.
func (r *MarpRenderer) Render(ctx context.Context, source string) (*ports.RenderResult, error) {
	text := strings.ReplaceAll(source, "\r\n", "\n")

	front, body, err := extractFrontmatter(text)
	if err != nil {
		return nil, &entities.RenderError{Err: err}
	}

	body, customCSS := extractStyles(body)
	globals := front.globals()
	globals.merge(scanGlobalDirectives(body))

	themeName := r.defaultTheme
	if globals.Theme != "" {
		themeName = globals.Theme
	}
	theme, ok := r.themes.Get(themeName)
	if !ok {
		if r.strictThemes {
			return nil, &entities.RenderError{Err: fmt.Errorf("unknown theme %q", themeName)}
		}
		theme, _ = r.themes.Get("default")
	}

	stylesheet := r.stylesheet(theme, front.Style, customCSS)
	result := &ports.RenderResult{
		Stylesheet: stylesheet,
		Theme:      theme.Name,
		Title:      front.Title,
	}

	if strings.TrimSpace(body) == "" {
		return result, nil
	}

	chunks := splitSlides(body)
	if len(chunks) == 0 {
		return result, nil
	}

	var markup strings.Builder
	markup.WriteString(`<div class="marpit">`)

	local := slideDirectives{Class: front.Class, Paginate: globals.Paginate}
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		directives := scanLocalDirectives(chunk)
		local = local.inherit(directives)
		spot := local.spot(directives)

		content, err := r.convert(chunk)
		if err != nil {
			return nil, &entities.RenderError{Err: fmt.Errorf("slide %d: %w", i+1, err)}
		}

		writeSection(&markup, i, len(chunks), theme.Name, spot, content)
	}
	markup.WriteString(`</div>`)

	result.Markup = markup.String()
	return result, nil
}

func (r *MarpRenderer) convert(chunk string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(chunk), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	if r.sanitizer != nil {
		return r.sanitizer.Sanitize(buf.String()), nil
	}
	return buf.String(), nil
}

func (r *MarpRenderer) stylesheet(theme Theme, frontStyle string, custom []string) string {
	var css strings.Builder
	css.WriteString(theme.CSS)
	css.WriteString("\n")
	css.WriteString(baseCSS)
	if s := strings.TrimSpace(frontStyle); s != "" {
		css.WriteString("\n")
		css.WriteString(s)
	}
	if len(custom) > 0 {
		css.WriteString("\n")
		css.WriteString(strings.Join(custom, "\n"))
	}
	return css.String()
}

func writeSection(b *strings.Builder, index, total int, theme string, d slideDirectives, content string) {
	fmt.Fprintf(b, `<section id="%d" data-theme="%s"`, index+1, html.EscapeString(theme))
	if d.Class != "" {
		fmt.Fprintf(b, ` class="%s"`, html.EscapeString(d.Class))
	}
	if d.Paginate {
		fmt.Fprintf(b, ` data-paginate="true" data-page="%d / %d"`, index+1, total)
	}
	b.WriteString(">\n")
	b.WriteString(content)
	b.WriteString("</section>")
}

// newSlidePolicy allows user-generated content plus the attributes slides rely on
func newSlidePolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("id").Matching(bluemonday.SpaceSeparatedTokens).OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("type", "checked", "disabled").OnElements("input")
	p.AllowElements("input")
	return p
}

// splitSlides splits on lines consisting solely of "---", ignoring fenced code
// blocks. Every separator starts a slide, so consecutive separators leave an
// empty slide between them. A body of nothing but separators has no slides.
func splitSlides(body string) []string {
	var (
		slides  []string
		current []string
		fence   string
		content bool
	)

	flush := func() {
		chunk := strings.TrimSpace(strings.Join(current, "\n"))
		if chunk != "" {
			content = true
		}
		slides = append(slides, chunk)
		current = current[:0]
	}

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case fence != "":
			if strings.HasPrefix(trimmed, fence) {
				fence = ""
			}
		case strings.HasPrefix(trimmed, "```"):
			fence = "```"
		case strings.HasPrefix(trimmed, "~~~"):
			fence = "~~~"
		case strings.TrimRight(line, " \t") == "---":
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	if !content {
		return nil
	}
	return slides
}

// Ensure MarpRenderer implements ports.Renderer
var _ ports.Renderer = (*MarpRenderer)(nil)
