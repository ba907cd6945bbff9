package export

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/fredcamaral/marpview/internal/domain/entities"
	"github.com/fredcamaral/marpview/internal/domain/ports"
)

// PrintOptions controls the print document
type PrintOptions struct {
	// AutoPrint opens the browser print dialog once the document loads
	AutoPrint bool
	// Theme is the page colour scheme around the slides
	Theme entities.ThemePreference
	// ThemeSource, when set, is asked for the scheme on every print and wins over Theme
	ThemeSource func() entities.ThemePreference
}

// PrintRenderer renders every slide of a deck into one printable HTML
// document, one slide per page in deck order
type PrintRenderer struct {
	template *template.Template
	options  PrintOptions
	now      func() time.Time
}

// NewPrintRenderer creates a new print renderer
func NewPrintRenderer(options PrintOptions) (*PrintRenderer, error) {
	tmpl, err := template.New("print").Funcs(template.FuncMap{
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s) // #nosec G203 - slide markup produced by the renderer
		},
		"safeCSS": func(s string) template.CSS {
			return template.CSS(s) // #nosec G203 - deck stylesheet produced by the renderer
		},
		"inc": func(i int) int { return i + 1 },
	}).Parse(printTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing print template: %w", err)
	}

	if !options.Theme.Valid() {
		options.Theme = entities.ThemeLight
	}

	return &PrintRenderer{
		template: tmpl,
		options:  options,
		now:      time.Now,
	}, nil
}

// WithAutoPrint returns a copy of r with the print dialog toggled
func (r *PrintRenderer) WithAutoPrint(autoPrint bool) *PrintRenderer {
	c := *r
	c.options.AutoPrint = autoPrint
	return &c
}

func (r *PrintRenderer) theme() entities.ThemePreference {
	if r.options.ThemeSource != nil {
		if t := r.options.ThemeSource(); t.Valid() {
			return t
		}
	}
	return r.options.Theme
}

// Print writes the print document for deck to w
func (r *PrintRenderer) Print(w io.Writer, deck *entities.Deck) error {
	if err := deck.Validate(); err != nil {
		return err
	}

	data := struct {
		Title       string
		Theme       entities.ThemePreference
		Stylesheet  string
		Slides      []entities.Slide
		SlideCount  int
		AutoPrint   bool
		GeneratedAt string
	}{
		Title:       deck.Title,
		Theme:       r.theme(),
		Stylesheet:  deck.Stylesheet,
		Slides:      deck.Slides(),
		SlideCount:  deck.Len(),
		AutoPrint:   r.options.AutoPrint,
		GeneratedAt: r.now().Format("2006-01-02 15:04:05"),
	}
	if data.Title == "" {
		data.Title = deck.Name
	}

	if err := r.template.Execute(w, data); err != nil {
		return fmt.Errorf("executing print template: %w", err)
	}
	return nil
}

const printTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <meta name="generator" content="marpview">
    <meta name="export-date" content="{{.GeneratedAt}}">
    <style>
        * { box-sizing: border-box; }
        body { margin: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; }
        body[data-theme="dark"] { background: #111827; color: #f3f4f6; }
        .print-page { width: 100%; aspect-ratio: 16 / 9; overflow: hidden; margin: 0 auto 1rem; }
        .print-page > section { width: 100%; height: 100%; }
        @page { size: 1280px 720px; margin: 0; }
        @media print {
            body { background: none; }
            .print-page { margin: 0; page-break-after: always; break-after: page; }
            .print-page:last-child { page-break-after: auto; break-after: auto; }
        }
    </style>
    <style>{{safeCSS .Stylesheet}}</style>
</head>
<body data-theme="{{.Theme}}">
    <div class="marpit">
{{- range $i, $slide := .Slides}}
    <div class="print-page slide-content" data-slide="{{inc $i}}" aria-label="Slide {{inc $i}} of {{$.SlideCount}}">
        {{safeHTML $slide.HTML}}
    </div>
{{- end}}
    </div>
{{- if .AutoPrint}}
    <script>window.addEventListener('load', function () { window.print(); });</script>
{{- end}}
</body>
</html>
`

// Ensure PrintRenderer implements ports.PrintSink
var _ ports.PrintSink = (*PrintRenderer)(nil)
