package renderer

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	themeDirective    = regexp.MustCompile(`(?im)<!--\s*@?theme:\s*(\S+)\s*-->`)
	paginateDirective = regexp.MustCompile(`(?i)<!--\s*(_?)paginate:\s*(\S+)\s*-->`)
	classDirective    = regexp.MustCompile(`(?i)<!--\s*(_?)class:\s*([^>]*?)\s*-->`)

	cssThemeBlock = regexp.MustCompile(`(?is)<!--\s*\$theme:\s*css\s*-->(.*?)<!--\s*/\$theme\s*-->`)
	styleBlock    = regexp.MustCompile(`(?is)<style[^>]*>(.*?)</style>`)
)

// globalDirectives apply to the whole deck
type globalDirectives struct {
	Theme    string
	Paginate bool
}

func (g *globalDirectives) merge(other globalDirectives) {
	if other.Theme != "" {
		g.Theme = other.Theme
	}
}

// scanGlobalDirectives finds deck-wide directives; the last theme directive wins
func scanGlobalDirectives(body string) globalDirectives {
	var g globalDirectives
	matches := themeDirective.FindAllStringSubmatch(body, -1)
	if len(matches) > 0 {
		g.Theme = matches[len(matches)-1][1]
	}
	return g
}

// slideDirectives apply to a slide. Plain directives carry over to the
// following slides; underscore-prefixed ("spot") ones only affect their own slide.
type slideDirectives struct {
	Class    string
	Paginate bool

	hasClass, hasPaginate bool
	spotClass             *string
	spotPaginate          *bool
}

func scanLocalDirectives(chunk string) slideDirectives {
	var d slideDirectives

	for _, m := range classDirective.FindAllStringSubmatch(chunk, -1) {
		value := strings.TrimSpace(m[2])
		if m[1] == "_" {
			d.spotClass = &value
			continue
		}
		d.Class = value
		d.hasClass = true
	}

	for _, m := range paginateDirective.FindAllStringSubmatch(chunk, -1) {
		value, err := strconv.ParseBool(m[2])
		if err != nil {
			continue
		}
		if m[1] == "_" {
			d.spotPaginate = &value
			continue
		}
		d.Paginate = value
		d.hasPaginate = true
	}

	return d
}

// inherit returns the carried-over directives after applying d
func (s slideDirectives) inherit(d slideDirectives) slideDirectives {
	out := slideDirectives{Class: s.Class, Paginate: s.Paginate}
	if d.hasClass {
		out.Class = d.Class
	}
	if d.hasPaginate {
		out.Paginate = d.Paginate
	}
	return out
}

// spot returns the effective directives for a single slide
func (s slideDirectives) spot(d slideDirectives) slideDirectives {
	out := s
	if d.spotClass != nil {
		out.Class = *d.spotClass
	}
	if d.spotPaginate != nil {
		out.Paginate = *d.spotPaginate
	}
	return out
}

// extractStyles removes custom style blocks from the body and returns their CSS in document order
func extractStyles(body string) (string, []string) {
	type block struct {
		start int
		css   string
	}
	var blocks []block

	for _, re := range []*regexp.Regexp{cssThemeBlock, styleBlock} {
		for _, loc := range re.FindAllStringSubmatchIndex(body, -1) {
			css := strings.TrimSpace(body[loc[2]:loc[3]])
			if css != "" {
				blocks = append(blocks, block{start: loc[0], css: css})
			}
		}
	}

	sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].start < blocks[j].start })

	css := make([]string, 0, len(blocks))
	for _, b := range blocks {
		css = append(css, b.css)
	}

	stripped := cssThemeBlock.ReplaceAllString(body, "")
	stripped = styleBlock.ReplaceAllString(stripped, "")
	return stripped, css
}
