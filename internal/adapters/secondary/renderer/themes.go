package renderer

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Theme is a built-in slide theme
type Theme struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	CSS         string `json:"-"`
}

// ThemeSet holds the themes a deck can select with the theme directive
type ThemeSet struct {
	themes map[string]Theme
}

// NewThemeSet returns the built-in themes
func NewThemeSet() *ThemeSet {
	ts := &ThemeSet{themes: make(map[string]Theme)}
	ts.Add("default", defaultThemeCSS)
	ts.Add("gaia", gaiaThemeCSS)
	ts.Add("uncover", uncoverThemeCSS)
	return ts
}

// Add registers or replaces a theme
func (ts *ThemeSet) Add(name, css string) {
	key := strings.ToLower(name)
	ts.themes[key] = Theme{
		Name:        key,
		DisplayName: cases.Title(language.English).String(strings.ReplaceAll(key, "-", " ")),
		CSS:         css,
	}
}

// Get looks a theme up by case-insensitive name
func (ts *ThemeSet) Get(name string) (Theme, bool) {
	t, ok := ts.themes[strings.ToLower(name)]
	return t, ok
}

// List returns the themes sorted by name
func (ts *ThemeSet) List() []Theme {
	list := make([]Theme, 0, len(ts.themes))
	for _, t := range ts.themes {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// baseCSS is appended to every theme
const baseCSS = `/* emoji sizing */
.slide-content img[alt*="emoji"],
.slide-content .emoji,
.slide-content img[src*="emoji"] {
  height: 1.2em !important;
  width: 1.2em !important;
  max-height: 1.2em !important;
  max-width: 1.2em !important;
  display: inline-block !important;
  vertical-align: -0.2em !important;
  margin: 0 0.1em !important;
  object-fit: contain !important;
}
.slide-content section { box-sizing: border-box; }
section[data-paginate]::after {
  content: attr(data-page);
  position: absolute;
  right: 30px;
  bottom: 20px;
  font-size: 0.6em;
  opacity: 0.7;
}`

const defaultThemeCSS = `/* theme: default */
section {
  position: relative;
  width: 1280px;
  max-width: 100%;
  aspect-ratio: 16 / 9;
  padding: 78px;
  background: #fff;
  color: #24292f;
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Helvetica, Arial, sans-serif;
  font-size: 29px;
  display: flex;
  flex-direction: column;
  justify-content: center;
}
section h1 { font-size: 1.8em; color: #224466; }
section h2 { font-size: 1.5em; color: #224466; }
section pre { background: #f6f8fa; padding: 1em; border-radius: 6px; }
section code { background: #f6f8fa; padding: 0.2em 0.4em; border-radius: 4px; }
section table { border-collapse: collapse; }
section th, section td { border: 1px solid #d0d7de; padding: 0.3em 0.8em; }
section blockquote { border-left: 4px solid #d0d7de; padding-left: 1em; color: #57606a; }
section.lead { text-align: center; }
section.invert { background: #24292f; color: #fff; }`

const gaiaThemeCSS = `/* theme: gaia */
section {
  position: relative;
  width: 1280px;
  max-width: 100%;
  aspect-ratio: 16 / 9;
  padding: 70px;
  background: #fff8e1;
  color: #455a64;
  font-family: Lato, "Avenir Next", Avenir, "Trebuchet MS", sans-serif;
  font-size: 35px;
  display: flex;
  flex-direction: column;
  justify-content: flex-start;
}
section h1, section h2 { color: #0288d1; }
section.lead { justify-content: center; text-align: center; }
section.invert { background: #455a64; color: #fff8e1; }
section.gaia { background: #0288d1; color: #fff8e1; }`

const uncoverThemeCSS = `/* theme: uncover */
section {
  position: relative;
  width: 1280px;
  max-width: 100%;
  aspect-ratio: 16 / 9;
  padding: 70px;
  background: #fdfcff;
  color: #202228;
  font-family: "Helvetica Neue", Arial, sans-serif;
  font-size: 40px;
  display: flex;
  flex-direction: column;
  justify-content: center;
  align-items: center;
  text-align: center;
}
section h1, section h2 { letter-spacing: -0.02em; }
section.invert { background: #202228; color: #fdfcff; }`
