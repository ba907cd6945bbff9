package entities

// ViewState is the top-level application state shown by a display surface
type ViewState string

const (
	ViewStateFileSelect ViewState = "file-select"
	ViewStateProcessing ViewState = "processing"
	ViewStateSlideView  ViewState = "slide-view"
	ViewStateError      ViewState = "error"
)

// ThemePreference is the persisted light/dark display preference
type ThemePreference string

const (
	ThemeLight ThemePreference = "light"
	ThemeDark  ThemePreference = "dark"
)

// Valid reports whether the preference is a known value
func (t ThemePreference) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Toggle returns the opposite preference
func (t ThemePreference) Toggle() ThemePreference {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Controls holds the enabled flags of the navigation controls
type Controls struct {
	First    bool `json:"first"`
	Previous bool `json:"previous"`
	Next     bool `json:"next"`
	Last     bool `json:"last"`
}

// View is the projection of the session onto a display surface
type View struct {
	State      ViewState       `json:"state"`
	DeckName   string          `json:"deck_name,omitempty"`
	Title      string          `json:"title,omitempty"`
	SlideTitle string          `json:"slide_title,omitempty"`
	SlideHTML  string          `json:"slide_html,omitempty"`
	SlideText  string          `json:"slide_text,omitempty"`
	Stylesheet string          `json:"stylesheet,omitempty"`
	Current    int             `json:"current"`
	Total      int             `json:"total"`
	Indicator  string          `json:"indicator"`
	Controls   Controls        `json:"controls"`
	Theme      ThemePreference `json:"theme"`
	Error      string          `json:"error,omitempty"`
	ErrorKind  ErrorKind       `json:"error_kind,omitempty"`
}
