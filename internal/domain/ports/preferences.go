package ports

import "github.com/fredcamaral/marpview/internal/domain/entities"

// PreferenceStore persists the display theme preference across sessions
type PreferenceStore interface {
	Theme() (entities.ThemePreference, bool)
	SetTheme(theme entities.ThemePreference) error
}

// Localizer turns errors into user-facing messages
type Localizer interface {
	Message(err error) string
	Language() string
}
