package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		input  string
		action Action
		ok     bool
	}{
		{"next", ActionNext, true},
		{"previous", ActionPrevious, true},
		{"prev", ActionPrevious, true},
		{"goto", ActionGoTo, true},
		{"fullscreen", ActionToggleFullscreen, true},
		{"print", ActionPrint, true},
		{"", ActionNone, false},
		{"jump", ActionNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			action, ok := ParseAction(tt.input)
			assert.Equal(t, tt.action, action)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestNavigationState(t *testing.T) {
	assert.False(t, NavigationState{}.AtFirst())
	assert.False(t, NavigationState{}.AtLast())
	assert.True(t, NavigationState{Index: 0, Total: 1}.AtFirst())
	assert.True(t, NavigationState{Index: 0, Total: 1}.AtLast())
	assert.True(t, NavigationState{Index: 2, Total: 3}.AtLast())
}

func TestThemePreference(t *testing.T) {
	assert.True(t, ThemeLight.Valid())
	assert.True(t, ThemeDark.Valid())
	assert.False(t, ThemePreference("sepia").Valid())
	assert.Equal(t, ThemeDark, ThemeLight.Toggle())
	assert.Equal(t, ThemeLight, ThemeDark.Toggle())
	assert.Equal(t, ThemeDark, ThemePreference("").Toggle())
}
