package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fredcamaral/marpview/internal/domain/entities"
)

func TestClassifySwipe(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy float64
		action entities.Action
	}{
		{"left swipe advances", -60, 5, entities.ActionNext},
		{"right swipe goes back", 60, 5, entities.ActionPrevious},
		{"too short", 30, 40, entities.ActionNone},
		{"exactly at threshold", -50, 0, entities.ActionNone},
		{"vertical dominant", -80, 90, entities.ActionNone},
		{"diagonal tie", 70, -70, entities.ActionNone},
		{"long left swipe", -300, 20, entities.ActionNext},
		{"no movement", 0, 0, entities.ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.action, ClassifySwipe(tt.dx, tt.dy))
		})
	}
}

func TestInputBindings_Key(t *testing.T) {
	b := NewInputBindings()

	tests := map[string]entities.Action{
		"ArrowRight": entities.ActionNext,
		"ArrowDown":  entities.ActionNext,
		" ":          entities.ActionNext,
		"PageDown":   entities.ActionNext,
		"ArrowLeft":  entities.ActionPrevious,
		"ArrowUp":    entities.ActionPrevious,
		"PageUp":     entities.ActionPrevious,
		"Home":       entities.ActionFirst,
		"End":        entities.ActionLast,
		"Escape":     entities.ActionBack,
		"f":          entities.ActionToggleFullscreen,
		"t":          entities.ActionToggleTheme,
		"right":      entities.ActionNext,
		"pgup":       entities.ActionPrevious,
		"esc":        entities.ActionBack,
		"x":          entities.ActionNone,
		"Enter":      entities.ActionNone,
	}

	for key, action := range tests {
		t.Run(key, func(t *testing.T) {
			assert.Equal(t, action, b.Key(key))
		})
	}

	t.Run("custom binding", func(t *testing.T) {
		b.Bind("n", entities.ActionNext)
		assert.Equal(t, entities.ActionNext, b.Key("n"))
		assert.Equal(t, entities.ActionNone, NewInputBindings().Key("n"))
	})
}

func TestActiveInState(t *testing.T) {
	navigation := []entities.Action{
		entities.ActionNext, entities.ActionPrevious, entities.ActionFirst,
		entities.ActionLast, entities.ActionGoTo, entities.ActionBack, entities.ActionPrint,
	}

	for _, action := range navigation {
		assert.True(t, ActiveInState(action, entities.ViewStateSlideView), action)
		assert.False(t, ActiveInState(action, entities.ViewStateFileSelect), action)
		assert.False(t, ActiveInState(action, entities.ViewStateProcessing), action)
		assert.False(t, ActiveInState(action, entities.ViewStateError), action)
	}

	for _, state := range []entities.ViewState{
		entities.ViewStateFileSelect, entities.ViewStateProcessing,
		entities.ViewStateSlideView, entities.ViewStateError,
	} {
		assert.True(t, ActiveInState(entities.ActionToggleFullscreen, state))
		assert.True(t, ActiveInState(entities.ActionToggleTheme, state))
		assert.False(t, ActiveInState(entities.ActionNone, state))
	}

	assert.True(t, ActiveInState(entities.ActionRetry, entities.ViewStateError))
	assert.False(t, ActiveInState(entities.ActionRetry, entities.ViewStateSlideView))
}
