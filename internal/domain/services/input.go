package services

import (
	"math"

	"github.com/fredcamaral/marpview/internal/domain/entities"
)

// SwipeThreshold is the minimum horizontal travel, in device pixels, of a navigation swipe
const SwipeThreshold = 50.0

// InputBindings maps key names and touch gestures to commands.
// Key names follow DOM KeyboardEvent.key values; terminal names (left, pgdown, ...)
// are accepted as aliases.
type InputBindings struct {
	keys map[string]entities.Action
}

// NewInputBindings returns the default bindings
func NewInputBindings() *InputBindings {
	return &InputBindings{
		keys: map[string]entities.Action{
			"ArrowLeft":  entities.ActionPrevious,
			"ArrowUp":    entities.ActionPrevious,
			"PageUp":     entities.ActionPrevious,
			"left":       entities.ActionPrevious,
			"up":         entities.ActionPrevious,
			"pgup":       entities.ActionPrevious,
			"ArrowRight": entities.ActionNext,
			"ArrowDown":  entities.ActionNext,
			"PageDown":   entities.ActionNext,
			" ":          entities.ActionNext,
			"Spacebar":   entities.ActionNext,
			"right":      entities.ActionNext,
			"down":       entities.ActionNext,
			"space":      entities.ActionNext,
			"pgdown":     entities.ActionNext,
			"Home":       entities.ActionFirst,
			"home":       entities.ActionFirst,
			"End":        entities.ActionLast,
			"end":        entities.ActionLast,
			"Escape":     entities.ActionBack,
			"esc":        entities.ActionBack,
			"f":          entities.ActionToggleFullscreen,
			"F":          entities.ActionToggleFullscreen,
			"t":          entities.ActionToggleTheme,
			"T":          entities.ActionToggleTheme,
		},
	}
}

// Key returns the action bound to key, or ActionNone
func (b *InputBindings) Key(key string) entities.Action {
	return b.keys[key]
}

// Bind overrides or adds a key binding
func (b *InputBindings) Bind(key string, action entities.Action) {
	b.keys[key] = action
}

// ClassifySwipe interprets a touch delta (end minus start). Only horizontal-dominant
// gestures longer than SwipeThreshold navigate: a leftward drag (dx < 0) advances,
// a rightward drag goes back.
func ClassifySwipe(dx, dy float64) entities.Action {
	if math.Abs(dx) <= math.Abs(dy) || math.Abs(dx) <= SwipeThreshold {
		return entities.ActionNone
	}
	if dx < 0 {
		return entities.ActionNext
	}
	return entities.ActionPrevious
}

// ActiveInState reports whether an action may run in the given view state.
// Navigation keys only apply to the slide view; application-wide shortcuts always do.
func ActiveInState(action entities.Action, state entities.ViewState) bool {
	switch action {
	case entities.ActionToggleFullscreen, entities.ActionToggleTheme:
		return true
	case entities.ActionRetry:
		return state == entities.ViewStateError
	case entities.ActionNone:
		return false
	default:
		return state == entities.ViewStateSlideView
	}
}
