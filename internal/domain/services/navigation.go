package services

import (
	"github.com/fredcamaral/marpview/internal/domain/entities"
)

// NavigationController owns the current deck and the index of the shown slide.
//
// Invariant: 0 <= index < deck.Len() whenever the deck has slides; index is 0
// otherwise. Moves outside the deck are silently clamped. The controller is
// not safe for concurrent use; callers serialize access.
type NavigationController struct {
	deck  *entities.Deck
	index int
}

// NewNavigationController creates a controller with no deck
func NewNavigationController() *NavigationController {
	return &NavigationController{}
}

// Reset replaces the deck and moves to the first slide
func (c *NavigationController) Reset(deck *entities.Deck) {
	c.deck = deck
	c.index = 0
}

// Deck returns the current deck (nil when none is loaded)
func (c *NavigationController) Deck() *entities.Deck {
	return c.deck
}

// Index returns the current slide index
func (c *NavigationController) Index() int {
	return c.index
}

// Len returns the number of slides in the deck
func (c *NavigationController) Len() int {
	return c.deck.Len()
}

// Next advances one slide. It reports whether the index changed.
func (c *NavigationController) Next() bool {
	if c.index < c.Len()-1 {
		c.index++
		return true
	}
	return false
}

// Previous goes back one slide. It reports whether the index changed.
func (c *NavigationController) Previous() bool {
	if c.index > 0 {
		c.index--
		return true
	}
	return false
}

// GoTo jumps to slide i when it exists; otherwise it is a no-op
func (c *NavigationController) GoTo(i int) bool {
	if c.ValidateIndex(i) != nil {
		return false
	}
	changed := c.index != i
	c.index = i
	return changed
}

// First jumps to the first slide
func (c *NavigationController) First() bool {
	return c.GoTo(0)
}

// Last jumps to the last slide
func (c *NavigationController) Last() bool {
	return c.GoTo(c.Len() - 1)
}

// ValidateIndex returns an OutOfRangeError when i is not a slide index
func (c *NavigationController) ValidateIndex(i int) error {
	if i < 0 || i >= c.Len() {
		return &entities.OutOfRangeError{Index: i, Total: c.Len()}
	}
	return nil
}

// Current returns the slide at the current index
func (c *NavigationController) Current() (entities.Slide, bool) {
	s, err := c.deck.At(c.index)
	if err != nil {
		return entities.Slide{}, false
	}
	return s, true
}

// Position classifies the current index against the deck boundaries
func (c *NavigationController) Position() entities.Position {
	n := c.Len()
	switch {
	case n == 0:
		return entities.PositionNoDeck
	case c.index == 0:
		return entities.PositionAtFirst
	case c.index == n-1:
		return entities.PositionAtLast
	default:
		return entities.PositionAtMiddle
	}
}

// Snapshot returns the navigation state
func (c *NavigationController) Snapshot() entities.NavigationState {
	return entities.NavigationState{
		Index:    c.index,
		Total:    c.Len(),
		Position: c.Position(),
	}
}
