package entities

import (
	"errors"
	"strconv"
	"strings"
)

// Slide is one rendered slide of a deck
type Slide struct {
	// Index is the slide position in the deck (0-based)
	Index int `json:"index"`

	// Title is the text of the first heading in the slide, or a generated title
	Title string `json:"title"`

	// HTML is the rendered markup of the slide container
	HTML string `json:"html"`

	// Text is the plain-text content of the slide (used by text surfaces)
	Text string `json:"text,omitempty"`
}

// Validate ensures the slide has content
func (s *Slide) Validate() error {
	if strings.TrimSpace(s.HTML) == "" {
		return errors.New("slide markup cannot be empty")
	}

	if s.Index < 0 {
		return errors.New("slide index must be non-negative")
	}

	return nil
}

// DisplayTitle returns the slide title, generating one when the slide has no heading
func (s *Slide) DisplayTitle() string {
	if t := strings.TrimSpace(s.Title); t != "" {
		return t
	}
	return "Slide " + strconv.Itoa(s.Index+1)
}
