package entities

import (
	"fmt"
	"time"
)

// Deck is the ordered, immutable collection of slides produced from one source document.
// A new deck replaces the previous one wholesale.
type Deck struct {
	// Name is the source file name the deck was loaded from
	Name string `json:"name"`

	// Title comes from front-matter, falling back to the first slide title
	Title string `json:"title"`

	// Theme is the theme selected by front-matter or directives
	Theme string `json:"theme"`

	// Stylesheet is the bundle applied to the display surface while the deck is shown
	Stylesheet string `json:"-"`

	// LoadedAt is when the deck was produced
	LoadedAt time.Time `json:"loaded_at"`

	slides []Slide
}

// NewDeck creates a deck from slides, renumbering them in presentation order
func NewDeck(name string, slides []Slide, stylesheet string) *Deck {
	own := make([]Slide, len(slides))
	copy(own, slides)
	for i := range own {
		own[i].Index = i
	}

	d := &Deck{
		Name:       name,
		Stylesheet: stylesheet,
		LoadedAt:   time.Now(),
		slides:     own,
	}
	if len(own) > 0 {
		d.Title = own[0].DisplayTitle()
	}
	return d
}

// Len returns the number of slides; a nil deck has none
func (d *Deck) Len() int {
	if d == nil {
		return 0
	}
	return len(d.slides)
}

// At returns the slide at index
func (d *Deck) At(index int) (Slide, error) {
	if index < 0 || index >= d.Len() {
		return Slide{}, &OutOfRangeError{Index: index, Total: d.Len()}
	}
	return d.slides[index], nil
}

// Slides returns a copy of the slides in order
func (d *Deck) Slides() []Slide {
	if d == nil {
		return nil
	}
	out := make([]Slide, len(d.slides))
	copy(out, d.slides)
	return out
}

// Validate ensures the deck has at least one valid slide
func (d *Deck) Validate() error {
	if d.Len() == 0 {
		return &EmptyDeckError{}
	}
	for i := range d.slides {
		if err := d.slides[i].Validate(); err != nil {
			return fmt.Errorf("slide %d validation failed: %w", i+1, err)
		}
	}
	return nil
}
