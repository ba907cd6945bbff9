package services

import (
	"fmt"

	"github.com/fredcamaral/marpview/internal/domain/entities"
	"github.com/fredcamaral/marpview/internal/domain/ports"
)

// PresentationBinder projects a deck and index onto a view. Render is a pure
// function of its arguments, so the projection is testable without a surface.
type PresentationBinder struct{}

// NewPresentationBinder creates a new binder
func NewPresentationBinder() *PresentationBinder {
	return &PresentationBinder{}
}

// Render builds the slide-view projection for deck[index]
func (b *PresentationBinder) Render(deck *entities.Deck, index int) entities.View {
	total := deck.Len()
	slide, err := deck.At(index)
	if err != nil {
		return entities.View{State: entities.ViewStateFileSelect, Indicator: "0/0"}
	}

	return entities.View{
		State:      entities.ViewStateSlideView,
		DeckName:   deck.Name,
		Title:      deck.Title,
		SlideTitle: slide.DisplayTitle(),
		SlideHTML:  slide.HTML,
		SlideText:  slide.Text,
		Stylesheet: deck.Stylesheet,
		Current:    index + 1,
		Total:      total,
		Indicator:  fmt.Sprintf("%d/%d", index+1, total),
		Controls:   controlsFor(index, total),
	}
}

// Bind renders and pushes the projection onto a display surface
func (b *PresentationBinder) Bind(surface ports.DisplaySurface, deck *entities.Deck, index int) entities.View {
	view := b.Render(deck, index)
	surface.Show(view)
	return view
}

func controlsFor(index, total int) entities.Controls {
	atFirst := index == 0
	atLast := index == total-1
	return entities.Controls{
		First:    !atFirst,
		Previous: !atFirst,
		Next:     !atLast,
		Last:     !atLast,
	}
}
