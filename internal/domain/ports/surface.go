package ports

import (
	"context"
	"io"

	"github.com/fredcamaral/marpview/internal/domain/entities"
)

// DisplaySurface receives view projections to show
type DisplaySurface interface {
	Show(view entities.View)
}

// DisplaySurfaceFunc adapts a function to DisplaySurface
type DisplaySurfaceFunc func(view entities.View)

// Show calls f(view)
func (f DisplaySurfaceFunc) Show(view entities.View) { f(view) }

// InputHandler receives stimuli translated by an input surface
type InputHandler interface {
	HandleKey(key string) entities.View
	HandleSwipe(dx, dy float64) entities.View
	HandleCommand(cmd entities.Command) (entities.View, error)
	HandleFile(ctx context.Context, name string, r io.Reader) (entities.View, error)
}

// InputSurface is a concrete UI that forwards its key, gesture, button and
// file events to the registered handler
type InputSurface interface {
	Register(handler InputHandler)
}

// PrintSink receives every slide of a deck for printing
type PrintSink interface {
	Print(w io.Writer, deck *entities.Deck) error
}

// EffectSurface is implemented by display surfaces that perform surface-level
// actions the session does not own, such as fullscreen or printing
type EffectSurface interface {
	Perform(action entities.Action)
}
