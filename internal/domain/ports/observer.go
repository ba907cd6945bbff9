package ports

import "time"

// SessionObserver is told about deck loads and slide moves
type SessionObserver interface {
	DeckLoaded(duration time.Duration, slides int, err error)
	SlideChanged(current int)
}
