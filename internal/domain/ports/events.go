package ports

import "time"

// UpdateEvent is a server push to browser clients. Data is a View for
// "view" events.
type UpdateEvent struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

const (
	EventTypeConnected  = "connected"
	EventTypeView       = "view"
	EventTypeFullscreen = "fullscreen"
	EventTypePrint      = "print"
	EventTypeError      = "error"
)
