package entities

// Position is the navigation state relative to the deck boundaries
type Position string

const (
	PositionNoDeck   Position = "no-deck"
	PositionAtFirst  Position = "at-first"
	PositionAtMiddle Position = "at-middle"
	PositionAtLast   Position = "at-last"
)

// NavigationState is a snapshot of the navigation controller
type NavigationState struct {
	Index    int      `json:"index"`
	Total    int      `json:"total"`
	Position Position `json:"position"`
}

// AtFirst reports whether the current slide is the first one
func (n NavigationState) AtFirst() bool {
	return n.Total > 0 && n.Index == 0
}

// AtLast reports whether the current slide is the last one
func (n NavigationState) AtLast() bool {
	return n.Total > 0 && n.Index == n.Total-1
}

// Action is a navigation or application command produced by an input surface
type Action string

const (
	ActionNone             Action = ""
	ActionNext             Action = "next"
	ActionPrevious         Action = "previous"
	ActionFirst            Action = "first"
	ActionLast             Action = "last"
	ActionGoTo             Action = "goto"
	ActionBack             Action = "back"
	ActionRetry            Action = "retry"
	ActionToggleFullscreen Action = "fullscreen"
	ActionToggleTheme      Action = "theme"
	ActionPrint            Action = "print"
)

// Command is an action with its optional argument
type Command struct {
	Action Action `json:"action"`
	Index  int    `json:"index,omitempty"`
}

// ParseAction converts a wire name into an Action
func ParseAction(name string) (Action, bool) {
	switch a := Action(name); a {
	case ActionNext, ActionPrevious, ActionFirst, ActionLast, ActionGoTo,
		ActionBack, ActionRetry, ActionToggleFullscreen, ActionToggleTheme, ActionPrint:
		return a, true
	case "prev":
		return ActionPrevious, true
	default:
		return ActionNone, false
	}
}
