package model

// Action is the result of classifying a key-down event.
type Action string

// Keyboard actions.
const (
	ActionNone           Action = "none"
	ActionPlayPause      Action = "playPause"
	ActionStop           Action = "stop"
	ActionToggleTheme    Action = "toggleTheme"
	ActionToggleHelp     Action = "toggleHelp"
	ActionToggleSettings Action = "toggleSettings"
)

// Modifiers is a snapshot of the held modifier keys.
type Modifiers struct {
	Ctrl  bool
	Meta  bool
	Shift bool
	Alt   bool
}

// KeyEvent is a single key transition. Key holds a normalized key name such
// as "k", "/", "space" or "escape".
type KeyEvent struct {
	Key string
	Modifiers

	defaultPrevented bool
}

// PreventDefault suppresses the host's default handling of the key.
func (e *KeyEvent) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *KeyEvent) DefaultPrevented() bool {
	return e.defaultPrevented
}
