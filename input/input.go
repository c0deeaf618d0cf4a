// Package input turns key and mouse events into entity motion intent.
// It has no window dependency; the game layer translates raylib keys to Key.
package input

// Key is a logical control.
type Key uint8

const (
	KeyForward Key = iota
	KeyBack
	KeyLeft
	KeyRight
	KeyDebug
	numKeys
)

// String returns the control name.
func (k Key) String() string {
	switch k {
	case KeyForward:
		return "forward"
	case KeyBack:
		return "back"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// Action is a key transition.
type Action uint8

const (
	Press Action = iota
	Release
)

// Event is one key transition.
type Event struct {
	Key    Key
	Action Action
}

// Controllable is the intent surface of a steerable entity.
type Controllable interface {
	MoveUp()
	MoveDown()
	MoveLeft()
	MoveRight()
	RotateToFaceMouse(x, y float64) error
}

// Handler tracks held movement keys and the debugger toggle.
// A press applies one intent delta and the matching release applies the
// opposite delta, so a target's accumulators always equal the held keys.
type Handler struct {
	held  [numKeys]bool
	debug bool
}

// NewHandler returns a handler with nothing held and the debugger off.
func NewHandler() *Handler {
	return &Handler{}
}

// Apply feeds events to target in order. Repeated presses of a held key and
// releases of an unheld key are ignored.
func (h *Handler) Apply(target Controllable, events []Event) {
	for _, ev := range events {
		if ev.Key >= numKeys {
			continue
		}
		if ev.Key == KeyDebug {
			if ev.Action == Press {
				h.debug = !h.debug
			}
			continue
		}

		pressed := ev.Action == Press
		if h.held[ev.Key] == pressed {
			continue
		}
		h.held[ev.Key] = pressed
		apply(target, ev.Key, pressed)
	}
}

func apply(target Controllable, k Key, pressed bool) {
	switch k {
	case KeyForward:
		if pressed {
			target.MoveUp()
		} else {
			target.MoveDown()
		}
	case KeyBack:
		if pressed {
			target.MoveDown()
		} else {
			target.MoveUp()
		}
	case KeyLeft:
		if pressed {
			target.MoveLeft()
		} else {
			target.MoveRight()
		}
	case KeyRight:
		if pressed {
			target.MoveRight()
		} else {
			target.MoveLeft()
		}
	}
}

// Aim points target at a world position. The degenerate-direction error is
// passed through for the caller to log.
func (h *Handler) Aim(target Controllable, x, y float64) error {
	return target.RotateToFaceMouse(x, y)
}

// ReleaseAll releases every held movement key, e.g. when the window loses focus.
func (h *Handler) ReleaseAll(target Controllable) {
	for k := Key(0); k < numKeys; k++ {
		if k == KeyDebug || !h.held[k] {
			continue
		}
		h.held[k] = false
		apply(target, k, false)
	}
}

// Held reports whether a key is currently down.
func (h *Handler) Held(k Key) bool {
	return k < numKeys && h.held[k]
}

// Debug reports whether the debugger overlay is enabled.
func (h *Handler) Debug() bool { return h.debug }

// SetDebug sets the debugger overlay state, e.g. from a UI button.
func (h *Handler) SetDebug(on bool) { h.debug = on }
