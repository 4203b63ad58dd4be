package core

// Action is a semantic intent decoupled from physical keys. Games see
// "fire" or "confirm", never "space" or "enter".
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, Up arrow - move the aim cursor up
	ActionDown           // S, Down arrow - move the aim cursor down
	ActionLeft           // A, Left arrow - move the aim cursor left
	ActionRight          // D, Right arrow - move the aim cursor right
	ActionFire           // Space, F - fire at the selected cell
	ActionShuffle        // H - reshuffle fleet placement before battle
	ActionConfirm        // Enter - confirm selection (accept placement, menu)
	ActionBack           // B, Escape - abandon the battle, back to menu
	ActionRestart        // R - rematch after the battle ends
	ActionQuit           // Q, Ctrl+C - leave the program or session
	ActionPause          // P - pause/unpause game
)

// String names the action for logs and debug output.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionFire:
		return "Fire"
	case ActionShuffle:
		return "Shuffle"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// Click is a pointer event in screen coordinates. The platform forwards
// terminal mouse presses to games through this; games decide what, if
// anything, lies under the point.
type Click struct {
	X, Y int
}

// InputFrame is everything one player did during one tick.
type InputFrame struct {
	// Actions holds the set of actions triggered this frame; a map so
	// several can fire on the same tick in any order.
	Actions map[Action]bool

	// Click carries at most one pointer press per frame, or nil.
	Click *Click
}

// NewInputFrame creates a frame with nothing pressed.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set records an action as fired this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// SetClick records a pointer press at screen position (x, y).
// A second press in the same frame replaces the first.
func (f *InputFrame) SetClick(x, y int) {
	f.Click = &Click{X: x, Y: y}
}

// Has reports whether the action fired this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Empty returns true if the frame carries no actions and no click.
func (f InputFrame) Empty() bool {
	return len(f.Actions) == 0 && f.Click == nil
}

// Clear empties the frame for the next tick.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Click = nil
}

// Clone copies the frame, click included.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	if f.Click != nil {
		click := *f.Click
		clone.Click = &click
	}
	return clone
}

// MultiInputFrame is one tick of input across both seats. The local
// platform fills Player1 from the keyboard; the match loop fills both
// seats from session input. Games consume it either way.
type MultiInputFrame struct {
	// ByPlayer holds each seat's frame, absent seats meaning no input.
	ByPlayer map[PlayerID]InputFrame
}

// NewMultiInputFrame creates a frame with no seats filled.
func NewMultiInputFrame() MultiInputFrame {
	return MultiInputFrame{
		ByPlayer: make(map[PlayerID]InputFrame),
	}
}

// Player is the frame for one seat, empty when that seat did nothing.
func (m MultiInputFrame) Player(id PlayerID) InputFrame {
	if m.ByPlayer == nil {
		return NewInputFrame()
	}
	if frame, ok := m.ByPlayer[id]; ok {
		return frame
	}
	return NewInputFrame()
}

// SetPlayer stores one seat's frame.
func (m *MultiInputFrame) SetPlayer(id PlayerID, frame InputFrame) {
	if m.ByPlayer == nil {
		m.ByPlayer = make(map[PlayerID]InputFrame)
	}
	m.ByPlayer[id] = frame
}

// Player1 is shorthand for the host seat's frame.
func (m MultiInputFrame) Player1() InputFrame {
	return m.Player(Player1)
}

// Player2 is shorthand for the far seat's frame.
func (m MultiInputFrame) Player2() InputFrame {
	return m.Player(Player2)
}

// Clear empties every seat for the next tick.
func (m *MultiInputFrame) Clear() {
	for id := range m.ByPlayer {
		frame := m.ByPlayer[id]
		frame.Clear()
		m.ByPlayer[id] = frame
	}
}

// Clone deep-copies every seat's frame.
func (m MultiInputFrame) Clone() MultiInputFrame {
	clone := NewMultiInputFrame()
	for id, frame := range m.ByPlayer {
		clone.ByPlayer[id] = frame.Clone()
	}
	return clone
}
