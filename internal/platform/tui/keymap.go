package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-armada/internal/core"
	"github.com/vovakirdan/tui-armada/internal/multiplayer"
)

// KeyMapper holds every key and mouse binding in one place, away from
// the models that consume the mapped actions.
type KeyMapper struct{}

// NewKeyMapper returns the default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey resolves one key press to the local player's action, and
// whether that press asks to quit.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	key := msg.String()

	// Quit works everywhere
	switch key {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	}

	switch key {
	case "w", "up":
		return core.ActionUp, false
	case "s", "down":
		return core.ActionDown, false
	case "a", "left":
		return core.ActionLeft, false
	case "d", "right":
		return core.ActionRight, false
	case " ", "f": // Space or F fires at the aimed cell
		return core.ActionFire, false
	case "h":
		return core.ActionShuffle, false
	case "enter":
		return core.ActionConfirm, false
	case "b", "esc":
		return core.ActionBack, false
	case "p":
		return core.ActionPause, false
	case "r":
		return core.ActionRestart, false
	}

	return core.ActionNone, false
}

// MapKeyToFrame folds one key press into the frame and reports whether
// it asked to quit.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone {
		frame.Set(action)
	}
	return isQuit
}

// MapKeyToMultiFrame folds one key press into the local seat of a
// multi-player frame and reports whether it asked to quit.
func (km *KeyMapper) MapKeyToMultiFrame(msg tea.KeyMsg, frame *core.MultiInputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone {
		p1 := frame.Player(multiplayer.Player1)
		p1.Set(action)
		frame.SetPlayer(multiplayer.Player1, p1)
	}
	return isQuit
}

// MapMouseToFrame records a left-button press as a click in the input frame.
// Motion, release and wheel events are ignored. Returns true if a click
// was recorded.
func (km *KeyMapper) MapMouseToFrame(msg tea.MouseMsg, frame *core.InputFrame) bool {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return false
	}
	frame.SetClick(msg.X, msg.Y)
	return true
}

// MapMouseToMultiFrame records a left-button press for Player1 in a
// multi-input frame. Returns true if a click was recorded.
func (km *KeyMapper) MapMouseToMultiFrame(msg tea.MouseMsg, frame *core.MultiInputFrame) bool {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return false
	}
	p1 := frame.Player(multiplayer.Player1)
	p1.SetClick(msg.X, msg.Y)
	frame.SetPlayer(multiplayer.Player1, p1)
	return true
}

// MenuAction is the menu's own action vocabulary, separate from the
// in-battle actions.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionLog
)

// MapKeyToMenuAction resolves one key press in a menu.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim k
		return MenuActionUp
	case "s", "down", "j": // vim j
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionLog
	}

	return MenuActionNone
}
