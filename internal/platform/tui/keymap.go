package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-cart/internal/core"
)

// binding ties a key to one player's controller button.
type binding struct {
	player int
	button core.Button
}

// KeyMapper translates Bubble Tea key messages to controller buttons and
// platform actions. This centralizes key bindings and makes them testable.
type KeyMapper struct {
	buttons map[string]binding
	actions map[string]core.Action
}

// NewKeyMapper creates a key mapper with the default two-player layout:
// player 1 on the arrows with Z/N and X/M, player 2 on ESDF with Tab and A.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{
		buttons: map[string]binding{
			"left":  {0, core.ButtonLeft},
			"right": {0, core.ButtonRight},
			"up":    {0, core.ButtonUp},
			"down":  {0, core.ButtonDown},
			"z":     {0, core.ButtonA},
			"n":     {0, core.ButtonA},
			"x":     {0, core.ButtonB},
			"m":     {0, core.ButtonB},

			"s":   {1, core.ButtonLeft},
			"f":   {1, core.ButtonRight},
			"e":   {1, core.ButtonUp},
			"d":   {1, core.ButtonDown},
			"tab": {1, core.ButtonA},
			"a":   {1, core.ButtonB},
		},
		actions: map[string]core.Action{
			"ctrl+c": core.ActionQuit,
			"q":      core.ActionQuit,
			"p":      core.ActionPause,
			"r":      core.ActionRestart,
		},
	}
}

// MapKey translates a key message. The returned action is ActionNone for
// controller keys and unknown keys; ok is false only for unknown keys.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (player int, button core.Button, action core.Action, ok bool) {
	k := msg.String()
	if a, found := km.actions[k]; found {
		return 0, 0, a, true
	}
	if b, found := km.buttons[k]; found {
		return b.player, b.button, core.ActionNone, true
	}
	return 0, 0, core.ActionNone, false
}

// MapKeyToFrame updates an input frame based on a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	player, button, action, ok := km.MapKey(msg)
	switch {
	case !ok:
		return false
	case action == core.ActionQuit:
		return true
	case action != core.ActionNone:
		frame.Set(action)
	default:
		frame.Press(player, button)
	}
	return false
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionHistory
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k":
		return MenuActionUp
	case "s", "down", "j":
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab", "h":
		return MenuActionHistory
	}
	return MenuActionNone
}
