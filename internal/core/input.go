package core

// Button identifies one of a player's controller buttons.
type Button uint8

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonUp
	ButtonDown
	ButtonA // Z, N
	ButtonB // X, M
)

// ButtonCount is the number of buttons per player.
const ButtonCount = 6

// MaxPlayers is the number of controller slots.
const MaxPlayers = 2

// String returns a human-readable name for the button.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "Left"
	case ButtonRight:
		return "Right"
	case ButtonUp:
		return "Up"
	case ButtonDown:
		return "Down"
	case ButtonA:
		return "A"
	case ButtonB:
		return "B"
	default:
		return "Unknown"
	}
}

// Action represents a platform-level intent that never reaches cart code.
type Action int

const (
	ActionNone    Action = iota
	ActionPause          // P - pause/unpause the frame loop
	ActionRestart        // R - reboot the cart
	ActionQuit           // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame collects everything pressed during one frame.
type InputFrame struct {
	buttons [MaxPlayers]uint8
	actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{actions: make(map[Action]bool)}
}

// Press marks a player's button as pressed this frame.
// Out-of-range players or buttons are ignored.
func (f *InputFrame) Press(player int, b Button) {
	if player < 0 || player >= MaxPlayers || b >= ButtonCount {
		return
	}
	f.buttons[player] |= 1 << b
}

// Pressed reports whether a player's button was pressed this frame.
func (f InputFrame) Pressed(player int, b Button) bool {
	if player < 0 || player >= MaxPlayers || b >= ButtonCount {
		return false
	}
	return f.buttons[player]&(1<<b) != 0
}

// Set marks a platform action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.actions == nil {
		f.actions = make(map[Action]bool)
	}
	f.actions[a] = true
}

// Has returns true if the given platform action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	return f.actions[a]
}

// Clear resets buttons and actions for the next frame.
func (f *InputFrame) Clear() {
	f.buttons = [MaxPlayers]uint8{}
	for k := range f.actions {
		delete(f.actions, k)
	}
}

// Players is the input subsystem queried by carts. It holds the button state
// of the frame currently being simulated.
type Players struct {
	current [MaxPlayers]uint8
}

// NewPlayers creates an input state with nothing pressed.
func NewPlayers() *Players {
	return &Players{}
}

// Apply replaces the current state with the buttons of frame.
func (p *Players) Apply(frame InputFrame) {
	p.current = frame.buttons
}

// Btnp reports whether button was pressed by player during the current frame.
// Unknown players or buttons report false.
func (p *Players) Btnp(player, button uint8) bool {
	if int(player) >= MaxPlayers || button >= ButtonCount {
		return false
	}
	return p.current[player]&(1<<button) != 0
}
