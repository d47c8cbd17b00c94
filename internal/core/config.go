package core

// RuntimeConfig contains configuration passed to carts at initialization.
type RuntimeConfig struct {
	ScreenW  int   // Terminal width in characters
	ScreenH  int   // Terminal height in characters
	TickRate int   // Frames per second (default 30)
	Seed     int64 // RNG seed exposed to the platform; carts keep their own state
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState represents the current state of a running cart.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int  // Frames survived; carts have no score opcode
	GameOver bool // Whether the session has ended
	Paused   bool // Whether the frame loop is paused
}

// StepResult is returned by Game.Step() after each frame.
type StepResult struct {
	State GameState
}
