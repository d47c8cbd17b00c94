// Package registry is the catalog of carts the platform can boot.
// Builtin carts register themselves in init(); carts loaded from disk are
// created directly and never enter the catalog.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-cart/internal/core"
)

// Game is what the platform drives every frame. It knows nothing about
// Bubble Tea: the platform maps keys to an InputFrame, calls Step on a fixed
// tick and asks the game to Render into a screen buffer.
type Game interface {
	// ID is the unique cart identifier used on the command line and in
	// run history.
	ID() string

	// Title is the human-readable name shown in menus.
	Title() string

	// Reset boots or reboots the cart for the given screen.
	Reset(cfg core.RuntimeConfig)

	// Step advances exactly one frame.
	Step(in core.InputFrame) core.StepResult

	// Render draws the last completed frame. dst is pre-cleared.
	Render(dst *core.Screen)

	// State returns the current session state.
	State() core.GameState
}

// Languager is implemented by games that run script code.
type Languager interface {
	Language() string
}

// Info describes a registered cart.
type Info struct {
	ID       string
	Title    string
	Language string
}

// Factory creates a fresh, not yet Reset, game.
type Factory func() Game

var (
	mu        sync.RWMutex
	factories = make(map[string]Factory)
	infos     = make(map[string]Info)
)

// Register adds a factory under id. It panics on duplicate ids, which can
// only happen through a programming error in an init function.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: cart %q already registered", id))
	}

	g := f()
	info := Info{ID: id, Title: g.Title()}
	if l, ok := g.(Languager); ok {
		info.Language = l.Language()
	}
	factories[id] = f
	infos[id] = info
}

// List returns every registered cart sorted by id.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Create instantiates the cart registered under id.
func Create(id string) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown cart %q", id)
	}
	return f(), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
