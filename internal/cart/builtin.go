package cart

import (
	_ "embed"

	"github.com/vovakirdan/tui-cart/internal/registry"
	"github.com/vovakirdan/tui-cart/internal/script"
)

//go:embed carts/hello.lua
var helloLua []byte

//go:embed carts/hello.js
var helloJS []byte

//go:embed carts/snake.lua
var snakeLua []byte

// demoSheet holds sprite 1: an 8x8 face.
var demoSheet = []string{
	"..........aaaa..",
	".........a0aa0a.",
	"........aaaaaaaa",
	"........aa0aa0aa",
	"........aaa00aaa",
	".........aaaaaa.",
	"..........a..a..",
	".........aa..aa.",
}

var builtins = map[string]*Cart{
	"hello-lua": {
		ID:       "hello-lua",
		Title:    "Hello (Lua)",
		Author:   "tui-cart",
		Language: script.Lua,
		Code:     helloLua,
		Sprites:  demoSheet,
	},
	"hello-js": {
		ID:       "hello-js",
		Title:    "Hello (JavaScript)",
		Author:   "tui-cart",
		Language: script.JS,
		Code:     helloJS,
		Sprites:  demoSheet,
	},
	"snake-lua": {
		ID:       "snake-lua",
		Title:    "Snake",
		Author:   "tui-cart",
		Language: script.Lua,
		Code:     snakeLua,
	},
}

func init() {
	for id, c := range builtins {
		registry.Register(id, func() registry.Game { return NewGame(c) })
	}
}

// Builtin returns the embedded cart with the given id.
func Builtin(id string) (*Cart, bool) {
	c, ok := builtins[id]
	return c, ok
}
