// Package script picks an interpreter backend by language name.
package script

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vovakirdan/tui-cart/internal/bridge"
	"github.com/vovakirdan/tui-cart/internal/script/js"
	"github.com/vovakirdan/tui-cart/internal/script/lua"
	"github.com/vovakirdan/tui-cart/internal/script/wasm"
)

// Language names a supported scripting language.
type Language string

const (
	JS   Language = "js"
	Lua  Language = "lua"
	Wasm Language = "wasm"
)

// ErrUnknownLanguage is returned for languages without a backend.
var ErrUnknownLanguage = errors.New("script: unknown language")

var extensions = map[string]Language{
	".js":   JS,
	".mjs":  JS,
	".lua":  Lua,
	".wasm": Wasm,
}

// Languages lists every supported language.
func Languages() []Language {
	return []Language{JS, Lua, Wasm}
}

// Parse validates a language name, case-insensitively.
func Parse(name string) (Language, error) {
	lang := Language(strings.ToLower(strings.TrimSpace(name)))
	for _, l := range Languages() {
		if l == lang {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, name)
}

// LanguageFromPath infers the language from a file extension.
func LanguageFromPath(path string) (Language, bool) {
	lang, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

// New creates a fresh interpreter for lang.
func New(lang Language) (bridge.Interpreter, error) {
	switch lang {
	case JS:
		return js.New(), nil
	case Lua:
		return lua.New(), nil
	case Wasm:
		return wasm.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
}
