package cart

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-cart/internal/script"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadBareScript(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		lang script.Language
	}{
		{"pong.lua", script.Lua},
		{"snake.js", script.JS},
		{"demo.wasm", script.Wasm},
	}
	for _, tt := range tests {
		path := writeFile(t, dir, tt.name, "-- code")
		c, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s): %v", tt.name, err)
		}
		if c.Language != tt.lang {
			t.Errorf("%s: language = %q, expected %q", tt.name, c.Language, tt.lang)
		}
		if c.ID != tt.name[:len(tt.name)-len(filepath.Ext(tt.name))] || c.Title != c.ID {
			t.Errorf("%s: id=%q title=%q", tt.name, c.ID, c.Title)
		}
		if string(c.Code) != "-- code" || c.Path != path {
			t.Errorf("%s: unexpected cart %+v", tt.name, c)
		}
	}
}

func TestLoadUnknownFormat(t *testing.T) {
	path := writeFile(t, t.TempDir(), "notes.txt", "hello")
	if _, err := Load(path); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Load(notes.txt) error = %v, expected ErrUnknownFormat", err)
	}
}

func TestLoadManifestInline(t *testing.T) {
	path := writeFile(t, t.TempDir(), "stars.yaml", `
title: Starfield
author: someone
language: JS
code: |
  function _draw() { cls(); }
sprites:
  - "0123"
  - "4567"
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.ID != "stars" || c.Title != "Starfield" || c.Author != "someone" {
		t.Errorf("metadata = %+v", c)
	}
	if c.Language != script.JS {
		t.Errorf("language = %q, expected js", c.Language)
	}
	if len(c.Sprites) != 2 || c.Sprites[1] != "4567" {
		t.Errorf("sprites = %v", c.Sprites)
	}
}

func TestLoadManifestCodeFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.lua", "function _draw() end")
	path := writeFile(t, dir, "game.yml", "id: game\ncode_file: main.lua\n")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Language != script.Lua {
		t.Errorf("language inferred from code_file = %q, expected lua", c.Language)
	}
	if string(c.Code) != "function _draw() end" {
		t.Errorf("code = %q", c.Code)
	}
	if c.Title != "game" {
		t.Errorf("title should default to id, got %q", c.Title)
	}
}

func TestParseManifestErrors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
	}{
		{"no code", "language: lua\n"},
		{"both code sources", "language: lua\ncode: x\ncode_file: y.lua\n"},
		{"no language", "code: x\n"},
		{"bad language", "language: cobol\ncode: x\n"},
		{"missing code file", "code_file: nope.lua\n"},
		{"bad yaml", "code: [x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.manifest), t.TempDir()); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseManifestDefaultLanguage(t *testing.T) {
	SetDefaultLanguage(script.JS)
	t.Cleanup(func() { SetDefaultLanguage("") })

	c, err := Parse([]byte("code: x\n"), t.TempDir())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Language != script.JS {
		t.Errorf("Language = %q, want js", c.Language)
	}

	c, err = Parse([]byte("language: lua\ncode: x\n"), t.TempDir())
	if err != nil || c.Language != script.Lua {
		t.Errorf("explicit language should win: %v %v", c, err)
	}
}

func TestResolve(t *testing.T) {
	c, err := Resolve("hello-lua")
	if err != nil || c.Language != script.Lua {
		t.Fatalf("Resolve(hello-lua) = %+v, %v", c, err)
	}

	path := writeFile(t, t.TempDir(), "x.js", "")
	if c, err := Resolve(path); err != nil || c.ID != "x" {
		t.Errorf("Resolve(path) = %+v, %v", c, err)
	}

	if _, err := Resolve("no-such-cart"); err == nil {
		t.Error("expected an error for an unknown cart")
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.lua", "")
	writeFile(t, dir, "b.js", "")
	writeFile(t, dir, "readme.md", "")
	writeFile(t, dir, "broken.yaml", "language: lua\n")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	carts, errs := Discover(dir)
	if len(carts) != 2 {
		t.Errorf("discovered %d carts, expected 2", len(carts))
	}
	if len(errs) != 1 {
		t.Errorf("got %d errors, expected 1 for broken.yaml", len(errs))
	}

	if carts, errs := Discover(filepath.Join(dir, "missing")); carts != nil || errs != nil {
		t.Error("a missing directory should yield nothing")
	}
}
