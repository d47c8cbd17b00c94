// Package cart loads cartridges and runs them as registry games.
//
// A cart is script source plus metadata. It is either a bare script file
// (.js, .lua, .wasm) or a YAML manifest that names the language and carries
// the code inline or points at a code file next to it.
package cart

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-cart/internal/script"
)

// ErrUnknownFormat is returned for files that are neither a manifest nor a
// script in a supported language.
var ErrUnknownFormat = errors.New("cart: unknown file format")

// Cart is a loaded cartridge.
type Cart struct {
	ID       string
	Title    string
	Author   string
	Language script.Language
	Code     []byte
	Sprites  []string // sprite sheet rows, one hex digit per pixel, '.' transparent
	Path     string   // empty for builtin carts
}

// defaultLanguage is used for manifests that name no language and whose
// code file has no recognized extension.
var defaultLanguage script.Language

// SetDefaultLanguage sets the language assumed by manifests that omit one.
// An empty language restores the strict behavior.
func SetDefaultLanguage(lang script.Language) {
	defaultLanguage = lang
}

type manifest struct {
	ID       string   `yaml:"id"`
	Title    string   `yaml:"title"`
	Author   string   `yaml:"author"`
	Language string   `yaml:"language"`
	Code     string   `yaml:"code"`
	CodeFile string   `yaml:"code_file"`
	Sprites  []string `yaml:"sprites"`
}

// Load reads a cart from path.
func Load(path string) (*Cart, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cart: cannot read %s: %w", path, err)
		}
		c, err := Parse(data, filepath.Dir(path))
		if err != nil {
			return nil, fmt.Errorf("cart: %s: %w", path, err)
		}
		if c.ID == "" {
			c.ID = baseName(path)
		}
		if c.Title == "" {
			c.Title = c.ID
		}
		c.Path = path
		return c, nil
	}

	lang, ok := script.LanguageFromPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cart: cannot read %s: %w", path, err)
	}
	id := baseName(path)
	return &Cart{ID: id, Title: id, Language: lang, Code: code, Path: path}, nil
}

// Parse decodes a YAML manifest. A relative code_file is resolved against
// dir.
func Parse(data []byte, dir string) (*Cart, error) {
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	c := &Cart{ID: m.ID, Title: m.Title, Author: m.Author, Sprites: m.Sprites}

	switch {
	case m.Code != "" && m.CodeFile != "":
		return nil, errors.New("manifest sets both code and code_file")
	case m.Code != "":
		c.Code = []byte(m.Code)
	case m.CodeFile != "":
		codePath := m.CodeFile
		if !filepath.IsAbs(codePath) {
			codePath = filepath.Join(dir, codePath)
		}
		code, err := os.ReadFile(codePath)
		if err != nil {
			return nil, fmt.Errorf("cannot read code file: %w", err)
		}
		c.Code = code
	default:
		return nil, errors.New("manifest has no code")
	}

	if m.Language != "" {
		lang, err := script.Parse(m.Language)
		if err != nil {
			return nil, err
		}
		c.Language = lang
	} else if lang, ok := script.LanguageFromPath(m.CodeFile); ok {
		c.Language = lang
	} else if defaultLanguage != "" {
		c.Language = defaultLanguage
	} else {
		return nil, errors.New("manifest has no language")
	}

	if c.Title == "" {
		c.Title = c.ID
	}
	return c, nil
}

// Resolve returns a builtin cart by id, or loads path from disk.
func Resolve(ref string) (*Cart, error) {
	if c, ok := Builtin(ref); ok {
		return c, nil
	}
	if _, err := os.Stat(ref); err != nil {
		return nil, fmt.Errorf("cart: %q is neither a builtin cart nor a readable file", ref)
	}
	return Load(ref)
}

// Discover loads every cart directly inside dir. Unreadable entries are
// returned as errors alongside the carts that did load.
func Discover(dir string) ([]*Cart, []error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, []error{fmt.Errorf("cart: cannot list %s: %w", dir, err)}
	}

	var carts []*Cart
	var errs []error
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		c, err := Load(filepath.Join(dir, e.Name()))
		if errors.Is(err, ErrUnknownFormat) {
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		carts = append(carts, c)
	}
	return carts, errs
}

func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
