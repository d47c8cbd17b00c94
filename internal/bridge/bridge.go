// Package bridge connects an embedded script interpreter to the console's
// drawing, sound, input and clock subsystems.
//
// Script code calls host functions by name. Each name is bound to a numeric
// opcode; the interpreter forwards the call to a Registry as a list of
// dynamically-typed values whose first element is the opcode. Handlers
// marshal the rest into typed parameters, filling gaps with defaults, and
// forward to one subsystem under that subsystem's lock.
package bridge

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// Script hooks evaluated by the lifecycle methods.
const (
	HookInit   = "_init"
	HookUpdate = "_update"
	HookDraw   = "_draw"
)

var (
	// ErrAlreadyWired is returned by a second call to Bridge.Load.
	ErrAlreadyWired = errors.New("bridge: resources already wired")
	// ErrInvalidResources is returned when a resource handle was never built.
	ErrInvalidResources = errors.New("bridge: resource handle not initialised")
	// ErrNoHook is wrapped by interpreters when a called hook is not defined.
	ErrNoHook = errors.New("hook not defined")
)

// Interpreter is an embedded scripting runtime.
type Interpreter interface {
	// Name identifies the language, e.g. "js".
	Name() string
	// Bind publishes a global function called name that forwards
	// [Number(op), args...] to d and hands the result back to the script.
	Bind(op Opcode, name string, arity int, d Dispatcher) error
	// Eval runs source at top level.
	Eval(source string) error
	// Call invokes a script-defined global function with no arguments.
	// A hook that does not exist is an error.
	Call(hook string) error
	Close() error
}

// Stats counts lifecycle activity since the bridge was created.
type Stats struct {
	Loads      int
	LoadErrors int
	Updates    int
	Draws      int
	HookErrors int
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the logger used for script failures.
func WithLogger(l *log.Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.log = l
		}
	}
}

// WithRegistry makes the bridge register its opcodes into r.
func WithRegistry(r *Registry) Option {
	return func(b *Bridge) {
		if r != nil {
			b.reg = r
		}
	}
}

// Bridge drives one interpreter through the load/init/update/draw lifecycle.
// It is not safe for concurrent use; the engine calls it from its frame loop.
type Bridge struct {
	interp Interpreter
	reg    *Registry
	log    *log.Logger
	wired  bool
	loaded bool
	err    error
	stats  Stats
}

// New returns a bridge around interp. Nothing is registered until Load.
func New(interp Interpreter, opts ...Option) *Bridge {
	b := &Bridge{
		interp: interp,
		reg:    NewRegistry(),
		log:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Load wires the bridge to res: it clones the handles, registers every host
// function and binds each one into the interpreter. It may be called once.
func (b *Bridge) Load(res Resources) error {
	if b.wired {
		return ErrAlreadyWired
	}
	if !res.Valid() {
		return ErrInvalidResources
	}
	entries := Entries(res.Clone())
	for _, e := range entries {
		b.reg.Register(e)
	}
	for _, e := range entries {
		if err := b.interp.Bind(e.Op, e.Name, e.Arity, b.reg); err != nil {
			return fmt.Errorf("bridge: cannot bind %s: %w", e.Name, err)
		}
	}
	b.wired = true
	b.log.Debug("host functions bound", "interpreter", b.interp.Name(), "count", len(entries))
	return nil
}

// Registry returns the opcode table.
func (b *Bridge) Registry() *Registry { return b.reg }

// Interpreter returns the wrapped interpreter.
func (b *Bridge) Interpreter() Interpreter { return b.interp }

// LoadCode evaluates source. A failure is logged and leaves the bridge
// unloaded, even if a previous load succeeded.
func (b *Bridge) LoadCode(source string) bool {
	b.stats.Loads++
	if err := b.interp.Eval(source); err != nil {
		b.loaded = false
		b.err = err
		b.stats.LoadErrors++
		b.log.Warn("script failed to load", "interpreter", b.interp.Name(), "err", err)
		return false
	}
	b.loaded = true
	b.err = nil
	return true
}

// Err returns the evaluation error of the last LoadCode, or nil.
func (b *Bridge) Err() error { return b.err }

// Loaded reports whether the last LoadCode succeeded.
func (b *Bridge) Loaded() bool { return b.loaded }

// Init runs the initialisation hook once code is loaded.
func (b *Bridge) Init() {
	if !b.loaded {
		return
	}
	b.call(HookInit)
}

// Update runs the per-frame update hook. It reports whether the hook was
// attempted, not whether it succeeded.
func (b *Bridge) Update() bool {
	if !b.loaded {
		return false
	}
	b.stats.Updates++
	b.call(HookUpdate)
	return true
}

// Draw runs the per-frame draw hook. It reports whether the hook was
// attempted, not whether it succeeded.
func (b *Bridge) Draw() bool {
	if !b.loaded {
		return false
	}
	b.stats.Draws++
	b.call(HookDraw)
	return true
}

// Stats returns a snapshot of the lifecycle counters.
func (b *Bridge) Stats() Stats { return b.stats }

// Close releases the interpreter.
func (b *Bridge) Close() error {
	b.loaded = false
	return b.interp.Close()
}

func (b *Bridge) call(hook string) {
	if err := b.interp.Call(hook); err != nil {
		b.stats.HookErrors++
		b.log.Warn("script hook failed", "hook", hook, "err", err)
	}
}
