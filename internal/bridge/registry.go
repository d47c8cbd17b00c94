package bridge

import (
	"math"
	"sort"
	"sync"
)

// Opcode identifies a host function across the script boundary.
type Opcode int

// Wire values are fixed; scripts and compiled guests depend on them.
const (
	OpPset        Opcode = 0x1
	OpCls         Opcode = 0x2
	OpUnicornTime Opcode = 0x3
	OpPrint       Opcode = 0x4
	OpSpr         Opcode = 0x5
	OpBtnp        Opcode = 0x6
	OpSspr        Opcode = 0x7
	OpPal         Opcode = 0x8
	OpSfx         Opcode = 0x9
	OpMusic       Opcode = 0x10
	OpCirc        Opcode = 0x11
	OpCircfill    Opcode = 0x12
	OpLine        Opcode = 0x13
	OpSspr2       Opcode = 0x14
)

// Handler implements one host function. It receives the arguments without
// the opcode.
type Handler func(args Args) Value

// Entry binds an opcode to its script-visible name and handler.
// Arity is advisory and never enforced.
type Entry struct {
	Op      Opcode
	Name    string
	Arity   int
	Handler Handler
}

// Dispatcher routes one raw host call.
type Dispatcher interface {
	Dispatch(raw []Value) Value
}

// Registry maps opcodes to entries. Registration happens before script
// execution; lookups are safe from any goroutine.
type Registry struct {
	mu      sync.RWMutex
	entries map[Opcode]Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[Opcode]Entry)}
}

// Register stores e, replacing any previous entry for the same opcode.
func (r *Registry) Register(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[e.Op] = e
}

// Lookup returns the entry bound to op.
func (r *Registry) Lookup(op Opcode) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[op]
	return e, ok
}

// Entries returns all entries sorted by opcode.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Op < out[j].Op })
	return out
}

// Len returns the number of registered opcodes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Dispatch decodes raw[0] as the opcode and invokes its handler with the
// remaining values. Malformed or unknown calls return Number(0).
func (r *Registry) Dispatch(raw []Value) Value {
	if len(raw) == 0 {
		return neutral
	}
	f, ok := raw[0].Number()
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return neutral
	}
	e, ok := r.Lookup(Opcode(saturate(f, math.MinInt32, math.MaxInt32)))
	if !ok || e.Handler == nil {
		return neutral
	}
	return e.Handler(Args(raw[1:]))
}
