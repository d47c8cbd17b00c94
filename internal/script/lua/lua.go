// Package lua runs cart code written in Lua on gopher-lua.
//
// The state is sandboxed: only the base, table, string and math libraries
// are opened, and the base functions that reach the filesystem or load
// arbitrary chunks are removed.
package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/vovakirdan/tui-cart/internal/bridge"
)

var removedGlobals = []string{"dofile", "loadfile", "load", "loadstring", "collectgarbage", "require"}

// Interpreter is a sandboxed Lua state.
type Interpreter struct {
	L *lua.LState
}

// New returns a sandboxed state.
func New() *Interpreter {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range removedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	L.SetTop(0)
	return &Interpreter{L: L}
}

// Name implements bridge.Interpreter.
func (i *Interpreter) Name() string { return "lua" }

// Bind installs a global function that forwards to d.
func (i *Interpreter) Bind(op bridge.Opcode, name string, arity int, d bridge.Dispatcher) error {
	i.L.SetGlobal(name, i.L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		raw := make([]bridge.Value, 0, n+1)
		raw = append(raw, bridge.Number(float64(op)))
		for idx := 1; idx <= n; idx++ {
			raw = append(raw, fromLua(L.Get(idx)))
		}
		L.Push(toLua(d.Dispatch(raw)))
		return 1
	}))
	return nil
}

// Eval runs source as a chunk.
func (i *Interpreter) Eval(source string) error {
	if err := i.L.DoString(source); err != nil {
		return fmt.Errorf("lua: %w", err)
	}
	return nil
}

// Call invokes the global function named hook in protected mode.
func (i *Interpreter) Call(hook string) error {
	fn := i.L.GetGlobal(hook)
	if fn.Type() != lua.LTFunction {
		return fmt.Errorf("lua: %s: %w", hook, bridge.ErrNoHook)
	}
	if err := i.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}); err != nil {
		return fmt.Errorf("lua: %s: %w", hook, err)
	}
	return nil
}

// Close releases the state.
func (i *Interpreter) Close() error {
	i.L.Close()
	return nil
}

func fromLua(v lua.LValue) bridge.Value {
	switch x := v.(type) {
	case lua.LNumber:
		return bridge.Number(float64(x))
	case lua.LString:
		return bridge.String(string(x))
	case lua.LBool:
		return bridge.Bool(bool(x))
	default:
		return bridge.Missing()
	}
}

func toLua(v bridge.Value) lua.LValue {
	switch v.Kind() {
	case bridge.KindNumber:
		f, _ := v.Number()
		return lua.LNumber(f)
	case bridge.KindString:
		s, _ := v.Str()
		return lua.LString(s)
	case bridge.KindBool:
		b, _ := v.Bool()
		return lua.LBool(b)
	default:
		return lua.LNil
	}
}
