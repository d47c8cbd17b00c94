// Package js runs cart code written in JavaScript on the goja engine.
package js

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/vovakirdan/tui-cart/internal/bridge"
)

// Interpreter is a goja runtime with host functions installed as globals.
type Interpreter struct {
	vm *goja.Runtime
}

// New returns a fresh runtime.
func New() *Interpreter {
	return &Interpreter{vm: goja.New()}
}

// Name implements bridge.Interpreter.
func (i *Interpreter) Name() string { return "js" }

// Bind installs a global function that forwards to d.
func (i *Interpreter) Bind(op bridge.Opcode, name string, arity int, d bridge.Dispatcher) error {
	vm := i.vm
	fn := func(call goja.FunctionCall) goja.Value {
		raw := make([]bridge.Value, 0, len(call.Arguments)+1)
		raw = append(raw, bridge.Number(float64(op)))
		for _, a := range call.Arguments {
			raw = append(raw, fromJS(a))
		}
		return toJS(vm, d.Dispatch(raw))
	}
	if err := vm.Set(name, fn); err != nil {
		return fmt.Errorf("js: cannot define %s: %w", name, err)
	}
	return nil
}

// Eval runs source as a top-level script.
func (i *Interpreter) Eval(source string) error {
	if _, err := i.vm.RunString(source); err != nil {
		return fmt.Errorf("js: %w", err)
	}
	return nil
}

// Call invokes the global function named hook.
func (i *Interpreter) Call(hook string) error {
	fn, ok := goja.AssertFunction(i.vm.Get(hook))
	if !ok {
		return fmt.Errorf("js: %s: %w", hook, bridge.ErrNoHook)
	}
	if _, err := fn(goja.Undefined()); err != nil {
		return fmt.Errorf("js: %s: %w", hook, err)
	}
	return nil
}

// Close is a no-op; the runtime is garbage collected.
func (i *Interpreter) Close() error { return nil }

func fromJS(v goja.Value) bridge.Value {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return bridge.Missing()
	}
	switch x := v.Export().(type) {
	case int64:
		return bridge.Number(float64(x))
	case float64:
		return bridge.Number(x)
	case string:
		return bridge.String(x)
	case bool:
		return bridge.Bool(x)
	default:
		return bridge.Missing()
	}
}

func toJS(vm *goja.Runtime, v bridge.Value) goja.Value {
	switch v.Kind() {
	case bridge.KindNumber:
		f, _ := v.Number()
		return vm.ToValue(f)
	case bridge.KindString:
		s, _ := v.Str()
		return vm.ToValue(s)
	case bridge.KindBool:
		b, _ := v.Bool()
		return vm.ToValue(b)
	default:
		return goja.Undefined()
	}
}
