// Package wasm runs cart code compiled to WebAssembly on wazero.
//
// Host functions live in the "env" import module, one export per host
// function name, each with the signature (argc i32, argv i32) -> f64.
// argv points at argc consecutive 16-byte slots in the guest's memory:
//
//	offset 0  u32 tag     0 missing, 1 number, 2 string, 3 bool
//	offset 4  u32 len     string length in bytes
//	offset 8  8 bytes     f64 number, u32 string pointer or u32 bool
//
// Results come back as f64: numbers as-is, booleans as 1 or 0, anything
// else as 0. Script hooks are plain exported functions.
package wasm

import (
	"context"
	"errors"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/vovakirdan/tui-cart/internal/bridge"
)

// HostModule is the import module name guests link host functions from.
const HostModule = "env"

// Slot layout of one argument in guest memory.
const (
	SlotSize = 16

	TagMissing uint32 = 0
	TagNumber  uint32 = 1
	TagString  uint32 = 2
	TagBool    uint32 = 3
)

// maxArgs bounds argc so a corrupt guest cannot force a huge allocation.
const maxArgs = 64

const guestName = "cart"

var errClosed = errors.New("wasm: interpreter closed")

type binding struct {
	op   bridge.Opcode
	name string
	d    bridge.Dispatcher
}

// Interpreter owns a wazero runtime, the host module and at most one
// instantiated guest.
type Interpreter struct {
	ctx      context.Context
	rt       wazero.Runtime
	bindings []binding
	host     api.Module
	guest    api.Module
	compiled wazero.CompiledModule
	closed   bool
}

// New returns a runtime with WASI preview 1 available to guests.
func New() *Interpreter {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	wasi_snapshot_preview1.MustInstantiate(ctx, rt)
	return &Interpreter{ctx: ctx, rt: rt}
}

// Name implements bridge.Interpreter.
func (i *Interpreter) Name() string { return "wasm" }

// Bind records a host function. The host module is built on the first Eval,
// so every Bind must happen before code is loaded.
func (i *Interpreter) Bind(op bridge.Opcode, name string, arity int, d bridge.Dispatcher) error {
	if i.host != nil {
		return fmt.Errorf("wasm: cannot bind %s after code was loaded", name)
	}
	i.bindings = append(i.bindings, binding{op: op, name: name, d: d})
	return nil
}

// Eval compiles and instantiates source as a binary module, replacing any
// previous guest. The module's start function, if any, runs here.
func (i *Interpreter) Eval(source string) error {
	if i.closed {
		return errClosed
	}
	if err := i.instantiateHost(); err != nil {
		return err
	}
	i.dropGuest()

	compiled, err := i.rt.CompileModule(i.ctx, []byte(source))
	if err != nil {
		return fmt.Errorf("wasm: cannot compile module: %w", err)
	}
	mod, err := i.rt.InstantiateModule(i.ctx, compiled, wazero.NewModuleConfig().WithName(guestName))
	if err != nil {
		_ = compiled.Close(i.ctx)
		return fmt.Errorf("wasm: cannot instantiate module: %w", err)
	}
	i.guest, i.compiled = mod, compiled
	return nil
}

// dropGuest closes the current guest and its compiled module.
func (i *Interpreter) dropGuest() {
	if i.guest != nil {
		_ = i.guest.Close(i.ctx)
		i.guest = nil
	}
	if i.compiled != nil {
		_ = i.compiled.Close(i.ctx)
		i.compiled = nil
	}
}

// Call invokes the exported function named hook.
func (i *Interpreter) Call(hook string) error {
	if i.closed {
		return errClosed
	}
	if i.guest == nil {
		return fmt.Errorf("wasm: %s: %w", hook, bridge.ErrNoHook)
	}
	fn := i.guest.ExportedFunction(hook)
	if fn == nil {
		return fmt.Errorf("wasm: %s: %w", hook, bridge.ErrNoHook)
	}
	if _, err := fn.Call(i.ctx); err != nil {
		return fmt.Errorf("wasm: %s: %w", hook, err)
	}
	return nil
}

// Close tears down the runtime and every module in it.
func (i *Interpreter) Close() error {
	if i.closed {
		return nil
	}
	i.closed = true
	i.dropGuest()
	i.host = nil
	return i.rt.Close(i.ctx)
}

func (i *Interpreter) instantiateHost() error {
	if i.host != nil {
		return nil
	}
	b := i.rt.NewHostModuleBuilder(HostModule)
	for _, bind := range i.bindings {
		b = b.NewFunctionBuilder().WithFunc(hostFunc(bind)).Export(bind.name)
	}
	host, err := b.Instantiate(i.ctx)
	if err != nil {
		return fmt.Errorf("wasm: cannot instantiate host module: %w", err)
	}
	i.host = host
	return nil
}

func hostFunc(bind binding) func(ctx context.Context, m api.Module, argc, argv uint32) float64 {
	return func(ctx context.Context, m api.Module, argc, argv uint32) float64 {
		raw := append([]bridge.Value{bridge.Number(float64(bind.op))}, readArgs(m.Memory(), argc, argv)...)
		return encodeResult(bind.d.Dispatch(raw))
	}
}

func readArgs(mem api.Memory, argc, argv uint32) []bridge.Value {
	if argc > maxArgs {
		argc = maxArgs
	}
	out := make([]bridge.Value, argc)
	if mem == nil {
		return out
	}
	for n := uint32(0); n < argc; n++ {
		at := uint64(argv) + uint64(n)*SlotSize
		if at+SlotSize > uint64(mem.Size()) {
			break
		}
		out[n] = readSlot(mem, uint32(at))
	}
	return out
}

func readSlot(mem api.Memory, at uint32) bridge.Value {
	tag, ok := mem.ReadUint32Le(at)
	if !ok {
		return bridge.Missing()
	}
	switch tag {
	case TagNumber:
		if f, ok := mem.ReadFloat64Le(at + 8); ok {
			return bridge.Number(f)
		}
	case TagString:
		size, ok1 := mem.ReadUint32Le(at + 4)
		ptr, ok2 := mem.ReadUint32Le(at + 8)
		if !ok1 || !ok2 {
			break
		}
		if buf, ok := mem.Read(ptr, size); ok {
			return bridge.String(string(buf))
		}
	case TagBool:
		if v, ok := mem.ReadUint32Le(at + 8); ok {
			return bridge.Bool(v != 0)
		}
	}
	return bridge.Missing()
}

func encodeResult(v bridge.Value) float64 {
	if f, ok := v.Number(); ok {
		return f
	}
	if b, ok := v.Bool(); ok && b {
		return 1
	}
	return 0
}
