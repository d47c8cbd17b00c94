package wasm

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/vovakirdan/tui-cart/internal/bridge"
)

type recordingDispatcher struct {
	calls  [][]bridge.Value
	result bridge.Value
}

func (d *recordingDispatcher) Dispatch(raw []bridge.Value) bridge.Value {
	d.calls = append(d.calls, append([]bridge.Value(nil), raw...))
	return d.result
}

func section(id byte, content ...byte) []byte {
	return append([]byte{id, byte(len(content))}, content...)
}

func wasmName(s string) []byte {
	return append([]byte{byte(len(s))}, s...)
}

// guestModule assembles a module that imports env.<imp>, exports its memory
// and a _draw function calling imp(argc, 0). data is placed at address 0.
func guestModule(imp string, argc byte, data []byte, returns bool) []byte {
	m := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

	hook := []byte{0x60, 0x00, 0x00}
	if returns {
		hook = []byte{0x60, 0x00, 0x01, 0x7c}
	}
	m = append(m, section(1, append([]byte{0x02, 0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7c}, hook...)...)...)

	imports := append([]byte{0x01}, wasmName(HostModule)...)
	imports = append(imports, wasmName(imp)...)
	imports = append(imports, 0x00, 0x00)
	m = append(m, section(2, imports...)...)

	m = append(m, section(3, 0x01, 0x01)...)
	m = append(m, section(5, 0x01, 0x00, 0x01)...)

	exports := append([]byte{0x02}, wasmName("_draw")...)
	exports = append(exports, 0x00, 0x01)
	exports = append(exports, wasmName("memory")...)
	exports = append(exports, 0x02, 0x00)
	m = append(m, section(7, exports...)...)

	body := []byte{0x00, 0x41, argc, 0x41, 0x00, 0x10, 0x00}
	if !returns {
		body = append(body, 0x1a)
	}
	body = append(body, 0x0b)
	m = append(m, section(10, append([]byte{0x01, byte(len(body))}, body...)...)...)

	seg := append([]byte{0x01, 0x00, 0x41, 0x00, 0x0b, byte(len(data))}, data...)
	return append(m, section(11, seg...)...)
}

func slot(tag, size uint32, payload uint64) []byte {
	b := make([]byte, SlotSize)
	binary.LittleEndian.PutUint32(b[0:], tag)
	binary.LittleEndian.PutUint32(b[4:], size)
	binary.LittleEndian.PutUint64(b[8:], payload)
	return b
}

func TestHostCallDecodesSlots(t *testing.T) {
	var data []byte
	data = append(data, slot(TagString, 2, 64)...)
	data = append(data, slot(TagNumber, 0, math.Float64bits(7.5))...)
	data = append(data, slot(TagBool, 0, 1)...)
	data = append(data, slot(9, 0, 0)...)
	data = append(data, "hi"...)

	i := New()
	defer i.Close()
	d := &recordingDispatcher{result: bridge.Number(0)}
	if err := i.Bind(bridge.OpPrint, "print", 4, d); err != nil {
		t.Fatal(err)
	}
	if err := i.Eval(string(guestModule("print", 4, data, false))); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if err := i.Call("_draw"); err != nil {
		t.Fatalf("Call(_draw): %v", err)
	}

	if len(d.calls) != 1 {
		t.Fatalf("dispatched %d calls, expected 1", len(d.calls))
	}
	want := []bridge.Value{
		bridge.Number(float64(bridge.OpPrint)),
		bridge.String("hi"), bridge.Number(7.5), bridge.Bool(true), bridge.Missing(),
	}
	got := d.calls[0]
	if len(got) != len(want) {
		t.Fatalf("raw = %#v, expected %d values", got, len(want))
	}
	for n := range want {
		if !got[n].Equal(want[n]) {
			t.Errorf("raw[%d] = %#v, expected %#v", n, got[n], want[n])
		}
	}
}

func TestHostCallResults(t *testing.T) {
	tests := []struct {
		name   string
		result bridge.Value
		want   float64
	}{
		{"number", bridge.Number(12.5), 12.5},
		{"true", bridge.Bool(true), 1},
		{"false", bridge.Bool(false), 0},
		{"string", bridge.String("x"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := New()
			defer i.Close()
			if err := i.Bind(bridge.OpBtnp, "btnp", 2, &recordingDispatcher{result: tt.result}); err != nil {
				t.Fatal(err)
			}
			if err := i.Eval(string(guestModule("btnp", 0, nil, true))); err != nil {
				t.Fatalf("Eval: %v", err)
			}
			res, err := i.guest.ExportedFunction("_draw").Call(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if got := api.DecodeF64(res[0]); got != tt.want {
				t.Errorf("result = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestUnreadableSlotsAreMissing(t *testing.T) {
	i := New()
	defer i.Close()
	d := &recordingDispatcher{result: bridge.Number(0)}
	if err := i.Bind(bridge.OpPset, "pset", 3, d); err != nil {
		t.Fatal(err)
	}
	// A string slot pointing past the end of the single memory page.
	data := slot(TagString, 16, 1<<20)
	if err := i.Eval(string(guestModule("pset", 1, data, false))); err != nil {
		t.Fatal(err)
	}
	if err := i.Call("_draw"); err != nil {
		t.Fatal(err)
	}
	if got := d.calls[0][1]; got.Kind() != bridge.KindMissing {
		t.Errorf("arg = %#v, expected Missing", got)
	}
}

func TestSlotsPastMemoryEndDoNotWrap(t *testing.T) {
	i := New()
	defer i.Close()
	d := &recordingDispatcher{result: bridge.Number(0)}
	if err := i.Bind(bridge.OpPset, "pset", 3, d); err != nil {
		t.Fatal(err)
	}
	data := slot(TagNumber, 0, math.Float64bits(42))
	if err := i.Eval(string(guestModule("pset", 0, data, false))); err != nil {
		t.Fatal(err)
	}

	mem := i.guest.Memory()
	if got := readArgs(mem, 1, 0); !got[0].Equal(bridge.Number(42)) {
		t.Fatalf("slot at 0 = %#v, expected Number(42)", got[0])
	}
	// The second slot would land on address 0 with 32-bit wraparound.
	got := readArgs(mem, 2, math.MaxUint32-SlotSize+1)
	for n, v := range got {
		if v.Kind() != bridge.KindMissing {
			t.Errorf("arg %d = %#v, expected Missing", n, v)
		}
	}
}

func TestReloadAndHooks(t *testing.T) {
	i := New()
	defer i.Close()
	d := &recordingDispatcher{result: bridge.Number(0)}
	if err := i.Call("_draw"); !errors.Is(err, bridge.ErrNoHook) {
		t.Errorf("Call before Eval = %v, expected ErrNoHook", err)
	}
	if err := i.Bind(bridge.OpCls, "cls", 1, d); err != nil {
		t.Fatal(err)
	}

	mod := string(guestModule("cls", 0, nil, false))
	var prev wazero.CompiledModule
	for n := 0; n < 2; n++ {
		if err := i.Eval(mod); err != nil {
			t.Fatalf("Eval #%d: %v", n+1, err)
		}
		if i.compiled == nil || i.compiled == prev {
			t.Fatalf("Eval #%d did not replace the compiled module", n+1)
		}
		prev = i.compiled
	}
	if err := i.Call("_draw"); err != nil {
		t.Fatal(err)
	}
	if err := i.Call("_update"); !errors.Is(err, bridge.ErrNoHook) {
		t.Errorf("missing export error = %v, expected ErrNoHook", err)
	}
	if err := i.Bind(bridge.OpPal, "pal", 2, d); err == nil {
		t.Error("Bind after Eval should fail")
	}

	if err := i.Close(); err != nil {
		t.Fatal(err)
	}
	if i.guest != nil || i.compiled != nil {
		t.Error("Close should release the guest and its compiled module")
	}
}

func TestEvalRejectsBadModules(t *testing.T) {
	i := New()
	defer i.Close()

	if err := i.Eval("not wasm"); err == nil {
		t.Error("expected a compile error")
	}
	// Imports a host function that was never bound.
	if err := i.Eval(string(guestModule("spr", 0, nil, false))); err == nil {
		t.Error("expected an instantiation error for an unknown import")
	}
}
