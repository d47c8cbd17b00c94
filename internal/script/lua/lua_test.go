package lua

import (
	"errors"
	"testing"

	lua "github.com/yuin/gopher-lua"

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

func TestBindRoutesArguments(t *testing.T) {
	i := New()
	defer i.Close()
	d := &recordingDispatcher{result: bridge.Number(0)}
	if err := i.Bind(bridge.OpCirc, "circ", 4, d); err != nil {
		t.Fatal(err)
	}

	if err := i.Eval(`circ(1, nil, 2.5, "x", true, {})`); err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if len(d.calls) != 1 {
		t.Fatalf("dispatched %d calls, expected 1", len(d.calls))
	}

	want := []bridge.Value{
		bridge.Number(float64(bridge.OpCirc)),
		bridge.Number(1), bridge.Missing(), bridge.Number(2.5), bridge.String("x"),
		bridge.Bool(true), bridge.Missing(),
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

func TestBindReturnsResult(t *testing.T) {
	i := New()
	defer i.Close()
	if err := i.Bind(bridge.OpBtnp, "btnp", 2, &recordingDispatcher{result: bridge.Bool(true)}); err != nil {
		t.Fatal(err)
	}
	if err := i.Bind(bridge.OpUnicornTime, "unicorn_time", 0, &recordingDispatcher{result: bridge.Number(3.5)}); err != nil {
		t.Fatal(err)
	}
	if err := i.Eval("r = btnp(0, 0); t = unicorn_time()"); err != nil {
		t.Fatal(err)
	}
	if r := i.L.GetGlobal("r"); r != lua.LTrue {
		t.Errorf("r = %v, expected true", r)
	}
	if v := i.L.GetGlobal("t"); v != lua.LNumber(3.5) {
		t.Errorf("t = %v, expected 3.5", v)
	}
}

func TestSandbox(t *testing.T) {
	i := New()
	defer i.Close()

	if err := i.Eval("assert(os == nil and io == nil and dofile == nil and require == nil and load == nil)"); err != nil {
		t.Errorf("sandbox leaks a global: %v", err)
	}
	if err := i.Eval("assert(string.format('%d', math.floor(2.7)) == '2')"); err != nil {
		t.Errorf("string/math should be available: %v", err)
	}
	if err := i.Eval(`dofile("/etc/passwd")`); err == nil {
		t.Error("dofile should not be callable")
	}
}

func TestHooks(t *testing.T) {
	i := New()
	defer i.Close()
	if err := i.Eval("n = 0\nfunction _update() n = n + 1 end\nfunction _draw() error('bad') end"); err != nil {
		t.Fatal(err)
	}

	for range 2 {
		if err := i.Call("_update"); err != nil {
			t.Fatalf("Call(_update): %v", err)
		}
	}
	if n := i.L.GetGlobal("n"); n != lua.LNumber(2) {
		t.Errorf("n = %v, expected 2", n)
	}
	if err := i.Call("_draw"); err == nil {
		t.Error("a failing hook should return an error")
	}
	if err := i.Call("_init"); !errors.Is(err, bridge.ErrNoHook) {
		t.Errorf("missing hook error = %v, expected ErrNoHook", err)
	}
}

func TestEvalSyntaxError(t *testing.T) {
	i := New()
	defer i.Close()
	if err := i.Eval("function ("); err == nil {
		t.Error("expected a syntax error")
	}
}
