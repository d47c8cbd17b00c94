package bridge

import (
	"fmt"
	"strings"
	"sync"

	"github.com/vovakirdan/tui-cart/internal/core"
)

// recorder collects forwarded calls as "name(arg, arg, ...)" strings.
type recorder struct {
	mu     sync.Mutex
	calls  []string
	onCall func(name string)
}

func (r *recorder) record(name string, args ...any) {
	if r.onCall != nil {
		r.onCall(name)
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	r.mu.Lock()
	r.calls = append(r.calls, name+"("+strings.Join(parts, ", ")+")")
	r.mu.Unlock()
}

func (r *recorder) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return ""
	}
	return r.calls[len(r.calls)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

type fakeRaster struct{ *recorder }

func (f fakeRaster) Cls(v int8)                    { f.record("cls", v) }
func (f fakeRaster) PSet(x, y, c int32)            { f.record("pset", x, y, c) }
func (f fakeRaster) Print(s string, x, y, c int32) { f.record("print", s, x, y, c) }
func (f fakeRaster) Spr(n uint32, x, y int32, w, h uint32, fx, fy bool) {
	f.record("spr", n, x, y, w, h, fx, fy)
}
func (f fakeRaster) Sspr(sx, sy, sw, sh uint32, dx, dy int32, dw, dh uint32, fx, fy bool) {
	f.record("sspr", sx, sy, sw, sh, dx, dy, dw, dh, fx, fy)
}
func (f fakeRaster) Sspr2(sx, sy, sw, sh uint32, dx, dy int32, angle, zoom float64, fx, fy bool) {
	f.record("sspr2", sx, sy, sw, sh, dx, dy, angle, zoom, fx, fy)
}
func (f fakeRaster) Pal(c0, c1 int32)             { f.record("pal", c0, c1) }
func (f fakeRaster) Circ(x, y, r, c int32)        { f.record("circ", x, y, r, c) }
func (f fakeRaster) CircFill(x, y, r, c int32)    { f.record("circfill", x, y, r, c) }
func (f fakeRaster) Line(x1, y1, x2, y2, c int32) { f.record("line", x1, y1, x2, y2, c) }

type fakeMixer struct{ *recorder }

func (f fakeMixer) Music(id int32, file string, ch, loops, start int32) {
	f.record("music", id, file, ch, loops, start)
}
func (f fakeMixer) Sfx(id int32, file string, ch int32, note uint16, pan, rate, loops int32) {
	f.record("sfx", id, file, ch, note, pan, rate, loops)
}

type fakeInput struct {
	*recorder
	pressed map[[2]uint8]bool
}

func (f fakeInput) Btnp(player, button uint8) bool {
	f.record("btnp", player, button)
	return f.pressed[[2]uint8{player, button}]
}

type fakeClock struct {
	*recorder
	now float64
}

func (f fakeClock) Elapsed() float64 {
	f.record("elapsed")
	return f.now
}

// rig bundles fakes behind real handles.
type rig struct {
	raster, mixer, input, clock *recorder
	res                         Resources
}

func newRig() *rig {
	r := &rig{raster: &recorder{}, mixer: &recorder{}, input: &recorder{}, clock: &recorder{}}
	r.res = Resources{
		Screen:  core.NewHandle[Raster](fakeRaster{r.raster}),
		Sound:   core.NewHandle[Mixer](fakeMixer{r.mixer}),
		Players: core.NewHandle[Input](fakeInput{recorder: r.input, pressed: map[[2]uint8]bool{{1, 4}: true}}),
		Info:    core.NewHandle[Clock](fakeClock{recorder: r.clock, now: 12.5}),
	}
	return r
}

// locked reports, for each handle, whether it is currently held.
func (r *rig) locked() [4]bool {
	held := func(try func() bool, release func()) bool {
		if try() {
			release()
			return false
		}
		return true
	}
	return [4]bool{
		held(r.res.Screen.TryLock, r.res.Screen.Unlock),
		held(r.res.Sound.TryLock, r.res.Sound.Unlock),
		held(r.res.Players.TryLock, r.res.Players.Unlock),
		held(r.res.Info.TryLock, r.res.Info.Unlock),
	}
}

// fakeInterp is an in-memory Interpreter. Eval understands a tiny command
// language: "fail" fails, "def <hook>..." defines hooks, "call name arg..."
// is recorded for the hooks to replay.
type fakeInterp struct {
	bound   map[string]Opcode
	disp    Dispatcher
	hooks   map[string]bool
	failing map[string]bool
	calls   []string
	closed  bool
	bindErr error
}

func newFakeInterp() *fakeInterp {
	return &fakeInterp{bound: map[string]Opcode{}, hooks: map[string]bool{}, failing: map[string]bool{}}
}

func (f *fakeInterp) Name() string { return "fake" }

func (f *fakeInterp) Bind(op Opcode, name string, arity int, d Dispatcher) error {
	if f.bindErr != nil {
		return f.bindErr
	}
	f.bound[name] = op
	f.disp = d
	return nil
}

func (f *fakeInterp) Eval(src string) error {
	fields := strings.Fields(src)
	if len(fields) == 0 || fields[0] == "fail" {
		return fmt.Errorf("syntax error")
	}
	f.hooks = map[string]bool{}
	f.failing = map[string]bool{}
	for _, w := range fields[1:] {
		if strings.HasPrefix(w, "!") {
			f.hooks[w[1:]] = true
			f.failing[w[1:]] = true
			continue
		}
		f.hooks[w] = true
	}
	return nil
}

func (f *fakeInterp) Call(hook string) error {
	f.calls = append(f.calls, hook)
	if !f.hooks[hook] {
		return fmt.Errorf("%s is not defined", hook)
	}
	if f.failing[hook] {
		return fmt.Errorf("%s: runtime error", hook)
	}
	return nil
}

func (f *fakeInterp) Close() error {
	f.closed = true
	return nil
}

// invoke simulates script code calling a bound global.
func (f *fakeInterp) invoke(name string, args ...Value) Value {
	raw := append([]Value{Number(float64(f.bound[name]))}, args...)
	return f.disp.Dispatch(raw)
}
