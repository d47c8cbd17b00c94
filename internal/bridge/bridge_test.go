package bridge

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func loadedBridge(t *testing.T, src string) (*Bridge, *fakeInterp, *rig) {
	t.Helper()
	interp := newFakeInterp()
	r := newRig()
	b := New(interp)
	if err := b.Load(r.res); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if src != "" && !b.LoadCode(src) {
		t.Fatalf("LoadCode(%q) failed", src)
	}
	return b, interp, r
}

func TestLoadBindsEveryOpcode(t *testing.T) {
	b, interp, r := loadedBridge(t, "")

	if len(interp.bound) != 14 {
		t.Errorf("bound %d names, expected 14", len(interp.bound))
	}
	if b.Registry().Len() != 14 {
		t.Errorf("registry holds %d entries, expected 14", b.Registry().Len())
	}

	interp.invoke("pset", Number(4), Number(5), Number(6))
	if got := r.raster.last(); got != "pset(4, 5, 6)" {
		t.Errorf("pset forwarded %q", got)
	}
	if got := interp.invoke("btnp", Number(4), Number(1)); !got.Equal(Bool(true)) {
		t.Errorf("btnp = %#v, expected Bool(true)", got)
	}
}

func TestLoadTwice(t *testing.T) {
	b, _, r := loadedBridge(t, "")
	if err := b.Load(r.res); !errors.Is(err, ErrAlreadyWired) {
		t.Errorf("second Load error = %v, expected ErrAlreadyWired", err)
	}
}

func TestLoadRejectsZeroHandles(t *testing.T) {
	b := New(newFakeInterp())
	if err := b.Load(Resources{}); !errors.Is(err, ErrInvalidResources) {
		t.Errorf("Load(Resources{}) error = %v, expected ErrInvalidResources", err)
	}
}

func TestLoadPropagatesBindError(t *testing.T) {
	interp := newFakeInterp()
	interp.bindErr = errors.New("boom")
	b := New(interp)
	err := b.Load(newRig().res)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Load error = %v, expected bind failure", err)
	}
}

func TestLifecycleUnloaded(t *testing.T) {
	b, interp, _ := loadedBridge(t, "")

	if b.Loaded() {
		t.Fatal("fresh bridge should not be loaded")
	}
	b.Init()
	if b.Update() || b.Draw() {
		t.Error("Update/Draw should not be attempted while unloaded")
	}
	if len(interp.calls) != 0 {
		t.Errorf("hooks called while unloaded: %v", interp.calls)
	}
}

func TestLoadCodeFailureUnloads(t *testing.T) {
	var buf bytes.Buffer
	interp := newFakeInterp()
	b := New(interp, WithLogger(log.New(&buf)))
	if err := b.Load(newRig().res); err != nil {
		t.Fatal(err)
	}

	if !b.LoadCode("def _update _draw") || !b.Loaded() {
		t.Fatal("valid code should load")
	}
	if b.LoadCode("fail") {
		t.Error("LoadCode should report failure")
	}
	if b.Loaded() {
		t.Error("failed reload must clear the loaded flag")
	}
	if b.Err() == nil {
		t.Error("Err should hold the evaluation error")
	}
	if b.Update() {
		t.Error("Update attempted after failed reload")
	}
	if !strings.Contains(buf.String(), "script failed to load") {
		t.Errorf("expected a warning in the log, got %q", buf.String())
	}
	if s := b.Stats(); s.Loads != 2 || s.LoadErrors != 1 {
		t.Errorf("stats = %+v", s)
	}
}

func TestHooksRunInOrderAndSurviveFailures(t *testing.T) {
	b, interp, _ := loadedBridge(t, "def _init _update !_draw")

	b.Init()
	for i := 0; i < 3; i++ {
		if !b.Update() {
			t.Fatal("Update should be attempted")
		}
		if !b.Draw() {
			t.Fatal("Draw should be attempted even though it fails")
		}
	}

	want := []string{"_init", "_update", "_draw", "_update", "_draw", "_update", "_draw"}
	if strings.Join(interp.calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, expected %v", interp.calls, want)
	}
	if !b.Loaded() {
		t.Error("a failing hook must not unload the script")
	}
	s := b.Stats()
	if s.HookErrors != 3 || s.Updates != 3 || s.Draws != 3 {
		t.Errorf("stats = %+v", s)
	}
}

func TestMissingHookIsReportedNotFatal(t *testing.T) {
	b, _, _ := loadedBridge(t, "def _update")

	b.Init()
	if !b.Draw() {
		t.Error("Draw should be attempted")
	}
	if got := b.Stats().HookErrors; got != 2 {
		t.Errorf("HookErrors = %d, expected 2", got)
	}
}

func TestCloseUnloads(t *testing.T) {
	b, interp, _ := loadedBridge(t, "def _update")
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	if !interp.closed || b.Loaded() {
		t.Error("Close should close the interpreter and unload")
	}
}
