package cart

import (
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-cart/internal/core"
	"github.com/vovakirdan/tui-cart/internal/registry"
	"github.com/vovakirdan/tui-cart/internal/script"
)

func boot(t *testing.T, lang script.Language, code string, opts ...Option) *Game {
	t.Helper()
	g := NewGame(&Cart{ID: "test", Title: "Test", Language: lang, Code: []byte(code)}, opts...)
	g.Reset(core.RuntimeConfig{ScreenW: 20, ScreenH: 6, TickRate: 30})
	t.Cleanup(func() { g.Close() })
	return g
}

func render(g *Game) *core.Screen {
	s := core.NewScreen(20, 6)
	g.Render(s)
	return s
}

func TestGameDrawsThroughBridge(t *testing.T) {
	g := boot(t, script.Lua, `
function _update() end
function _draw()
  cls(0)
  pset(1, 1, 8)
  print("hi", 3, 0, 7)
  if btnp(4) then print("A", 0, 5) end
end`)
	if err := g.Err(); err != nil {
		t.Fatalf("boot failed: %v", err)
	}

	in := core.NewInputFrame()
	in.Press(0, core.ButtonA)
	g.Step(in)

	s := render(g)
	if c := s.GetCell(1, 1); c.Rune != '█' || c.Color != core.ColorRed {
		t.Errorf("pixel cell = %+v, expected red block", c)
	}
	if !strings.HasPrefix(s.Row(0)[3:], "hi") {
		t.Errorf("row 0 = %q, expected text at x=3", s.Row(0))
	}
	if s.Get(0, 5) != 'A' {
		t.Errorf("btnp(4) not seen by the cart: row 5 = %q", s.Row(5))
	}

	g.Step(core.NewInputFrame())
	if s := render(g); s.Get(0, 5) == 'A' {
		t.Error("button should only be pressed for one frame")
	}
}

func TestGameUpdateRunsBeforeDraw(t *testing.T) {
	g := boot(t, script.JS, `
function _update() { pset(0, 0, 8); }
function _draw() { cls(); }`)

	g.Step(core.NewInputFrame())
	if c := render(g).GetCell(0, 0); c.Rune != ' ' {
		t.Errorf("draw should clear what update plotted, got %+v", c)
	}
}

func TestGameLoadFailure(t *testing.T) {
	g := boot(t, script.JS, "function (")

	if g.Err() == nil {
		t.Fatal("expected a boot error")
	}
	g.Step(core.NewInputFrame())
	st := g.Stats()
	if st.Loaded || st.Frames != 0 {
		t.Errorf("stats = %+v, expected unloaded with no frames", st)
	}
	if !strings.Contains(render(g).String(), "CART FAILED TO BOOT") {
		t.Error("expected an error banner")
	}
}

func TestGameCountsHookErrors(t *testing.T) {
	g := boot(t, script.Lua, `
function _update() error("boom") end
function _draw() end`)

	for i := 0; i < 3; i++ {
		g.Step(core.NewInputFrame())
	}
	st := g.Stats()
	if !st.Loaded || st.Frames != 3 || st.HookErrors != 3 {
		t.Errorf("stats = %+v, expected 3 frames and 3 hook errors", st)
	}
	if g.State().Score != 3 {
		t.Errorf("score = %d, expected frame count", g.State().Score)
	}
}

func TestGameClockAndSound(t *testing.T) {
	start := time.Unix(1000, 0)
	now := start
	g := boot(t, script.JS, `
function _init() { sfx(3, "a.wav"); music(1, "m.ogg", 2, 0, 5); }
function _draw() { cls(); print("" + unicorn_time(), 0, 0); }`,
		WithTimeSource(func() time.Time { return now }),
		WithChannels(6),
	)

	now = start.Add(2500 * time.Millisecond)
	g.Step(core.NewInputFrame())
	if row := render(g).Row(0); !strings.HasPrefix(row, "2.5") {
		t.Errorf("row 0 = %q, expected elapsed time 2.5", row)
	}

	voices := g.Voices()
	if len(voices) != 2 {
		t.Fatalf("voices = %+v, expected sfx and music", voices)
	}
	byID := map[int32]int{}
	for _, v := range voices {
		byID[v.ID] = v.Channel
	}
	if byID[1] != 5 {
		t.Errorf("music channel = %d, expected 5", byID[1])
	}
	if _, ok := byID[3]; !ok {
		t.Error("sfx 3 not playing")
	}
}

func TestGamePause(t *testing.T) {
	g := boot(t, script.Lua, "function _update() end function _draw() end")

	in := core.NewInputFrame()
	in.Set(core.ActionPause)
	res := g.Step(in)
	if !res.State.Paused {
		t.Fatal("expected paused state")
	}
	g.Step(core.NewInputFrame())
	if g.Stats().Frames != 0 {
		t.Errorf("frames advanced while paused: %d", g.Stats().Frames)
	}

	g.Step(in)
	g.Step(core.NewInputFrame())
	if g.Stats().Frames != 2 {
		t.Errorf("frames = %d after unpausing, expected 2", g.Stats().Frames)
	}
}

func TestGameResetReboots(t *testing.T) {
	g := boot(t, script.Lua, "n = 0 function _update() n = n + 1 end function _draw() end")
	g.Step(core.NewInputFrame())
	g.Reset(core.RuntimeConfig{ScreenW: 20, ScreenH: 6})
	if g.Stats().Frames != 0 || g.Err() != nil {
		t.Errorf("reset should start a fresh boot: %+v, %v", g.Stats(), g.Err())
	}
}

func TestBuiltinCartsRun(t *testing.T) {
	for _, id := range []string{"hello-lua", "hello-js"} {
		t.Run(id, func(t *testing.T) {
			if !registry.Exists(id) {
				t.Fatalf("%s not registered", id)
			}
			game, err := registry.Create(id)
			if err != nil {
				t.Fatal(err)
			}
			g := game.(*Game)
			defer g.Close()

			g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 30})
			if err := g.Err(); err != nil {
				t.Fatalf("boot: %v", err)
			}
			for i := 0; i < 60; i++ {
				in := core.NewInputFrame()
				in.Press(i%2, core.Button(i%core.ButtonCount))
				g.Step(in)
			}
			if st := g.Stats(); st.HookErrors != 0 || st.Frames != 60 {
				t.Errorf("stats = %+v", st)
			}
			if !strings.Contains(render(g).String(), "hello") {
				t.Error("builtin cart did not print its greeting")
			}
		})
	}
}

func TestSnakeCartCrashAndRestart(t *testing.T) {
	game, err := registry.Create("snake-lua")
	if err != nil {
		t.Fatal(err)
	}
	g := game.(*Game)
	defer g.Close()

	g.Reset(core.RuntimeConfig{ScreenW: 40, ScreenH: 24, TickRate: 30})
	if err := g.Err(); err != nil {
		t.Fatalf("boot: %v", err)
	}

	screen := func() string {
		s := core.NewScreen(40, 24)
		g.Render(s)
		return s.String()
	}
	if !strings.Contains(screen(), "score 0") {
		t.Fatalf("missing score line:\n%s", screen())
	}

	up := core.NewInputFrame()
	up.Press(0, core.ButtonUp)
	g.Step(up)
	for range 60 {
		g.Step(core.NewInputFrame())
	}
	if !strings.Contains(screen(), "game over") {
		t.Fatalf("snake should hit the top wall:\n%s", screen())
	}

	again := core.NewInputFrame()
	again.Press(0, core.ButtonB)
	g.Step(again)
	if strings.Contains(screen(), "game over") {
		t.Error("B should restart the round")
	}
	if st := g.Stats(); st.HookErrors != 0 {
		t.Errorf("hook errors = %d", st.HookErrors)
	}
}
