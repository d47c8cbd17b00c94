package bridge

import "github.com/vovakirdan/tui-cart/internal/core"

// Raster is the drawing surface host calls render into.
type Raster interface {
	Cls(value int8)
	PSet(x, y, color int32)
	Print(text string, x, y, color int32)
	Spr(n uint32, x, y int32, w, h uint32, flipX, flipY bool)
	Sspr(sx, sy, sw, sh uint32, dx, dy int32, dw, dh uint32, flipX, flipY bool)
	Sspr2(sx, sy, sw, sh uint32, dx, dy int32, angle, zoom float64, flipX, flipY bool)
	Pal(c0, c1 int32)
	Circ(x, y, r, color int32)
	CircFill(x, y, r, color int32)
	Line(x1, y1, x2, y2, color int32)
}

// Mixer plays music and sound effects.
type Mixer interface {
	Music(id int32, filename string, channel, loops, startPosition int32)
	Sfx(id int32, filename string, channel int32, note uint16, panning, rate, loops int32)
}

// Input answers per-frame button queries.
type Input interface {
	Btnp(player, button uint8) bool
}

// Clock reports seconds elapsed since the console started.
type Clock interface {
	Elapsed() float64
}

// Resources are the shared engine subsystems a bridge is wired to.
// Each one sits behind its own lock.
type Resources struct {
	Screen  core.Handle[Raster]
	Sound   core.Handle[Mixer]
	Players core.Handle[Input]
	Info    core.Handle[Clock]
}

// Valid reports whether every handle was built with core.NewHandle.
func (r Resources) Valid() bool {
	return r.Screen.Valid() && r.Sound.Valid() && r.Players.Valid() && r.Info.Valid()
}

// Clone returns a copy holding cloned handles.
func (r Resources) Clone() Resources {
	return Resources{
		Screen:  r.Screen.Clone(),
		Sound:   r.Sound.Clone(),
		Players: r.Players.Clone(),
		Info:    r.Info.Clone(),
	}
}
