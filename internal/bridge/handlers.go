package bridge

import "github.com/vovakirdan/tui-cart/internal/sound"

// Entries builds the host function table over res. Every handler marshals
// its arguments first and then holds exactly one handle's lock while it
// forwards the call.
func Entries(res Resources) []Entry {
	screen, mixer, players, info := res.Screen, res.Sound, res.Players, res.Info

	draw := func(fn func(Raster)) Value {
		screen.With(fn)
		return neutral
	}

	return []Entry{
		{Op: OpPset, Name: "pset", Arity: 3, Handler: func(a Args) Value {
			x, y, c := a.Int32(0, -1), a.Int32(1, -1), a.Int32(2, -1)
			return draw(func(r Raster) { r.PSet(x, y, c) })
		}},
		{Op: OpCls, Name: "cls", Arity: 1, Handler: func(a Args) Value {
			v := a.Int8(0, -1)
			return draw(func(r Raster) { r.Cls(v) })
		}},
		{Op: OpUnicornTime, Name: "unicorn_time", Arity: 0, Handler: func(Args) Value {
			var t float64
			info.With(func(c Clock) { t = c.Elapsed() })
			return Number(t)
		}},
		{Op: OpPrint, Name: "print", Arity: 4, Handler: func(a Args) Value {
			if a.Len() < 3 {
				return rejected
			}
			text, x, y, c := a.String(0, ""), a.Int32(1, 0), a.Int32(2, 0), a.Int32(3, -1)
			return draw(func(r Raster) { r.Print(text, x, y, c) })
		}},
		{Op: OpSpr, Name: "spr", Arity: 7, Handler: func(a Args) Value {
			n := a.Uint32(0, 0)
			x, y := a.Int32(1, 0), a.Int32(2, 0)
			w, h := a.Uint32(3, 1), a.Uint32(4, 1)
			fx, fy := a.Bool(5, false), a.Bool(6, false)
			return draw(func(r Raster) { r.Spr(n, x, y, w, h, fx, fy) })
		}},
		{Op: OpBtnp, Name: "btnp", Arity: 2, Handler: func(a Args) Value {
			button, player := a.Uint8(0, 0), a.Uint8(1, 0)
			var pressed bool
			players.With(func(in Input) { pressed = in.Btnp(player, button) })
			return Bool(pressed)
		}},
		{Op: OpSspr, Name: "sspr", Arity: 10, Handler: func(a Args) Value {
			sx, sy := a.Uint32(0, 0), a.Uint32(1, 0)
			sw, sh := a.Uint32(2, 0), a.Uint32(3, 0)
			dx, dy := a.Int32(4, 0), a.Int32(5, 0)
			dw, dh := a.Uint32(6, sw), a.Uint32(7, sh)
			fx, fy := a.Bool(8, false), a.Bool(9, false)
			return draw(func(r Raster) { r.Sspr(sx, sy, sw, sh, dx, dy, dw, dh, fx, fy) })
		}},
		{Op: OpPal, Name: "pal", Arity: 2, Handler: func(a Args) Value {
			c0, c1 := a.Int32(0, -1), a.Int32(1, -1)
			return draw(func(r Raster) { r.Pal(c0, c1) })
		}},
		{Op: OpSfx, Name: "sfx", Arity: 7, Handler: func(a Args) Value {
			id, file := a.Int32(0, -1), a.String(1, "")
			note := a.Uint16(2, sound.DefaultNote)
			pan, rate := a.Int32(3, sound.DefaultPanning), a.Int32(4, sound.DefaultRate)
			loops, ch := a.Int32(5, 0), a.Int32(6, -1)
			mixer.With(func(m Mixer) { m.Sfx(id, file, ch, note, pan, rate, loops) })
			return neutral
		}},
		{Op: OpMusic, Name: "music", Arity: 5, Handler: func(a Args) Value {
			id, file := a.Int32(0, -1), a.String(1, "")
			loops, start, ch := a.Int32(2, 0), a.Int32(3, 0), a.Int32(4, -1)
			mixer.With(func(m Mixer) { m.Music(id, file, ch, loops, start) })
			return neutral
		}},
		{Op: OpCirc, Name: "circ", Arity: 4, Handler: func(a Args) Value {
			x, y, rad, c := a.Int32(0, -1), a.Int32(1, -1), a.Int32(2, -1), a.Int32(3, -1)
			return draw(func(r Raster) { r.Circ(x, y, rad, c) })
		}},
		{Op: OpCircfill, Name: "circfill", Arity: 4, Handler: func(a Args) Value {
			x, y, rad, c := a.Int32(0, -1), a.Int32(1, -1), a.Int32(2, -1), a.Int32(3, -1)
			return draw(func(r Raster) { r.CircFill(x, y, rad, c) })
		}},
		{Op: OpLine, Name: "line", Arity: 5, Handler: func(a Args) Value {
			x1, y1 := a.Int32(0, -1), a.Int32(1, -1)
			x2, y2 := a.Int32(2, -1), a.Int32(3, -1)
			c := a.Int32(4, -1)
			return draw(func(r Raster) { r.Line(x1, y1, x2, y2, c) })
		}},
		{Op: OpSspr2, Name: "sspr2", Arity: 10, Handler: func(a Args) Value {
			sx, sy := a.Uint32(0, 0), a.Uint32(1, 0)
			sw, sh := a.Uint32(2, 0), a.Uint32(3, 0)
			dx, dy := a.Int32(4, 0), a.Int32(5, 0)
			angle, zoom := a.Float64(6, 0), a.Float64(7, 1)
			fx, fy := a.Bool(8, false), a.Bool(9, false)
			return draw(func(r Raster) { r.Sspr2(sx, sy, sw, sh, dx, dy, angle, zoom, fx, fy) })
		}},
	}
}
