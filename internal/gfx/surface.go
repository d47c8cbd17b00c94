// Package gfx implements the console's raster surface: an indexed-color pixel
// buffer with a text glyph layer, a sprite sheet and a draw palette.
//
// All coordinates are in pixels, one pixel per terminal cell. Color arguments
// of -1 mean "use the current pen color"; any other color sets the pen.
package gfx

import (
	"math"
	"math/bits"

	"github.com/vovakirdan/tui-cart/internal/core"
)

// Sprite sheet geometry.
const (
	SheetSize  = 128 // Sheet width and height in pixels
	SpriteSize = 8   // Sprite width and height in pixels
	sheetCols  = SheetSize / SpriteSize
)

// DefaultPen is the pen color after boot and after Cls.
const DefaultPen = core.ColorLightGray

// Surface is the raster subsystem shared between the engine and carts.
// It is not safe for concurrent use; share it through a core.Handle.
type Surface struct {
	width, height int
	bounds        core.Rect
	pixels        []core.Color
	glyphs        []rune
	glyphColors   []core.Color
	sheet         []core.Color
	pal           [core.PaletteSize]core.Color
	pen           core.Color
}

// NewSurface creates a cleared surface of the given size.
func NewSurface(width, height int) *Surface {
	s := &Surface{
		width:       width,
		height:      height,
		bounds:      core.NewRect(0, 0, width, height),
		pixels:      make([]core.Color, width*height),
		glyphs:      make([]rune, width*height),
		glyphColors: make([]core.Color, width*height),
		sheet:       make([]core.Color, SheetSize*SheetSize),
		pen:         DefaultPen,
	}
	s.resetPalette()
	return s
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.width }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.height }

// Bounds returns the drawable area.
func (s *Surface) Bounds() core.Rect { return s.bounds }

// Pixel returns the color at (x, y), or 0 outside the surface.
func (s *Surface) Pixel(x, y int) core.Color {
	if !s.inside(x, y) {
		return 0
	}
	return s.pixels[y*s.width+x]
}

// Glyph returns the printed rune at (x, y), or 0 when no text covers it.
func (s *Surface) Glyph(x, y int) rune {
	if !s.inside(x, y) {
		return 0
	}
	return s.glyphs[y*s.width+x]
}

// Pen returns the current pen color.
func (s *Surface) Pen() core.Color { return s.pen }

// SetSheetPixel writes one pixel of the sprite sheet.
func (s *Surface) SetSheetPixel(x, y int, c core.Color) {
	if x < 0 || x >= SheetSize || y < 0 || y >= SheetSize || !c.Valid() {
		return
	}
	s.sheet[y*SheetSize+x] = c
}

// SheetPixel returns one pixel of the sprite sheet, or 0 outside it.
func (s *Surface) SheetPixel(x, y int) core.Color {
	if x < 0 || x >= SheetSize || y < 0 || y >= SheetSize {
		return 0
	}
	return s.sheet[y*SheetSize+x]
}

// LoadSheet fills the sprite sheet from rows of hex digits; '.' and any
// non-hex rune leave the pixel transparent.
func (s *Surface) LoadSheet(rows []string) {
	for y, row := range rows {
		x := 0
		for _, r := range row {
			s.SetSheetPixel(x, y, hexColor(r))
			x++
		}
	}
}

func hexColor(r rune) core.Color {
	switch {
	case r >= '0' && r <= '9':
		return core.Color(r - '0')
	case r >= 'a' && r <= 'f':
		return core.Color(r-'a') + 10
	case r >= 'A' && r <= 'F':
		return core.Color(r-'A') + 10
	default:
		return 0
	}
}

// Cls clears pixels and text. A negative value clears to color 0.
func (s *Surface) Cls(value int8) {
	c := core.Color(0)
	if value >= 0 {
		c = core.Color(value) % core.PaletteSize
	}
	for i := range s.pixels {
		s.pixels[i] = c
		s.glyphs[i] = 0
	}
	s.pen = DefaultPen
}

// PSet sets one pixel.
func (s *Surface) PSet(x, y, color int32) {
	s.plot(int(x), int(y), s.ink(color))
}

// Print writes text on the glyph layer starting at (x, y).
func (s *Surface) Print(text string, x, y, color int32) {
	c := s.ink(color)
	i := 0
	for _, r := range text {
		px, py := int(x)+i, int(y)
		i++
		if !s.inside(px, py) {
			continue
		}
		idx := py*s.width + px
		s.glyphs[idx] = r
		s.glyphColors[idx] = c
	}
}

// Spr draws w×h sprites starting at sprite index n of the sheet at (x, y).
func (s *Surface) Spr(n uint32, x, y int32, w, h uint32, flipX, flipY bool) {
	sx := int(n%sheetCols) * SpriteSize
	sy := int(n/sheetCols) * SpriteSize
	sw, sh := int(w)*SpriteSize, int(h)*SpriteSize
	s.blit(sx, sy, sw, sh, int(x), int(y), sw, sh, flipX, flipY)
}

// Sspr draws a sheet region scaled to dw×dh at (dx, dy).
func (s *Surface) Sspr(sx, sy, sw, sh uint32, dx, dy int32, dw, dh uint32, flipX, flipY bool) {
	s.blit(int(sx), int(sy), int(sw), int(sh), int(dx), int(dy), int(dw), int(dh), flipX, flipY)
}

// Sspr2 draws a sheet region rotated by angle degrees about its center and
// scaled by zoom, with the center placed at (dx + sw*zoom/2, dy + sh*zoom/2).
func (s *Surface) Sspr2(sx, sy, sw, sh uint32, dx, dy int32, angle, zoom float64, flipX, flipY bool) {
	if sw == 0 || sh == 0 || zoom <= 0 || math.IsNaN(zoom) || math.IsNaN(angle) {
		return
	}
	w, h := float64(sw)*zoom, float64(sh)*zoom
	cx, cy := float64(dx)+w/2, float64(dy)+h/2
	rad := angle * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	half := math.Hypot(w, h) / 2

	if s.bounds.Empty() {
		return
	}
	y0 := core.Clamp(int(math.Floor(cy-half)), 0, s.height-1)
	y1 := core.Clamp(int(math.Ceil(cy+half)), 0, s.height-1)
	x0 := core.Clamp(int(math.Floor(cx-half)), 0, s.width-1)
	x1 := core.Clamp(int(math.Ceil(cx+half)), 0, s.width-1)
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			// Inverse-rotate the destination pixel center into source space.
			ox, oy := float64(px)+0.5-cx, float64(py)+0.5-cy
			u := (ox*cos+oy*sin)/zoom + float64(sw)/2
			v := (-ox*sin+oy*cos)/zoom + float64(sh)/2
			if u < 0 || v < 0 || u >= float64(sw) || v >= float64(sh) {
				continue
			}
			iu, iv := int(u), int(v)
			if flipX {
				iu = int(sw) - 1 - iu
			}
			if flipY {
				iv = int(sh) - 1 - iv
			}
			s.plotSprite(px, py, s.SheetPixel(int(sx)+iu, int(sy)+iv))
		}
	}
}

// Pal remaps draw color c0 to c1. Pal(-1, -1) restores the identity palette.
func (s *Surface) Pal(c0, c1 int32) {
	if c0 < 0 && c1 < 0 {
		s.resetPalette()
		return
	}
	if c0 < 0 || c0 >= core.PaletteSize || c1 < 0 || c1 >= core.PaletteSize {
		return
	}
	s.pal[c0] = core.Color(c1)
}

// Circ draws a circle outline. On each row it fills the gap to the next
// row's extent so the outline stays connected.
func (s *Surface) Circ(x, y, r, color int32) {
	c := s.ink(color)
	cx := int64(x)
	s.circleRows(cx, int64(y), int64(r), func(py int, w, inner int64) {
		from := min(inner+1, w)
		s.hline(cx-w, cx-from, py, c)
		s.hline(cx+from, cx+w, py, c)
	})
}

// CircFill draws a filled circle.
func (s *Surface) CircFill(x, y, r, color int32) {
	c := s.ink(color)
	cx := int64(x)
	s.circleRows(cx, int64(y), int64(r), func(py int, w, _ int64) {
		s.hline(cx-w, cx+w, py, c)
	})
}

// Line draws a line between two points inclusive. Only the part of the
// segment that crosses the surface is walked.
func (s *Surface) Line(x1, y1, x2, y2, color int32) {
	c := s.ink(color)
	x, y, ex, ey, ok := s.clipLine(float64(x1), float64(y1), float64(x2), float64(y2))
	if !ok {
		return
	}
	dx, dy := core.Abs(ex-x), -core.Abs(ey-y)
	stepX, stepY := 1, 1
	if x > ex {
		stepX = -1
	}
	if y > ey {
		stepY = -1
	}
	err := dx + dy
	for {
		s.plot(x, y, c)
		if x == ex && y == ey {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += stepX
		}
		if e2 <= dx {
			err += dx
			y += stepY
		}
	}
}

// Blit copies the surface into dst with its top-left corner at (ox, oy).
// Printed text wins over pixels; color 0 pixels render as blank cells.
func (s *Surface) Blit(dst *core.Screen, ox, oy int) {
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			idx := y*s.width + x
			switch {
			case s.glyphs[idx] != 0:
				dst.SetCell(ox+x, oy+y, core.Cell{Rune: s.glyphs[idx], Color: s.glyphColors[idx]})
			case s.pixels[idx] != 0:
				dst.SetCell(ox+x, oy+y, core.Cell{Rune: '█', Color: s.pixels[idx]})
			default:
				dst.SetCell(ox+x, oy+y, core.Cell{Rune: ' ', Color: core.ColorBlack})
			}
		}
	}
}

// ink resolves a color argument through the pen and the draw palette.
func (s *Surface) ink(color int32) core.Color {
	if color >= 0 {
		s.pen = core.Color(color % core.PaletteSize)
	}
	return s.pal[s.pen]
}

func (s *Surface) resetPalette() {
	for i := range s.pal {
		s.pal[i] = core.Color(i)
	}
}

func (s *Surface) inside(x, y int) bool {
	return s.bounds.Contains(x, y)
}

func (s *Surface) plot(x, y int, c core.Color) {
	if !s.inside(x, y) {
		return
	}
	s.pixels[y*s.width+x] = c
}

// plotSprite draws a sheet color through the palette; color 0 is transparent.
func (s *Surface) plotSprite(x, y int, c core.Color) {
	if c == 0 {
		return
	}
	s.plot(x, y, s.pal[c])
}

// hline fills row y from x0 to x1 inclusive, clipped to the surface.
func (s *Surface) hline(x0, x1 int64, y int, c core.Color) {
	if y < 0 || y >= s.height {
		return
	}
	x0 = max(x0, 0)
	x1 = min(x1, int64(s.width)-1)
	row := s.pixels[y*s.width:]
	for x := x0; x <= x1; x++ {
		row[x] = c
	}
}

// blit scales the sheet region (sx, sy, sw, sh) onto (dx, dy, dw, dh),
// visiting only destination pixels on the surface.
func (s *Surface) blit(sx, sy, sw, sh, dx, dy, dw, dh int, flipX, flipY bool) {
	if core.NewRect(sx, sy, sw, sh).Empty() || core.NewRect(dx, dy, dw, dh).Empty() {
		return
	}
	x0, x1 := max(dx, 0), min(dx+dw, s.width)
	y0, y1 := max(dy, 0), min(dy+dh, s.height)
	for py := y0; py < y1; py++ {
		v := scale(py-dy, sh, dh)
		if flipY {
			v = sh - 1 - v
		}
		for px := x0; px < x1; px++ {
			u := scale(px-dx, sw, dw)
			if flipX {
				u = sw - 1 - u
			}
			s.plotSprite(px, py, s.SheetPixel(sx+u, sy+v))
		}
	}
}

// scale maps offset i of a span n long onto a span m long: i*m/n, computed
// in 128 bits. Requires 0 <= i < n.
func scale(i, m, n int) int {
	hi, lo := bits.Mul64(uint64(i), uint64(m))
	q, _ := bits.Div64(hi, lo, uint64(n))
	return int(q)
}

// clipLine clips a segment to the surface (Liang-Barsky against the pixel
// edges) and returns the rounded endpoints of what remains.
func (s *Surface) clipLine(x1, y1, x2, y2 float64) (ax, ay, bx, by int, ok bool) {
	dx, dy := x2-x1, y2-y1
	t0, t1 := 0.0, 1.0
	for _, e := range [4][2]float64{
		{-dx, x1 + 0.5},
		{dx, float64(s.width) - 0.5 - x1},
		{-dy, y1 + 0.5},
		{dy, float64(s.height) - 0.5 - y1},
	} {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = max(t0, t)
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = min(t1, t)
		}
	}
	round := func(v float64) int { return int(math.Round(v)) }
	return round(x1 + t0*dx), round(y1 + t0*dy), round(x1 + t1*dx), round(y1 + t1*dy), true
}

// circleRows calls row for every surface row a circle of radius r covers,
// with the circle's half-width on that row and on the next row outward
// (-1 on the outermost rows).
func (s *Surface) circleRows(cx, cy, r int64, row func(y int, w, inner int64)) {
	if r < 0 || cx+r < 0 || cx-r >= int64(s.width) || cy+r < 0 || cy-r >= int64(s.height) {
		return
	}
	for y := max(cy-r, 0); y <= min(cy+r, int64(s.height)-1); y++ {
		dy := y - cy
		if dy < 0 {
			dy = -dy
		}
		inner := int64(-1)
		if dy < r {
			inner = halfWidth(r, dy+1)
		}
		row(int(y), halfWidth(r, dy), inner)
	}
}

// halfWidth is a circle's half extent dy rows from its center, measured
// against radius r+1/2 so small circles come out round.
func halfWidth(r, dy int64) int64 {
	return isqrt(r*r + r - dy*dy)
}

func isqrt(n int64) int64 {
	if n <= 0 {
		return 0
	}
	x := int64(math.Sqrt(float64(n)))
	for x*x > n {
		x--
	}
	for (x+1)*(x+1) <= n {
		x++
	}
	return x
}
