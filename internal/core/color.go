package core

// Color is an index into the console's fixed 16-entry palette.
// Index 0 doubles as the transparent color for sprite blits.
type Color uint8

// Palette entries.
const (
	ColorBlack Color = iota
	ColorDarkBlue
	ColorDarkPurple
	ColorDarkGreen
	ColorBrown
	ColorDarkGray
	ColorLightGray
	ColorWhite
	ColorRed
	ColorOrange
	ColorYellow
	ColorGreen
	ColorBlue
	ColorIndigo
	ColorPink
	ColorPeach
)

// PaletteSize is the number of addressable colors.
const PaletteSize = 16

// Valid reports whether c addresses a palette entry.
func (c Color) Valid() bool {
	return c < PaletteSize
}
