package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-cart/internal/core"
)

// paletteHex is the console palette in truecolor.
var paletteHex = [core.PaletteSize]string{
	core.ColorBlack:      "#000000",
	core.ColorDarkBlue:   "#1D2B53",
	core.ColorDarkPurple: "#7E2553",
	core.ColorDarkGreen:  "#008751",
	core.ColorBrown:      "#AB5236",
	core.ColorDarkGray:   "#5F574F",
	core.ColorLightGray:  "#C2C3C7",
	core.ColorWhite:      "#FFF1E8",
	core.ColorRed:        "#FF004D",
	core.ColorOrange:     "#FFA300",
	core.ColorYellow:     "#FFEC27",
	core.ColorGreen:      "#00E436",
	core.ColorBlue:       "#29ADFF",
	core.ColorIndigo:     "#83769C",
	core.ColorPink:       "#FF77A8",
	core.ColorPeach:      "#FFCCAA",
}

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = func() map[core.Color]lipgloss.Style {
	m := make(map[core.Color]lipgloss.Style, core.PaletteSize)
	for i, hex := range paletteHex {
		m[core.Color(i)] = lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
	}
	return m
}()

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorWhite]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
