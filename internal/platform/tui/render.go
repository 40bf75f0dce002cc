package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/ascii-tilemap/internal/core"
)

// cellStyle returns the lipgloss style for a foreground/background pair.
// Alpha is dropped; lipgloss downsamples the hex colors to the terminal's
// profile.
func cellStyle(fg, bg core.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(termColor(fg)).
		Background(termColor(bg))
}

func termColor(c core.Color) lipgloss.Color {
	return lipgloss.Color(core.RGB(c.R, c.G, c.B).Hex())
}

// RenderScreen converts a composed Screen to a styled string for display.
// Groups adjacent cells with the same colors to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	styles := make(map[[2]core.Color]lipgloss.Style)

	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same colors for efficiency
		x := 0
		for x < s.Width() {
			start := s.GetCell(x, y)

			// Collect consecutive cells with same colors
			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Fg != start.Fg || cell.Bg != start.Bg {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			// Apply style to the run
			pair := [2]core.Color{start.Fg, start.Bg}
			style, ok := styles[pair]
			if !ok {
				style = cellStyle(start.Fg, start.Bg)
				styles[pair] = style
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
