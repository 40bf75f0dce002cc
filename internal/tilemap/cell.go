package tilemap

import "github.com/vovakirdan/ascii-tilemap/internal/core"

// Cell is the smallest addressable unit of the TileBuffer.
type Cell struct {
	Color core.Color `json:"color"`
	Glyph Glyph      `json:"glyph"`
}

// DefaultCell is an invisible cell on black.
var DefaultCell = Cell{Color: core.ColorBlack, Glyph: GlyphNone}

// NewCell builds a cell.
func NewCell(color core.Color, glyph Glyph) Cell {
	return Cell{Color: color, Glyph: glyph}
}

// Visible reports whether the cell draws anything.
func (c Cell) Visible() bool {
	return c.Glyph != GlyphNone && c.Color.A != 0
}
