package tilemap

// TileBuffer is the authoritative post-command state: one slice of cells per
// sub-buffer, indexed by sub-buffer id. Cells are stored row-major with the
// origin at the bottom-left.
type TileBuffer struct {
	subs  [][]Cell
	sizes []Size
}

// NewTileBuffer allocates two sub-buffers per layer, every cell set to
// DefaultCell.
func NewTileBuffer(layers []*Layer) *TileBuffer {
	b := &TileBuffer{
		subs:  make([][]Cell, len(layers)*2),
		sizes: make([]Size, len(layers)*2),
	}
	for _, l := range layers {
		for _, id := range [2]int{l.BackgroundID(), l.ForegroundID()} {
			cells := make([]Cell, l.Size().Area())
			for i := range cells {
				cells[i] = DefaultCell
			}
			b.subs[id] = cells
			b.sizes[id] = l.Size()
		}
	}
	return b
}

// Len returns the number of sub-buffers.
func (b *TileBuffer) Len() int {
	return len(b.subs)
}

// SubBuffer returns the cells of sub-buffer id. The slice aliases the buffer.
func (b *TileBuffer) SubBuffer(id int) []Cell {
	return b.subs[id]
}

// Size returns the extent of sub-buffer id.
func (b *TileBuffer) Size(id int) Size {
	return b.sizes[id]
}

// At returns the cell at stored coordinate (x, y), bottom-left origin.
func (b *TileBuffer) At(sub, x, y int) Cell {
	return b.subs[sub][y*b.sizes[sub].W+x]
}

// Cell returns the cell at caller coordinate (x, y), top-left origin.
func (b *TileBuffer) Cell(sub, x, y int) Cell {
	return b.At(sub, x, b.sizes[sub].H-1-y)
}

// Snapshot copies every sub-buffer.
func (b *TileBuffer) Snapshot() [][]Cell {
	out := make([][]Cell, len(b.subs))
	for i, cells := range b.subs {
		out[i] = append([]Cell(nil), cells...)
	}
	return out
}
