package tilemap

import (
	"slices"
)

// TileUpdate is one tile whose displayed value changed this frame.
type TileUpdate struct {
	Layer     int     `json:"layer"`
	SubBuffer int     `json:"sub"`
	X         int     `json:"x"` // caller coordinate, top-left origin
	Y         int     `json:"y"`
	Chunk     ChunkID `json:"chunk"`
	Cell      Cell    `json:"cell"`
}

// differ brings a Display in line with a TileBuffer. Its scratch space is
// reused across frames.
type differ struct {
	marked []bool
	dirty  []ChunkID
}

// sweep visits every displayed tile once, rewrites the ones whose cell changed
// and flags each touched chunk exactly once. Updates are appended to updates;
// the returned dirty list is sorted and owned by the differ until the next
// sweep.
func (df *differ) sweep(d *Display, buf *TileBuffer, updates []TileUpdate) ([]TileUpdate, []ChunkID) {
	if len(df.marked) != len(d.chunks) {
		df.marked = make([]bool, len(d.chunks))
	}
	df.dirty = df.dirty[:0]

	for i := range d.tiles {
		t := &d.tiles[i]
		want := buf.subs[t.Data.SubBuffer][t.Data.Index]
		if t.Glyph == want.Glyph && t.Color == want.Color {
			continue
		}
		t.Glyph = want.Glyph
		t.Color = want.Color
		if !df.marked[t.Data.Chunk] {
			df.marked[t.Data.Chunk] = true
			df.dirty = append(df.dirty, t.Data.Chunk)
		}
		h := buf.sizes[t.Data.SubBuffer].H
		updates = append(updates, TileUpdate{
			Layer:     t.Data.SubBuffer / 2,
			SubBuffer: t.Data.SubBuffer,
			X:         t.Pos.X,
			Y:         h - 1 - t.Pos.Y,
			Chunk:     t.Data.Chunk,
			Cell:      want,
		})
	}

	for _, id := range df.dirty {
		df.marked[id] = false
		c := &d.chunks[id]
		c.NeedsRemesh = true
		c.Remeshes++
	}
	slices.Sort(df.dirty)
	return updates, df.dirty
}
