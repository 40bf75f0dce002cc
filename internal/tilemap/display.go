package tilemap

import (
	"github.com/vovakirdan/ascii-tilemap/internal/core"
)

// ChunkID identifies a chunk in a Display.
type ChunkID int

// TileData is resolved once per displayed tile at setup so the differ never
// does coordinate math.
type TileData struct {
	Index     int     // cell index inside the sub-buffer
	SubBuffer int     // sub-buffer id
	Chunk     ChunkID // owning chunk
}

// Tile is one on-screen tile: what is currently displayed plus where its
// source cell lives.
type Tile struct {
	Pos   core.Point // stored coordinate, bottom-left origin
	Glyph Glyph
	Color core.Color
	Data  TileData
}

// Cell returns the displayed value as a Cell.
func (t Tile) Cell() Cell {
	return Cell{Color: t.Color, Glyph: t.Glyph}
}

// Chunk is a group of tiles of one sub-buffer that is uploaded as a unit.
type Chunk struct {
	ID          ChunkID
	Layer       int
	SubBuffer   int
	Bounds      core.Rect // stored coordinates, bottom-left origin
	NeedsRemesh bool
	Remeshes    int // times the chunk was flagged
}

// Display is the arena of on-screen tiles and their chunks. It stands in for
// the tile entities a graphics host would own.
type Display struct {
	tiles  []Tile
	chunks []Chunk
	lookup [][]int32 // sub-buffer id -> cell index -> tile slot, -1 if none
}

// NewDisplay creates one tile per position of every sub-buffer, chunked as
// each layer declares, and tags every tile with its TileData. Background
// sub-buffers of background-transparent layers get no tiles since nothing is
// ever drawn there. Every chunk starts flagged for its initial upload.
func NewDisplay(layers []*Layer) *Display {
	d := &Display{lookup: make([][]int32, len(layers)*2)}
	for _, l := range layers {
		for _, sub := range [2]int{l.BackgroundID(), l.ForegroundID()} {
			slots := make([]int32, l.Size().Area())
			for i := range slots {
				slots[i] = -1
			}
			d.lookup[sub] = slots
			if sub == l.BackgroundID() && l.BackgroundTransparent() {
				continue
			}
			d.buildSubBuffer(l, sub)
		}
	}
	return d
}

func (d *Display) buildSubBuffer(l *Layer, sub int) {
	spec := l.Spec()
	cs := spec.ChunkSize()
	for cy := 0; cy < spec.Chunks.H; cy++ {
		for cx := 0; cx < spec.Chunks.W; cx++ {
			id := ChunkID(len(d.chunks))
			bounds := core.NewRect(cx*cs.W, cy*cs.H, cs.W, cs.H)
			d.chunks = append(d.chunks, Chunk{
				ID:          id,
				Layer:       l.ID(),
				SubBuffer:   sub,
				Bounds:      bounds,
				NeedsRemesh: true,
			})
			for p := range bounds.Points() {
				idx := p.Y*spec.Size.W + p.X
				d.lookup[sub][idx] = int32(len(d.tiles))
				d.tiles = append(d.tiles, Tile{
					Pos:   p,
					Glyph: DefaultCell.Glyph,
					Color: DefaultCell.Color,
					Data:  TileData{Index: idx, SubBuffer: sub, Chunk: id},
				})
			}
		}
	}
}

// Len returns the number of tiles.
func (d *Display) Len() int {
	return len(d.tiles)
}

// Tiles returns the tiles. The slice aliases the display and must not be
// modified.
func (d *Display) Tiles() []Tile {
	return d.tiles
}

// Chunks returns the chunks. The slice aliases the display and must not be
// modified.
func (d *Display) Chunks() []Chunk {
	return d.chunks
}

// Chunk returns chunk id.
func (d *Display) Chunk(id ChunkID) Chunk {
	return d.chunks[id]
}

// TileAt returns the tile showing cell idx of sub-buffer sub.
func (d *Display) TileAt(sub, idx int) (Tile, bool) {
	if sub < 0 || sub >= len(d.lookup) || idx < 0 || idx >= len(d.lookup[sub]) {
		return Tile{}, false
	}
	slot := d.lookup[sub][idx]
	if slot < 0 {
		return Tile{}, false
	}
	return d.tiles[slot], true
}

// PendingRemesh lists the chunks currently flagged for upload.
func (d *Display) PendingRemesh() []ChunkID {
	var out []ChunkID
	for _, c := range d.chunks {
		if c.NeedsRemesh {
			out = append(out, c.ID)
		}
	}
	return out
}

// ClearRemesh acknowledges that every flagged chunk was uploaded.
func (d *Display) ClearRemesh() {
	for i := range d.chunks {
		d.chunks[i].NeedsRemesh = false
	}
}
