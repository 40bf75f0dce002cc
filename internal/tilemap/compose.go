package tilemap

import (
	"github.com/vovakirdan/ascii-tilemap/internal/core"
)

// ScreenSize is the composed grid size: the extent of the first layer.
func (r *Renderer) ScreenSize() Size {
	return r.layers[0].Size()
}

// Compose flattens what is currently displayed into dst, one character per
// tile of the first layer. Layers are stacked in declaration order, each as a
// background pass then a foreground pass; invisible cells let lower layers
// show through. Layers whose tiles are a different pixel size are sampled at
// the center of each screen cell.
func (r *Renderer) Compose(dst *core.Screen) {
	size := r.ScreenSize()
	dst.Resize(size.W, size.H)
	for sy := 0; sy < size.H; sy++ {
		for sx := 0; sx < size.W; sx++ {
			dst.Set(sx, sy, r.composeCell(sx, sy))
		}
	}
}

// ComposeRect is Compose limited to area, in screen cells.
func (r *Renderer) ComposeRect(dst *core.Screen, area core.Rect) {
	size := r.ScreenSize()
	dst.Resize(size.W, size.H)
	for p := range area.Points() {
		if p.X < 0 || p.X >= size.W || p.Y < 0 || p.Y >= size.H {
			continue
		}
		dst.Set(p.X, p.Y, r.composeCell(p.X, p.Y))
	}
}

func (r *Renderer) composeCell(sx, sy int) core.ScreenCell {
	base := r.layers[0].Spec().TileSize
	// Sample the top-left pixel: a layer with narrower tiles shows its
	// even columns.
	px := sx * base.W
	py := sy * base.H

	out := core.ScreenCell{Rune: ' ', Fg: core.ColorWhite, Bg: core.ColorBlack}
	for _, l := range r.layers {
		spec := l.Spec()
		lx, ly := px/spec.TileSize.W, py/spec.TileSize.H
		if !l.InBounds(lx, ly) {
			continue
		}
		idx := l.index(lx, ly)
		if t, ok := r.display.TileAt(l.BackgroundID(), idx); ok && t.Cell().Visible() {
			out.Bg = t.Color
			out.Rune = ' '
		}
		if t, ok := r.display.TileAt(l.ForegroundID(), idx); ok && t.Cell().Visible() {
			out.Rune = t.Glyph.Rune()
			out.Fg = t.Color
		}
	}
	return out
}

// ChunkScreenRect returns the screen cells covered by chunk id.
func (r *Renderer) ChunkScreenRect(id ChunkID) core.Rect {
	c := r.display.Chunk(id)
	spec := r.layers[c.Layer].Spec()
	base := r.layers[0].Spec().TileSize

	top := spec.Size.H - c.Bounds.Bottom()
	x0 := c.Bounds.X * spec.TileSize.W
	x1 := c.Bounds.Right() * spec.TileSize.W
	y0 := top * spec.TileSize.H
	y1 := (top + c.Bounds.H) * spec.TileSize.H

	sx0, sy0 := x0/base.W, y0/base.H
	sx1 := (x1 + base.W - 1) / base.W
	sy1 := (y1 + base.H - 1) / base.H

	size := r.ScreenSize()
	sx1 = core.Min(sx1, size.W)
	sy1 = core.Min(sy1, size.H)
	return core.NewRect(sx0, sy0, core.Max(0, sx1-sx0), core.Max(0, sy1-sy0))
}
