package tilemap

import "github.com/vovakirdan/ascii-tilemap/internal/core"

// processLayers folds every layer's queued commands into buf, layer by layer in
// declaration order and FIFO within a layer, so the last write to a cell wins.
// Queues are emptied. It returns the number of commands applied.
func processLayers(layers []*Layer, buf *TileBuffer) int {
	applied := 0
	for _, l := range layers {
		for _, cmd := range l.queue.Drain() {
			switch c := cmd.(type) {
			case DrawTile:
				drawTile(l, buf, c)
			case ClearLayer:
				clearLayer(l, buf, c.Color)
			case ClearAllLayers:
				clearLayer(l, buf, c.Color)
			}
			applied++
		}
	}
	return applied
}

func drawTile(l *Layer, buf *TileBuffer, c DrawTile) {
	// Queued commands were bounds checked by the DrawContext; anything pushed
	// directly is checked again here.
	if !l.InBounds(c.X, c.Y) {
		return
	}
	idx := l.index(c.X, c.Y)
	if !l.BackgroundTransparent() {
		buf.subs[l.BackgroundID()][idx] = Cell{Color: c.Background, Glyph: GlyphBlock}
	}
	buf.subs[l.ForegroundID()][idx] = Cell{Color: c.Foreground, Glyph: c.Glyph}
}

func clearLayer(l *Layer, buf *TileBuffer, color core.Color) {
	bgGlyph := GlyphBlock
	if l.Transparent() {
		bgGlyph = GlyphNone
	}
	bg := buf.subs[l.BackgroundID()]
	for i := range bg {
		bg[i] = Cell{Color: color, Glyph: bgGlyph}
	}
	fg := buf.subs[l.ForegroundID()]
	for i := range fg {
		fg[i] = Cell{Color: color, Glyph: GlyphNone}
	}
}
