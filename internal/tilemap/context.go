package tilemap

import (
	"fmt"
	"unicode/utf8"

	"github.com/vovakirdan/ascii-tilemap/internal/core"
)

// DrawContext is the drawing API used by application code. It only queues
// commands; nothing reaches the TileBuffer before Renderer.RenderFrame.
//
// The active layer is a field of the context, not process state. It persists
// across frames until SetActiveLayer changes it again.
type DrawContext struct {
	layers []*Layer
	active int
}

func newDrawContext(layers []*Layer) *DrawContext {
	return &DrawContext{layers: layers}
}

// SetActiveLayer selects the layer used by every following call. Selecting a
// layer that was never declared is a setup bug and panics.
func (c *DrawContext) SetActiveLayer(id int) {
	if id < 0 || id >= len(c.layers) {
		panic(fmt.Errorf("%w: %d (declared %d)", ErrUnknownLayer, id, len(c.layers)))
	}
	c.active = id
}

// ActiveLayer returns the selected layer id.
func (c *DrawContext) ActiveLayer() int {
	return c.active
}

// WithLayer runs fn with layer id active and restores the previous layer
// afterwards, even if fn panics.
func (c *DrawContext) WithLayer(id int, fn func(*DrawContext)) {
	prev := c.active
	c.SetActiveLayer(id)
	defer func() { c.active = prev }()
	fn(c)
}

// LayerSize returns the extent of the active layer in tiles.
func (c *DrawContext) LayerSize() Size {
	return c.layer().Size()
}

func (c *DrawContext) layer() *Layer {
	return c.layers[c.active]
}

// Set draws glyph at (x, y) on the active layer, origin top-left. The
// background cell becomes a solid block in background unless the layer's
// background is transparent. Positions outside the layer are ignored.
func (c *DrawContext) Set(x, y int, background, foreground core.Color, glyph Glyph) {
	l := c.layer()
	if !l.InBounds(x, y) {
		return
	}
	l.queue.Push(DrawTile{
		X:          x,
		Y:          y,
		Background: background,
		Foreground: foreground,
		Glyph:      glyph,
	})
}

// SetRune is Set with a Unicode rune encoded to code page 437.
func (c *DrawContext) SetRune(x, y int, background, foreground core.Color, r rune) {
	c.Set(x, y, background, foreground, GlyphFromRune(r))
}

// PrintColor prints text left to right starting at (x, y). Text running past
// the layer edge is truncated; there is no wrapping.
func (c *DrawContext) PrintColor(x, y int, background, foreground core.Color, text string) {
	i := 0
	for _, r := range text {
		c.Set(x+i, y, background, foreground, GlyphFromRune(r))
		i++
	}
}

// Print prints white on black text at (x, y).
func (c *DrawContext) Print(x, y int, text string) {
	c.PrintColor(x, y, core.ColorBlack, core.ColorWhite, text)
}

// PrintColorCentered prints text centered on the x axis of the active layer.
func (c *DrawContext) PrintColorCentered(y int, background, foreground core.Color, text string) {
	x := c.layer().Size().W/2 - utf8.RuneCountInString(text)/2
	c.PrintColor(x, y, background, foreground, text)
}

// PrintCentered prints white on black text centered on the x axis.
func (c *DrawContext) PrintCentered(y int, text string) {
	c.PrintColorCentered(y, core.ColorBlack, core.ColorWhite, text)
}

// BarHorizontal draws a width-cell gauge at (x, y) filled to filled/max. Cells
// 0..fill inclusive are solid blocks and the rest are shaded, where
// fill = width*filled/max rounded down. Note the inclusive bound: an empty gauge
// still shows one block. max must be positive.
func (c *DrawContext) BarHorizontal(x, y, width, filled, max int, background, foreground core.Color) {
	if max <= 0 {
		panic(fmt.Errorf("%w: bar max %d", ErrInvalidConfig, max))
	}
	fill := width * filled / max
	for i := 0; i < width; i++ {
		glyph := GlyphShade
		if i <= fill {
			glyph = GlyphBlock
		}
		c.Set(x+i, y, background, foreground, glyph)
	}
}

// Cls clears the active layer to black.
func (c *DrawContext) Cls() {
	c.ClsColor(core.ColorBlack)
}

// ClsColor clears the active layer to color.
func (c *DrawContext) ClsColor(color core.Color) {
	c.layer().queue.Push(ClearLayer{Color: color})
}

// ClsAllLayers clears every layer to black.
func (c *DrawContext) ClsAllLayers() {
	c.ClsColorAllLayers(core.ColorBlack)
}

// ClsColorAllLayers clears every layer to color.
func (c *DrawContext) ClsColorAllLayers(color core.Color) {
	for _, l := range c.layers {
		l.queue.Push(ClearAllLayers{Color: color})
	}
}
