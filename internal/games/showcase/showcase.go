// Package showcase is a renderer demo rather than a game: a gradient sky on
// the base layer, sprites and the full code page 437 sheet on a
// background-transparent layer, and a half-width text HUD on top.
package showcase

import (
	"fmt"
	"unicode/utf8"

	"github.com/vovakirdan/ascii-tilemap/internal/core"
	"github.com/vovakirdan/ascii-tilemap/internal/registry"
	"github.com/vovakirdan/ascii-tilemap/internal/tilemap"
)

// Layer ids.
const (
	LayerSky     = 0
	LayerSprites = 1
	LayerText    = 2
)

var (
	skyTop    = core.RGB(10, 10, 60)
	skyBottom = core.RGB(200, 90, 40)
	gaugeFg   = core.ColorGreen
)

// Showcase cycles through every drawing operation.
type Showcase struct {
	rt      core.RuntimeConfig
	tick    int
	gauge   int // 0..100, moved with Left/Right
	paused  bool
	quit    bool
	wipe    bool // clear every layer on the next Draw
	spriteX int
	spriteD int
}

// New creates the showcase.
func New() *Showcase {
	return &Showcase{}
}

// ID returns the unique identifier for this program.
func (s *Showcase) ID() string {
	return "showcase"
}

// Title returns the display name.
func (s *Showcase) Title() string {
	return "Tilemap Showcase"
}

// Tilemap declares three layers; the text layer has tiles half as wide.
func (s *Showcase) Tilemap() tilemap.TilemapSpec {
	return tilemap.NewTilemap().
		WithLayer(tilemap.NewLayer(LayerSky).
			TexturePath("terminal8x8.png").
			Size(80, 50).
			TileSize(8, 8).
			Chunks(2, 2)).
		WithLayer(tilemap.NewLayer(LayerSprites).
			TexturePath("terminal8x8.png").
			Size(80, 50).
			TileSize(8, 8).
			Transparent(true).
			BackgroundTransparent(true).
			Chunks(2, 2)).
		WithLayer(tilemap.NewLayer(LayerText).
			TexturePath("vga8x16.png").
			Size(160, 50).
			TileSize(4, 8).
			Transparent(true)).
		MustBuild()
}

// Reset restarts the animation.
func (s *Showcase) Reset(cfg core.RuntimeConfig) {
	s.rt = cfg
	s.tick = 0
	s.gauge = 50
	s.paused = false
	s.quit = false
	s.wipe = true
	s.spriteX = 0
	s.spriteD = 1
}

// Step advances the animation by one tick.
func (s *Showcase) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionQuit) || in.Has(core.ActionBack) {
		s.quit = true
	}
	if in.Has(core.ActionPause) {
		s.paused = !s.paused
	}
	if in.Has(core.ActionLeft) {
		s.gauge = core.Max(0, s.gauge-5)
	}
	if in.Has(core.ActionRight) {
		s.gauge = core.Min(100, s.gauge+5)
	}
	if in.Has(core.ActionRestart) {
		s.wipe = true
	}
	if !s.paused {
		s.tick++
		s.spriteX += s.spriteD
		if s.spriteX <= 0 || s.spriteX >= s.rt.ScreenW-1 {
			s.spriteD = -s.spriteD
		}
	}
	return core.StepResult{State: s.State()}
}

// Draw queues the frame. The sky is redrawn identically every frame, so after
// the first frame it costs commands but no uploads.
func (s *Showcase) Draw(ctx *tilemap.DrawContext) {
	if s.wipe {
		if s.tick == 0 {
			ctx.ClsColorAllLayers(skyTop)
		} else {
			ctx.ClsAllLayers()
		}
		s.wipe = false
	}

	ctx.WithLayer(LayerSky, s.drawSky)
	ctx.WithLayer(LayerSprites, s.drawSprites)

	ctx.SetActiveLayer(LayerText)
	s.drawText(ctx)
}

func (s *Showcase) drawSky(ctx *tilemap.DrawContext) {
	size := ctx.LayerSize()
	for y := 0; y < size.H; y++ {
		c := skyTop.Lerp(skyBottom, float64(y)/float64(core.Max(1, size.H-1)))
		for x := 0; x < size.W; x++ {
			ctx.Set(x, y, c, c, tilemap.GlyphSpace)
		}
	}
}

func (s *Showcase) drawSprites(ctx *tilemap.DrawContext) {
	size := ctx.LayerSize()
	ctx.Cls()

	// Code page 437 sheet, 32 glyphs per row
	const cols = 32
	left := size.W/2 - cols/2
	ctx.PrintCentered(2, "code page 437")
	for i := 0; i < 256; i++ {
		ctx.Set(left+i%cols, 4+i/cols, core.ColorBlack, core.ColorWhite, tilemap.Glyph(i))
	}

	// Bouncing face over the sky
	y := size.H / 2
	ctx.SetRune(s.spriteX, y, core.ColorBlack, core.ColorYellow, '☺')
	ctx.PrintColor(0, y+2, core.ColorBlack, core.ColorCyan, "sprites: no background")
	ctx.Print(0, y+3, fmt.Sprintf("face at x=%d", s.spriteX))
}

func (s *Showcase) drawText(ctx *tilemap.DrawContext) {
	size := ctx.LayerSize()
	ctx.ClsColor(core.ColorTransparent)

	printHalfCentered(ctx, 0, core.ColorNavy, core.ColorWhite, "ASCII tilemap showcase (half-width text layer)")
	printHalfCentered(ctx, 1, core.ColorBlack, core.ColorWhite, "LEFT/RIGHT gauge  TAB pause  R wipe  Q quit")

	ctx.BarHorizontal(0, size.H-3, size.W, s.gauge, 100, core.ColorBlack, gaugeFg)
	printHalf(ctx, 2, size.H-2, core.ColorBlack, core.ColorWhite, s.gaugeLabel())
	if s.paused {
		printHalfCentered(ctx, size.H/2, core.ColorRed, core.ColorWhite, " PAUSED ")
	}
}

func (s *Showcase) gaugeLabel() string {
	return fmt.Sprintf("gauge %3d%%  tick %d", s.gauge, s.tick)
}

// printHalf prints text on every other column starting at an even x. A
// terminal composite shows one half-width tile per cell, the even one, so
// the text reads back unbroken there.
func printHalf(ctx *tilemap.DrawContext, x, y int, background, foreground core.Color, text string) {
	x &^= 1
	i := 0
	for _, r := range text {
		ctx.SetRune(x+2*i, y, background, foreground, r)
		i++
	}
}

func printHalfCentered(ctx *tilemap.DrawContext, y int, background, foreground core.Color, text string) {
	n := utf8.RuneCountInString(text)
	printHalf(ctx, ctx.LayerSize().W/2-n, y, background, foreground, text)
}

// State reports the tick count as the score; the showcase never ends.
func (s *Showcase) State() core.GameState {
	return core.GameState{
		Score:  s.tick,
		Paused: s.paused,
		Quit:   s.quit,
	}
}

func init() {
	registry.Register("showcase", func() registry.Game {
		return New()
	})
}
