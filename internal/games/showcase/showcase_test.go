package showcase

import (
	"context"
	"strings"
	"testing"

	"github.com/vovakirdan/ascii-tilemap/internal/core"
	"github.com/vovakirdan/ascii-tilemap/internal/tilemap"
)

func newRenderer(t *testing.T, s *Showcase) *tilemap.Renderer {
	t.Helper()
	r, err := tilemap.New(s.Tilemap(), tilemap.WithTracer(nil))
	if err != nil {
		t.Fatalf("tilemap.New() failed: %v", err)
	}
	size := r.ScreenSize()
	s.Reset(core.RuntimeConfig{ScreenW: size.W, ScreenH: size.H, TickRate: 30, Seed: 1})
	return r
}

func frame(s *Showcase, r *tilemap.Renderer) tilemap.Frame {
	s.Draw(r.Context())
	return r.RenderFrame(context.Background())
}

func key(a core.Action) core.InputFrame {
	in := core.NewInputFrame()
	in.Set(a)
	return in
}

func TestIdenticalFramesUploadNothing(t *testing.T) {
	s := New()
	r := newRenderer(t, s)

	if f := frame(s, r); f.Empty() {
		t.Fatal("first frame should draw")
	}

	s.Step(key(core.ActionPause))
	frame(s, r)

	f := frame(s, r)
	if f.Commands == 0 {
		t.Error("paused frame still queues commands")
	}
	if !f.Empty() {
		t.Errorf("identical frame dirtied %d chunks", len(f.DirtyChunks))
	}
}

func TestGaugeMovesBar(t *testing.T) {
	s := New()
	r := newRenderer(t, s)
	frame(s, r)

	text := r.Layers()[LayerText]
	size := text.Size()
	row := size.H - 3
	// gauge 50 of width 160 fills cells 0..80
	if g := r.Buffer().Cell(text.ForegroundID(), 80, row).Glyph; g != tilemap.GlyphBlock {
		t.Errorf("cell 80 = %d, expected block", g)
	}
	if g := r.Buffer().Cell(text.ForegroundID(), 81, row).Glyph; g != tilemap.GlyphShade {
		t.Errorf("cell 81 = %d, expected shade", g)
	}

	s.Step(key(core.ActionRight))
	f := frame(s, r)
	if s.gauge != 55 {
		t.Fatalf("gauge = %d, expected 55", s.gauge)
	}
	if g := r.Buffer().Cell(text.ForegroundID(), 88, row).Glyph; g != tilemap.GlyphBlock {
		t.Errorf("cell 88 = %d, expected block after moving the gauge", g)
	}
	found := false
	for _, u := range f.Updates {
		if u.Layer == LayerText && u.Y == row && u.X == 88 {
			found = true
		}
	}
	if !found {
		t.Error("gauge change not reported as a tile update")
	}
}

func TestSkyGradient(t *testing.T) {
	s := New()
	r := newRenderer(t, s)
	frame(s, r)

	sky := r.Layers()[LayerSky]
	top := r.Buffer().Cell(sky.BackgroundID(), 0, 0).Color
	bottom := r.Buffer().Cell(sky.BackgroundID(), 0, sky.Size().H-1).Color
	if top != skyTop || bottom != skyBottom {
		t.Errorf("gradient runs %v..%v, expected %v..%v", top, bottom, skyTop, skyBottom)
	}
}

func TestSpritesKeepSkyVisible(t *testing.T) {
	s := New()
	r := newRenderer(t, s)
	frame(s, r)

	screen := core.NewScreen(0, 0)
	r.Compose(screen)

	// The face sits on the background-transparent layer over the sky
	y := r.ScreenSize().H / 2
	c := screen.GetCell(s.spriteX, y)
	if c.Rune != '☺' {
		t.Errorf("sprite cell rune = %q, expected '☺'", c.Rune)
	}
	if c.Bg == core.ColorBlack {
		t.Error("sprite background should show the sky, got black")
	}
}

func TestQuitAndWipe(t *testing.T) {
	s := New()
	r := newRenderer(t, s)
	frame(s, r)
	s.Step(core.NewInputFrame())

	s.Step(key(core.ActionRestart))
	if !s.wipe {
		t.Fatal("Restart should schedule a wipe")
	}
	frame(s, r)
	if s.wipe {
		t.Error("wipe should be consumed by Draw")
	}

	if res := s.Step(key(core.ActionQuit)); !res.State.Quit {
		t.Error("Quit should be reported")
	}
}

func TestHalfWidthTextReadsBack(t *testing.T) {
	s := New()
	r := newRenderer(t, s)
	s.Step(core.NewInputFrame())
	frame(s, r)

	screen := core.NewScreen(0, 0)
	r.Compose(screen)

	tests := []struct {
		y    int
		want string
	}{
		{0, "ASCII tilemap showcase (half-width text layer)"},
		{1, "LEFT/RIGHT gauge  TAB pause  R wipe  Q quit"},
		{r.ScreenSize().H - 2, s.gaugeLabel()},
	}
	for _, tt := range tests {
		if row := screen.Row(tt.y); !strings.Contains(row, tt.want) {
			t.Errorf("row %d = %q, expected it to contain %q", tt.y, row, tt.want)
		}
	}

	// The header is centered on the composed screen
	start := strings.Index(screen.Row(0), "ASCII")
	if start < 0 {
		t.Fatal("header missing")
	}
	if want := (r.ScreenSize().W - 46) / 2; start != want {
		t.Errorf("header starts at column %d, expected %d", start, want)
	}
}
