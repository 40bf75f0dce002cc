package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/ascii-tilemap/internal/core"
	"github.com/vovakirdan/ascii-tilemap/internal/platform/session"
	"github.com/vovakirdan/ascii-tilemap/internal/tilemap"
)

// counter draws its tick count and records the actions it saw.
type counter struct {
	ticks  int
	seen   []core.Action
	paused bool
	quit   bool
}

func (g *counter) ID() string    { return "counter" }
func (g *counter) Title() string { return "Counter" }

func (g *counter) Tilemap() tilemap.TilemapSpec {
	return tilemap.NewTilemap().
		WithLayer(tilemap.NewLayer(0).
			TexturePath("terminal8x8.png").
			Size(10, 2).
			TileSize(8, 8).
			Chunks(1, 1)).
		MustBuild()
}

func (g *counter) Reset(core.RuntimeConfig) {
	g.ticks = 0
}

func (g *counter) Step(in core.InputFrame) core.StepResult {
	for _, a := range []core.Action{core.ActionFlap, core.ActionPause, core.ActionQuit} {
		if in.Has(a) {
			g.seen = append(g.seen, a)
		}
	}
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if in.Has(core.ActionQuit) {
		g.quit = true
	}
	g.ticks++
	return core.StepResult{State: g.State()}
}

func (g *counter) Draw(ctx *tilemap.DrawContext) {
	ctx.Cls()
	ctx.Print(0, 0, strings.Repeat("#", g.ticks%10))
}

func (g *counter) State() core.GameState {
	return core.GameState{Score: g.ticks, Paused: g.paused, Quit: g.quit}
}

func newTestModel(t *testing.T) (Model, *counter) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	g := &counter{}
	s, err := session.New(g, core.DefaultConfig(), session.Options{})
	if err != nil {
		t.Fatalf("session.New failed: %v", err)
	}
	return NewModel(s), g
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyMapAction(t *testing.T) {
	keys := DefaultKeyMap()
	tests := []struct {
		key  string
		want core.Action
	}{
		{" ", core.ActionFlap},
		{"p", core.ActionPlay},
		{"tab", core.ActionPause},
		{"q", core.ActionQuit},
		{"r", core.ActionRestart},
		{"enter", core.ActionConfirm},
		{"esc", core.ActionBack},
		{"up", core.ActionUp},
		{"w", core.ActionUp},
		{"a", core.ActionLeft},
		{"d", core.ActionRight},
		{"x", core.ActionNone},
		{"?", core.ActionNone},
	}

	for _, tt := range tests {
		if got := keys.Action(keyMsg(tt.key)); got != tt.want {
			t.Errorf("Action(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestModelTickDeliversInputOnce(t *testing.T) {
	m, g := newTestModel(t)

	next, _ := m.Update(keyMsg(" "))
	m = next.(Model)
	next, cmd := m.Update(TickMsg(time.Now()))
	m = next.(Model)
	if cmd == nil {
		t.Error("expected the tick loop to continue")
	}
	next, _ = m.Update(TickMsg(time.Now()))
	m = next.(Model)

	if g.ticks != 2 {
		t.Errorf("expected 2 ticks, got %d", g.ticks)
	}
	if len(g.seen) != 1 || g.seen[0] != core.ActionFlap {
		t.Errorf("expected one flap, got %v", g.seen)
	}
	if !strings.Contains(m.session.Screen().Row(0), "##") {
		t.Errorf("expected tick marks on screen, got %q", m.session.Screen().Row(0))
	}
}

func TestModelQuitKey(t *testing.T) {
	m, _ := newTestModel(t)

	next, cmd := m.Update(keyMsg("q"))
	m = next.(Model)
	if !m.IsQuitting() {
		t.Error("expected quitting after q")
	}
	if cmd == nil {
		t.Error("expected tea.Quit command")
	}
	if m.View() != "" {
		t.Error("expected empty view when quitting")
	}
}

func TestModelBackOnlyWhenPaused(t *testing.T) {
	m, _ := newTestModel(t)

	// Not paused: back is passed to the game
	next, _ := m.Update(keyMsg("esc"))
	m = next.(Model)
	if m.BackToMenu() {
		t.Fatal("back should not leave a running program")
	}

	next, _ = m.Update(keyMsg("tab"))
	m = next.(Model)
	next, _ = m.Update(TickMsg(time.Now()))
	m = next.(Model)
	if !m.session.State().Paused {
		t.Fatal("expected paused after tab")
	}

	next, _ = m.Update(keyMsg("esc"))
	m = next.(Model)
	if !m.BackToMenu() {
		t.Error("expected back to menu while paused")
	}
}

func TestRenderScreenRuns(t *testing.T) {
	s := core.NewScreen(4, 2)
	s.Set(0, 0, core.ScreenCell{Rune: 'a', Fg: core.ColorRed, Bg: core.ColorBlack})
	s.Set(1, 0, core.ScreenCell{Rune: 'b', Fg: core.ColorRed, Bg: core.ColorBlack})

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "ab") {
		t.Errorf("expected same-colored cells in one run, got %q", lines[0])
	}
}
