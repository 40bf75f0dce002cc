package registry

import (
	"testing"

	"github.com/vovakirdan/ascii-tilemap/internal/core"
	"github.com/vovakirdan/ascii-tilemap/internal/tilemap"
)

type fakeGame struct {
	id, title string
}

func (g *fakeGame) ID() string    { return g.id }
func (g *fakeGame) Title() string { return g.title }

func (g *fakeGame) Tilemap() tilemap.TilemapSpec {
	return tilemap.NewTilemap().
		WithLayer(tilemap.NewLayer(0).TexturePath("terminal8x8.png").Size(4, 4).TileSize(8, 8)).
		MustBuild()
}

func (g *fakeGame) Reset(core.RuntimeConfig)             {}
func (g *fakeGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g *fakeGame) Draw(*tilemap.DrawContext)            {}
func (g *fakeGame) State() core.GameState                { return core.GameState{} }

func TestRegisterListCreate(t *testing.T) {
	Register("zz-test-b", func() Game { return &fakeGame{id: "zz-test-b", title: "B"} })
	Register("zz-test-a", func() Game { return &fakeGame{id: "zz-test-a", title: "A"} })

	if !Exists("zz-test-a") || Exists("zz-test-missing") {
		t.Fatal("Exists reported the wrong registrations")
	}

	var ids []string
	for _, info := range List() {
		if info.ID == "zz-test-a" && info.Title != "A" {
			t.Errorf("expected title A, got %q", info.Title)
		}
		ids = append(ids, info.ID)
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] > ids[i] {
			t.Errorf("List not sorted: %v", ids)
		}
	}

	info, ok := Lookup("zz-test-a")
	if !ok {
		t.Fatal("Lookup failed")
	}
	if info.Layers != 1 || info.Screen != (tilemap.Size{W: 4, H: 4}) || info.Window != (tilemap.Size{W: 32, H: 32}) {
		t.Errorf("unexpected layout info: %+v", info)
	}

	g, err := Create("zz-test-b")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if g.ID() != "zz-test-b" {
		t.Errorf("expected zz-test-b, got %s", g.ID())
	}
	if _, err := Create("zz-test-missing"); err == nil {
		t.Error("expected error for unknown id")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("zz-test-dup", func() Game { return &fakeGame{id: "zz-test-dup"} })

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register("zz-test-dup", func() Game { return &fakeGame{id: "zz-test-dup"} })
}
