package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/ascii-tilemap/internal/core"
	"github.com/vovakirdan/ascii-tilemap/internal/tilemap"
)

// isolate points the user config directory at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestEmbeddedFlappyMatchesDefaults(t *testing.T) {
	data := GetDefaultYAML("flappy")
	if data == nil {
		t.Fatal("embedded flappy.yaml missing")
	}
	var cfg FlappyConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("embedded flappy.yaml invalid: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultFlappyConfig()) {
		t.Errorf("embedded flappy.yaml = %+v\nexpected %+v", cfg, DefaultFlappyConfig())
	}
}

func TestLoadFlappyDefault(t *testing.T) {
	isolate(t)
	cfg, err := LoadFlappy("")
	if err != nil {
		t.Fatalf("LoadFlappy() failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultFlappyConfig()) {
		t.Errorf("LoadFlappy() = %+v, expected defaults", cfg)
	}
}

func TestLoadFlappyCustomPartial(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, path, `
physics:
  gravity: 0.5
theme:
  sky: "#000080"
`)

	cfg, err := LoadFlappy(path)
	if err != nil {
		t.Fatalf("LoadFlappy() failed: %v", err)
	}
	if cfg.Physics.Gravity != 0.5 {
		t.Errorf("Gravity = %f, expected 0.5", cfg.Physics.Gravity)
	}
	if cfg.Theme.Sky != core.ColorNavy {
		t.Errorf("Sky = %v, expected navy", cfg.Theme.Sky)
	}
	// Unset fields keep their defaults
	def := DefaultFlappyConfig()
	if cfg.Physics.FlapImpulse != def.Physics.FlapImpulse {
		t.Errorf("FlapImpulse = %f, expected default %f", cfg.Physics.FlapImpulse, def.Physics.FlapImpulse)
	}
	if cfg.Obstacles != def.Obstacles {
		t.Errorf("Obstacles = %+v, expected defaults", cfg.Obstacles)
	}
}

func TestLoadFlappyUserDir(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".ascii", "configs", "flappy.yaml"), "player:\n  x: 20\n")

	cfg, err := LoadFlappy("")
	if err != nil {
		t.Fatalf("LoadFlappy() failed: %v", err)
	}
	if cfg.Player.X != 20 {
		t.Errorf("Player.X = %d, expected 20 from the user config", cfg.Player.X)
	}
}

func TestLoadFlappyErrors(t *testing.T) {
	isolate(t)
	if _, err := LoadFlappy(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadFlappy() with a missing custom file should fail")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, bad, "theme:\n  sky: \"not a color\"\n")
	if _, err := LoadFlappy(bad); err == nil {
		t.Error("LoadFlappy() with an invalid color should fail")
	}
}

func flappyFallback() tilemap.TilemapSpec {
	layer := func(id int) *tilemap.LayerBuilder {
		return tilemap.NewLayer(id).TexturePath("terminal8x8.png").Size(80, 50).TileSize(8, 8)
	}
	return tilemap.NewTilemap().WithLayer(layer(0)).WithLayer(layer(1).Transparent(true)).MustBuild()
}

func TestLoadTilemapEmbedded(t *testing.T) {
	isolate(t)
	spec, err := LoadTilemap("flappy", "", flappyFallback())
	if err != nil {
		t.Fatalf("LoadTilemap() failed: %v", err)
	}
	if len(spec.Layers) != 2 {
		t.Fatalf("expected 2 layers, got %d", len(spec.Layers))
	}
	if spec.Layers[0].Chunks != (tilemap.Size{W: 4, H: 5}) {
		t.Errorf("layer 0 chunks = %+v, expected 4x5", spec.Layers[0].Chunks)
	}
	if !spec.Layers[1].Transparent {
		t.Error("layer 1 should be transparent")
	}
	if spec.Layers[0].TilesheetSize != tilemap.DefaultTilesheetSize {
		t.Errorf("tilesheet size not defaulted: %+v", spec.Layers[0].TilesheetSize)
	}
}

func TestLoadTilemapFallback(t *testing.T) {
	isolate(t)
	fallback := flappyFallback()
	spec, err := LoadTilemap("no-such-game", "", fallback)
	if err != nil {
		t.Fatalf("LoadTilemap() failed: %v", err)
	}
	if !reflect.DeepEqual(spec, fallback.Normalize()) {
		t.Errorf("LoadTilemap() = %+v, expected the fallback", spec)
	}
}

func TestLoadTilemapInvalid(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"too few layers", `
layers:
  - id: 0
    texture_path: t.png
    size: { width: 10, height: 10 }
    tile_size: { width: 8, height: 8 }
`},
		{"missing tile size", `
layers:
  - id: 0
    texture_path: t.png
    size: { width: 10, height: 10 }
  - id: 1
    texture_path: t.png
    size: { width: 10, height: 10 }
`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name+".yaml")
			writeFile(t, path, tc.content)
			_, err := LoadTilemap("flappy", path, flappyFallback())
			if !errors.Is(err, tilemap.ErrInvalidConfig) {
				t.Errorf("LoadTilemap() error = %v, expected ErrInvalidConfig", err)
			}
		})
	}
}

func TestApplyFlappyPreset(t *testing.T) {
	cfg := DefaultFlappyConfig()
	ApplyFlappyPreset(&cfg, DifficultyFixed)
	if cfg.Difficulty.Enabled {
		t.Error("fixed preset should disable progression")
	}

	cfg = DefaultFlappyConfig()
	ApplyFlappyPreset(&cfg, DifficultyHard)
	if !cfg.Difficulty.Enabled || cfg.Difficulty.InitialLevel != 0.7 {
		t.Errorf("hard preset: enabled=%v level=%f", cfg.Difficulty.Enabled, cfg.Difficulty.InitialLevel)
	}

	if _, ok := ParsePreset("insane"); ok {
		t.Error("ParsePreset(insane) should fail")
	}
	if p, ok := ParsePreset("easy"); !ok || p != DifficultyEasy {
		t.Errorf("ParsePreset(easy) = %q, %v", p, ok)
	}
}
