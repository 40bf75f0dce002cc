package tilemap

import (
	"errors"
	"testing"
)

func TestBuildValidation(t *testing.T) {
	valid := func(id int) *LayerBuilder {
		return NewLayer(id).TexturePath("terminal8x8.png").Size(80, 50).TileSize(8, 8)
	}

	tests := []struct {
		name    string
		layers  []*LayerBuilder
		wantErr bool
	}{
		{"single layer", []*LayerBuilder{valid(0)}, false},
		{"two layers", []*LayerBuilder{valid(0), valid(1)}, false},
		{"no layers", nil, true},
		{"missing texture", []*LayerBuilder{NewLayer(0).Size(80, 50).TileSize(8, 8)}, true},
		{"missing tile size", []*LayerBuilder{NewLayer(0).TexturePath("t.png").Size(80, 50)}, true},
		{"zero size", []*LayerBuilder{valid(0).Size(0, 50)}, true},
		{"ids out of order", []*LayerBuilder{valid(1), valid(0)}, true},
		{"gap in ids", []*LayerBuilder{valid(0), valid(2)}, true},
		{"chunks divide", []*LayerBuilder{valid(0).Chunks(4, 5)}, false},
		{"chunks do not divide", []*LayerBuilder{valid(0).Chunks(3, 1)}, true},
		{"zero chunks", []*LayerBuilder{valid(0).Chunks(0, 1)}, true},
		{"zero tilesheet", []*LayerBuilder{valid(0).TilesheetSize(0, 16)}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := NewTilemap()
			for _, l := range tc.layers {
				b.WithLayer(l)
			}
			_, err := b.Build()
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("Build() error = %v, expected ErrInvalidConfig", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Build() unexpected error: %v", err)
			}
		})
	}
}

func TestNormalizeDefaults(t *testing.T) {
	spec := TilemapSpec{Layers: []LayerSpec{{
		ID:          0,
		TexturePath: "t.png",
		Size:        Size{W: 10, H: 10},
		TileSize:    Size{W: 8, H: 8},
	}}}

	n := spec.Normalize()
	if n.Layers[0].TilesheetSize != DefaultTilesheetSize {
		t.Errorf("TilesheetSize = %+v, expected %+v", n.Layers[0].TilesheetSize, DefaultTilesheetSize)
	}
	if n.Layers[0].Chunks != (Size{W: 1, H: 1}) {
		t.Errorf("Chunks = %+v, expected 1x1", n.Layers[0].Chunks)
	}
	if spec.Layers[0].Chunks != (Size{}) {
		t.Error("Normalize modified its receiver")
	}
	if err := n.Validate(); err != nil {
		t.Errorf("normalized spec invalid: %v", err)
	}
}

func TestSizes(t *testing.T) {
	l := NewLayer(0).TexturePath("t.png").Size(80, 50).TileSize(8, 8).Chunks(2, 5).Spec()

	if got := l.TextureSize(); got != (Size{W: 128, H: 128}) {
		t.Errorf("TextureSize() = %+v, expected 128x128", got)
	}
	if got := l.ChunkSize(); got != (Size{W: 40, H: 10}) {
		t.Errorf("ChunkSize() = %+v, expected 40x10", got)
	}

	spec := NewTilemap().WithLayer(NewLayer(0).TexturePath("t.png").Size(80, 50).TileSize(8, 8)).MustBuild()
	if got := spec.WindowSize(); got != (Size{W: 640, H: 400}) {
		t.Errorf("WindowSize() = %+v, expected 640x400", got)
	}
}

func TestMustBuildPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustBuild() on an empty tilemap did not panic")
		}
	}()
	NewTilemap().MustBuild()
}
