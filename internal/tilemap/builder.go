package tilemap

import (
	"fmt"
)

// Size is a width/height pair, in tiles or pixels depending on the field.
type Size struct {
	W int `yaml:"width" json:"width"`
	H int `yaml:"height" json:"height"`
}

// Area returns W*H.
func (s Size) Area() int {
	return s.W * s.H
}

// DefaultTilesheetSize is the usual 16x16 glyph atlas.
var DefaultTilesheetSize = Size{W: 16, H: 16}

// LayerSpec declares one drawing surface at startup.
type LayerSpec struct {
	// ID is the layer index; layers must be declared as 0, 1, 2...
	ID int `yaml:"id"`

	// TexturePath is the tilesheet image. The terminal backends never load
	// it; it is carried for hosts that do.
	TexturePath string `yaml:"texture_path"`

	// Size is the grid extent in tiles.
	Size Size `yaml:"size"`

	// TileSize is the size of one tile in pixels. Layers with a different
	// tile size than the first layer are scaled when composed.
	TileSize Size `yaml:"tile_size"`

	// TilesheetSize is the atlas extent in tiles, not pixels.
	TilesheetSize Size `yaml:"tilesheet_size"`

	// Transparent makes ClearLayer leave the background invisible instead of
	// filling it with solid blocks.
	Transparent bool `yaml:"transparent"`

	// BackgroundTransparent makes DrawTile skip the background cell entirely.
	BackgroundTransparent bool `yaml:"background_transparent"`

	// Chunks is how many chunks the layer is split into horizontally and
	// vertically. Each chunk is re-uploaded as a unit.
	Chunks Size `yaml:"chunks"`
}

// TextureSize returns the atlas size in pixels.
func (s LayerSpec) TextureSize() Size {
	return Size{W: s.TilesheetSize.W * s.TileSize.W, H: s.TilesheetSize.H * s.TileSize.H}
}

// ChunkSize returns the size of one chunk in tiles.
func (s LayerSpec) ChunkSize() Size {
	return Size{W: s.Size.W / s.Chunks.W, H: s.Size.H / s.Chunks.H}
}

// withDefaults fills fields a YAML file may leave out.
func (s LayerSpec) withDefaults() LayerSpec {
	if s.TilesheetSize == (Size{}) {
		s.TilesheetSize = DefaultTilesheetSize
	}
	if s.Chunks == (Size{}) {
		s.Chunks = Size{W: 1, H: 1}
	}
	return s
}

// Validate checks a single layer declaration.
func (s LayerSpec) Validate() error {
	switch {
	case s.TexturePath == "":
		return fmt.Errorf("%w: layer %d: texture_path not set", ErrInvalidConfig, s.ID)
	case s.Size.W <= 0 || s.Size.H <= 0:
		return fmt.Errorf("%w: layer %d: size %dx%d", ErrInvalidConfig, s.ID, s.Size.W, s.Size.H)
	case s.TileSize.W <= 0 || s.TileSize.H <= 0:
		return fmt.Errorf("%w: layer %d: tile_size not set", ErrInvalidConfig, s.ID)
	case s.TilesheetSize.W <= 0 || s.TilesheetSize.H <= 0:
		return fmt.Errorf("%w: layer %d: tilesheet_size not set", ErrInvalidConfig, s.ID)
	case s.Chunks.W <= 0 || s.Chunks.H <= 0:
		return fmt.Errorf("%w: layer %d: chunks %dx%d", ErrInvalidConfig, s.ID, s.Chunks.W, s.Chunks.H)
	case s.Size.W%s.Chunks.W != 0 || s.Size.H%s.Chunks.H != 0:
		return fmt.Errorf("%w: layer %d: %dx%d chunks do not divide %dx%d tiles",
			ErrInvalidConfig, s.ID, s.Chunks.W, s.Chunks.H, s.Size.W, s.Size.H)
	}
	return nil
}

// TilemapSpec is the full startup declaration of a tilemap.
type TilemapSpec struct {
	Layers []LayerSpec `yaml:"layers"`
}

// Normalize applies defaults to every layer.
func (s TilemapSpec) Normalize() TilemapSpec {
	out := TilemapSpec{Layers: make([]LayerSpec, len(s.Layers))}
	for i, l := range s.Layers {
		out.Layers[i] = l.withDefaults()
	}
	return out
}

// Validate checks every layer and the id sequence.
func (s TilemapSpec) Validate() error {
	if len(s.Layers) == 0 {
		return fmt.Errorf("%w: no layers declared", ErrInvalidConfig)
	}
	for i, l := range s.Layers {
		if l.ID != i {
			return fmt.Errorf("%w: layer declared at position %d has id %d", ErrInvalidConfig, i, l.ID)
		}
		if err := l.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// WindowSize is the pixel size of the first layer, which defines the window.
func (s TilemapSpec) WindowSize() Size {
	if len(s.Layers) == 0 {
		return Size{}
	}
	l := s.Layers[0]
	return Size{W: l.Size.W * l.TileSize.W, H: l.Size.H * l.TileSize.H}
}

// LayerBuilder declares a layer fluently.
type LayerBuilder struct {
	spec LayerSpec
}

// NewLayer starts a layer declaration with a 16x16 tilesheet and one chunk.
func NewLayer(id int) *LayerBuilder {
	return &LayerBuilder{spec: LayerSpec{
		ID:            id,
		TilesheetSize: DefaultTilesheetSize,
		Chunks:        Size{W: 1, H: 1},
	}}
}

// TexturePath sets the tilesheet path.
func (b *LayerBuilder) TexturePath(path string) *LayerBuilder {
	b.spec.TexturePath = path
	return b
}

// Size sets the grid extent in tiles.
func (b *LayerBuilder) Size(width, height int) *LayerBuilder {
	b.spec.Size = Size{W: width, H: height}
	return b
}

// TileSize sets the pixel size of one tile.
func (b *LayerBuilder) TileSize(width, height int) *LayerBuilder {
	b.spec.TileSize = Size{W: width, H: height}
	return b
}

// TilesheetSize sets the atlas extent. WARN: in tiles, not pixels.
func (b *LayerBuilder) TilesheetSize(width, height int) *LayerBuilder {
	b.spec.TilesheetSize = Size{W: width, H: height}
	return b
}

// Transparent sets whether a clear leaves the background invisible.
func (b *LayerBuilder) Transparent(v bool) *LayerBuilder {
	b.spec.Transparent = v
	return b
}

// BackgroundTransparent sets whether draws skip the background cell.
func (b *LayerBuilder) BackgroundTransparent(v bool) *LayerBuilder {
	b.spec.BackgroundTransparent = v
	return b
}

// Chunks splits the layer into horizontal x vertical chunks.
func (b *LayerBuilder) Chunks(horizontal, vertical int) *LayerBuilder {
	b.spec.Chunks = Size{W: horizontal, H: vertical}
	return b
}

// Spec returns the declared layer.
func (b *LayerBuilder) Spec() LayerSpec {
	return b.spec
}

// TilemapBuilder collects layer declarations.
type TilemapBuilder struct {
	layers []LayerSpec
}

// NewTilemap starts an empty tilemap declaration.
func NewTilemap() *TilemapBuilder {
	return &TilemapBuilder{}
}

// WithLayer appends a layer.
func (b *TilemapBuilder) WithLayer(layer *LayerBuilder) *TilemapBuilder {
	b.layers = append(b.layers, layer.Spec())
	return b
}

// Build validates the declaration.
func (b *TilemapBuilder) Build() (TilemapSpec, error) {
	spec := TilemapSpec{Layers: append([]LayerSpec(nil), b.layers...)}
	if err := spec.Validate(); err != nil {
		return TilemapSpec{}, err
	}
	return spec, nil
}

// MustBuild is Build for static declarations; it panics on error.
func (b *TilemapBuilder) MustBuild() TilemapSpec {
	spec, err := b.Build()
	if err != nil {
		panic(err)
	}
	return spec
}
