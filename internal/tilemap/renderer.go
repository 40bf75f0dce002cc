package tilemap

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vovakirdan/ascii-tilemap/internal/telemetry"
)

// Frame is the outcome of one RenderFrame call: the display updates to
// present, in sweep order, and the chunks that need a re-upload.
type Frame struct {
	Number      uint64       `json:"frame"`
	Commands    int          `json:"commands"`
	Updates     []TileUpdate `json:"updates"`
	DirtyChunks []ChunkID    `json:"dirty_chunks"`
}

// Empty reports whether nothing changed on screen.
func (f Frame) Empty() bool {
	return len(f.DirtyChunks) == 0
}

// Stats are running totals since the renderer was built.
type Stats struct {
	Frames     uint64
	Commands   uint64
	TileWrites uint64
	Remeshes   uint64
}

// Renderer owns the layers, the TileBuffer and the Display of one tilemap.
type Renderer struct {
	spec    TilemapSpec
	layers  []*Layer
	buffer  *TileBuffer
	display *Display
	ctx     *DrawContext
	differ  differ
	logger  *log.Logger
	tracer  trace.Tracer
	stats   Stats
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the renderer logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) { r.logger = l }
}

// WithTracer sets the tracer used for frame spans.
func WithTracer(t trace.Tracer) Option {
	return func(r *Renderer) { r.tracer = t }
}

// New validates spec and performs the one-time setup: layers, sub-buffers
// sized to each layer, display tiles tagged with their TileData.
func New(spec TilemapSpec, opts ...Option) (*Renderer, error) {
	spec = spec.Normalize()
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	r := &Renderer{spec: spec}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "tilemap", Level: log.WarnLevel})
	}
	if r.tracer == nil {
		r.tracer = telemetry.Tracer("tilemap")
	}

	start := time.Now()
	r.logger.Info("initializing tilemap", "layers", len(spec.Layers))

	r.layers = make([]*Layer, len(spec.Layers))
	for i, ls := range spec.Layers {
		r.layers[i] = newLayer(ls)
		r.logger.Debug("layer",
			"id", ls.ID,
			"size", ls.Size,
			"texture", ls.TexturePath,
			"texture_px", ls.TextureSize(),
			"chunks", ls.Chunks,
		)
	}
	r.buffer = NewTileBuffer(r.layers)
	r.display = NewDisplay(r.layers)
	r.ctx = newDrawContext(r.layers)

	r.logger.Info("initializing tilemap done",
		"tiles", r.display.Len(),
		"chunks", len(r.display.Chunks()),
		"elapsed", time.Since(start),
	)
	return r, nil
}

// MustNew is New for static declarations; it panics on error.
func MustNew(spec TilemapSpec, opts ...Option) *Renderer {
	r, err := New(spec, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Spec returns the normalized declaration.
func (r *Renderer) Spec() TilemapSpec {
	return r.spec
}

// Context returns the renderer's draw context. The same context is returned
// every time so its active layer carries over between frames.
func (r *Renderer) Context() *DrawContext {
	return r.ctx
}

// Layers returns the runtime layers.
func (r *Renderer) Layers() []*Layer {
	return r.layers
}

// Buffer returns the TileBuffer.
func (r *Renderer) Buffer() *TileBuffer {
	return r.buffer
}

// Display returns the on-screen tile arena.
func (r *Renderer) Display() *Display {
	return r.display
}

// Stats returns running totals.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// RenderFrame runs the frame pipeline: queued commands are applied to the
// TileBuffer, then the display is diffed against it. Processing always
// happens before diffing and no command survives the call.
func (r *Renderer) RenderFrame(ctx context.Context) Frame {
	ctx, span := r.tracer.Start(ctx, "tilemap.frame")
	defer span.End()

	r.stats.Frames++
	frame := Frame{Number: r.stats.Frames}

	_, pspan := r.tracer.Start(ctx, "tilemap.process")
	frame.Commands = processLayers(r.layers, r.buffer)
	pspan.SetAttributes(attribute.Int("tilemap.commands", frame.Commands))
	pspan.End()

	_, dspan := r.tracer.Start(ctx, "tilemap.diff")
	updates, dirty := r.differ.sweep(r.display, r.buffer, nil)
	frame.Updates = updates
	frame.DirtyChunks = append([]ChunkID(nil), dirty...)
	dspan.SetAttributes(
		attribute.Int("tilemap.tiles", r.display.Len()),
		attribute.Int("tilemap.updates", len(frame.Updates)),
		attribute.Int("tilemap.dirty_chunks", len(frame.DirtyChunks)),
	)
	dspan.End()

	r.stats.Commands += uint64(frame.Commands)
	r.stats.TileWrites += uint64(len(frame.Updates))
	r.stats.Remeshes += uint64(len(frame.DirtyChunks))

	span.SetAttributes(attribute.Int64("tilemap.frame", int64(frame.Number)))
	if !frame.Empty() {
		r.logger.Debug("frame",
			"n", frame.Number,
			"commands", frame.Commands,
			"updates", len(frame.Updates),
			"dirty", len(frame.DirtyChunks),
		)
	}
	return frame
}
