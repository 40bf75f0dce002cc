// Package session runs one game on one tilemap renderer. Every frontend
// (Bubble Tea, tcell, SSH, headless snapshots) drives the same loop:
// Step -> Draw -> RenderFrame -> compose the dirty chunks.
package session

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vovakirdan/ascii-tilemap/internal/config"
	"github.com/vovakirdan/ascii-tilemap/internal/core"
	"github.com/vovakirdan/ascii-tilemap/internal/registry"
	"github.com/vovakirdan/ascii-tilemap/internal/storage"
	"github.com/vovakirdan/ascii-tilemap/internal/telemetry"
	"github.com/vovakirdan/ascii-tilemap/internal/tilemap"
)

// Update is what observers receive after every frame.
type Update struct {
	SessionID string `json:"session"`
	GameID    string `json:"game"`
	Score     int    `json:"score"`
	GameOver  bool   `json:"game_over"`
	tilemap.Frame
}

// Observer is notified of every rendered frame. Observe is called on the
// session's goroutine and must not block.
type Observer interface {
	Observe(Update)
}

// Finisher is an Observer that wants to know when a session ends.
type Finisher interface {
	Finish(sessionID string)
}

// Options configures a Session.
type Options struct {
	// Backend names the frontend in the stored session record.
	Backend string

	// TilemapPath overrides the layer declarations of the game.
	TilemapPath string

	// Store receives scores and the session record. Nil disables storage.
	Store *storage.Store

	Logger    *log.Logger
	Tracer    trace.Tracer
	Observers []Observer
}

// Session owns a game, its renderer and the composed screen.
type Session struct {
	id       string
	game     registry.Game
	renderer *tilemap.Renderer
	screen   *core.Screen
	cfg      core.RuntimeConfig
	opts     Options
	logger   *log.Logger
	tracer   trace.Tracer
	state    core.GameState
	dirty    []core.Rect
	started  time.Time
	closed   bool
}

// New builds the renderer for game, resets the game and composes the
// initial screen. The runtime screen size is the size of the first layer.
func New(game registry.Game, cfg core.RuntimeConfig, opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel})
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = telemetry.Tracer("session")
	}
	if opts.Backend == "" {
		opts.Backend = "headless"
	}

	spec, err := config.LoadTilemap(game.ID(), opts.TilemapPath, game.Tilemap())
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	r, err := tilemap.New(spec,
		tilemap.WithLogger(logger.WithPrefix("tilemap")),
		tilemap.WithTracer(opts.Tracer),
	)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	size := r.ScreenSize()
	cfg.ScreenW, cfg.ScreenH = size.W, size.H
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	s := &Session{
		id:       uuid.NewString(),
		game:     game,
		renderer: r,
		screen:   core.NewScreen(size.W, size.H),
		cfg:      cfg,
		opts:     opts,
		logger:   logger,
		tracer:   tracer,
		started:  time.Now(),
	}

	game.Reset(cfg)
	s.state = game.State()

	// Every chunk starts flagged; the first upload is the whole screen.
	r.Compose(s.screen)
	r.Display().ClearRemesh()

	logger.Info("session started",
		"id", s.id,
		"game", game.ID(),
		"backend", opts.Backend,
		"screen", fmt.Sprintf("%dx%d", size.W, size.H),
		"seed", cfg.Seed,
	)
	return s, nil
}

// Tick runs one simulation step and one frame. Only the screen areas of
// dirty chunks are recomposed; DirtyRects lists them until the next Tick.
func (s *Session) Tick(ctx context.Context, in core.InputFrame) tilemap.Frame {
	ctx, span := s.tracer.Start(ctx, "session.tick")
	defer span.End()

	prev := s.state
	s.state = s.game.Step(in).State

	// Save score on the transition to game over (once)
	if s.state.GameOver && !prev.GameOver {
		s.saveScore()
	}

	s.game.Draw(s.renderer.Context())
	frame := s.renderer.RenderFrame(ctx)

	s.dirty = s.dirty[:0]
	for _, id := range frame.DirtyChunks {
		rect := s.renderer.ChunkScreenRect(id)
		s.renderer.ComposeRect(s.screen, rect)
		s.dirty = append(s.dirty, rect)
	}
	s.renderer.Display().ClearRemesh()

	span.SetAttributes(
		attribute.String("game", s.game.ID()),
		attribute.Int("score", s.state.Score),
		attribute.Int("dirty_rects", len(s.dirty)),
	)

	if len(s.opts.Observers) > 0 {
		u := Update{
			SessionID: s.id,
			GameID:    s.game.ID(),
			Score:     s.state.Score,
			GameOver:  s.state.GameOver,
			Frame:     frame,
		}
		for _, o := range s.opts.Observers {
			o.Observe(u)
		}
	}
	return frame
}

func (s *Session) saveScore() {
	if s.opts.Store == nil || s.state.Score <= 0 {
		return
	}
	if _, err := s.opts.Store.SaveScore(s.game.ID(), s.state.Score); err != nil {
		// Best-effort save, game continues regardless
		s.logger.Warn("could not save score", "game", s.game.ID(), "error", err)
	}
}

// Close stores the session record. It is safe to call more than once.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	for _, o := range s.opts.Observers {
		if f, ok := o.(Finisher); ok {
			f.Finish(s.id)
		}
	}

	stats := s.renderer.Stats()
	elapsed := time.Since(s.started)
	s.logger.Info("session ended",
		"id", s.id,
		"game", s.game.ID(),
		"frames", stats.Frames,
		"tile_writes", stats.TileWrites,
		"remeshes", stats.Remeshes,
		"elapsed", elapsed.Round(time.Millisecond),
	)
	if s.opts.Store == nil {
		return nil
	}

	_, err := s.opts.Store.SaveSession(storage.SessionRecord{
		SessionID:  s.id,
		GameID:     s.game.ID(),
		Backend:    s.opts.Backend,
		Frames:     int64(stats.Frames),
		Commands:   int64(stats.Commands),
		TileWrites: int64(stats.TileWrites),
		Remeshes:   int64(stats.Remeshes),
		Duration:   elapsed,
	})
	if err != nil {
		return fmt.Errorf("session: save record: %w", err)
	}
	return nil
}

// ID returns the session uuid.
func (s *Session) ID() string {
	return s.id
}

// Game returns the running game.
func (s *Session) Game() registry.Game {
	return s.game
}

// Renderer returns the tilemap renderer.
func (s *Session) Renderer() *tilemap.Renderer {
	return s.renderer
}

// Screen returns the composed screen. It is updated in place by Tick.
func (s *Session) Screen() *core.Screen {
	return s.screen
}

// DirtyRects returns the screen areas recomposed by the last Tick.
func (s *Session) DirtyRects() []core.Rect {
	return s.dirty
}

// Config returns the runtime config the game was reset with.
func (s *Session) Config() core.RuntimeConfig {
	return s.cfg
}

// State returns the game state after the last Tick.
func (s *Session) State() core.GameState {
	return s.state
}
