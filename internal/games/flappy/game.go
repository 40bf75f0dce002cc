// Package flappy implements Flappy Dragon on the tilemap renderer.
// The dragon flies right through gaps in walls; the world scrolls under a
// camera while the score and difficulty gauge sit on a HUD layer above it.
package flappy

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ascii-tilemap/internal/config"
	"github.com/vovakirdan/ascii-tilemap/internal/core"
	"github.com/vovakirdan/ascii-tilemap/internal/registry"
	"github.com/vovakirdan/ascii-tilemap/internal/tilemap"
)

// Layer ids.
const (
	LayerWorld = 0
	LayerHUD   = 1
)

// Visual glyphs for rendering
var (
	DragonGlyph   = tilemap.Glyph('@')
	PipeGlyph     = tilemap.GlyphBlock
	PipeCapTop    = tilemap.GlyphFromRune('▄')
	PipeCapBottom = tilemap.GlyphFromRune('▀')
	GroundGlyph   = tilemap.GlyphFromRune('═')
	DirtGlyph     = tilemap.GlyphDarkShade
)

// groundRows is the height of the ground band at the bottom of the world.
const groundRows = 2

type phase int

const (
	phaseMenu phase = iota
	phasePlaying
	phaseEnd
)

func (p phase) String() string {
	switch p {
	case phaseMenu:
		return "menu"
	case phasePlaying:
		return "playing"
	default:
		return "end"
	}
}

// Game implements Flappy Dragon.
type Game struct {
	cfg    config.FlappyConfig
	diff   *config.DifficultyManager
	rt     core.RuntimeConfig
	phase  phase
	worldX float64 // Dragon world column
	// Dragon vertical position (top of hitbox) and velocity
	playerY   float64
	playerVel float64
	pipes     *PipeManager
	camera    tilemap.Camera
	score     int
	best      int
	paused    bool
	quit      bool
	tickCount int
}

// New creates a game with the built-in configuration.
func New() *Game {
	return NewWithConfig(config.DefaultFlappyConfig())
}

// NewWithConfig creates a game with cfg.
func NewWithConfig(cfg config.FlappyConfig) *Game {
	return &Game{
		cfg:  cfg,
		diff: config.NewDifficultyManager(cfg.Difficulty),
	}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "flappy"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Flappy Dragon"
}

// Tilemap declares the scrolling world and the HUD over it.
func (g *Game) Tilemap() tilemap.TilemapSpec {
	layer := func(id int) *tilemap.LayerBuilder {
		return tilemap.NewLayer(id).
			TexturePath("terminal8x8.png").
			Size(80, 50).
			TileSize(8, 8).
			Chunks(4, 5)
	}
	return tilemap.NewTilemap().
		WithLayer(layer(LayerWorld)).
		WithLayer(layer(LayerHUD).Transparent(true)).
		MustBuild()
}

// Reset returns to the title menu. The best score survives.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.rt = cfg
	g.phase = phaseMenu
	g.quit = false
	g.restart()
}

// restart clears the run state for a new flight.
func (g *Game) restart() {
	g.worldX = 0
	g.playerY = float64(g.rt.ScreenH) / 2.0
	g.playerVel = 0
	g.score = 0
	g.paused = false
	g.tickCount = 0
	g.camera = tilemap.Camera{Width: g.rt.ScreenW, Height: g.rt.ScreenH}
	g.follow()

	if g.pipes == nil {
		g.pipes = NewPipeManager(g.rt.Seed, g.rt.ScreenW, g.groundY(), &g.cfg, g.diff)
	} else {
		g.pipes.UpdateScreenSize(g.rt.ScreenW, g.groundY())
		g.pipes.Reset(g.rt.Seed)
	}
}

// groundY is the first row of the ground band.
func (g *Game) groundY() int {
	return g.rt.ScreenH - groundRows
}

// follow keeps the dragon at its fixed screen column.
func (g *Game) follow() {
	g.camera.Follow(core.Pt(int(g.worldX)-g.cfg.Player.X+g.camera.Width/2, g.camera.Height/2))
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionQuit) {
		g.quit = true
		return core.StepResult{State: g.State()}
	}

	switch g.phase {
	case phaseMenu, phaseEnd:
		if in.Has(core.ActionPlay) || in.Has(core.ActionConfirm) || in.Has(core.ActionRestart) {
			g.restart()
			g.phase = phasePlaying
		}
	case phasePlaying:
		g.play(in)
	}
	return core.StepResult{State: g.State()}
}

func (g *Game) play(in core.InputFrame) {
	// Handle pause toggle
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return
	}

	g.tickCount++

	if in.Has(core.ActionFlap) || in.Has(core.ActionUp) {
		g.playerVel = g.cfg.Physics.FlapImpulse
	}

	// Apply physics
	g.playerVel += g.cfg.Physics.Gravity
	if g.playerVel > g.cfg.Physics.MaxFallSpeed {
		g.playerVel = g.cfg.Physics.MaxFallSpeed
	}
	g.playerY += g.playerVel

	// Scroll the world
	g.worldX += g.diff.Speed(g.cfg.Physics.BaseSpeed, g.score, g.tickCount)
	g.follow()

	g.score += g.pipes.Update(g.camera.Left, int(g.worldX), g.score, g.tickCount)

	// Hit top of screen
	if g.playerY < 0 {
		g.playerY = 0
		g.die()
		return
	}

	// Hit the ground
	if int(g.playerY)+g.cfg.Player.Height > g.groundY() {
		g.playerY = float64(g.groundY() - g.cfg.Player.Height)
		g.die()
		return
	}

	// Hit a pipe
	if g.pipes.CheckCollision(g.playerRect()) {
		g.die()
	}
}

func (g *Game) die() {
	g.phase = phaseEnd
	g.best = core.Max(g.best, g.score)
}

// playerRect returns the dragon's collision rectangle in world coordinates.
func (g *Game) playerRect() core.Rect {
	return core.NewRect(int(g.worldX), int(g.playerY), g.cfg.Player.Width, g.cfg.Player.Height)
}

// Draw queues the current frame. Every frame clears and redraws both layers;
// only tiles that actually changed reach the screen.
func (g *Game) Draw(ctx *tilemap.DrawContext) {
	theme := g.cfg.Theme

	ctx.SetActiveLayer(LayerWorld)
	ctx.ClsColor(theme.Sky)

	ctx.SetActiveLayer(LayerHUD)
	ctx.Cls()

	switch g.phase {
	case phaseMenu:
		g.drawMenu(ctx, "Welcome to Flappy Dragon")
		if g.best > 0 {
			ctx.PrintColorCentered(12, core.ColorBlack, theme.Text, fmt.Sprintf("Best: %d", g.best))
		}
	case phasePlaying:
		ctx.WithLayer(LayerWorld, g.drawWorld)
		g.drawHUD(ctx)
	case phaseEnd:
		ctx.WithLayer(LayerWorld, g.drawWorld)
		g.drawMenu(ctx, "You are dead")
		ctx.PrintColorCentered(12, core.ColorBlack, theme.Text, fmt.Sprintf("Score: %d  Best: %d", g.score, g.best))
	}
}

func (g *Game) drawMenu(ctx *tilemap.DrawContext, title string) {
	fg := g.cfg.Theme.Text
	bg := core.ColorBlack
	ctx.PrintColorCentered(5, bg, fg, title)
	ctx.PrintColorCentered(8, bg, fg, "(P) Play Game")
	ctx.PrintColorCentered(9, bg, fg, "(Q) Quit Game")
}

func (g *Game) drawWorld(ctx *tilemap.DrawContext) {
	theme := g.cfg.Theme
	size := ctx.LayerSize()

	for _, p := range g.pipes.Pipes() {
		g.drawPipe(ctx, p)
	}

	// Ground band
	for x := 0; x < size.W; x++ {
		ctx.Set(x, g.groundY(), theme.Sky, theme.Ground, GroundGlyph)
		for y := g.groundY() + 1; y < size.H; y++ {
			ctx.Set(x, y, core.ColorBlack, theme.Ground, DirtGlyph)
		}
	}

	// Dragon
	dragon := g.playerRect()
	for p := range dragon.Points() {
		if s, ok := g.camera.ToScreen(p); ok {
			ctx.Set(s.X, s.Y, theme.Sky, theme.Dragon, DragonGlyph)
		}
	}
}

// drawPipe renders a single pipe through the camera.
func (g *Game) drawPipe(ctx *tilemap.DrawContext, p Pipe) {
	theme := g.cfg.Theme
	width := g.cfg.Obstacles.PipeWidth
	bottomY := p.GapY + p.GapHeight

	for x := 0; x < width; x++ {
		for y := 0; y < g.groundY(); y++ {
			var glyph tilemap.Glyph
			switch {
			case y < p.GapY-1 || y > bottomY:
				glyph = PipeGlyph
			case y == p.GapY-1:
				glyph = PipeCapTop
			case y == bottomY:
				glyph = PipeCapBottom
			default:
				continue
			}
			if s, ok := g.camera.ToScreen(core.Pt(p.X+x, y)); ok {
				ctx.Set(s.X, s.Y, theme.Sky, theme.Pipe, glyph)
			}
		}
	}
}

// drawHUD shows the score over a gauge of the difficulty level.
func (g *Game) drawHUD(ctx *tilemap.DrawContext) {
	theme := g.cfg.Theme
	size := ctx.LayerSize()

	level := g.diff.Level(g.score, g.tickCount)
	ctx.BarHorizontal(0, 0, size.W, int(level*100), 100, core.ColorBlack, theme.Bar)
	ctx.PrintColorCentered(0, theme.Bar, theme.Text, fmt.Sprintf("Score: %d", g.score))
	ctx.PrintColorCentered(1, core.ColorBlack, theme.Text, "SPACE to flap, TAB to pause")

	if g.paused {
		ctx.PrintColorCentered(size.H/2, core.ColorBlack, theme.Text, "PAUSED")
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.phase == phaseEnd,
		Paused:   g.paused,
		Quit:     g.quit,
	}
}

// configPath stores the custom config path set via CLI
var configPath string
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading. A non-empty path
// must load; on error the previous path is kept.
func SetConfigPath(path string) error {
	if path != "" {
		if _, err := config.LoadFlappy(path); err != nil {
			return err
		}
	}
	configPath = path
	return nil
}

// SetDifficultyPreset sets the difficulty preset. Unknown names keep the
// settings of the loaded config.
func SetDifficultyPreset(preset string) {
	difficultyPreset, _ = config.ParsePreset(preset)
}

// Register the game with the registry
func init() {
	registry.Register("flappy", func() registry.Game {
		cfg, err := config.LoadFlappy(configPath)
		if err != nil {
			log.Warn("flappy config not loaded, using defaults", "path", configPath, "error", err)
			cfg = config.DefaultFlappyConfig()
		}
		if difficultyPreset != "" {
			config.ApplyFlappyPreset(&cfg, difficultyPreset)
		}
		return NewWithConfig(cfg)
	})
}
