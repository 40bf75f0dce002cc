// Package registry provides a global registry for game factories.
// Games register themselves in init() functions, allowing the platform
// to discover and instantiate games without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/ascii-tilemap/internal/core"
	"github.com/vovakirdan/ascii-tilemap/internal/tilemap"
)

// Game is the interface every tilemap program implements.
// Games contain pure logic with no terminal dependencies (especially no Bubble Tea).
// They draw through a tilemap.DrawContext; the platform owns the renderer,
// input mapping, timing and output.
type Game interface {
	// ID returns a unique identifier for this game (e.g., "flappy", "showcase").
	// Used for CLI commands and score storage.
	ID() string

	// Title returns a human-readable name for display (e.g., "Flappy Dragon").
	Title() string

	// Tilemap declares the layers the game draws to. The platform builds the
	// renderer from it once, before the first Reset.
	Tilemap() tilemap.TilemapSpec

	// Reset initializes or resets the game state.
	// Called once at start and again when restarting after game over.
	// The RuntimeConfig provides screen dimensions and RNG seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one fixed tick.
	// Input is abstracted to platform-level actions (Flap, Pause, etc.).
	// Returns the result of this tick including current game state.
	Step(in core.InputFrame) core.StepResult

	// Draw queues the current game state on ctx. Nothing is cleared for the
	// game; layers keep their content until the game clears them.
	Draw(ctx *tilemap.DrawContext)

	// State returns the current game state (score, game over, paused).
	State() core.GameState
}

// GameInfo describes a registered program and the tilemap it declares.
type GameInfo struct {
	ID     string
	Title  string
	Layers int
	Screen tilemap.Size // base layer, in tiles
	Window tilemap.Size // base layer, in pixels
}

// Factory is a function that creates a new instance of a game.
type Factory func() Game

type entry struct {
	factory Factory
	info    GameInfo
}

var (
	entries = make(map[string]entry)
	mu      sync.RWMutex
)

// Register adds a game factory to the registry. It is typically called from
// a game's init(); one instance is created to read the title and layout.
// Panics if a game with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	g := f()
	spec := g.Tilemap()
	info := GameInfo{ID: id, Title: g.Title(), Layers: len(spec.Layers), Window: spec.WindowSize()}
	if len(spec.Layers) > 0 {
		info.Screen = spec.Layers[0].Size
	}
	entries[id] = entry{factory: f, info: info}
}

// List returns information about all registered games, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.info)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Lookup returns the registration info of id.
func Lookup(id string) (GameInfo, bool) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := entries[id]
	return e.info, ok
}

// Create instantiates a new game by its ID.
// Returns an error if the game ID is not registered.
func Create(id string) (Game, error) {
	mu.RLock()
	e, ok := entries[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return e.factory(), nil
}

// Exists checks if a game with the given ID is registered.
func Exists(id string) bool {
	_, ok := Lookup(id)
	return ok
}
