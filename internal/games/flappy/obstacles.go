package flappy

import (
	"math/rand"

	"github.com/vovakirdan/ascii-tilemap/internal/config"
	"github.com/vovakirdan/ascii-tilemap/internal/core"
)

// Pipe represents a vertical wall with a gap for the dragon to fly through.
// X is a world column; the world scrolls, pipes do not move.
type Pipe struct {
	X         int  // World column of the left edge
	GapY      int  // Y position where gap starts (top of gap)
	GapHeight int  // Height of the passable gap
	Passed    bool // Whether the dragon has passed this pipe (for scoring)
}

// TopRect returns the collision rectangle for the top portion of the pipe.
func (p Pipe) TopRect(pipeWidth int) core.Rect {
	return core.NewRect(p.X, 0, pipeWidth, p.GapY)
}

// BottomRect returns the collision rectangle for the bottom portion of the
// pipe, down to groundY.
func (p Pipe) BottomRect(pipeWidth, groundY int) core.Rect {
	bottomY := p.GapY + p.GapHeight
	return core.NewRect(p.X, bottomY, pipeWidth, groundY-bottomY)
}

// PipeManager handles spawning and removal of pipes along the world.
type PipeManager struct {
	pipes      []Pipe
	rng        *rand.Rand
	screenW    int
	groundY    int
	cfg        *config.FlappyConfig
	difficulty *config.DifficultyManager
}

// NewPipeManager creates a new pipe manager with the given RNG seed.
func NewPipeManager(seed int64, screenW, groundY int, cfg *config.FlappyConfig, diff *config.DifficultyManager) *PipeManager {
	pm := &PipeManager{
		pipes:      make([]Pipe, 0, 8),
		screenW:    screenW,
		groundY:    groundY,
		cfg:        cfg,
		difficulty: diff,
	}
	pm.Reset(seed)
	return pm
}

// Reset clears all pipes and resets the RNG.
func (pm *PipeManager) Reset(seed int64) {
	pm.pipes = pm.pipes[:0]
	pm.rng = rand.New(rand.NewSource(seed))
}

// UpdateScreenSize updates the view width and the ground row.
func (pm *PipeManager) UpdateScreenSize(screenW, groundY int) {
	pm.screenW = screenW
	pm.groundY = groundY
}

// Update scores, drops and spawns pipes for a view whose left edge is at
// world column left. Returns the number of pipes the dragon at world column
// playerX passed this frame.
func (pm *PipeManager) Update(left, playerX, score, ticks int) int {
	passed := 0
	pipeWidth := pm.cfg.Obstacles.PipeWidth

	// Check for passed pipes (dragon passed the right edge of the pipe)
	for i := range pm.pipes {
		if !pm.pipes[i].Passed && pm.pipes[i].X+pipeWidth < playerX {
			pm.pipes[i].Passed = true
			passed++
		}
	}

	// Remove pipes that scrolled off the left side
	validPipes := pm.pipes[:0]
	for _, p := range pm.pipes {
		if p.X+pipeWidth > left {
			validPipes = append(validPipes, p)
		}
	}
	pm.pipes = validPipes

	spacing := pm.difficulty.Spacing(pm.cfg.Obstacles.PipeSpacing, score, ticks)
	right := left + pm.screenW
	if len(pm.pipes) == 0 || pm.pipes[len(pm.pipes)-1].X <= right-spacing {
		pm.spawnPipe(right, score, ticks)
	}

	return passed
}

// spawnPipe creates a new pipe at world column x.
func (pm *PipeManager) spawnPipe(x, score, ticks int) {
	// Calculate gap size based on difficulty
	maxGap := pm.cfg.Obstacles.MaxGapSize
	currentGap := pm.difficulty.GapSize(maxGap, score, ticks)

	// Random variation in gap size (between minGap and currentGap)
	minGap := core.Min(pm.cfg.Obstacles.MinGapSize, currentGap)
	gapHeight := minGap
	if currentGap > minGap {
		gapHeight = minGap + pm.rng.Intn(currentGap-minGap+1)
	}

	// Calculate valid Y range for gap
	minGapY := pm.cfg.Obstacles.TopMargin
	maxGapY := core.Max(pm.groundY-pm.cfg.Obstacles.BottomMargin-gapHeight, minGapY)

	gapY := minGapY
	if maxGapY > minGapY {
		gapY = minGapY + pm.rng.Intn(maxGapY-minGapY+1)
	}

	pm.pipes = append(pm.pipes, Pipe{
		X:         x,
		GapY:      gapY,
		GapHeight: gapHeight,
	})
}

// Pipes returns the current list of pipes.
func (pm *PipeManager) Pipes() []Pipe {
	return pm.pipes
}

// CheckCollision checks if the dragon collides with any pipe.
func (pm *PipeManager) CheckCollision(playerRect core.Rect) bool {
	pipeWidth := pm.cfg.Obstacles.PipeWidth
	for _, p := range pm.pipes {
		if playerRect.Intersects(p.TopRect(pipeWidth)) || playerRect.Intersects(p.BottomRect(pipeWidth, pm.groundY)) {
			return true
		}
	}
	return false
}
