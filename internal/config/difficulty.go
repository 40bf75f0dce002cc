package config

import "github.com/vovakirdan/ascii-tilemap/internal/core"

// DifficultyManager maps a run's score or age to a level in [0, 1] and
// scales obstacle parameters by it.
type DifficultyManager struct {
	cfg   DifficultyConfig
	start float64
}

// NewDifficultyManager creates a manager starting at cfg.InitialLevel.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{cfg: cfg, start: cfg.InitialLevel}
}

// SetInitialLevel overrides the starting level; it is clamped to [0, 1].
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.start = core.ClampF(level, 0, 1)
}

// SetEnabled turns progression on or off.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// IsEnabled reports whether the level moves at all.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// progress is how far the run is towards Progression.MaxAt, in [0, 1].
// Unknown progression types never progress.
func (d *DifficultyManager) progress(score, ticks int) float64 {
	if !d.IsEnabled() {
		return 0
	}
	var v int
	switch d.cfg.Progression.Type {
	case "score":
		v = score
	case "time":
		v = ticks
	default:
		return 0
	}
	return core.ClampF(float64(v)/float64(max(d.cfg.Progression.MaxAt, 1)), 0, 1)
}

// Level is the starting level moved towards 1 by the run's progress.
func (d *DifficultyManager) Level(score, ticks int) float64 {
	return d.start + d.progress(score, ticks)*(1-d.start)
}

// Speed grows base by up to SpeedMultiplier at level 1.
func (d *DifficultyManager) Speed(base float64, score, ticks int) float64 {
	return base * (1 + d.Level(score, ticks)*d.cfg.Scaling.SpeedMultiplier)
}

// GapSize shrinks base by up to GapReduction, never below MinGap.
func (d *DifficultyManager) GapSize(base, score, ticks int) int {
	return scaleDown(base, d.cfg.Scaling.GapReduction, d.cfg.Scaling.MinGap, d.Level(score, ticks))
}

// Spacing shrinks base by up to SpacingReduction, never below MinSpacing.
func (d *DifficultyManager) Spacing(base, score, ticks int) int {
	return scaleDown(base, d.cfg.Scaling.SpacingReduction, d.cfg.Scaling.MinSpacing, d.Level(score, ticks))
}

func scaleDown(base, reduction, floor int, level float64) int {
	return max(base-int(level*float64(reduction)), floor)
}
