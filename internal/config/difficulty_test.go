package config

import (
	"math"
	"testing"
)

func TestDifficultyLevel(t *testing.T) {
	cfg := DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.2,
		Progression:  ProgressionConfig{Type: "score", MaxAt: 100},
		Scaling:      ScalingConfig{SpeedMultiplier: 1.0, GapReduction: 4, SpacingReduction: 10, MinGap: 6, MinSpacing: 15},
	}
	d := NewDifficultyManager(cfg)

	tests := []struct {
		score int
		want  float64
	}{
		{0, 0.2},
		{50, 0.6},
		{100, 1.0},
		{500, 1.0},
	}
	for _, tc := range tests {
		if got := d.Level(tc.score, 0); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Level(%d) = %f, expected %f", tc.score, got, tc.want)
		}
	}

	if got := d.Speed(1.0, 100, 0); math.Abs(got-2.0) > 1e-9 {
		t.Errorf("Speed at max = %f, expected 2.0", got)
	}
	if got := d.GapSize(8, 100, 0); got != 6 {
		t.Errorf("GapSize clamps to min_gap: got %d, expected 6", got)
	}
	if got := d.Spacing(30, 0, 0); got != 28 {
		t.Errorf("Spacing(30) at level 0.2 = %d, expected 28", got)
	}
	if got := d.Spacing(20, 100, 0); got != 15 {
		t.Errorf("Spacing clamps to min_spacing: got %d, expected 15", got)
	}
}

func TestDifficultyDisabled(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:      false,
		InitialLevel: 0.3,
		Progression:  ProgressionConfig{Type: "score", MaxAt: 10},
	})
	if d.IsEnabled() {
		t.Error("IsEnabled() should be false")
	}
	if got := d.Level(1000, 1000); got != 0.3 {
		t.Errorf("Level() = %f, expected the initial level", got)
	}
	d.SetInitialLevel(2)
	if got := d.Level(0, 0); got != 1.0 {
		t.Errorf("SetInitialLevel clamps, got %f", got)
	}
}
