package config

import (
	"embed"

	"github.com/vovakirdan/ascii-tilemap/internal/core"
)

//go:embed defaults/*.yaml
var defaultsFS embed.FS

// DefaultFlappyConfig returns the hardcoded Flappy Dragon configuration, used
// when no YAML can be read at all.
func DefaultFlappyConfig() FlappyConfig {
	return FlappyConfig{
		Physics: FlappyPhysics{
			Gravity:      0.2,
			FlapImpulse:  -1.6,
			MaxFallSpeed: 2.0,
			BaseSpeed:    0.6,
		},
		Obstacles: FlappyObstacles{
			PipeWidth:    4,
			PipeSpacing:  30,
			MinGapSize:   10,
			MaxGapSize:   16,
			TopMargin:    4,
			BottomMargin: 4,
		},
		Player: FlappyPlayer{
			X:      10,
			Width:  1,
			Height: 1,
		},
		Theme: FlappyTheme{
			Sky:    core.RGB(25, 25, 112),
			Pipe:   core.ColorDarkGreen,
			Ground: core.RGB(139, 69, 19),
			Dragon: core.ColorYellow,
			Text:   core.ColorWhite,
			Bar:    core.ColorRed,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 50,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier:  1.0,
				GapReduction:     4,
				SpacingReduction: 10,
				MinGap:           6,
				MinSpacing:       15,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for name, e.g. "flappy" or
// "flappy.tilemap", or nil.
func GetDefaultYAML(name string) []byte {
	data, err := defaultsFS.ReadFile("defaults/" + name + ".yaml")
	if err != nil {
		return nil
	}
	return data
}
