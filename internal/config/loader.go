package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/ascii-tilemap/internal/tilemap"
)

// load resolves a YAML document named name.
// Search order: customPath -> ~/.ascii/configs/<name>.yaml ->
// ./configs/<name>.yaml -> embedded default -> fallback.
//
// Every file is decoded over a copy of fallback so a partial file only
// overrides what it names. A custom path that cannot be read or parsed is an
// error; unreadable files further down the list are skipped.
func load[T any](name, customPath string, fallback T) (T, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return fallback, fmt.Errorf("config: read %s: %w", customPath, err)
		}
		cfg := fallback
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return fallback, fmt.Errorf("config: parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	filename := name + ".yaml"
	for _, path := range []string{userConfigPath(filename), filepath.Join("configs", filename)} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		cfg := fallback
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	if data := GetDefaultYAML(name); data != nil {
		cfg := fallback
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}
	return fallback, nil
}

// LoadFlappy loads the Flappy Dragon configuration.
func LoadFlappy(customPath string) (FlappyConfig, error) {
	return load("flappy", customPath, DefaultFlappyConfig())
}

// LoadTilemap loads the layer declarations for game gameID, named
// <gameID>.tilemap.yaml, falling back to the game's own declaration.
// The result is normalized and validated, and must declare at least the
// layers of fallback since the game draws to them.
func LoadTilemap(gameID, customPath string, fallback tilemap.TilemapSpec) (tilemap.TilemapSpec, error) {
	spec, err := load(gameID+".tilemap", customPath, fallback)
	if err != nil {
		return spec, err
	}
	spec = spec.Normalize()
	if err := spec.Validate(); err != nil {
		return spec, fmt.Errorf("config: tilemap %s: %w", gameID, err)
	}
	if len(spec.Layers) < len(fallback.Layers) {
		return spec, fmt.Errorf("config: tilemap %s: %w: %d layers declared, game draws to %d",
			gameID, tilemap.ErrInvalidConfig, len(spec.Layers), len(fallback.Layers))
	}
	return spec, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ascii", "configs", filename)
}

// ApplyFlappyPreset modifies the config based on a difficulty preset.
func ApplyFlappyPreset(cfg *FlappyConfig, preset DifficultyPreset) {
	if IsFixedPreset(preset) {
		cfg.Difficulty.Enabled = false
		return
	}
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)

	switch preset {
	case DifficultyEasy:
		cfg.Obstacles.MaxGapSize += 2
	case DifficultyHard:
		cfg.Physics.BaseSpeed *= 1.25
	}
}
