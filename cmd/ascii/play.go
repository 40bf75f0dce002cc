package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/ascii-tilemap/internal/config"
	"github.com/vovakirdan/ascii-tilemap/internal/core"
	"github.com/vovakirdan/ascii-tilemap/internal/games/flappy"
	"github.com/vovakirdan/ascii-tilemap/internal/platform/session"
	platformterm "github.com/vovakirdan/ascii-tilemap/internal/platform/term"
	"github.com/vovakirdan/ascii-tilemap/internal/platform/tui"
	"github.com/vovakirdan/ascii-tilemap/internal/registry"
	"github.com/vovakirdan/ascii-tilemap/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagBackend    string
)

var playCmd = &cobra.Command{
	Use:   "play [program]",
	Short: "Play a program",
	Long: `Start the specified program, or pick one from a menu when none is given.

Controls:
  Space/Up   - Flap / move
  Arrows     - Move
  Tab        - Pause
  Esc/B      - Back to menu (when paused or over)
  R          - Restart (after game over)
  Q/Ctrl+C   - Quit
  Ctrl+S     - Save a screenshot

Backends:
  tui    - Bubble Tea frontend with a help footer (default)
  tcell  - Direct cell writes; only dirty chunks are redrawn

Difficulty options (flappy):
  easy, normal, hard, fixed

Examples:
  ascii play
  ascii play flappy --difficulty hard
  ascii play showcase --backend tcell
  ascii play flappy --config ./my-flappy.yaml
  ascii play showcase --tilemap ./wide.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagBackend, "backend", "tui", "Terminal backend: tui, tcell")
}

func runPlay(cmd *cobra.Command, args []string) error {
	if flagBackend != "tui" && flagBackend != "tcell" {
		return fmt.Errorf("unknown backend %q (want tui or tcell)", flagBackend)
	}
	if flagDifficulty != "" {
		if _, ok := config.ParsePreset(flagDifficulty); !ok {
			return fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", flagDifficulty)
		}
	}
	if err := flappy.SetConfigPath(flagConfig); err != nil {
		return fmt.Errorf("invalid --config: %w", err)
	}
	flappy.SetDifficultyPreset(flagDifficulty)

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - programs still run
		store = nil
	} else {
		defer store.Close()
	}

	if len(args) == 1 {
		if !registry.Exists(args[0]) {
			return fmt.Errorf("unknown program %q, run 'ascii list' to see available programs", args[0])
		}
		_, err := playOnce(cmd, args[0], store)
		return err
	}
	return menuLoop(cmd, store)
}

// menuLoop shows the program picker until the user quits.
func menuLoop(cmd *cobra.Command, store *storage.Store) error {
	width, height := terminalSize()
	for {
		result, err := tui.RunMenu(width, height)
		if err != nil {
			return err
		}
		width, height = result.Width, result.Height

		switch {
		case result.Quit:
			return nil
		case result.WantsScoreboard:
			if store == nil {
				fmt.Fprintln(os.Stderr, "Scoreboard unavailable: no scores database")
				return nil
			}
			goBack, err := tui.RunScoreboard(store, width, height)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}
		default:
			back, err := playOnce(cmd, result.GameID, store)
			if err != nil {
				return err
			}
			// The tcell backend has no menu of its own, so always come back
			if !back && flagBackend == "tui" {
				return nil
			}
		}
	}
}

// playOnce runs gameID on the selected backend and reports whether the
// user asked to return to the menu.
func playOnce(cmd *cobra.Command, gameID string, store *storage.Store) (backToMenu bool, err error) {
	game, err := registry.Create(gameID)
	if err != nil {
		return false, err
	}
	warnIfTooSmall(game)

	cfg := core.RuntimeConfig{
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
	opts := session.Options{
		Backend:     flagBackend,
		TilemapPath: flagTilemap,
		Store:       store,
		Logger:      logger,
	}

	if flagBackend == "tcell" {
		return false, platformterm.Play(cmd.Context(), game, cfg, opts)
	}
	return tui.Run(game, cfg, opts)
}

func terminalSize() (width, height int) {
	width, height = 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return width, height
}

// warnIfTooSmall logs when the terminal cannot show the whole base layer.
func warnIfTooSmall(game registry.Game) {
	info, ok := registry.Lookup(game.ID())
	if !ok {
		return
	}
	w, h := terminalSize()
	if w < info.Screen.W || h < info.Screen.H {
		logger.Warn("terminal smaller than tilemap, output will be clipped",
			"program", game.ID(),
			"terminal", fmt.Sprintf("%dx%d", w, h),
			"tilemap", fmt.Sprintf("%dx%d", info.Screen.W, info.Screen.H),
		)
	}
}
