// ascii runs layered ASCII tilemap programs in the terminal.
//
// Usage:
//
//	ascii list                - List available programs
//	ascii play [program]      - Play a program (menu when omitted)
//	ascii serve               - Start SSH server and spectator stream
//	ascii scores <program>    - Show high scores and render stats
//	ascii snapshot <program>  - Run frames headless and print the screen
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 30)
//	--seed <value>       - Set RNG seed for reproducible runs
//	--db <dsn>           - SQLite path or postgres:// URL (default: ~/.ascii/scores.db)
//	--tilemap <path>     - Override the layer declarations of a program
//	--log-level <level>  - debug, info, warn, error (default: warn)
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	// Import programs to register them
	_ "github.com/vovakirdan/ascii-tilemap/internal/games/flappy"
	_ "github.com/vovakirdan/ascii-tilemap/internal/games/showcase"
	"github.com/vovakirdan/ascii-tilemap/internal/telemetry"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagTilemap  string
	flagLogLevel string
	flagLogFile  string

	logger            *log.Logger
	logFile           *os.File
	shutdownTelemetry func(context.Context) error
)

func main() {
	// Environment for OTEL_* settings; a missing .env is fine
	//nolint:errcheck // Optional file
	godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if shutdownTelemetry != nil {
		//nolint:errcheck // Best-effort flush on exit
		shutdownTelemetry(context.Background())
	}
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ascii",
	Short: "ASCII Tilemap - layered terminal tile renderer",
	Long: `ASCII Tilemap renders programs as layers of CP437 tiles. Each frame only
the chunks whose tiles changed are uploaded to the terminal.

Available commands:
  list      - Show all available programs
  play      - Play a program (or pick one from a menu)
  serve     - Start SSH server for remote play and a spectator stream
  scores    - View high scores and render statistics
  snapshot  - Run frames without a terminal and print the result

Examples:
  ascii list
  ascii play flappy
  ascii play showcase --backend tcell
  ascii serve --ssh :2222 --ws :8080
  ascii snapshot showcase --frames 60`,
	PersistentPreRunE: setup,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.ascii/scores.db", "Scores database: SQLite path or postgres:// URL")
	rootCmd.PersistentFlags().StringVar(&flagTilemap, "tilemap", "", "Path to a tilemap layout YAML overriding the program's layers")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to a file instead of stderr")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(snapshotCmd)
}

// setup builds the logger and starts tracing when an OTLP endpoint is set.
func setup(cmd *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}

	out := os.Stderr
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("cannot open log file: %w", err)
		}
		logFile = f
		out = f
	}
	logger = log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})

	if telemetry.Enabled() {
		shutdown, err := telemetry.Setup(cmd.Context())
		if err != nil {
			logger.Warn("tracing disabled", "error", err)
			return nil
		}
		shutdownTelemetry = shutdown
		logger.Info("tracing enabled")
	}
	return nil
}
