package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ascii-tilemap/internal/registry"
	"github.com/vovakirdan/ascii-tilemap/internal/storage"
)

var flagRecent int

var scoresCmd = &cobra.Command{
	Use:   "scores <program>",
	Short: "Show high scores and render stats for a program",
	Long: `Display the top 10 high scores for the specified program, followed by
the most recent sessions and how much of their drawing reached the screen.

Examples:
  ascii scores flappy
  ascii scores showcase --recent 10`,
	Args: cobra.ExactArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagRecent, "recent", 5, "Number of recent sessions to show")
}

func runScores(cmd *cobra.Command, args []string) error {
	gameID := args[0]

	// Check if program exists
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown program %q, run 'ascii list' to see available programs", gameID)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}
	title := game.Title()

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	scores, err := store.TopScores(gameID, 10)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	// Display scores
	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'ascii play %s' to set the first high score!\n", gameID)
	} else {
		// Print header
		fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
		fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")

		for i, entry := range scores {
			dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
			fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, dateStr)
		}

		fmt.Println()
		if stats, err := store.GetGameStats(gameID); err == nil {
			fmt.Printf("Best: %d   Games: %d   Average: %.1f\n", stats.HighScore, stats.GamesCount, stats.AvgScore)
		}
	}

	sessions, err := store.RecentSessions(gameID, flagRecent)
	if err != nil {
		return fmt.Errorf("retrieving sessions: %w", err)
	}
	if len(sessions) == 0 {
		return nil
	}

	fmt.Println()
	fmt.Println("Recent sessions:")
	fmt.Println()
	fmt.Printf("  %-16s  %-8s  %-8s  %-10s  %-12s  %s\n", "Date", "Backend", "Frames", "Duration", "Writes/frame", "Uploads/frame")
	fmt.Printf("  %-16s  %-8s  %-8s  %-10s  %-12s  %s\n", "----", "-------", "------", "--------", "------------", "-------------")
	for _, r := range sessions {
		fmt.Printf("  %-16s  %-8s  %-8d  %-10s  %-12.1f  %.2f\n",
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.Backend,
			r.Frames,
			r.Duration.Round(time.Second),
			perFrame(r.TileWrites, r.Frames),
			perFrame(r.Remeshes, r.Frames),
		)
	}
	return nil
}

func perFrame(total, frames int64) float64 {
	if frames == 0 {
		return 0
	}
	return float64(total) / float64(frames)
}
