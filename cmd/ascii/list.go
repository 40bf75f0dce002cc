package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ascii-tilemap/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available programs",
	Long:  `Shows every registered program with its layer count and screen size in tiles.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	games := registry.List()

	if len(games) == 0 {
		fmt.Println("No programs available.")
		return
	}

	fmt.Println("Available programs:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	maxTitleLen := 5
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
		maxTitleLen = max(maxTitleLen, len(g.Title))
	}

	// Print header
	fmt.Printf("  %-*s  %-*s  %-6s  %s\n", maxIDLen, "ID", maxTitleLen, "Title", "Layers", "Screen")
	fmt.Printf("  %-*s  %-*s  %-6s  %s\n", maxIDLen, "--", maxTitleLen, "-----", "------", "------")

	// Print programs
	for _, g := range games {
		layers := fmt.Sprint(g.Layers)
		screen := fmt.Sprintf("%dx%d", g.Screen.W, g.Screen.H)
		fmt.Printf("  %-*s  %-*s  %-6s  %s\n", maxIDLen, g.ID, maxTitleLen, g.Title, layers, screen)
	}

	fmt.Println()
	fmt.Println("Run 'ascii play <id>' to play a program.")
}
