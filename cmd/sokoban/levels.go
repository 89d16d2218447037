package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-sokoban/internal/storage"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List all available levels",
	Long: `Shows the built-in levels and the levels in the user level directory.
A user level with the same ID as a built-in one replaces it.
If the results database is available, solve counts and best moves are shown.`,
	Run: runLevels,
}

func runLevels(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	lvls, err := newLoader(cfg).LoadAll()
	if err != nil {
		fatalf("loading levels: %v", err)
	}

	if len(lvls) == 0 {
		fmt.Println("No levels available.")
		return
	}

	// Statistics are optional; the listing works without a database
	stats := map[string]*storage.LevelStats{}
	if store := openStore(cfg, true); store != nil {
		if all, err := store.AllLevelStats(); err != nil {
			logger.Warn("could not read level statistics", "error", err)
		} else {
			stats = all
		}
		store.Close()
	}

	fmt.Println("Available levels:")
	fmt.Println()

	// Calculate column widths
	maxIDLen, maxNameLen := 2, 4 // "ID", "Name" headers
	for _, lvl := range lvls {
		maxIDLen = max(maxIDLen, len(lvl.ID))
		maxNameLen = max(maxNameLen, len(lvl.Name))
	}

	// Print header
	fmt.Printf("  %-*s  %-*s  %-7s  %-7s  %-6s  %-4s  %s\n", maxIDLen, "ID", maxNameLen, "Name", "Size", "Targets", "Solves", "Best", "Source")
	fmt.Printf("  %-*s  %-*s  %-7s  %-7s  %-6s  %-4s  %s\n", maxIDLen, "--", maxNameLen, "----", "----", "-------", "------", "----", "------")

	// Print levels
	for _, lvl := range lvls {
		source := "built-in"
		if !lvl.Builtin {
			source = lvl.FilePath
		}
		size := fmt.Sprintf("%dx%d", lvl.Width(), lvl.Height())
		solves, best := 0, "-"
		if s, ok := stats[lvl.ID]; ok {
			solves, best = s.Solves, fmt.Sprintf("%d", s.BestMoves)
		}
		fmt.Printf("  %-*s  %-*s  %-7s  %-7d  %-6d  %-4s  %s\n", maxIDLen, lvl.ID, maxNameLen, lvl.Name, size, lvl.Targets(), solves, best, source)
	}

	fmt.Println()
	fmt.Println("Run 'sokoban play <id>' to play a level.")
}
