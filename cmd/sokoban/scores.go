package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-sokoban/internal/config"
	"github.com/vovakirdan/tui-sokoban/internal/levels"
	"github.com/vovakirdan/tui-sokoban/internal/platform/tui"
	"github.com/vovakirdan/tui-sokoban/internal/storage"
)

var (
	flagLimit  int
	flagClear  bool
	flagAll    bool
	flagPlayer string
)

var scoresCmd = &cobra.Command{
	Use:   "scores [level]",
	Short: "Show the leaderboard for a level",
	Long: `Display the best results for the specified level, fewest moves first.
Ties go to the earlier result.

Without a level, browse the leaderboards of all levels interactively.
With --player, list the most recent solves of one player across all levels.

Examples:
  sokoban scores
  sokoban scores lvl01
  sokoban scores lvl01 --limit 20
  sokoban scores lvl01 --all
  sokoban scores --player alice`,
	Args: func(cmd *cobra.Command, args []string) error {
		if flagPlayer != "" {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.MaximumNArgs(1)(cmd, args)
	},
	Run: runScores,
}

func init() {
	scoresCmd.Flags().IntVarP(&flagLimit, "limit", "n", 0, "Number of results to show (default from config)")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all results for the level")
	scoresCmd.Flags().BoolVarP(&flagAll, "all", "a", false, "Show every result instead of the top --limit")
	scoresCmd.Flags().StringVarP(&flagPlayer, "player", "p", "", "Show recent results of a player")
	scoresCmd.MarkFlagsMutuallyExclusive("player", "all")
	scoresCmd.MarkFlagsMutuallyExclusive("player", "clear")
}

func runScores(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	switch {
	case flagPlayer != "":
		runPlayerScores(cfg, flagPlayer)
		return
	case len(args) == 0:
		browseScores(cfg)
		return
	}
	levelID := args[0]

	// Results may outlive their level file, so a missing level only changes the title
	title := levelID
	lvl, err := newLoader(cfg).LoadByID(levelID)
	switch {
	case err == nil:
		title = fmt.Sprintf("%s (%s)", lvl.Name, lvl.ID)
	case errors.Is(err, levels.ErrNotFound):
		logger.Warn("level not found, showing stored results only", "level", levelID)
	default:
		fatalf("%v", err)
	}

	store := openStore(cfg, false)
	defer store.Close()

	if flagClear {
		if err := store.ClearResults(levelID); err != nil {
			fatalf("clearing results: %v", err)
		}
		fmt.Printf("Cleared results for %s.\n", title)
		return
	}

	limit := flagLimit
	if limit <= 0 {
		limit = cfg.LeaderboardSize
	}

	var results []storage.Result
	if flagAll {
		results, err = store.AllResults(levelID)
	} else {
		results, err = store.TopResults(levelID, limit)
	}
	if err != nil {
		fatalf("retrieving results: %v", err)
	}

	fmt.Printf("Leaderboard - %s\n", title)
	fmt.Println()

	if len(results) == 0 {
		fmt.Println("No results recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'sokoban play %s' to set the first result!\n", levelID)
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-16s  %-6s  %s\n", "Rank", "Player", "Moves", "Date")
	fmt.Printf("  %-4s  %-16s  %-6s  %s\n", "----", "------", "-----", "----")

	for i, r := range results {
		fmt.Printf("  %-4d  %-16s  %-6d  %s\n", tui.CompetitionRank(results, i), r.Player, r.Moves, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	if stats, err := store.LevelStats(levelID); err == nil && stats.Solves > 0 {
		fmt.Println()
		fmt.Printf("%d solves by %d players, average %.1f moves\n", stats.Solves, stats.Players, stats.AvgMoves)
	}
}

func runPlayerScores(cfg config.Config, player string) {
	store := openStore(cfg, false)
	defer store.Close()

	limit := flagLimit
	if limit <= 0 {
		limit = cfg.LeaderboardSize
	}

	results, err := store.PlayerResults(player, limit)
	if err != nil {
		fatalf("retrieving results: %v", err)
	}

	fmt.Printf("Recent solves - %s\n", player)
	fmt.Println()

	if len(results) == 0 {
		fmt.Println("No results recorded yet.")
		return
	}

	fmt.Printf("  %-12s  %-6s  %s\n", "Level", "Moves", "Date")
	fmt.Printf("  %-12s  %-6s  %s\n", "-----", "-----", "----")
	for _, r := range results {
		fmt.Printf("  %-12s  %-6d  %s\n", r.LevelID, r.Moves, r.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func browseScores(cfg config.Config) {
	lvls, err := newLoader(cfg).LoadAll()
	if err != nil {
		fatalf("loading levels: %v", err)
	}

	store := openStore(cfg, false)
	defer store.Close()

	rc := runtimeConfig(cfg)
	if err := tui.RunScoreboard(lvls, store, "", cfg.LeaderboardSize, rc.ScreenW, rc.ScreenH); err != nil {
		fatalf("running leaderboard: %v", err)
	}
}
