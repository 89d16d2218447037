package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-sokoban/internal/games/sokoban"
	"github.com/vovakirdan/tui-sokoban/internal/levels"
	"github.com/vovakirdan/tui-sokoban/internal/platform/tui"
	"github.com/vovakirdan/tui-sokoban/internal/storage"
)

var (
	flagUser  string
	flagMoves string
)

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play a level",
	Long: `Start playing the specified level, or the first level if none is given.

Controls:
  Arrows/WASD/HJKL  - Move
  R                 - Restart the level
  B/Esc             - Back
  Ctrl+S            - Save a screenshot
  Q/Ctrl+C          - Quit

Solved levels are recorded on the leaderboard under --user.
Without --user you play as guest.

With --moves the level is replayed without a terminal UI. Moves are
u/d/l/r or up/down/left/right, separated by commas or spaces.

Examples:
  sokoban play
  sokoban play lvl02
  sokoban play lvl02 --user alice
  sokoban play lvl01 --moves "r,r,d,l"`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVarP(&flagUser, "user", "u", "", "Account to record results for")
	playCmd.Flags().StringVarP(&flagMoves, "moves", "m", "", "Replay a move list instead of playing interactively")
}

func runPlay(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	loader := newLoader(cfg)

	var levelID string
	if len(args) == 1 {
		levelID = args[0]
	} else {
		ids, err := loader.ListIDs()
		if err != nil {
			fatalf("listing levels: %v", err)
		}
		if len(ids) == 0 {
			fatalf("no levels available")
		}
		levelID = ids[0]
	}

	lvl, err := loader.LoadByID(levelID)
	if err != nil {
		fatalf("%v\nRun 'sokoban levels' to see available levels.", err)
	}
	for _, w := range lvl.Warnings() {
		logger.Warn(w, "level", lvl.ID)
	}

	// Continue without storage if the database is unavailable
	store := openStore(cfg, true)
	if store != nil {
		defer store.Close()
	}

	identity, err := login(store, flagUser)
	if err != nil {
		fatalf("%v", err)
	}

	// Read before the run so a new record is visible in the summary
	best, hasBest := bestOnRecord(store, lvl.ID)

	var solved bool
	var moves int
	if flagMoves != "" {
		solved, moves = replay(lvl, store, identity.Username)
	} else {
		game, err := lvl.NewGame()
		if err != nil {
			fatalf("%v", err)
		}

		state, err := tui.Run(game, store, identity.Username, runtimeConfig(cfg))
		if err != nil {
			fatalf("running game: %v", err)
		}
		solved, moves = state.Solved, state.Moves
	}

	if !solved {
		return
	}
	fmt.Printf("Solved %s in %d moves.\n", lvl.Name, moves)
	switch {
	case !hasBest:
		fmt.Println("First solve on record!")
	case moves < best:
		fmt.Printf("New record, previous best was %d moves.\n", best)
	default:
		fmt.Printf("Best on record: %d moves.\n", best)
	}
}

// bestOnRecord returns the level's best move count, if any result exists.
func bestOnRecord(store *storage.Store, levelID string) (int, bool) {
	if store == nil {
		return 0, false
	}
	best, ok, err := store.BestResult(levelID)
	if err != nil {
		logger.Warn("could not read best result", "level", levelID, "error", err)
		return 0, false
	}
	return best, ok
}

// replay applies the --moves list to a fresh puzzle and records a solve.
func replay(lvl levels.Level, store *storage.Store, player string) (bool, int) {
	dirs, err := sokoban.ParseMoves(flagMoves)
	if err != nil {
		fatalf("%v", err)
	}

	puzzle, err := sokoban.NewPuzzle(lvl.Rows)
	if err != nil {
		fatalf("%v", err)
	}

	rejected := 0
	for i, d := range dirs {
		if puzzle.IsSolved() {
			logger.Warn("level solved before the end of the move list", "ignored", len(dirs)-i)
			break
		}
		if !puzzle.AttemptMove(d) {
			rejected++
		}
	}

	if !puzzle.IsSolved() {
		fmt.Printf("Not solved: %d moves made, %d rejected, %d/%d targets filled.\n",
			puzzle.Moves(), rejected, puzzle.BlocksOnTargets(), puzzle.TargetCount())
		return false, puzzle.Moves()
	}

	if store != nil {
		if _, err := store.SaveResult(player, lvl.ID, puzzle.Moves()); err != nil {
			logger.Error("could not save result", "error", err)
		}
	}
	return true, puzzle.Moves()
}
