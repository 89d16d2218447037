// sokoban is a terminal Sokoban game with accounts, a leaderboard and a
// level editor.
//
// Usage:
//
//	sokoban play [level]       - Play a level
//	sokoban menu               - Log in and pick levels interactively
//	sokoban levels             - List available levels
//	sokoban scores <level>     - Show the leaderboard for a level
//	sokoban register <user>    - Create a player account
//	sokoban edit <level>       - Edit a level (admin only)
//	sokoban serve              - Start SSH server for remote play
//
// Global flags:
//
//	--config <path>  - Config file (default: ~/.sokoban/config.yaml)
//	--db <path>      - Database path (default: ~/.sokoban/sokoban.db)
//	--levels <dir>   - User level directory (default: ~/.sokoban/levels)
//	--fps <rate>     - Tick rate
//	--debug          - Verbose logging
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-sokoban/internal/config"
	"github.com/vovakirdan/tui-sokoban/internal/core"
	"github.com/vovakirdan/tui-sokoban/internal/levels"
	"github.com/vovakirdan/tui-sokoban/internal/storage"
)

var (
	// Global flags
	flagConfigPath string
	flagDBPath     string
	flagLevelsDir  string
	flagFPS        int
	flagDebug      bool

	logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "sokoban"})
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sokoban",
	Short: "Sokoban - push blocks onto targets in your terminal",
	Long: `Sokoban is a terminal puzzle game. Push every block onto a target
in as few moves as you can.

Available commands:
  play      - Play a level directly
  menu      - Log in and pick levels interactively
  levels    - Show all available levels
  scores    - View a level's leaderboard
  register  - Create a player account
  edit      - Edit or create a level (admin only)
  serve     - Start SSH server for remote play

Examples:
  sokoban levels
  sokoban play lvl01
  sokoban menu
  sokoban serve --ssh :2222
  sokoban scores lvl01`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagDebug {
			logger.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to results database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLevelsDir, "levels", "", "User level directory (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig loads the config file and applies command line overrides.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		fatalf("%v", err)
	}
	if flagDBPath != "" {
		cfg.DBPath = flagDBPath
	}
	if flagLevelsDir != "" {
		cfg.LevelsDir = flagLevelsDir
	}
	if flagFPS > 0 {
		cfg.TickRate = flagFPS
	}
	logger.Debug("config loaded", "db", cfg.DBPath, "levels", cfg.LevelsDir, "fps", cfg.TickRate)
	return cfg
}

// openStore opens the results database. With optional set, a failure is
// logged and nil is returned so play can continue without saving.
func openStore(cfg config.Config, optional bool) *storage.Store {
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		if optional {
			logger.Warn("could not open results database, results will not be saved", "error", err)
			return nil
		}
		fatalf("opening results database: %v", err)
	}
	return store
}

func newLoader(cfg config.Config) *levels.Loader {
	return levels.NewLoader(config.ExpandHome(cfg.LevelsDir))
}

// runtimeConfig sizes the game to the current terminal.
func runtimeConfig(cfg config.Config) core.RuntimeConfig {
	rc := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		rc.ScreenW = w
		rc.ScreenH = h
	}
	rc.TickRate = cfg.TickRate
	return rc
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
