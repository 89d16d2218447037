package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-sokoban/internal/accounts"
	"github.com/vovakirdan/tui-sokoban/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Log in and pick levels interactively",
	Long: `Start Sokoban in interactive mode.

You log in, register or continue as guest, then choose from the main menu:
play a level, browse the leaderboard or, as admin, open the puzzle editor.
A fresh database has one account, admin with password admin.

Controls:
  Up/Down/j/k  - Navigate
  Enter        - Select
  Tab          - Leaderboard
  Q            - Quit

Examples:
  sokoban menu
  sokoban menu --db ./sokoban.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	store := openStore(cfg, true)
	if store != nil {
		defer store.Close()
	}

	svc := tui.Services{
		Store:           store,
		Levels:          newLoader(cfg),
		LeaderboardSize: cfg.LeaderboardSize,
		EditorWidth:     cfg.Editor.DefaultWidth,
		EditorHeight:    cfg.Editor.DefaultHeight,
	}

	// Without a database there are no accounts; the session starts as guest
	if store != nil {
		accts, err := accounts.NewService(store)
		if err != nil {
			fatalf("%v", err)
		}
		svc.Accounts = accts
	}

	if err := tui.RunSession(svc, runtimeConfig(cfg)); err != nil {
		fatalf("%v", err)
	}
}
