package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-sokoban/internal/levels"
	"github.com/vovakirdan/tui-sokoban/internal/platform/tui"
)

var (
	flagEditUser   string
	flagEditWidth  int
	flagEditHeight int
)

var editCmd = &cobra.Command{
	Use:   "edit <level>",
	Short: "Edit or create a level (admin only)",
	Long: `Open the puzzle editor for a level. An unknown ID starts a blank,
walled level of --width by --height. Saved levels are written to the user
level directory as <id>.yaml; a built-in level saved this way is overridden.

Controls:
  Arrows/HJKL  - Move cursor
  Space/Enter  - Cycle tile
  0-6          - Set tile
  Ctrl+S       - Save
  Esc          - Exit

Examples:
  sokoban edit lvl01
  sokoban edit mylevel --width 12 --height 9`,
	Args: cobra.ExactArgs(1),
	Run:  runEdit,
}

func init() {
	editCmd.Flags().StringVarP(&flagEditUser, "user", "u", "admin", "Admin account")
	editCmd.Flags().IntVar(&flagEditWidth, "width", 0, "Width of a new level (default from config)")
	editCmd.Flags().IntVar(&flagEditHeight, "height", 0, "Height of a new level (default from config)")
}

func runEdit(_ *cobra.Command, args []string) {
	levelID := args[0]
	cfg := loadConfig()

	store := openStore(cfg, false)
	defer store.Close()

	identity, err := login(store, flagEditUser)
	if err != nil {
		fatalf("%v", err)
	}
	if !identity.IsAdmin() {
		fatalf("the puzzle editor is for admins only")
	}

	loader := newLoader(cfg)
	lvl, err := loader.LoadByID(levelID)
	switch {
	case err == nil:
	case errors.Is(err, levels.ErrNotFound):
		w, h := flagEditWidth, flagEditHeight
		if w < 3 {
			w = cfg.Editor.DefaultWidth
		}
		if h < 3 {
			h = cfg.Editor.DefaultHeight
		}
		lvl = levels.Blank(levelID, w, h)
		lvl.Metadata = map[string]string{"author": identity.Username}
		logger.Info("creating new level", "id", levelID, "width", w, "height", h)
	default:
		fatalf("%v", err)
	}

	rc := runtimeConfig(cfg)
	edited, err := tui.RunEditor(lvl, loader, rc.ScreenW, rc.ScreenH)
	if err != nil {
		fatalf("running editor: %v", err)
	}

	if verr := edited.Validate(); verr != nil {
		fmt.Printf("Level %s is not playable yet: %v\n", edited.ID, verr)
		return
	}
	for _, w := range edited.Warnings() {
		fmt.Printf("Warning: %s\n", w)
	}
}

