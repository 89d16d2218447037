package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-sokoban/internal/accounts"
)

var registerCmd = &cobra.Command{
	Use:   "register <username>",
	Short: "Create a player account",
	Long: `Create a new player account. The password is read from the terminal
without echo and must be entered twice.

Examples:
  sokoban register alice`,
	Args: cobra.ExactArgs(1),
	Run:  runRegister,
}

func runRegister(_ *cobra.Command, args []string) {
	cfg := loadConfig()

	store := openStore(cfg, false)
	defer store.Close()

	svc, err := accounts.NewService(store)
	if err != nil {
		fatalf("%v", err)
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		fatalf("reading password: %v", err)
	}
	confirm, err := promptPassword("Repeat password: ")
	if err != nil {
		fatalf("reading password: %v", err)
	}
	if password != confirm {
		fatalf("passwords do not match")
	}

	identity, err := svc.Register(args[0], password)
	if err != nil {
		fatalf("%v", err)
	}

	fmt.Printf("Registered %s.\n", identity.Username)
	fmt.Printf("Run 'sokoban play --user %s' to play.\n", identity.Username)
}
