package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/vovakirdan/tui-sokoban/internal/accounts"
	"github.com/vovakirdan/tui-sokoban/internal/storage"
)

var stdin = bufio.NewReader(os.Stdin)

// prompt reads one line from stdin.
func prompt(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echo.
func promptPassword(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return prompt("")
	}
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// login authenticates username against store, prompting for the password.
// An empty username or "guest" plays as guest.
func login(store *storage.Store, username string) (accounts.Identity, error) {
	if username == "" || username == accounts.GuestName {
		return accounts.Guest(), nil
	}
	if store == nil {
		return accounts.Identity{}, errors.New("accounts need the results database")
	}

	svc, err := accounts.NewService(store)
	if err != nil {
		return accounts.Identity{}, err
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return accounts.Identity{}, fmt.Errorf("reading password: %w", err)
	}
	return svc.Authenticate(username, password)
}
