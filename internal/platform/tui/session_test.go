package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-sokoban/internal/accounts"
	"github.com/vovakirdan/tui-sokoban/internal/core"
	"github.com/vovakirdan/tui-sokoban/internal/levels"
)

func sessionKeys(m SessionModel, keys ...tea.Msg) SessionModel {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(SessionModel)
	}
	return m
}

func TestSessionStartsAtLogin(t *testing.T) {
	store := openTestStore(t)
	svc, err := accounts.NewService(store)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	m := NewSessionModel(Services{Store: store, Accounts: svc}, core.DefaultConfig(), nil)
	if m.current != screenLogin {
		t.Fatalf("current = %v, want login", m.current)
	}

	m = sessionKeys(m, tea.KeyMsg{Type: tea.KeyCtrlG})
	if m.current != screenMenu || !m.Identity().IsGuest() {
		t.Errorf("after guest login: screen=%v identity=%+v", m.current, m.Identity())
	}
}

func TestSessionWithoutAccountsIsGuest(t *testing.T) {
	m := NewSessionModel(Services{}, core.DefaultConfig(), nil)
	if m.current != screenMenu || !m.Identity().IsGuest() {
		t.Errorf("screen=%v identity=%+v", m.current, m.Identity())
	}
}

func TestSessionPlayAndReturn(t *testing.T) {
	store := openTestStore(t)
	svc := Services{Store: store, Levels: levels.NewLoader(t.TempDir())}
	id := accounts.Identity{Username: "alice", Role: accounts.RolePlayer}

	m := NewSessionModel(svc, core.DefaultConfig(), &id)
	m = sessionKeys(m, runeKey("1"))
	if m.current != screenPicker {
		t.Fatalf("current = %v, want picker", m.current)
	}

	m = sessionKeys(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.current != screenGame {
		t.Fatalf("current = %v, want game", m.current)
	}
	if m.game.game.ID() != "lvl01" {
		t.Errorf("playing %q, want lvl01", m.game.game.ID())
	}

	m = sessionKeys(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.current != screenPicker {
		t.Fatalf("current = %v, want picker after back", m.current)
	}

	m = sessionKeys(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.current != screenMenu {
		t.Errorf("current = %v, want menu", m.current)
	}
}

func TestSessionEditorGate(t *testing.T) {
	dir := t.TempDir()
	svc := Services{Levels: levels.NewLoader(dir), EditorWidth: 6, EditorHeight: 5}

	player := accounts.Identity{Username: "alice", Role: accounts.RolePlayer}
	m := sessionKeys(NewSessionModel(svc, core.DefaultConfig(), &player), runeKey("3"))
	if m.current != screenMenu {
		t.Errorf("player reached screen %v", m.current)
	}

	admin := accounts.Identity{Username: "admin", Role: accounts.RoleAdmin}
	m = sessionKeys(NewSessionModel(svc, core.DefaultConfig(), &admin), runeKey("3"))
	if m.current != screenEditor {
		t.Fatalf("admin reached screen %v, want editor", m.current)
	}

	lvl := m.editor.Level()
	if lvl.Width() != 6 || lvl.Height() != 5 {
		t.Errorf("new level is %dx%d, want 6x5", lvl.Width(), lvl.Height())
	}
	if lvl.Metadata["author"] != "admin" {
		t.Errorf("author = %q", lvl.Metadata["author"])
	}
	// Built-ins take lvl01..lvl04
	if lvl.ID != "lvl05" {
		t.Errorf("new level ID = %q, want lvl05", lvl.ID)
	}

	m = sessionKeys(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if _, err := levels.NewLoader(dir).LoadByID(lvl.ID); err != nil {
		t.Errorf("saved level not found: %v", err)
	}

	m = sessionKeys(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.current != screenMenu {
		t.Errorf("current = %v, want menu after editor", m.current)
	}
}

func TestSessionLeaderboard(t *testing.T) {
	id := accounts.Guest()
	m := NewSessionModel(Services{Store: openTestStore(t)}, core.DefaultConfig(), &id)

	m = sessionKeys(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.current != screenScoreboard {
		t.Fatalf("current = %v, want scoreboard", m.current)
	}
}

func TestSSHIdentity(t *testing.T) {
	if id := SSHIdentity("carol"); id.Username != "carol" || id.Role != accounts.RolePlayer {
		t.Errorf("SSHIdentity(carol) = %+v", id)
	}
	if id := SSHIdentity(""); !id.IsGuest() {
		t.Errorf("SSHIdentity(\"\") = %+v, want guest", id)
	}
}
