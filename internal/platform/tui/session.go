package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-sokoban/internal/accounts"
	"github.com/vovakirdan/tui-sokoban/internal/core"
	"github.com/vovakirdan/tui-sokoban/internal/levels"
	"github.com/vovakirdan/tui-sokoban/internal/storage"
)

// Services are the collaborators shared by every screen of a session.
type Services struct {
	Store           *storage.Store    // nil plays without saving
	Accounts        *accounts.Service // nil skips the login screen
	Levels          *levels.Loader
	LeaderboardSize int
	EditorWidth     int
	EditorHeight    int
}

type screen int

const (
	screenLogin screen = iota
	screenMenu
	screenPicker
	screenGame
	screenScoreboard
	screenEditor
)

// SessionModel manages the full flow: login -> menu -> picker -> game -> menu.
// It is the top-level model for both local and SSH sessions.
type SessionModel struct {
	svc      Services
	config   core.RuntimeConfig
	identity accounts.Identity
	current  screen

	login      LoginModel
	menu       MenuModel
	picker     LevelPickerModel
	game       GameModel
	scoreboard ScoreboardModel
	editor     EditorModel

	quitting bool
}

// NewSessionModel creates a session. A nil identity starts at the login
// screen, or as guest when no account service is available.
func NewSessionModel(svc Services, cfg core.RuntimeConfig, identity *accounts.Identity) SessionModel {
	m := SessionModel{
		svc:    svc,
		config: cfg,
	}

	switch {
	case identity != nil:
		m.enterMenu(*identity)
	case svc.Accounts == nil:
		m.enterMenu(accounts.Guest())
	default:
		m.current = screenLogin
		m.login = NewLoginModel(svc.Accounts, cfg.ScreenW, cfg.ScreenH)
	}
	return m
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	if m.current == screenLogin {
		return m.login.Init()
	}
	return nil
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.current {
	case screenLogin:
		return m.updateLogin(msg)
	case screenPicker:
		return m.updatePicker(msg)
	case screenGame:
		return m.updateGame(msg)
	case screenScoreboard:
		return m.updateScoreboard(msg)
	case screenEditor:
		return m.updateEditor(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.login.Update(msg)
	if lm, ok := next.(LoginModel); ok {
		m.login = lm
	}

	if m.login.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if id := m.login.Identity(); id != nil {
		m.enterMenu(*id)
		return m, nil
	}
	return m, cmd
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if mm, ok := next.(MenuModel); ok {
		m.menu = mm
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.menu.Selected() {
	case ChoicePlay:
		lvls, err := m.loadLevels()
		if err != nil {
			return m.backToMenu(err.Error()), nil
		}
		m.picker = NewLevelPickerModel(lvls, m.svc.Store, m.config.ScreenW, m.config.ScreenH)
		m.current = screenPicker

	case ChoiceLeaderboard:
		lvls, err := m.loadLevels()
		if err != nil {
			return m.backToMenu(err.Error()), nil
		}
		m.scoreboard = NewScoreboardModel(lvls, m.svc.Store, m.identity.Username, m.svc.LeaderboardSize, m.config.ScreenW, m.config.ScreenH)
		m.current = screenScoreboard

	case ChoiceEditor:
		if !m.identity.IsAdmin() {
			return m.backToMenu("Puzzle editor is for admins only"), nil
		}
		if m.svc.Levels == nil {
			return m.backToMenu("No levels directory configured"), nil
		}
		m.editor = NewEditorModel(m.newEditorLevel(), m.svc.Levels, m.config.ScreenW, m.config.ScreenH)
		m.current = screenEditor
	}

	return m, cmd
}

func (m SessionModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.picker.Update(msg)
	if pm, ok := next.(LevelPickerModel); ok {
		m.picker = pm
	}

	switch {
	case m.picker.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.picker.IsGoingBack():
		return m.backToMenu(""), nil
	}

	if lvl := m.picker.Selected(); lvl != nil {
		game, err := lvl.NewGame()
		if err != nil {
			return m.backToMenu(err.Error()), nil
		}
		m.game = NewGameModel(game, m.svc.Store, m.identity.Username, m.config)
		m.current = screenGame
		return m, m.game.Init()
	}
	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if gm, ok := next.(GameModel); ok {
		m.game = gm
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	// Back to the level list; the pending tick is ignored there
	if m.game.BackToMenu() {
		lvls, err := m.loadLevels()
		if err != nil {
			return m.backToMenu(err.Error()), nil
		}
		m.picker = NewLevelPickerModel(lvls, m.svc.Store, m.config.ScreenW, m.config.ScreenH)
		m.current = screenPicker
		return m, nil
	}

	return m, cmd
}

func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scoreboard.Update(msg)
	if sm, ok := next.(ScoreboardModel); ok {
		m.scoreboard = sm
	}

	switch {
	case m.scoreboard.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.scoreboard.IsGoingBack():
		return m.backToMenu(""), nil
	}
	return m, cmd
}

func (m SessionModel) updateEditor(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.editor.Update(msg)
	if em, ok := next.(EditorModel); ok {
		m.editor = em
	}

	switch {
	case m.editor.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.editor.IsGoingBack():
		return m.backToMenu(""), nil
	}
	return m, cmd
}

// enterMenu switches to the main menu for identity.
func (m *SessionModel) enterMenu(identity accounts.Identity) {
	m.identity = identity
	m.menu = NewMenuModel(identity, m.config.ScreenW, m.config.ScreenH)
	m.current = screenMenu
}

// backToMenu returns to a fresh main menu showing message.
func (m SessionModel) backToMenu(message string) SessionModel {
	m.enterMenu(m.identity)
	m.menu.message = message
	return m
}

func (m SessionModel) loadLevels() ([]levels.Level, error) {
	if m.svc.Levels == nil {
		return levels.Builtin()
	}
	return m.svc.Levels.LoadAll()
}

// newEditorLevel returns a blank level with the next free ID.
func (m SessionModel) newEditorLevel() levels.Level {
	w, h := m.svc.EditorWidth, m.svc.EditorHeight
	if w < 3 || h < 3 {
		w, h = 10, 8
	}

	taken := make(map[string]bool)
	if lvls, err := m.loadLevels(); err == nil {
		for _, lvl := range lvls {
			taken[lvl.ID] = true
		}
	}
	id := levels.NextID(taken)

	lvl := levels.Blank(id, w, h)
	lvl.Metadata = map[string]string{"author": m.identity.Username}
	return lvl
}

// View renders the current screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.current {
	case screenLogin:
		return m.login.View()
	case screenPicker:
		return m.picker.View()
	case screenGame:
		return m.game.View()
	case screenScoreboard:
		return m.scoreboard.View()
	case screenEditor:
		return m.editor.View()
	default:
		return m.menu.View()
	}
}

// Identity returns the identity of the session.
func (m SessionModel) Identity() accounts.Identity {
	return m.identity
}

// RunSession runs the interactive session in the local terminal.
func RunSession(svc Services, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewSessionModel(svc, cfg, nil),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
