package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-sokoban/internal/accounts"
	"github.com/vovakirdan/tui-sokoban/internal/levels"
	"github.com/vovakirdan/tui-sokoban/internal/storage"
)

// MenuChoice is an entry of the main menu.
type MenuChoice int

const (
	ChoiceNone MenuChoice = iota
	ChoicePlay
	ChoiceLeaderboard
	ChoiceEditor
	ChoiceExit
)

// String returns the menu label.
func (c MenuChoice) String() string {
	switch c {
	case ChoicePlay:
		return "Play Game"
	case ChoiceLeaderboard:
		return "Leaderboard"
	case ChoiceEditor:
		return "Puzzle Editor (Admin)"
	case ChoiceExit:
		return "Exit"
	default:
		return ""
	}
}

var menuChoices = []MenuChoice{ChoicePlay, ChoiceLeaderboard, ChoiceEditor, ChoiceExit}

// MenuModel is the Bubble Tea model for the main menu.
type MenuModel struct {
	identity  accounts.Identity
	cursor    int
	width     int
	height    int
	keyMapper *KeyMapper
	message   string
	quitting  bool
	selected  MenuChoice
}

// NewMenuModel creates a new main menu for identity.
func NewMenuModel(identity accounts.Identity, width, height int) MenuModel {
	return MenuModel{
		identity:  identity,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Number keys pick entries directly
	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= byte('0'+len(menuChoices)) {
		m.cursor = int(s[0] - '1')
		return m.choose()
	}

	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(menuChoices)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		return m.choose()

	case MenuActionScoreboard:
		m.selected = ChoiceLeaderboard
	}

	return m, nil
}

// choose selects the entry under the cursor.
func (m MenuModel) choose() (tea.Model, tea.Cmd) {
	choice := menuChoices[m.cursor]
	m.message = ""

	switch choice {
	case ChoiceExit:
		m.quitting = true
		return m, tea.Quit
	case ChoiceEditor:
		if !m.identity.IsAdmin() {
			m.message = "Puzzle editor is for admins only"
			return m, nil
		}
	}

	m.selected = choice
	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  S O K O B A N  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(fmt.Sprintf("Welcome, %s!", m.identity.Username), m.width))
	b.WriteString("\n\n")

	for i, choice := range menuChoices {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%d. %s", cursor, i+1, choice)
		if choice == ChoiceEditor && !m.identity.IsAdmin() {
			line = hintStyle.Render(line)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	if m.message != "" {
		b.WriteString("\n")
		b.WriteString(centerText(errorStyle.Render(m.message), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(hintStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the chosen entry, or ChoiceNone.
func (m MenuModel) Selected() MenuChoice {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// LevelPickerModel lists the available levels with each level's best result.
type LevelPickerModel struct {
	levels    []levels.Level
	stats     map[string]*storage.LevelStats
	cursor    int
	width     int
	height    int
	keyMapper *KeyMapper
	quitting  bool
	goingBack bool
	selected  *levels.Level
}

// NewLevelPickerModel creates a level picker. store may be nil.
func NewLevelPickerModel(lvls []levels.Level, store *storage.Store, width, height int) LevelPickerModel {
	stats := make(map[string]*storage.LevelStats)
	if store != nil {
		if all, err := store.AllLevelStats(); err == nil {
			stats = all
		}
	}

	return LevelPickerModel{
		levels:    lvls,
		stats:     stats,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the picker.
func (m LevelPickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the picker.
func (m LevelPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.keyMapper.MapKeyToMenuAction(msg) {
		case MenuActionQuit:
			m.quitting = true
			return m, tea.Quit
		case MenuActionBack:
			m.goingBack = true
		case MenuActionUp:
			if m.cursor > 0 {
				m.cursor--
			}
		case MenuActionDown:
			if m.cursor < len(m.levels)-1 {
				m.cursor++
			}
		case MenuActionSelect:
			if len(m.levels) > 0 {
				lvl := m.levels[m.cursor]
				m.selected = &lvl
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// View renders the level list.
func (m LevelPickerModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("Select a level"), m.width))
	b.WriteString("\n\n")

	if len(m.levels) == 0 {
		b.WriteString(centerText(hintStyle.Render("No levels available."), m.width))
		b.WriteString("\n")
	}

	for i, lvl := range m.levels {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		best, solves := "-", 0
		if st, ok := m.stats[lvl.ID]; ok && st.Solves > 0 {
			best = fmt.Sprintf("%d", st.BestMoves)
			solves = st.Solves
		}
		line := fmt.Sprintf("%s%-8s %-20s %2dx%-2d  best: %-4s solves: %d",
			cursor, lvl.ID, truncate(lvl.Name, 20), lvl.Width(), lvl.Height(), best, solves)
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(hintStyle.Render("Up/Down: Navigate  |  Enter: Play  |  Esc: Back"), m.width))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the chosen level, or nil.
func (m LevelPickerModel) Selected() *levels.Level {
	return m.selected
}

// IsGoingBack returns true if user wants to go back to menu.
func (m LevelPickerModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user requested to quit.
func (m LevelPickerModel) IsQuitting() bool {
	return m.quitting
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "."
}
