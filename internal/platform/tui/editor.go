package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-sokoban/internal/core"
	"github.com/vovakirdan/tui-sokoban/internal/games/sokoban"
	"github.com/vovakirdan/tui-sokoban/internal/levels"
)

// LevelSaver persists edited levels.
type LevelSaver interface {
	Save(level levels.Level) (string, error)
}

// EditorModel is the admin level editor. The cursor moves over the board and
// the tile under it is cycled or set directly by code.
type EditorModel struct {
	level      levels.Level
	cursor     sokoban.Pos
	saver      LevelSaver
	screen     *core.Screen
	message    string
	isError    bool
	dirty      bool
	goingBack  bool
	quitting   bool
	standalone bool
}

// NewEditorModel creates an editor for level. The rows are copied.
func NewEditorModel(level levels.Level, saver LevelSaver, width, height int) EditorModel {
	rows := make([][]int, len(level.Rows))
	for y := range level.Rows {
		rows[y] = append([]int(nil), level.Rows[y]...)
	}
	level.Rows = rows

	return EditorModel{
		level:  level,
		saver:  saver,
		screen: core.NewScreen(width, height),
	}
}

// Init initializes the editor.
func (m EditorModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the editor.
func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height)
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m EditorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		m.goingBack = true
		if m.standalone {
			return m, tea.Quit
		}
		return m, nil

	case "up", "k":
		m.moveCursor(sokoban.Up)
	case "down", "j":
		m.moveCursor(sokoban.Down)
	case "left", "h":
		m.moveCursor(sokoban.Left)
	case "right", "l":
		m.moveCursor(sokoban.Right)

	case " ", "enter":
		m.setTile((m.tile() + 1) % (sokoban.CodePlayerOnTarget + 1))

	case "0", "1", "2", "3", "4", "5", "6":
		m.setTile(sokoban.Code(key[0] - '0'))

	case "ctrl+s":
		m.save()
	}

	return m, nil
}

// moveCursor moves the cursor one cell, staying on the board.
func (m *EditorModel) moveCursor(d sokoban.Dir) {
	next := m.cursor.Step(d, 1)
	if !core.NewRect(0, 0, m.level.Width(), m.level.Height()).Contains(next.X, next.Y) {
		return
	}
	m.cursor = next
}

// tile returns the code under the cursor.
func (m EditorModel) tile() sokoban.Code {
	if m.level.Height() == 0 {
		return sokoban.CodeFloor
	}
	return sokoban.Code(m.level.Rows[m.cursor.Y][m.cursor.X])
}

// setTile writes c under the cursor.
func (m *EditorModel) setTile(c sokoban.Code) {
	if m.level.Height() == 0 {
		return
	}
	m.level.Rows[m.cursor.Y][m.cursor.X] = int(c)
	m.dirty = true
	m.message = ""
}

// save validates and writes the level.
func (m *EditorModel) save() {
	path, err := m.saver.Save(m.level)
	if err != nil {
		m.message = "Not saved: " + err.Error()
		m.isError = true
		return
	}
	m.message = "Saved to " + path
	if w := m.level.Warnings(); len(w) > 0 {
		m.message += " (warning: " + w[0] + ")"
	}
	m.isError = false
	m.dirty = false
}

// View renders the editor.
func (m EditorModel) View() string {
	if m.quitting {
		return ""
	}

	dst := m.screen
	dst.Clear()

	dst.DrawTextCentered(0, "P U Z Z L E   E D I T O R")
	dst.DrawTextCentered(1, fmt.Sprintf("%s (%s) %dx%d", m.level.Name, m.level.ID, m.level.Width(), m.level.Height()))

	boardW := m.level.Width() * 2
	boardX := max((dst.Width()-boardW)/2, 1)
	boardY := 4
	dst.DrawBox(core.NewRect(boardX-1, boardY-1, boardW+2, m.level.Height()+2))
	sokoban.DrawBoard(dst, boardX, boardY, m.level.Rows)

	// Cursor keeps the tile glyph but highlights it
	text, _ := sokoban.Glyph(m.tile())
	if m.tile() == sokoban.CodeFloor {
		text = "··"
	}
	dst.DrawTextColored(boardX+m.cursor.X*2, boardY+m.cursor.Y, text, core.ColorBrightYellow)

	y := boardY + m.level.Height() + 2
	dst.DrawTextCentered(y, fmt.Sprintf("Cursor %s: %s", m.cursor, m.tile()))

	status, color := m.status()
	dst.DrawTextCenteredColored(y+1, status, color)

	if m.message != "" {
		color := core.ColorBrightGreen
		if m.isError {
			color = core.ColorBrightRed
		}
		dst.DrawTextCenteredColored(y+2, m.message, color)
	}

	dst.DrawTextCentered(y+4, "0 floor  1 wall  2 player  3 block  4 target  5 block+target  6 player+target")
	dst.DrawTextCentered(y+5, "Arrows/HJKL: move  Space: cycle  0-6: set  Ctrl+S: save  Esc: back")

	return RenderScreen(dst)
}

// status describes whether the level can be saved and played.
func (m EditorModel) status() (string, core.Color) {
	if err := m.level.Validate(); err != nil {
		return err.Error(), core.ColorRed
	}
	if w := m.level.Warnings(); len(w) > 0 {
		return "Warning: " + w[0], core.ColorYellow
	}
	return "Level is playable", core.ColorGreen
}

// Level returns the level being edited.
func (m EditorModel) Level() levels.Level {
	return m.level
}

// Dirty reports whether there are unsaved changes.
func (m EditorModel) Dirty() bool {
	return m.dirty
}

// IsGoingBack returns true if user wants to go back to menu.
func (m EditorModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user requested to quit.
func (m EditorModel) IsQuitting() bool {
	return m.quitting
}

// RunEditor runs the level editor on its own.
func RunEditor(level levels.Level, saver LevelSaver, width, height int) (levels.Level, error) {
	model := NewEditorModel(level, saver, width, height)
	model.standalone = true

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return level, err
	}
	if em, ok := final.(EditorModel); ok {
		return em.Level(), nil
	}
	return level, nil
}
