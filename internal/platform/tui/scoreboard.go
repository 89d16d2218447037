package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-sokoban/internal/levels"
	"github.com/vovakirdan/tui-sokoban/internal/storage"
)

// ScoreboardKeyMap defines the key bindings for the leaderboard.
type ScoreboardKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	NextLevel key.Binding
	PrevLevel key.Binding
	ToggleAll key.Binding
	Back      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevLevel, k.NextLevel, k.ToggleAll, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevLevel, k.NextLevel},
		{k.ToggleAll, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextLevel: key.NewBinding(
			key.WithKeys("right", "l", "tab"),
			key.WithHelp("right/tab", "next level"),
		),
		PrevLevel: key.NewBinding(
			key.WithKeys("left", "h", "shift+tab"),
			key.WithHelp("left", "prev level"),
		),
		ToggleAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "top/all"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// CompetitionRank returns the 1-based rank of results[i] in a list sorted
// by moves. Equal move counts share a rank and the next rank skips ahead,
// so 10, 12, 12, 15 rank as 1, 2, 2, 4.
func CompetitionRank(results []storage.Result, i int) int {
	for i > 0 && results[i-1].Moves == results[i].Moves {
		i--
	}
	return i + 1
}

// board is the leaderboard of the selected level.
type board struct {
	level   levels.Level
	results []storage.Result
	stats   *storage.LevelStats // Nil without a store
	err     error
}

// ScoreboardModel browses per-level leaderboards.
type ScoreboardModel struct {
	levels    []levels.Level
	selected  int
	store     *storage.Store
	player    string // Rows of this player are highlighted
	limit     int
	showAll   bool
	board     board
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
	// Quit the program on back
	standalone bool
}

// NewScoreboardModel creates a leaderboard showing the best limit results
// per level. Results of player are highlighted.
func NewScoreboardModel(lvls []levels.Level, store *storage.Store, player string, limit, width, height int) ScoreboardModel {
	if limit <= 0 {
		limit = storage.DefaultLimit
	}

	m := ScoreboardModel{
		levels: lvls,
		store:  store,
		player: player,
		limit:  limit,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = newResultsTable(width, height)
	m.selectLevel(0)
	return m
}

// newResultsTable builds an empty results table sized for the screen.
func newResultsTable(width, height int) table.Model {
	player := min(max(width-40, 10), 24)
	columns := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Player", Width: player},
		{Title: "Moves", Width: 6},
		{Title: "Solved", Width: 13},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		// Title, level line, stats and help take the rest
		table.WithHeight(max(height-10, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// selectLevel moves to level i, wrapping around, and reloads its board.
func (m *ScoreboardModel) selectLevel(i int) {
	if len(m.levels) == 0 {
		m.board = board{}
		m.table.SetRows(nil)
		return
	}
	n := len(m.levels)
	m.selected = ((i % n) + n) % n
	m.board = m.loadBoard(m.levels[m.selected])
	m.fillTable()
}

func (m *ScoreboardModel) loadBoard(lvl levels.Level) board {
	b := board{level: lvl}
	if m.store == nil {
		return b
	}

	if m.showAll {
		b.results, b.err = m.store.AllResults(lvl.ID)
	} else {
		b.results, b.err = m.store.TopResults(lvl.ID, m.limit)
	}
	if b.err != nil {
		return b
	}
	b.stats, b.err = m.store.LevelStats(lvl.ID)
	return b
}

func (m *ScoreboardModel) fillTable() {
	rows := make([]table.Row, len(m.board.results))
	for i, r := range m.board.results {
		name := r.Player
		if r.Player == m.player {
			name = "* " + name
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d.", CompetitionRank(m.board.results, i)),
			name,
			fmt.Sprintf("%d", r.Moves),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			if m.standalone {
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.NextLevel):
			m.selectLevel(m.selected + 1)
			return m, nil

		case key.Matches(msg, m.keys.PrevLevel):
			m.selectLevel(m.selected - 1)
			return m, nil

		case key.Matches(msg, m.keys.ToggleAll):
			m.showAll = !m.showAll
			m.selectLevel(m.selected)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = newResultsTable(msg.Width, msg.Height)
		m.fillTable()
		m.help.Width = msg.Width
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var b strings.Builder
	b.WriteString(centerText(titleStyle.Render("LEADERBOARD"), m.width))
	b.WriteString("\n\n")

	if len(m.levels) == 0 {
		b.WriteString(centerText(dimStyle.Render("No levels available."), m.width))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(centerText(m.levelLine(), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(boxStyle.Render(m.boardContent()), m.width))
	b.WriteString("\n")
	if footer := m.statsLine(); footer != "" {
		b.WriteString(centerText(dimStyle.Render(footer), m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// levelLine names the selected level and its position in the list.
func (m ScoreboardModel) levelLine() string {
	lvl := m.board.level
	mode := fmt.Sprintf("top %d", m.limit)
	if m.showAll {
		mode = "all results"
	}
	return fmt.Sprintf("< %s (%s) %d/%d >  %s",
		truncate(lvl.Name, 24), lvl.ID, m.selected+1, len(m.levels), mode)
}

func (m ScoreboardModel) boardContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(1, 4)

	switch {
	case m.store == nil:
		return emptyStyle.Render("Results are not being saved.")
	case m.board.err != nil:
		return emptyStyle.Render("Could not load results.")
	case len(m.board.results) == 0:
		return emptyStyle.Render("No results recorded yet.\nSolve this level to claim the top spot!")
	}
	return m.table.View()
}

// statsLine summarizes every solve of the level, not only the shown rows.
func (m ScoreboardModel) statsLine() string {
	s := m.board.stats
	if s == nil || s.Solves == 0 {
		return ""
	}
	return fmt.Sprintf("%d solves by %d players  |  best %d  |  average %.1f moves",
		s.Solves, s.Players, s.BestMoves, s.AvgMoves)
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the leaderboard screen on its own.
func RunScoreboard(lvls []levels.Level, store *storage.Store, player string, limit, width, height int) error {
	model := NewScoreboardModel(lvls, store, player, limit, width, height)
	model.standalone = true

	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
