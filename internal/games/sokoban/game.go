package sokoban

import (
	"github.com/vovakirdan/tui-sokoban/internal/core"
)

// Game runs one level on the tick-driven platform.
type Game struct {
	levelID string
	name    string
	rows    [][]int
	puzzle  *Puzzle

	// Screen dimensions
	screenW int
	screenH int

	tooSmall bool
	lastDir  Dir
	bumped   bool // last attempted move was rejected
}

// New validates the level rows and creates a game for them.
func New(levelID, name string, rows [][]int) (*Game, error) {
	p, err := NewPuzzle(rows)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = levelID
	}
	return &Game{
		levelID: levelID,
		name:    name,
		rows:    p.Snapshot(),
		puzzle:  p,
	}, nil
}

// ID returns the level identifier, used as the leaderboard key.
func (g *Game) ID() string {
	return g.levelID
}

// Title returns the level name.
func (g *Game) Title() string {
	return g.name
}

// Puzzle returns the puzzle being played.
func (g *Game) Puzzle() *Puzzle {
	return g.puzzle
}

// Reset restarts the level from its initial layout.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.restart()
	g.checkScreenSize()
}

// restart rebuilds the puzzle. The rows were validated in New.
func (g *Game) restart() {
	p, err := NewPuzzle(g.rows)
	if err != nil {
		panic(err)
	}
	g.puzzle = p
	g.lastDir = Dir{}
	g.bumped = false
}

// checkScreenSize checks if the screen is large enough for the board and HUD.
func (g *Game) checkScreenSize() {
	minW := g.puzzle.Width()*cellWidth + 2
	minH := g.puzzle.Height() + hudHeight + footerHeight + 2
	g.tooSmall = g.screenW < minW || g.screenH < minH
}

// Resize updates the screen dimensions without touching the puzzle.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.checkScreenSize()
}

// Step applies every action received since the previous tick, in order.
// Moves stop being accepted once the puzzle is solved.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	moved := false

	for _, action := range in.Actions() {
		if action == core.ActionRestart {
			g.restart()
			continue
		}
		if g.tooSmall || g.puzzle.IsSolved() {
			continue
		}

		d, ok := actionDir(action)
		if !ok {
			continue
		}
		g.lastDir = d
		if g.puzzle.AttemptMove(d) {
			g.bumped = false
			moved = true
		} else {
			g.bumped = true
		}
	}

	return core.StepResult{State: g.State(), Moved: moved}
}

// actionDir maps a directional action to a puzzle direction.
func actionDir(a core.Action) (Dir, bool) {
	switch a {
	case core.ActionUp:
		return Up, true
	case core.ActionDown:
		return Down, true
	case core.ActionLeft:
		return Left, true
	case core.ActionRight:
		return Right, true
	}
	return Dir{}, false
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Moves:  g.puzzle.Moves(),
		Solved: g.puzzle.IsSolved(),
	}
}
