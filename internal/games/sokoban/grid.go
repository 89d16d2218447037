package sokoban

import (
	"errors"
	"fmt"
)

// Level construction errors. LevelError wraps one of these.
var (
	ErrEmptyLevel      = errors.New("level has no cells")
	ErrJaggedRows      = errors.New("rows have different lengths")
	ErrUnknownTile     = errors.New("unknown tile code")
	ErrNoPlayer        = errors.New("level has no player")
	ErrMultiplePlayers = errors.New("level has more than one player")
)

// LevelError describes why level data was rejected.
type LevelError struct {
	Err    error
	Row    int // -1 when not tied to a row
	Col    int // -1 when not tied to a column
	Detail string
}

func (e *LevelError) Error() string {
	msg := "sokoban: invalid level: " + e.Err.Error()
	switch {
	case e.Row >= 0 && e.Col >= 0:
		msg += fmt.Sprintf(" at row %d, column %d", e.Row, e.Col)
	case e.Row >= 0:
		msg += fmt.Sprintf(" at row %d", e.Row)
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *LevelError) Unwrap() error {
	return e.Err
}

// Grid holds the two layers of a board in row-major order: index = y*W + x.
type Grid struct {
	W        int
	H        int
	terrain  []Terrain
	occupant []Occupant
}

// NewGrid builds a grid from rows of legacy codes.
// It checks shape and tile codes but not the player count; see NewPuzzle.
func NewGrid(rows [][]int) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, &LevelError{Err: ErrEmptyLevel, Row: -1, Col: -1}
	}

	w, h := len(rows[0]), len(rows)
	g := &Grid{
		W:        w,
		H:        h,
		terrain:  make([]Terrain, w*h),
		occupant: make([]Occupant, w*h),
	}

	for y, row := range rows {
		if len(row) != w {
			return nil, &LevelError{
				Err:    ErrJaggedRows,
				Row:    y,
				Col:    -1,
				Detail: fmt.Sprintf("want %d cells, got %d", w, len(row)),
			}
		}
		for x, v := range row {
			t, o, ok := Split(Code(v))
			if !ok {
				return nil, &LevelError{
					Err:    ErrUnknownTile,
					Row:    y,
					Col:    x,
					Detail: fmt.Sprintf("code %d", v),
				}
			}
			i := y*w + x
			g.terrain[i] = t
			g.occupant[i] = o
		}
	}

	return g, nil
}

// index converts a position to a flat array index.
func (g *Grid) index(p Pos) int {
	return p.Y*g.W + p.X
}

// InBounds returns true if the position is inside the grid.
func (g *Grid) InBounds(p Pos) bool {
	return p.X >= 0 && p.X < g.W && p.Y >= 0 && p.Y < g.H
}

// Terrain returns the terrain at p. Out-of-bounds positions read as walls.
func (g *Grid) Terrain(p Pos) Terrain {
	if !g.InBounds(p) {
		return TerrainWall
	}
	return g.terrain[g.index(p)]
}

// Occupant returns the occupant at p, or OccupantNone out of bounds.
func (g *Grid) Occupant(p Pos) Occupant {
	if !g.InBounds(p) {
		return OccupantNone
	}
	return g.occupant[g.index(p)]
}

// Code returns the legacy code at p. Out-of-bounds positions read as walls.
func (g *Grid) Code(p Pos) Code {
	return Join(g.Terrain(p), g.Occupant(p))
}

// setOccupant replaces the occupant of an in-bounds, non-wall cell.
func (g *Grid) setOccupant(p Pos, o Occupant) {
	g.occupant[g.index(p)] = o
}

// FindPlayers scans the grid and returns every cell holding the player.
func (g *Grid) FindPlayers() []Pos {
	var found []Pos
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			if g.occupant[y*g.W+x] == OccupantPlayer {
				found = append(found, Pos{X: x, Y: y})
			}
		}
	}
	return found
}

// FindPlayer returns the player position by full scan.
// The second return is false unless exactly one player exists.
func (g *Grid) FindPlayer() (Pos, bool) {
	found := g.FindPlayers()
	if len(found) != 1 {
		return Pos{}, false
	}
	return found[0], true
}

// Count returns the number of cells with the given legacy code.
func (g *Grid) Count(c Code) int {
	n := 0
	for i := range g.terrain {
		if Join(g.terrain[i], g.occupant[i]) == c {
			n++
		}
	}
	return n
}

// Rows returns a fresh copy of the grid in legacy codes.
func (g *Grid) Rows() [][]int {
	rows := make([][]int, g.H)
	for y := range rows {
		row := make([]int, g.W)
		for x := range row {
			i := y*g.W + x
			row[x] = int(Join(g.terrain[i], g.occupant[i]))
		}
		rows[y] = row
	}
	return rows
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	terrain := make([]Terrain, len(g.terrain))
	copy(terrain, g.terrain)
	occupant := make([]Occupant, len(g.occupant))
	copy(occupant, g.occupant)
	return &Grid{
		W:        g.W,
		H:        g.H,
		terrain:  terrain,
		occupant: occupant,
	}
}
