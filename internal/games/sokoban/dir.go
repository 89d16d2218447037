package sokoban

import (
	"fmt"
	"strings"
)

// Pos is a cell position. X is the column, Y the row (row 0 on top).
type Pos struct {
	X int
	Y int
}

// String returns a string representation of the position.
func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Step returns the position n steps away in direction d.
func (p Pos) Step(d Dir, n int) Pos {
	return Pos{X: p.X + d.DX*n, Y: p.Y + d.DY*n}
}

// Dir is a unit move expressed as (Δcolumn, Δrow).
type Dir struct {
	DX int
	DY int
}

// The four legal directions.
var (
	Up    = Dir{DX: 0, DY: -1}
	Down  = Dir{DX: 0, DY: 1}
	Left  = Dir{DX: -1, DY: 0}
	Right = Dir{DX: 1, DY: 0}
)

// Dirs lists the legal directions in a fixed order.
var Dirs = []Dir{Up, Down, Left, Right}

// Valid reports whether d has exactly one non-zero component of magnitude 1.
func (d Dir) Valid() bool {
	switch {
	case d.DX == 0 && (d.DY == 1 || d.DY == -1):
		return true
	case d.DY == 0 && (d.DX == 1 || d.DX == -1):
		return true
	default:
		return false
	}
}

// String returns the direction name.
func (d Dir) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("dir(%d,%d)", d.DX, d.DY)
	}
}

// ParseDir parses "up", "down", "left", "right" (or u/d/l/r).
func ParseDir(s string) (Dir, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return Up, nil
	case "down", "d":
		return Down, nil
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	}
	return Dir{}, fmt.Errorf("sokoban: unknown direction %q", s)
}

// ParseMoves parses a move list such as "r,r,d" or "right down". Commas and
// spaces both separate moves; a run of single letters like "rrdl" is also
// accepted.
func ParseMoves(s string) ([]Dir, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})

	var moves []Dir
	for _, f := range fields {
		if d, err := ParseDir(f); err == nil {
			moves = append(moves, d)
			continue
		}
		for _, r := range f {
			d, err := ParseDir(string(r))
			if err != nil {
				return nil, fmt.Errorf("sokoban: bad move %q in %q", f, s)
			}
			moves = append(moves, d)
		}
	}
	return moves, nil
}
