// Package sokoban implements the Sokoban puzzle engine and its game adapter.
// The engine (Grid, Puzzle) is pure logic with no UI dependencies; Game wraps
// a Puzzle for the tick-driven platform.
package sokoban

import "fmt"

// Code is the legacy single-number tile encoding used by level files.
// It combines terrain and occupant into one value.
type Code int

const (
	CodeFloor          Code = 0
	CodeWall           Code = 1
	CodePlayer         Code = 2
	CodeBlock          Code = 3
	CodeTarget         Code = 4
	CodeBlockOnTarget  Code = 5
	CodePlayerOnTarget Code = 6
)

// Valid reports whether c is one of the seven known codes.
func (c Code) Valid() bool {
	return c >= CodeFloor && c <= CodePlayerOnTarget
}

// String returns a short name for the code.
func (c Code) String() string {
	switch c {
	case CodeFloor:
		return "floor"
	case CodeWall:
		return "wall"
	case CodePlayer:
		return "player"
	case CodeBlock:
		return "block"
	case CodeTarget:
		return "target"
	case CodeBlockOnTarget:
		return "block-on-target"
	case CodePlayerOnTarget:
		return "player-on-target"
	default:
		return fmt.Sprintf("code(%d)", int(c))
	}
}

// Terrain is the static part of a cell. It never changes during play.
type Terrain uint8

const (
	TerrainFloor Terrain = iota
	TerrainWall
	TerrainTarget
)

// Occupant is the dynamic part of a cell.
type Occupant uint8

const (
	OccupantNone Occupant = iota
	OccupantPlayer
	OccupantBlock
)

// Split decomposes a legacy code into terrain and occupant.
// The second return is false for unknown codes.
func Split(c Code) (Terrain, Occupant, bool) {
	switch c {
	case CodeFloor:
		return TerrainFloor, OccupantNone, true
	case CodeWall:
		return TerrainWall, OccupantNone, true
	case CodePlayer:
		return TerrainFloor, OccupantPlayer, true
	case CodeBlock:
		return TerrainFloor, OccupantBlock, true
	case CodeTarget:
		return TerrainTarget, OccupantNone, true
	case CodeBlockOnTarget:
		return TerrainTarget, OccupantBlock, true
	case CodePlayerOnTarget:
		return TerrainTarget, OccupantPlayer, true
	default:
		return TerrainFloor, OccupantNone, false
	}
}

// Join combines terrain and occupant back into a legacy code.
// Walls carry no occupant.
func Join(t Terrain, o Occupant) Code {
	switch t {
	case TerrainWall:
		return CodeWall
	case TerrainTarget:
		switch o {
		case OccupantPlayer:
			return CodePlayerOnTarget
		case OccupantBlock:
			return CodeBlockOnTarget
		default:
			return CodeTarget
		}
	default:
		switch o {
		case OccupantPlayer:
			return CodePlayer
		case OccupantBlock:
			return CodeBlock
		default:
			return CodeFloor
		}
	}
}
