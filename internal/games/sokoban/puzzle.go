package sokoban

import "fmt"

// Puzzle is one play-through of a level: the grid, the cached player
// position and the move counter. It is not safe for concurrent use; each
// session owns its own Puzzle.
type Puzzle struct {
	grid   *Grid
	player Pos
	moves  int
}

// NewPuzzle validates level rows and returns a puzzle ready to play.
// Exactly one player cell (code 2 or 6) is required.
func NewPuzzle(rows [][]int) (*Puzzle, error) {
	g, err := NewGrid(rows)
	if err != nil {
		return nil, err
	}

	players := g.FindPlayers()
	switch len(players) {
	case 0:
		return nil, &LevelError{Err: ErrNoPlayer, Row: -1, Col: -1}
	case 1:
	default:
		return nil, &LevelError{
			Err:    ErrMultiplePlayers,
			Row:    players[1].Y,
			Col:    players[1].X,
			Detail: fmt.Sprintf("%d players found", len(players)),
		}
	}

	return &Puzzle{grid: g, player: players[0]}, nil
}

// AttemptMove tries to move the player one cell in direction d, pushing a
// single block if one is in the way. It returns true and bumps the move
// counter if the move happened; otherwise nothing changes.
// It panics if d is not a unit direction.
func (p *Puzzle) AttemptMove(d Dir) bool {
	if !d.Valid() {
		panic(fmt.Sprintf("sokoban: invalid direction %+v", d))
	}

	g := p.grid
	target := p.player.Step(d, 1)

	if g.Terrain(target) == TerrainWall {
		return false
	}

	switch g.Occupant(target) {
	case OccupantBlock:
		beyond := p.player.Step(d, 2)
		// Out of bounds reads as wall. Chained pushes are not allowed.
		if g.Terrain(beyond) == TerrainWall || g.Occupant(beyond) != OccupantNone {
			return false
		}
		g.setOccupant(beyond, OccupantBlock)
	case OccupantNone:
	default:
		return false
	}

	g.setOccupant(target, OccupantPlayer)
	g.setOccupant(p.player, OccupantNone)
	p.player = target
	p.moves++
	return true
}

// IsSolved reports whether no empty target (code 4) remains.
// A player standing on a target counts as filled.
func (p *Puzzle) IsSolved() bool {
	g := p.grid
	for i, t := range g.terrain {
		if t == TerrainTarget && g.occupant[i] == OccupantNone {
			return false
		}
	}
	return true
}

// Moves returns the number of accepted moves since construction.
func (p *Puzzle) Moves() int {
	return p.moves
}

// Player returns the cached player position.
func (p *Puzzle) Player() Pos {
	return p.player
}

// Width returns the number of columns.
func (p *Puzzle) Width() int {
	return p.grid.W
}

// Height returns the number of rows.
func (p *Puzzle) Height() int {
	return p.grid.H
}

// Code returns the legacy code at pos.
func (p *Puzzle) Code(pos Pos) Code {
	return p.grid.Code(pos)
}

// Snapshot returns a copy of the board in legacy codes.
// Mutating it does not affect the puzzle.
func (p *Puzzle) Snapshot() [][]int {
	return p.grid.Rows()
}

// TargetCount returns the number of target cells, filled or not.
func (p *Puzzle) TargetCount() int {
	n := 0
	for _, t := range p.grid.terrain {
		if t == TerrainTarget {
			n++
		}
	}
	return n
}

// BlocksOnTargets returns the number of blocks sitting on targets.
func (p *Puzzle) BlocksOnTargets() int {
	return p.grid.Count(CodeBlockOnTarget)
}

// Clone returns an independent copy of the puzzle.
func (p *Puzzle) Clone() *Puzzle {
	return &Puzzle{
		grid:   p.grid.Clone(),
		player: p.player,
		moves:  p.moves,
	}
}
