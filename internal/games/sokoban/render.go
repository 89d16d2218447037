package sokoban

import (
	"fmt"

	"github.com/vovakirdan/tui-sokoban/internal/core"
)

const (
	cellWidth    = 2 // Each cell is drawn two characters wide
	hudHeight    = 3
	footerHeight = 2
)

// glyphs holds the two-character drawing and color for every tile code.
var glyphs = map[Code]struct {
	text  string
	color core.Color
}{
	CodeFloor:          {"  ", core.ColorDefault},
	CodeWall:           {"██", core.ColorBlue},
	CodePlayer:         {"@@", core.ColorGreen},
	CodeBlock:          {"[]", core.ColorBrown},
	CodeTarget:         {"()", core.ColorWhite},
	CodeBlockOnTarget:  {"[]", core.ColorRed},
	CodePlayerOnTarget: {"@@", core.ColorBrightGreen},
}

// Glyph returns the two-character drawing and color for a tile code.
func Glyph(c Code) (string, core.Color) {
	g, ok := glyphs[c]
	if !ok {
		return "??", core.ColorMagenta
	}
	return g.text, g.color
}

// DrawBoard draws rows of tile codes with the top-left corner at (x, y).
func DrawBoard(dst *core.Screen, x, y int, rows [][]int) {
	for ry, row := range rows {
		for rx, v := range row {
			text, color := Glyph(Code(v))
			dst.DrawTextColored(x+rx*cellWidth, y+ry, text, color)
		}
	}
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	boardW := g.puzzle.Width() * cellWidth
	boardH := g.puzzle.Height()
	boardX := (g.screenW - boardW) / 2
	boardY := hudHeight + 1

	g.renderHUD(dst, boardX)

	dst.DrawBox(core.NewRect(boardX-1, boardY-1, boardW+2, boardH+2))
	DrawBoard(dst, boardX, boardY, g.puzzle.Snapshot())

	g.renderFooter(dst, boardY+boardH+1)

	if g.puzzle.IsSolved() {
		g.drawOverlay(dst, boardX+boardW/2, boardY+boardH/2,
			"SOLVED!",
			fmt.Sprintf("Moves: %d", g.puzzle.Moves()),
			"R: replay  B: back")
	}
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, "Please resize terminal")
}

// renderHUD draws the level name, move counter and target progress.
// Both counters share one left-aligned row so neither hides the other on
// narrow boards.
func (g *Game) renderHUD(dst *core.Screen, boardX int) {
	dst.DrawTextCentered(0, "S O K O B A N")

	x := max(boardX-1, 0)
	dst.DrawText(x, 1, g.name)

	movesStr := fmt.Sprintf("Moves: %d", g.puzzle.Moves())
	dst.DrawText(x, 2, movesStr)

	targetStr := fmt.Sprintf("Targets: %d/%d", g.puzzle.BlocksOnTargets(), g.puzzle.TargetCount())
	dst.DrawText(x+len(movesStr)+3, 2, targetStr)
}

// renderFooter draws the controls and the result of the last move.
func (g *Game) renderFooter(dst *core.Screen, y int) {
	if g.bumped {
		dst.DrawTextCentered(y, fmt.Sprintf("Can't move %s", g.lastDir))
	}
	dst.DrawTextCentered(y+1, "Arrows/WASD/HJKL: move  R: restart  B: back  Q: quit")
}

// drawOverlay draws a centered boxed text overlay.
func (g *Game) drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		if len(line) > maxLen {
			maxLen = len(line)
		}
	}

	boxW := maxLen + 4
	boxH := len(lines) + 2
	boxX := centerX - boxW/2
	boxY := centerY - boxH/2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	for i, line := range lines {
		lineX := centerX - len(line)/2
		dst.DrawTextColored(lineX, boxY+1+i, line, core.ColorBrightYellow)
	}
}
