package term

import "hexxagon/internal/game"

// 每列占 4 个字符宽；同列相邻两格相隔 2 行，相邻列错开 1 行
const (
	colWidth  = 4
	rowHeight = 2
)

var tallest = func() int {
	t := 0
	for c := 0; c < game.NumColumns; c++ {
		t = max(t, game.ColumnHeight(c))
	}
	return t
}()

// cellPos returns the character offset of cell i inside the board area.
func cellPos(i int) (x, y int) {
	col, row := game.CellPosition(i)
	return col * colWidth, row*rowHeight + tallest - game.ColumnHeight(col)
}

// boardSize is the width and height of the board area in characters.
func boardSize() (w, h int) {
	return (game.NumColumns-1)*colWidth + 1, (tallest-1)*rowHeight + 1
}

// Direction 光标移动方向
type Direction int

const (
	Up Direction = iota
	Down
	UpLeft
	DownLeft
	UpRight
	DownRight
)

// Step moves the cursor from cell i one cell in direction d. It returns i when
// there is no cell that way.
func Step(i int, d Direction) int {
	col, row := game.CellPosition(i)
	switch d {
	case Up:
		if j, ok := game.CellIndex(col, row-1); ok {
			return j
		}
		return i
	case Down:
		if j, ok := game.CellIndex(col, row+1); ok {
			return j
		}
		return i
	}
	_, y := cellPos(i)
	target := col - 1
	if d == UpRight || d == DownRight {
		target = col + 1
	}
	wantY := y + 1
	if d == UpLeft || d == UpRight {
		wantY = y - 1
	}
	for _, n := range game.Neighbors(i) {
		c, _ := game.CellPosition(n)
		if _, ny := cellPos(n); c == target && ny == wantY {
			return n
		}
	}
	return i
}
