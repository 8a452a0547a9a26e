package game

import (
	"errors"
	"fmt"
)

// CellState represents the state of a cell on the board.
// The numeric values double as the wire encoding handed to collaborators:
// 0=Empty, 1=PlayerA, 2=PlayerB, 3=Blocked.
type CellState int8

const (
	Empty CellState = iota
	PlayerA
	PlayerB
	Blocked
)

func (s CellState) String() string {
	switch s {
	case Empty:
		return "empty"
	case PlayerA:
		return "player1"
	case PlayerB:
		return "player2"
	case Blocked:
		return "blocked"
	}
	return fmt.Sprintf("CellState(%d)", int8(s))
}

// IsPlayer reports whether s is one of the two player colors.
func (s CellState) IsPlayer() bool { return s == PlayerA || s == PlayerB }

// BoardN is the number of cells on the board.
const BoardN = 61

// columnHeights 九列的高度，先变宽再变窄（列优先编号）
var columnHeights = [...]int{5, 6, 7, 8, 9, 8, 7, 6, 5}

// NumColumns is the number of board columns.
const NumColumns = len(columnHeights)

var (
	columnStart [NumColumns]int // 每列第一个格子的下标：0,5,11,18,26,35,43,50,56
	colOf       [BoardN]int     // index -> 列
	rowOf       [BoardN]int     // index -> 行
	NeighI      [BoardN][]int   // 每个格子的相邻下标（距离 1）
	FarI        [BoardN][]int   // 每个格子的跳跃可达下标（距离 2）
)

// 三个洞和双方开局棋子位置
var (
	blockedCells = [...]int{22, 29, 39}
	startCellsA  = [...]int{0, 34, 56}
	startCellsB  = [...]int{4, 26, 60}
)

var ErrOutOfBounds = errors.New("cell index out of bounds")

func init() {
	initBoardTables()
}

// initBoardTables derives the neighbor and far-cell tables from the column heights.
func initBoardTables() {
	i := 0
	for c, h := range columnHeights {
		columnStart[c] = i
		for r := 0; r < h; r++ {
			colOf[i], rowOf[i] = c, r
			i++
		}
	}
	if i != BoardN {
		panic("column heights do not add up to BoardN")
	}
	for i := 0; i < BoardN; i++ {
		NeighI[i] = neighborsOf(colOf[i], rowOf[i])
	}
	for i := 0; i < BoardN; i++ {
		FarI[i] = farOf(i)
	}
}

// neighborsOf 计算 (c, r) 的邻居：同列上下两个，左右两列各两个。
// 相邻列更高时（棋盘在变宽）取 r 与 r+1，更矮时取 r-1 与 r。
func neighborsOf(c, r int) []int {
	out := make([]int, 0, 6)
	add := func(c, r int) {
		if j, ok := CellIndex(c, r); ok {
			out = append(out, j)
		}
	}
	add(c, r-1)
	add(c, r+1)
	for _, nc := range [2]int{c - 1, c + 1} {
		if nc < 0 || nc >= NumColumns {
			continue
		}
		if columnHeights[nc] > columnHeights[c] {
			add(nc, r)
			add(nc, r+1)
		} else {
			add(nc, r-1)
			add(nc, r)
		}
	}
	return out
}

// farOf 两步扩展：邻居的邻居，去掉邻居和自己，按下标升序去重
func farOf(i int) []int {
	var mark [BoardN]bool
	for _, n := range NeighI[i] {
		for _, nn := range NeighI[n] {
			mark[nn] = true
		}
	}
	mark[i] = false
	for _, n := range NeighI[i] {
		mark[n] = false
	}
	out := make([]int, 0, 12)
	for j, ok := range mark {
		if ok {
			out = append(out, j)
		}
	}
	return out
}

// CellIndex maps a (column, row) position to its board index.
func CellIndex(col, row int) (int, bool) {
	if col < 0 || col >= NumColumns || row < 0 || row >= columnHeights[col] {
		return 0, false
	}
	return columnStart[col] + row, true
}

// CellPosition returns the column and row of index i.
func CellPosition(i int) (col, row int) {
	return colOf[i], rowOf[i]
}

// ColumnHeight returns the number of cells in column col.
func ColumnHeight(col int) int { return columnHeights[col] }

// InBounds reports whether i is a valid cell index.
func InBounds(i int) bool { return i >= 0 && i < BoardN }

// Neighbors returns the cells adjacent to i. The slice is shared; do not modify it.
func Neighbors(i int) []int { return NeighI[i] }

// FarCells returns the cells at graph distance exactly 2 from i. The slice is shared.
func FarCells(i int) []int { return FarI[i] }

// IsNeighbor reports whether i and j are adjacent.
func IsNeighbor(i, j int) bool {
	for _, n := range NeighI[i] {
		if n == j {
			return true
		}
	}
	return false
}

// IsFar reports whether j is at graph distance 2 from i.
func IsFar(i, j int) bool {
	for _, n := range FarI[i] {
		if n == j {
			return true
		}
	}
	return false
}

// Board is the 61-cell board, indexed column by column.
// It is a value type: assigning a Board copies it.
type Board [BoardN]CellState

// ClearBoard returns a board holding only the three blocked cells.
func ClearBoard() Board {
	var b Board
	for _, i := range blockedCells {
		b[i] = Blocked
	}
	return b
}

// StartBoard returns the starting layout: three holes and three pieces per player.
func StartBoard() Board {
	b := ClearBoard()
	for _, i := range startCellsA {
		b[i] = PlayerA
	}
	for _, i := range startCellsB {
		b[i] = PlayerB
	}
	return b
}

// Get returns the cell state at i. Out of range indices read as Blocked.
func (b *Board) Get(i int) CellState {
	if !InBounds(i) {
		return Blocked
	}
	return b[i]
}

// Set updates the cell at i. Blocked cells and the Blocked state are fixed by the
// layout and cannot be written.
func (b *Board) Set(i int, s CellState) error {
	if !InBounds(i) {
		return fmt.Errorf("set %d: %w", i, ErrOutOfBounds)
	}
	if b[i] == Blocked || s == Blocked {
		return fmt.Errorf("set %d to %v: blocked cells are fixed", i, s)
	}
	b[i] = s
	return nil
}

// Count returns how many cells hold state s.
func (b *Board) Count(s CellState) int {
	n := 0
	for _, c := range b {
		if c == s {
			n++
		}
	}
	return n
}

// Counts returns the piece counts of both players in one pass.
func (b *Board) Counts() (a, bb int) {
	for _, c := range b {
		switch c {
		case PlayerA:
			a++
		case PlayerB:
			bb++
		}
	}
	return a, bb
}
