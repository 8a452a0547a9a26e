// internal/game/encode.go
package game

import (
	"fmt"
	"strings"
)

// String renders the board as 61 digits in index order: 0=空 1=玩家1 2=玩家2 3=洞.
// ParseBoard reads it back.
func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow(BoardN)
	for _, s := range b {
		sb.WriteByte('0' + byte(s))
	}
	return sb.String()
}

// ParseBoard reads a board written as 61 digits 0-3. Spaces, commas and newlines
// are skipped. The blocked cells must be exactly the fixed holes.
func ParseBoard(s string) (Board, error) {
	var b Board
	n := 0
	for _, r := range s {
		switch {
		case r == ' ' || r == ',' || r == '\n' || r == '\t' || r == '\r':
			continue
		case r >= '0' && r <= '3':
			if n >= BoardN {
				return Board{}, fmt.Errorf("parse board: more than %d cells", BoardN)
			}
			b[n] = CellState(r - '0')
			n++
		default:
			return Board{}, fmt.Errorf("parse board: unexpected %q at cell %d", r, n)
		}
	}
	if n != BoardN {
		return Board{}, fmt.Errorf("parse board: got %d cells, want %d", n, BoardN)
	}
	holes := ClearBoard()
	for i := range b {
		if (b[i] == Blocked) != (holes[i] == Blocked) {
			return Board{}, fmt.Errorf("parse board: cell %d: blocked cells must be %v", i, blockedCells)
		}
	}
	return b, nil
}
