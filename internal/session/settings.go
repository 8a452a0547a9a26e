package session

import (
	"errors"
	"fmt"
	"strings"

	"hexxagon/internal/game"
)

var (
	ErrInvalidMode   = errors.New("invalid game mode")
	ErrInvalidDepth  = errors.New("search depth must be between 0 and 2")
	ErrInvalidPlayer = errors.New("first player must be 1 or 2")
	ErrInvalidBoard  = errors.New("start position must keep the fixed holes")
)

// Mode selects who plays each side.
type Mode int

const (
	ModeNone Mode = iota
	HumanVsHuman
	HumanVsComputer
	ComputerVsComputer
)

func (m Mode) String() string {
	switch m {
	case HumanVsHuman:
		return "hvh"
	case HumanVsComputer:
		return "hvc"
	case ComputerVsComputer:
		return "cvc"
	}
	return "none"
}

// ParseMode accepts the short names hvh, hvc and cvc.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hvh", "human-vs-human":
		return HumanVsHuman, nil
	case "hvc", "human-vs-computer":
		return HumanVsComputer, nil
	case "cvc", "computer-vs-computer":
		return ComputerVsComputer, nil
	}
	return ModeNone, fmt.Errorf("%q: %w", s, ErrInvalidMode)
}

// Settings is what a game is started with.
//
// In HumanVsComputer player 1 is the human and player 2 the computer, searching at
// Depth1. In ComputerVsComputer player 1 searches at Depth1 and player 2 at Depth2.
type Settings struct {
	First  game.CellState
	Mode   Mode
	Depth1 int
	Depth2 int
	// Board 非空时从这个局面开局，否则用标准开局
	Board  *game.Board
}

func (s Settings) Validate() error {
	if !s.First.IsPlayer() {
		return fmt.Errorf("%d: %w", s.First, ErrInvalidPlayer)
	}
	switch s.Mode {
	case HumanVsHuman, HumanVsComputer, ComputerVsComputer:
	default:
		return fmt.Errorf("%d: %w", s.Mode, ErrInvalidMode)
	}
	for _, d := range []int{s.Depth1, s.Depth2} {
		if d < 0 || d > game.MaxDepth {
			return fmt.Errorf("%d: %w", d, ErrInvalidDepth)
		}
	}
	if s.Board != nil {
		holes := game.ClearBoard()
		for i, st := range s.Board {
			if st < game.Empty || st > game.Blocked || (st == game.Blocked) != (holes[i] == game.Blocked) {
				return fmt.Errorf("cell %d: %w", i, ErrInvalidBoard)
			}
		}
	}
	return nil
}

// IsComputer reports whether player p is driven by the search.
func (s Settings) IsComputer(p game.CellState) bool {
	switch s.Mode {
	case HumanVsComputer:
		return p == game.PlayerB
	case ComputerVsComputer:
		return p.IsPlayer()
	}
	return false
}

// DepthFor returns the search depth of computer player p.
func (s Settings) DepthFor(p game.CellState) int {
	if s.Mode == ComputerVsComputer && p == game.PlayerB {
		return s.Depth2
	}
	return s.Depth1
}
