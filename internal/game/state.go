package game

import (
	"errors"
	"fmt"
)

var (
	ErrGameOver    = errors.New("game is over")
	ErrIllegalMove = errors.New("illegal move")
)

// GameState 包含了整个游戏的状态，包括棋盘、当前玩家、分数和胜负状态
type GameState struct {
	Board         Board     // 棋盘
	CurrentPlayer CellState // 当前玩家 (PlayerA 或 PlayerB)
	ScoreA        int       // 玩家 A 的棋子数
	ScoreB        int       // 玩家 B 的棋子数
	GameOver      bool      // 游戏是否结束
	Winner        CellState // 胜者 (PlayerA、PlayerB 或 Empty 表示平局)
}

// NewGameState 用开局棋盘创建游戏，first 先走
func NewGameState(first CellState) *GameState {
	return NewGameStateFrom(StartBoard(), first)
}

// NewGameStateFrom starts a game from position b with first to move. The game is
// already over if either side has no move on b.
func NewGameStateFrom(b Board, first CellState) *GameState {
	gs := &GameState{
		Board:         b,
		CurrentPlayer: first,
	}
	gs.updateScores()
	gs.checkGameOver()
	return gs
}

// updateScores 重新统计棋子数量，更新 ScoreA 和 ScoreB
func (gs *GameState) updateScores() {
	gs.ScoreA, gs.ScoreB = gs.Board.Counts()
}

// MakeMove applies m for the current player, then switches turns and checks
// whether the game has ended. It returns the captured cells.
func (gs *GameState) MakeMove(m Move) ([]int, error) {
	if gs.GameOver {
		return nil, ErrGameOver
	}
	if !IsLegal(&gs.Board, m, gs.CurrentPlayer) {
		return nil, fmt.Errorf("%v for %v: %w", m, gs.CurrentPlayer, ErrIllegalMove)
	}
	infected := Captures(&gs.Board, m, gs.CurrentPlayer)
	gs.Board.play(m, gs.CurrentPlayer)
	gs.updateScores()
	gs.CurrentPlayer = Opponent(gs.CurrentPlayer)
	gs.checkGameOver()
	return infected, nil
}

// checkGameOver 判断游戏是否结束：任意一方没有合法走法即终局，
// 刚走完的一方也要检查。胜者按棋盘上的子数决定，相等为平局。
func (gs *GameState) checkGameOver() {
	if gs.GameOver {
		return
	}
	if HasMoves(&gs.Board, PlayerA) && HasMoves(&gs.Board, PlayerB) {
		return
	}
	gs.End()
}

// End stops the game where it stands and awards it on piece count.
func (gs *GameState) End() {
	gs.GameOver = true
	gs.updateScores()
	switch {
	case gs.ScoreA > gs.ScoreB:
		gs.Winner = PlayerA
	case gs.ScoreB > gs.ScoreA:
		gs.Winner = PlayerB
	default:
		gs.Winner = Empty // 平局
	}
}

// LegalMoves returns the legal moves of the current player.
func (gs *GameState) LegalMoves() []Move {
	if gs.GameOver || !gs.CurrentPlayer.IsPlayer() {
		return nil
	}
	return GenerateMoves(&gs.Board, gs.CurrentPlayer)
}

// GetScores 返回当前双方的棋子数 (A, B)
func (gs *GameState) GetScores() (int, int) {
	return gs.ScoreA, gs.ScoreB
}

// Clear puts the game back to the board with only the holes, nobody to move.
func (gs *GameState) Clear() {
	*gs = GameState{Board: ClearBoard()}
}
