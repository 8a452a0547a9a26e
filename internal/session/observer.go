package session

import "hexxagon/internal/game"

// Observer receives what the engine publishes to the board widget and the main
// window. Calls are made one at a time from the controller goroutine and must not
// block on the controller.
type Observer interface {
	// GameStarted opens a new game. Events that follow belong to it.
	GameStarted(s Settings)
	// BoardChanged carries the full board after a start, a move or a reset.
	BoardChanged(b game.Board)
	// MoveCells carries the destinations of the selected piece.
	MoveCells(add, transfer []int)
	// ClearMoveCells removes any highlighted destinations.
	ClearMoveCells()
	// MoveMade describes a move to animate, together with the cells it flipped.
	MoveMade(m game.Move, player game.CellState, captured []int)
	// PlayerChanged reports whose turn it is.
	PlayerChanged(p game.CellState)
	// ScoreChanged reports the piece count of each player.
	ScoreChanged(a, b int)
	// GameOver fires once when the game ends; winner is Empty on a draw.
	GameOver(winner game.CellState)
}

// NopObserver ignores every event. Embed it to implement only part of Observer.
type NopObserver struct{}

func (NopObserver) GameStarted(Settings) {}
func (NopObserver) BoardChanged(game.Board) {}
func (NopObserver) MoveCells(add, transfer []int) {}
func (NopObserver) ClearMoveCells() {}
func (NopObserver) MoveMade(game.Move, game.CellState, []int) {}
func (NopObserver) PlayerChanged(game.CellState) {}
func (NopObserver) ScoreChanged(a, b int) {}
func (NopObserver) GameOver(winner game.CellState) {}
