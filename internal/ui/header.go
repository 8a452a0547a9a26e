package ui

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"hexxagon/internal/game"
	"hexxagon/internal/session"
)

const helpLine = "1/2/3 hvh/hvc/cvc   N new   R reset   F first   D/E depth   Esc quit"

func playerName(p game.CellState) string {
	switch p {
	case game.PlayerA:
		return "Red"
	case game.PlayerB:
		return "White"
	}
	return "-"
}

// statusLine 状态栏第二行
func statusLine(f frame, running session.Settings) string {
	switch {
	case f.over && f.winner == game.Empty:
		return "Game over: draw"
	case f.over:
		return fmt.Sprintf("Game over: %s wins", playerName(f.winner))
	case !f.player.IsPlayer():
		return helpLine
	case running.IsComputer(f.player):
		return fmt.Sprintf("%s is thinking...", playerName(f.player))
	}
	return fmt.Sprintf("%s to move", playerName(f.player))
}

func (gs *GameScreen) drawHeader(screen *ebiten.Image, f frame) {
	y := 22
	x := 10

	strs := []string{
		fmt.Sprintf("Mode | %s", gs.settings.Mode),
		fmt.Sprintf("First | %s", playerName(gs.settings.First)),
		fmt.Sprintf("Depth | %d/%d", gs.settings.Depth1, gs.settings.Depth2),
		fmt.Sprintf("Score | Red:%d  White:%d", f.scoreA, f.scoreB),
	}
	for _, s := range strs {
		text.Draw(screen, s, basicfont.Face7x13, x, y, colWhite)
		x += len(s)*7 + 30
	}
	text.Draw(screen, statusLine(f, gs.running), basicfont.Face7x13, 10, y+22, colWhite)
}
