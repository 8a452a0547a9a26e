// Package term draws the Hexxagon board in a terminal with tview.
package term

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"hexxagon/internal/game"
	"hexxagon/internal/session"
)

var (
	styleEmpty  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	stylePieceA = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	stylePieceB = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	bgAdd       = tcell.ColorDarkGreen
	bgTransfer  = tcell.ColorOlive
	bgCursor    = tcell.ColorNavy
	bgSelected  = tcell.ColorPurple
)

const (
	runeEmpty   = '·'
	runePiece   = '●'
	depthLevels = game.MaxDepth + 1
)

// HexBoardUI is the board widget. It implements session.Observer; controller
// events are copied under mu and the screen is redrawn through the application.
type HexBoardUI struct {
	Box      *tview.Box
	app      *tview.Application
	hint     *tview.TextView
	ctx      context.Context
	ctrl     *session.Controller
	settings session.Settings
	running  session.Settings
	cursor   int
	log      zerolog.Logger

	mu       sync.Mutex
	clicked  int
	board    game.Board
	add      []int
	transfer []int
	selected int
	player   game.CellState
	scoreA   int
	scoreB   int
	over     bool
	winner   game.CellState
}

func NewHexBoard(app *tview.Application, hint *tview.TextView, s session.Settings) *HexBoardUI {
	hb := &HexBoardUI{
		Box:      tview.NewBox(),
		app:      app,
		hint:     hint,
		settings: s,
		cursor:   game.BoardN / 2,
		board:    game.ClearBoard(),
		selected: -1,
		clicked:  -1,
		log:      log.With().Str("component", "term").Logger(),
	}
	hb.Box.SetDrawFunc(hb.draw)
	hb.refreshHint()
	return hb
}

// Connect attaches the controller that the board reports clicks to.
func (hb *HexBoardUI) Connect(ctx context.Context, ctrl *session.Controller) {
	hb.ctx = ctx
	hb.ctrl = ctrl
}

func (hb *HexBoardUI) draw(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	hb.mu.Lock()
	defer hb.mu.Unlock()

	w, h := boardSize()
	left := x + max((width-w)/2, 1)
	top := y + max((height-h)/2, 1)
	for i := 0; i < game.BoardN; i++ {
		s := hb.board[i]
		if s == game.Blocked {
			continue
		}
		style, r := styleEmpty, runeEmpty
		switch s {
		case game.PlayerA:
			style, r = stylePieceA, runePiece
		case game.PlayerB:
			style, r = stylePieceB, runePiece
		}
		switch {
		case i == hb.cursor:
			style = style.Background(bgCursor)
		case i == hb.selected:
			style = style.Background(bgSelected)
		case containsCell(hb.add, i):
			style = style.Background(bgAdd)
		case containsCell(hb.transfer, i):
			style = style.Background(bgTransfer)
		}
		cx, cy := cellPos(i)
		screen.SetContent(left+cx-1, top+cy, ' ', nil, style)
		screen.SetContent(left+cx, top+cy, r, nil, style)
		screen.SetContent(left+cx+1, top+cy, ' ', nil, style)
	}
	return x, y, width, height
}

// MoveCursor moves the cursor one cell in direction d.
func (hb *HexBoardUI) MoveCursor(d Direction) {
	hb.cursor = Step(hb.cursor, d)
}

// Click reports the cell under the cursor to the controller.
func (hb *HexBoardUI) Click() {
	if hb.ctrl == nil {
		return
	}
	hb.mu.Lock()
	hb.clicked = hb.cursor
	hb.mu.Unlock()
	if err := hb.ctrl.Click(hb.ctx, hb.cursor); err != nil {
		hb.log.Error().Err(err).Msg("click failed")
	}
}

// Start begins a game in mode m with the current settings.
func (hb *HexBoardUI) Start(m session.Mode) {
	if hb.ctrl == nil {
		return
	}
	if m != session.ModeNone {
		hb.settings.Mode = m
	}
	if err := hb.ctrl.Start(hb.ctx, hb.settings); err != nil {
		hb.log.Error().Err(err).Msg("start failed")
		return
	}
	hb.running = hb.settings
	hb.refreshHint()
}

// Reset returns the board to its empty state.
func (hb *HexBoardUI) Reset() {
	if hb.ctrl == nil {
		return
	}
	if err := hb.ctrl.Reset(hb.ctx); err != nil {
		hb.log.Error().Err(err).Msg("reset failed")
	}
	hb.running = session.Settings{}
	hb.mu.Lock()
	hb.player = game.Empty
	hb.over = false
	hb.scoreA, hb.scoreB = 0, 0
	hb.mu.Unlock()
	hb.refreshHint()
}

// ToggleFirst swaps who moves first in the next game.
func (hb *HexBoardUI) ToggleFirst() {
	hb.settings.First = game.Opponent(hb.settings.First)
	hb.refreshHint()
}

// CycleDepth steps the search depth of computer player p.
func (hb *HexBoardUI) CycleDepth(p game.CellState) {
	if p == game.PlayerB {
		hb.settings.Depth2 = (hb.settings.Depth2 + 1) % depthLevels
	} else {
		hb.settings.Depth1 = (hb.settings.Depth1 + 1) % depthLevels
	}
	hb.refreshHint()
}

// 以下实现 session.Observer，在控制器协程中调用

func (hb *HexBoardUI) GameStarted(session.Settings) {
	hb.update(func() {
		hb.add, hb.transfer = nil, nil
		hb.selected = -1
		hb.over = false
	})
}

func (hb *HexBoardUI) BoardChanged(b game.Board) {
	hb.update(func() { hb.board = b })
}

func (hb *HexBoardUI) MoveCells(add, transfer []int) {
	hb.update(func() {
		hb.add, hb.transfer = add, transfer
		hb.selected = hb.clicked
	})
}

func (hb *HexBoardUI) ClearMoveCells() {
	hb.update(func() {
		hb.add, hb.transfer = nil, nil
		hb.selected = -1
	})
}

func (hb *HexBoardUI) MoveMade(m game.Move, player game.CellState, captured []int) {
	hb.log.Debug().Stringer("move", m).Stringer("player", player).Ints("captured", captured).Msg("move")
}

func (hb *HexBoardUI) PlayerChanged(p game.CellState) {
	hb.update(func() {
		hb.player = p
		hb.over = false
	})
}

func (hb *HexBoardUI) ScoreChanged(a, b int) {
	hb.update(func() { hb.scoreA, hb.scoreB = a, b })
}

func (hb *HexBoardUI) GameOver(winner game.CellState) {
	hb.update(func() {
		hb.over = true
		hb.winner = winner
		hb.log.Info().Stringer("winner", winner).Str("board", hb.board.String()).Msg("final position")
	})
}

// update 修改数据后请求重绘。QueueUpdateDraw 放到新协程里，避免与界面协程互相等待
func (hb *HexBoardUI) update(fn func()) {
	hb.mu.Lock()
	fn()
	hb.mu.Unlock()
	go func() {
		hb.app.QueueUpdateDraw(hb.refreshHint)
	}()
}

func (hb *HexBoardUI) refreshHint() {
	hb.mu.Lock()
	player, over, winner := hb.player, hb.over, hb.winner
	a, b := hb.scoreA, hb.scoreB
	hb.mu.Unlock()

	var status string
	switch {
	case over && winner == game.Empty:
		status = "  Game over: draw\n"
	case over:
		status = fmt.Sprintf("  Game over: %s wins\n", playerName(winner))
	case !player.IsPlayer():
		status = "  No game running\n"
	case hb.running.IsComputer(player):
		status = fmt.Sprintf("  ◌ %s is thinking...\n", playerName(player))
	default:
		status = fmt.Sprintf("  %s to move\n", playerName(player))
	}
	hb.hint.SetText(fmt.Sprintf(`%s
  Red %d : %d White

  mode %s   first %s   depth %d/%d

  w/s up/down   a/z left   d/c right   ⏎ select
  1/2/3 hvh/hvc/cvc   n new   r reset
  f first   [ ] depth   q quit`,
		status, a, b,
		hb.settings.Mode, playerName(hb.settings.First), hb.settings.Depth1, hb.settings.Depth2))
}

func playerName(p game.CellState) string {
	switch p {
	case game.PlayerA:
		return "Red"
	case game.PlayerB:
		return "White"
	}
	return "-"
}

func containsCell(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
