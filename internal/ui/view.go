package ui

import (
	"sync"

	"hexxagon/internal/game"
	"hexxagon/internal/session"
	"hexxagon/internal/sound"
)

// moveEvent 一次待播放的走子，before 是走子前的棋盘
type moveEvent struct {
	move     game.Move
	player   game.CellState
	captured []int
	before   game.Board
	game     int // 所属对局编号
}

// frame 一帧绘制所需的全部数据
type frame struct {
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

// View mirrors what the controller publishes. It implements session.Observer;
// events arrive on the controller goroutine and are read on the ebiten goroutine.
type View struct {
	mu      sync.Mutex
	cur     frame
	clicked int
	game    int // GameStarted 的次数
	moves   []moveEvent
	sounds  []sound.Effect
}

func NewView() *View {
	v := &View{clicked: -1}
	v.clear()
	return v
}

// GameStarted 换新对局：旧对局排队的走子一律丢弃
func (v *View) GameStarted(session.Settings) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.game++
	v.clear()
}

func (v *View) BoardChanged(b game.Board) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cur.board = b
}

func (v *View) MoveCells(add, transfer []int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cur.add, v.cur.transfer = add, transfer
	v.cur.selected = v.clicked
	v.sounds = append(v.sounds, sound.Select)
}

func (v *View) ClearMoveCells() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cur.add, v.cur.transfer = nil, nil
	v.cur.selected = -1
}

func (v *View) MoveMade(m game.Move, player game.CellState, captured []int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	// BoardChanged 紧随其后，此时 cur.board 仍是走子前的棋盘
	v.moves = append(v.moves, moveEvent{move: m, player: player, captured: captured, before: v.cur.board, game: v.game})
}

func (v *View) PlayerChanged(p game.CellState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cur.player = p
	v.cur.over = false
}

func (v *View) ScoreChanged(a, b int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cur.scoreA, v.cur.scoreB = a, b
}

func (v *View) GameOver(winner game.CellState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cur.over = true
	v.cur.winner = winner
	v.sounds = append(v.sounds, sound.GameOver)
}

// noteClick 记下最近点击的格子，选中棋子时用它标出起点
func (v *View) noteClick(i int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.clicked = i
}

func (v *View) frame() frame {
	v.mu.Lock()
	defer v.mu.Unlock()
	f := v.cur
	f.add = append([]int(nil), v.cur.add...)
	f.transfer = append([]int(nil), v.cur.transfer...)
	return f
}

func (v *View) nextMove() (moveEvent, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.moves) == 0 {
		return moveEvent{}, false
	}
	ev := v.moves[0]
	v.moves = v.moves[1:]
	return ev, true
}

// current 返回当前对局编号
func (v *View) current() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.game
}

func (v *View) takeSounds() []sound.Effect {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := v.sounds
	v.sounds = nil
	return out
}

// reset 丢弃排队的动画并回到空棋盘，开局或复位前调用
func (v *View) reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.clear()
}

func (v *View) clear() {
	v.cur = frame{board: game.ClearBoard(), selected: -1}
	v.clicked = -1
	v.moves = nil
}
