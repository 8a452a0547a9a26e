package session

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hexxagon/internal/game"
)

type madeMove struct {
	move     game.Move
	player   game.CellState
	captured []int
	at       time.Time
}

// recorder 记录控制器发出的所有事件
type recorder struct {
	mu        sync.Mutex
	board     game.Board
	add       []int
	transfer  []int
	clears    int
	moves     []madeMove
	players   []game.CellState
	scoreA    int
	scoreB    int
	gameOvers []game.CellState
	starts    int
}

func (r *recorder) GameStarted(Settings) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.starts++
}

func (r *recorder) BoardChanged(b game.Board) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.board = b
}

func (r *recorder) MoveCells(add, transfer []int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add, r.transfer = add, transfer
}

func (r *recorder) ClearMoveCells() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add, r.transfer = nil, nil
	r.clears++
}

func (r *recorder) MoveMade(m game.Move, p game.CellState, captured []int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.moves = append(r.moves, madeMove{move: m, player: p, captured: captured, at: time.Now()})
}

func (r *recorder) PlayerChanged(p game.CellState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players = append(r.players, p)
}

func (r *recorder) ScoreChanged(a, b int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scoreA, r.scoreB = a, b
}

func (r *recorder) GameOver(winner game.CellState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gameOvers = append(r.gameOvers, winner)
}

func (r *recorder) moveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.moves)
}

func (r *recorder) madeMoves() []madeMove {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]madeMove(nil), r.moves...)
}

func (r *recorder) over() []game.CellState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]game.CellState(nil), r.gameOvers...)
}

func (r *recorder) highlights() (add, transfer []int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.add, r.transfer
}

func newTestController(t *testing.T, opts Options) (*Controller, *recorder, context.Context) {
	t.Helper()
	rec := &recorder{}
	c := New(rec, opts)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		_ = c.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})
	return c, rec, ctx
}

func snapshot(t *testing.T, ctx context.Context, c *Controller) Snapshot {
	t.Helper()
	s, err := c.Snapshot(ctx)
	require.NoError(t, err)
	return s
}

// load 直接替换控制器里的棋盘，只用于构造测试局面
func load(t *testing.T, ctx context.Context, c *Controller, b game.Board, player game.CellState) {
	t.Helper()
	require.NoError(t, c.do(ctx, func() {
		c.gs.Board = b
		c.gs.CurrentPlayer = player
		c.gs.ScoreA, c.gs.ScoreB = b.Counts()
	}))
}

func hvh() Settings {
	return Settings{First: game.PlayerA, Mode: HumanVsHuman}
}

func TestStartValidatesSettings(t *testing.T) {
	c, _, ctx := newTestController(t, Options{})

	require.ErrorIs(t, c.Start(ctx, Settings{First: game.PlayerA, Mode: HumanVsComputer, Depth1: 3}), ErrInvalidDepth)
	require.ErrorIs(t, c.Start(ctx, Settings{First: game.PlayerA, Mode: HumanVsComputer, Depth2: -1}), ErrInvalidDepth)
	require.ErrorIs(t, c.Start(ctx, Settings{First: game.PlayerA}), ErrInvalidMode)
	require.ErrorIs(t, c.Start(ctx, Settings{First: game.Blocked, Mode: HumanVsHuman}), ErrInvalidPlayer)

	s := snapshot(t, ctx, c)
	require.Equal(t, Idle, s.State)
	require.Equal(t, game.ClearBoard(), s.Board)
}

func TestHumanSelectsAndMoves(t *testing.T) {
	c, rec, ctx := newTestController(t, Options{})
	require.NoError(t, c.Start(ctx, hvh()))

	s := snapshot(t, ctx, c)
	require.Equal(t, AwaitingSelection, s.State)
	require.Equal(t, game.PlayerA, s.Active)
	require.Equal(t, game.StartBoard(), s.Board)
	rec.mu.Lock()
	require.Equal(t, 1, rec.starts)
	rec.mu.Unlock()

	require.NoError(t, c.Click(ctx, 0))
	s = snapshot(t, ctx, c)
	require.Equal(t, AwaitingSelection, s.State, "selecting a piece does not change state")
	require.Equal(t, 0, s.Selected)
	add, transfer := rec.highlights()
	require.Equal(t, []int{1, 5, 6}, add)
	require.Equal(t, []int{2, 7, 11, 12, 13}, transfer)

	require.NoError(t, c.Click(ctx, 1))
	s = snapshot(t, ctx, c)
	require.Equal(t, AwaitingSelection, s.State)
	require.Equal(t, game.PlayerB, s.Active)
	require.Equal(t, game.PlayerA, s.Board[0])
	require.Equal(t, game.PlayerA, s.Board[1])
	require.Equal(t, 4, s.ScoreA)
	require.Equal(t, -1, s.Selected)

	moves := rec.madeMoves()
	require.Len(t, moves, 1)
	require.Equal(t, game.Move{From: 0, To: 1, Kind: game.Add}, moves[0].move)
	require.Equal(t, game.PlayerA, moves[0].player)
	add, transfer = rec.highlights()
	require.Nil(t, add)
	require.Nil(t, transfer)
}

func TestTransferFromClick(t *testing.T) {
	c, rec, ctx := newTestController(t, Options{})
	require.NoError(t, c.Start(ctx, hvh()))

	require.NoError(t, c.Click(ctx, 0))
	require.NoError(t, c.Click(ctx, 2))

	s := snapshot(t, ctx, c)
	require.Equal(t, game.Empty, s.Board[0])
	require.Equal(t, game.PlayerA, s.Board[2])
	require.Equal(t, game.Transfer, rec.madeMoves()[0].move.Kind)
}

func TestInvalidClicksAreIgnored(t *testing.T) {
	c, rec, ctx := newTestController(t, Options{})

	// Idle：点击无效
	require.NoError(t, c.Click(ctx, 0))
	require.Equal(t, Idle, snapshot(t, ctx, c).State)

	require.NoError(t, c.Start(ctx, hvh()))
	for _, i := range []int{-1, 61, 1000, 4, 22, 30} {
		require.NoError(t, c.Click(ctx, i))
	}
	s := snapshot(t, ctx, c)
	require.Equal(t, AwaitingSelection, s.State)
	require.Equal(t, game.StartBoard(), s.Board)
	require.Equal(t, -1, s.Selected)

	// 选中后点一个没有高亮的格子
	require.NoError(t, c.Click(ctx, 0))
	require.NoError(t, c.Click(ctx, 40))
	s = snapshot(t, ctx, c)
	require.Equal(t, 0, s.Selected)
	require.Equal(t, game.StartBoard(), s.Board)
	require.Zero(t, rec.moveCount())
}

func TestReselectAnotherPiece(t *testing.T) {
	c, rec, ctx := newTestController(t, Options{})
	require.NoError(t, c.Start(ctx, hvh()))

	require.NoError(t, c.Click(ctx, 0))
	require.NoError(t, c.Click(ctx, 34))
	s := snapshot(t, ctx, c)
	require.Equal(t, 34, s.Selected)
	add, _ := rec.highlights()
	require.Equal(t, s.AddCells, add)

	// 原来的目标格已不再高亮
	require.NoError(t, c.Click(ctx, 1))
	require.Zero(t, rec.moveCount())
}

func TestComputerRespondsAfterDelay(t *testing.T) {
	const delay = 100 * time.Millisecond
	c, rec, ctx := newTestController(t, Options{MoveDelay: delay})
	require.NoError(t, c.Start(ctx, Settings{First: game.PlayerA, Mode: HumanVsComputer, Depth1: 1}))

	require.NoError(t, c.Click(ctx, 0))
	require.NoError(t, c.Click(ctx, 1))
	require.Equal(t, AwaitingMoveDelay, snapshot(t, ctx, c).State)

	// 电脑回合不接受点击
	require.NoError(t, c.Click(ctx, 34))
	require.Equal(t, -1, snapshot(t, ctx, c).Selected)

	require.Eventually(t, func() bool { return rec.moveCount() == 2 }, 5*time.Second, 10*time.Millisecond)
	moves := rec.madeMoves()
	require.Equal(t, game.PlayerB, moves[1].player)
	require.GreaterOrEqual(t, moves[1].at.Sub(moves[0].at), delay)

	s := snapshot(t, ctx, c)
	require.Equal(t, AwaitingSelection, s.State)
	require.Equal(t, game.PlayerA, s.Active)
}

func TestPauseHoldsComputerMove(t *testing.T) {
	c, rec, ctx := newTestController(t, Options{MoveDelay: 60 * time.Millisecond})
	require.NoError(t, c.Start(ctx, Settings{First: game.PlayerA, Mode: ComputerVsComputer}))
	require.NoError(t, c.PauseOn(ctx))

	time.Sleep(250 * time.Millisecond)
	s := snapshot(t, ctx, c)
	require.Equal(t, AwaitingMoveDelay, s.State)
	require.True(t, s.Paused)
	require.Zero(t, rec.moveCount())

	require.NoError(t, c.PauseOff(ctx))
	require.Eventually(t, func() bool { return rec.moveCount() >= 1 }, 5*time.Second, 10*time.Millisecond)
	require.Equal(t, game.PlayerA, rec.madeMoves()[0].player)
}

func TestResetDiscardsStaleResult(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	search := func(b game.Board, p game.CellState, depth int) (game.Move, bool) {
		calls.Add(1)
		<-release
		return DefaultSearch(b, p, depth)
	}
	c, rec, ctx := newTestController(t, Options{Search: search})

	require.NoError(t, c.Start(ctx, Settings{First: game.PlayerA, Mode: ComputerVsComputer}))
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 5*time.Second, 5*time.Millisecond)

	require.NoError(t, c.Reset(ctx))
	require.NoError(t, c.Start(ctx, hvh()))
	close(release)

	time.Sleep(100 * time.Millisecond)
	s := snapshot(t, ctx, c)
	require.Equal(t, AwaitingSelection, s.State)
	require.Equal(t, game.StartBoard(), s.Board, "the abandoned search must not move")
	require.Zero(t, rec.moveCount())
}

func TestResetRestoresClearBoard(t *testing.T) {
	c, rec, ctx := newTestController(t, Options{})
	require.NoError(t, c.Start(ctx, hvh()))
	require.NoError(t, c.Click(ctx, 0))
	require.NoError(t, c.Reset(ctx))

	s := snapshot(t, ctx, c)
	require.Equal(t, Idle, s.State)
	require.Equal(t, game.ClearBoard(), s.Board)
	require.Equal(t, -1, s.Selected)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Equal(t, game.ClearBoard(), rec.board)
	require.Nil(t, rec.add)
}

func TestGameOverAfterHumanMove(t *testing.T) {
	c, rec, ctx := newTestController(t, Options{})
	require.NoError(t, c.Start(ctx, hvh()))

	b := game.ClearBoard()
	for i := range b {
		if b[i] == game.Empty {
			b[i] = game.PlayerA
		}
	}
	b[0] = game.PlayerB
	b[6] = game.Empty
	load(t, ctx, c, b, game.PlayerA)

	require.NoError(t, c.Click(ctx, 1))
	require.NoError(t, c.Click(ctx, 6))

	s := snapshot(t, ctx, c)
	require.Equal(t, Idle, s.State)
	require.True(t, s.GameOver)
	require.Equal(t, game.PlayerA, s.Winner)
	require.Equal(t, []game.CellState{game.PlayerA}, rec.over())
	require.Equal(t, []int{0}, rec.madeMoves()[0].captured)

	// 终局后点击无效
	require.NoError(t, c.Click(ctx, 1))
	require.Equal(t, Idle, snapshot(t, ctx, c).State)
}

// stuckMover 除 0 号格为 A、1 和 60 为空外全是 B
func stuckMover() game.Board {
	b := game.ClearBoard()
	for i := range b {
		if b[i] == game.Empty {
			b[i] = game.PlayerB
		}
	}
	b[0] = game.PlayerA
	b[1] = game.Empty
	b[60] = game.Empty
	return b
}

// A 走完后自己再无走法，即使 B 还能走，游戏也结束
func TestGameOverWhenMoverIsStuck(t *testing.T) {
	c, rec, ctx := newTestController(t, Options{})
	b := stuckMover()
	require.NoError(t, c.Start(ctx, Settings{First: game.PlayerA, Mode: HumanVsHuman, Board: &b}))
	require.Equal(t, AwaitingSelection, snapshot(t, ctx, c).State)

	require.NoError(t, c.Click(ctx, 0))
	require.NoError(t, c.Click(ctx, 1))

	s := snapshot(t, ctx, c)
	require.Equal(t, Idle, s.State)
	require.True(t, s.GameOver)
	require.Equal(t, game.PlayerB, s.Winner)
	require.Equal(t, 5, s.ScoreA)
	require.Equal(t, 52, s.ScoreB)
	require.Equal(t, []game.CellState{game.PlayerB}, rec.over())

	// 终局后 B 的点击不再生效
	require.NoError(t, c.Click(ctx, 59))
	require.NoError(t, c.Click(ctx, 60))
	require.Equal(t, game.Empty, snapshot(t, ctx, c).Board[60])
}

func TestStartFromPosition(t *testing.T) {
	c, rec, ctx := newTestController(t, Options{})
	b := game.StartBoard()
	b[1], b[5] = game.PlayerA, game.PlayerA
	require.NoError(t, c.Start(ctx, Settings{First: game.PlayerB, Mode: HumanVsHuman, Board: &b}))

	s := snapshot(t, ctx, c)
	require.Equal(t, b, s.Board)
	require.Equal(t, game.PlayerB, s.Active)
	require.Equal(t, 5, s.ScoreA)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Equal(t, b, rec.board)
}

// 搜索给出的走法不合法时按当前子数结束，而不是报平局
func TestRejectedComputerMoveEndsOnCount(t *testing.T) {
	search := func(game.Board, game.CellState, int) (game.Move, bool) {
		return game.Move{From: 0, To: 30, Kind: game.Add}, true
	}
	c, rec, ctx := newTestController(t, Options{Search: search})
	b := game.StartBoard()
	b[1], b[5] = game.PlayerA, game.PlayerA
	require.NoError(t, c.Start(ctx, Settings{First: game.PlayerA, Mode: ComputerVsComputer, Board: &b}))

	require.Eventually(t, func() bool { return len(rec.over()) == 1 }, 5*time.Second, 10*time.Millisecond)
	s := snapshot(t, ctx, c)
	require.Equal(t, Idle, s.State)
	require.True(t, s.GameOver)
	require.Equal(t, game.PlayerA, s.Winner)
	require.Equal(t, []game.CellState{game.PlayerA}, rec.over())
	require.Zero(t, rec.moveCount())
}

func TestComputerVsComputerPlaysToEnd(t *testing.T) {
	c, rec, ctx := newTestController(t, Options{})
	require.NoError(t, c.Start(ctx, Settings{First: game.PlayerB, Mode: ComputerVsComputer, Depth1: 0, Depth2: 1}))

	require.Eventually(t, func() bool { return len(rec.over()) == 1 }, 30*time.Second, 20*time.Millisecond)

	s := snapshot(t, ctx, c)
	require.Equal(t, Idle, s.State)
	require.True(t, s.GameOver)
	require.Equal(t, 3, s.Board.Count(game.Blocked))
	require.Equal(t, game.BoardN,
		s.Board.Count(game.Empty)+s.Board.Count(game.PlayerA)+s.Board.Count(game.PlayerB)+s.Board.Count(game.Blocked))

	switch {
	case s.ScoreA > s.ScoreB:
		require.Equal(t, game.PlayerA, s.Winner)
	case s.ScoreB > s.ScoreA:
		require.Equal(t, game.PlayerB, s.Winner)
	default:
		require.Equal(t, game.Empty, s.Winner)
	}

	moves := rec.madeMoves()
	require.NotEmpty(t, moves)
	require.Equal(t, game.PlayerB, moves[0].player)
	for i := 1; i < len(moves); i++ {
		require.Equal(t, game.Opponent(moves[i-1].player), moves[i].player, "move %d", i)
	}
}

func TestStoppedController(t *testing.T) {
	c := New(nil, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- c.Run(ctx) }()
	cancel()
	require.ErrorIs(t, <-errc, context.Canceled)

	require.ErrorIs(t, c.Click(context.Background(), 0), ErrStopped)
	_, err := c.Snapshot(context.Background())
	require.ErrorIs(t, err, ErrStopped)
}
