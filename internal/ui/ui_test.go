package ui

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hexxagon/internal/game"
	"hexxagon/internal/session"
	"hexxagon/internal/sound"
)

func TestCellAtFindsEveryCenter(t *testing.T) {
	for i := 0; i < game.BoardN; i++ {
		x, y := CellCenter(i)
		require.GreaterOrEqual(t, x, 0.0)
		require.LessOrEqual(t, x, float64(WindowWidth))
		require.Greater(t, y, float64(headerHeight))
		require.LessOrEqual(t, y, float64(WindowHeight))

		got, ok := CellAt(x+3, y-3)
		require.True(t, ok, "cell %d", i)
		require.Equal(t, i, got)
	}
	_, ok := CellAt(2, 2)
	require.False(t, ok)
}

func TestNeighborCentersAreOneStepApart(t *testing.T) {
	step := hexRadius * math.Sqrt(3)
	for i := 0; i < game.BoardN; i++ {
		x0, y0 := CellCenter(i)
		for _, n := range game.Neighbors(i) {
			x1, y1 := CellCenter(n)
			require.InDelta(t, step, math.Hypot(x1-x0, y1-y0), 1e-6, "%d-%d", i, n)
		}
	}
}

func TestViewRecordsEvents(t *testing.T) {
	v := NewView()
	start := game.StartBoard()
	v.BoardChanged(start)
	v.PlayerChanged(game.PlayerA)
	v.ScoreChanged(3, 3)

	v.noteClick(0)
	v.MoveCells([]int{1, 5, 6}, []int{2})
	f := v.frame()
	require.Equal(t, 0, f.selected)
	require.Equal(t, []int{1, 5, 6}, f.add)
	require.Equal(t, []sound.Effect{sound.Select}, v.takeSounds())
	require.Empty(t, v.takeSounds())

	m := game.Move{From: 0, To: 1, Kind: game.Add}
	v.ClearMoveCells()
	v.MoveMade(m, game.PlayerA, nil)
	v.BoardChanged(game.Apply(start, m, game.PlayerA))

	ev, ok := v.nextMove()
	require.True(t, ok)
	require.Equal(t, start, ev.before)
	require.Equal(t, m, ev.move)
	_, ok = v.nextMove()
	require.False(t, ok)

	v.GameOver(game.Empty)
	f = v.frame()
	require.True(t, f.over)
	require.Equal(t, -1, f.selected)
	require.Equal(t, "Game over: draw", statusLine(f, session.Settings{}))

	v.reset()
	f = v.frame()
	require.False(t, f.over)
	require.Equal(t, game.ClearBoard(), f.board)
}

func TestMoveAnimation(t *testing.T) {
	b := game.ClearBoard()
	b[0] = game.PlayerA
	b[7] = game.PlayerB
	a := &moveAnim{
		ev: moveEvent{
			move:     game.Move{From: 0, To: 2, Kind: game.Transfer},
			player:   game.PlayerA,
			captured: []int{7},
			before:   b,
		},
		start: time.Now(),
	}
	mid := a.start.Add(moveDur / 2)
	shown := a.board(mid)
	require.Equal(t, game.Empty, shown[0], "origin is left during a transfer")
	require.Equal(t, game.Empty, shown[2])
	_, _, scale, ok := a.flight(mid)
	require.True(t, ok)
	require.Equal(t, 1.0, scale)

	landed := a.start.Add(moveDur)
	require.Equal(t, game.PlayerA, a.board(landed)[2])
	require.Equal(t, game.PlayerB, a.board(landed)[7])
	require.False(t, a.done(landed))
	require.True(t, a.done(a.start.Add(moveDur+infectDur)))
	require.Equal(t, 1.0, a.infection(a.start.Add(time.Second)))
}

func TestStatusLine(t *testing.T) {
	hvc := session.Settings{First: game.PlayerA, Mode: session.HumanVsComputer}
	require.Equal(t, "Red to move", statusLine(frame{player: game.PlayerA}, hvc))
	require.Equal(t, "White is thinking...", statusLine(frame{player: game.PlayerB}, hvc))
	require.Equal(t, "Game over: Red wins", statusLine(frame{over: true, winner: game.PlayerA}, hvc))
	require.Equal(t, helpLine, statusLine(frame{}, session.Settings{}))
}

// 新对局开始时，旧对局排队的走子不再播放
func TestGameStartedDropsQueuedMoves(t *testing.T) {
	v := NewView()
	start := game.StartBoard()
	v.BoardChanged(start)
	v.MoveMade(game.Move{From: 0, To: 1, Kind: game.Add}, game.PlayerA, nil)

	v.GameStarted(session.Settings{First: game.PlayerB, Mode: session.HumanVsHuman})
	_, ok := v.nextMove()
	require.False(t, ok)
	require.Equal(t, 1, v.current())

	v.BoardChanged(start)
	m := game.Move{From: 4, To: 3, Kind: game.Add}
	v.MoveMade(m, game.PlayerB, nil)
	ev, ok := v.nextMove()
	require.True(t, ok)
	require.Equal(t, m, ev.move)
	require.Equal(t, 1, ev.game)
}

func TestStaleAnimationReleasesPause(t *testing.T) {
	v := NewView()
	ctrl := session.New(v, session.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		_ = ctrl.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})

	gs := NewGameScreen(ctx, ctrl, v, sound.NewAudioManager(nil, false),
		session.Settings{First: game.PlayerA, Mode: session.HumanVsHuman})
	gs.Start()
	require.Eventually(t, func() bool { return v.current() == 1 }, 5*time.Second, 5*time.Millisecond)

	// 上一局留下的动画仍在播放，并且暂停着控制器
	now := time.Now()
	gs.anim = &moveAnim{ev: moveEvent{move: game.Move{From: 0, To: 1}, player: game.PlayerA}, start: now}
	gs.hold(true)
	s, err := ctrl.Snapshot(ctx)
	require.NoError(t, err)
	require.True(t, s.Paused)

	gs.stepAnimation(now)
	require.Nil(t, gs.anim)
	require.False(t, gs.holding)
	s, err = ctrl.Snapshot(ctx)
	require.NoError(t, err)
	require.False(t, s.Paused)
}
