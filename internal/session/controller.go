package session

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"hexxagon/internal/game"
)

// DefaultMoveDelay is the shortest time a computer move takes to appear.
const DefaultMoveDelay = time.Second

var ErrStopped = errors.New("controller stopped")

// State is the turn controller state.
type State int

const (
	Idle State = iota
	AwaitingSelection
	HumanTurnPending
	ComputingMove
	AwaitingMoveDelay
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingSelection:
		return "awaiting-selection"
	case HumanTurnPending:
		return "human-turn-pending"
	case ComputingMove:
		return "computing-move"
	case AwaitingMoveDelay:
		return "awaiting-move-delay"
	}
	return "unknown"
}

// SearchFunc chooses a move for player on a private copy of the board.
type SearchFunc func(b game.Board, player game.CellState, depth int) (game.Move, bool)

// DefaultSearch runs the alpha-beta search.
func DefaultSearch(b game.Board, player game.CellState, depth int) (game.Move, bool) {
	mv, _, ok := game.FindBestMoveAtDepth(b, player, depth)
	return mv, ok
}

// Options tune a Controller. The zero value uses DefaultSearch and no delay.
type Options struct {
	MoveDelay time.Duration
	Search    SearchFunc
}

type searchResult struct {
	gen     uint64
	move    game.Move
	ok      bool
	elapsed time.Duration
}

// pendingMove 电脑走子：搜索结果和最短延时两个信号都到齐才落子
type pendingMove struct {
	gen       uint64
	player    game.CellState
	result    *searchResult
	timer     *time.Timer
	deadline  time.Time
	remaining time.Duration
	delayDone bool
}

// Snapshot is a copy of the controller state.
type Snapshot struct {
	State         State
	Settings      Settings
	Board         game.Board
	Active        game.CellState
	ScoreA        int
	ScoreB        int
	Selected      int
	AddCells      []int
	TransferCells []int
	Paused        bool
	GameOver      bool
	Winner        game.CellState
}

// Controller is the turn-taking state machine. All game state is owned by the
// goroutine running Run; the exported methods hand work to it.
type Controller struct {
	obs    Observer
	delay  time.Duration
	search SearchFunc
	log    zerolog.Logger

	cmds    chan func()
	results chan searchResult
	done    chan struct{}

	// 以下字段只在 Run 所在的协程里访问
	state         State
	settings      Settings
	gs            *game.GameState
	gen           uint64
	selected      int
	addCells      []int
	transferCells []int
	pending       *pendingMove
	paused        bool
}

// New creates a controller in the Idle state with the clear board.
func New(obs Observer, opts Options) *Controller {
	if obs == nil {
		obs = NopObserver{}
	}
	if opts.Search == nil {
		opts.Search = DefaultSearch
	}
	if opts.MoveDelay < 0 {
		opts.MoveDelay = 0
	}
	gs := &game.GameState{}
	gs.Clear()
	return &Controller{
		obs:      obs,
		delay:    opts.MoveDelay,
		search:   opts.Search,
		log:      log.With().Str("component", "session").Logger(),
		cmds:     make(chan func(), 32),
		results:  make(chan searchResult, 4),
		done:     make(chan struct{}),
		gs:       gs,
		selected: -1,
	}
}

// Run drives the controller until ctx is cancelled. It must be called once.
func (c *Controller) Run(ctx context.Context) error {
	defer close(c.done)
	c.obs.BoardChanged(c.gs.Board)
	for {
		var timerC <-chan time.Time
		if p := c.pending; p != nil && p.timer != nil && !p.delayDone && !c.paused {
			timerC = p.timer.C
		}
		select {
		case <-ctx.Done():
			c.stopTimer()
			return ctx.Err()
		case fn := <-c.cmds:
			fn()
		case res := <-c.results:
			c.onSearchResult(res)
		case <-timerC:
			c.pending.delayDone = true
			c.tryResolve()
		}
	}
}

func (c *Controller) do(ctx context.Context, fn func()) error {
	select {
	case <-c.done:
		return ErrStopped
	default:
	}
	select {
	case c.cmds <- fn:
		return nil
	case <-c.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start begins a new game, abandoning any game in progress.
func (c *Controller) Start(ctx context.Context, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return c.do(ctx, func() { c.start(s) })
}

// Click reports that the user acted on cell index. Whether that selects a piece
// or picks a destination depends on the current highlights.
func (c *Controller) Click(ctx context.Context, index int) error {
	return c.do(ctx, func() { c.click(index) })
}

// PauseOn holds the delay timer of a pending computer move. The search itself
// keeps running.
func (c *Controller) PauseOn(ctx context.Context) error {
	return c.do(ctx, c.pauseOn)
}

// PauseOff resumes the delay timer.
func (c *Controller) PauseOff(ctx context.Context) error {
	return c.do(ctx, c.pauseOff)
}

// Reset abandons the game, restores the clear board and returns to Idle.
// A search still running is left to finish and its result is dropped.
func (c *Controller) Reset(ctx context.Context) error {
	return c.do(ctx, c.reset)
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	if err := c.do(ctx, func() { reply <- c.snapshot() }); err != nil {
		return Snapshot{}, err
	}
	select {
	case s := <-reply:
		return s, nil
	case <-c.done:
		return Snapshot{}, ErrStopped
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

func (c *Controller) snapshot() Snapshot {
	return Snapshot{
		State:         c.state,
		Settings:      c.settings,
		Board:         c.gs.Board,
		Active:        c.gs.CurrentPlayer,
		ScoreA:        c.gs.ScoreA,
		ScoreB:        c.gs.ScoreB,
		Selected:      c.selected,
		AddCells:      append([]int(nil), c.addCells...),
		TransferCells: append([]int(nil), c.transferCells...),
		Paused:        c.paused,
		GameOver:      c.gs.GameOver,
		Winner:        c.gs.Winner,
	}
}

func (c *Controller) setState(s State) {
	if c.state == s {
		return
	}
	c.log.Debug().Stringer("from", c.state).Stringer("to", s).Msg("state")
	c.state = s
}

func (c *Controller) start(s Settings) {
	c.abandon()
	c.settings = s
	b := game.StartBoard()
	if s.Board != nil {
		b = *s.Board
	}
	c.gs = game.NewGameStateFrom(b, s.First)
	c.clearSelection()
	c.paused = false
	c.log.Info().
		Stringer("mode", s.Mode).
		Stringer("first", s.First).
		Int("depth1", s.Depth1).
		Int("depth2", s.Depth2).
		Msg("game started")
	c.obs.GameStarted(s)
	c.obs.BoardChanged(c.gs.Board)
	c.obs.ScoreChanged(c.gs.ScoreA, c.gs.ScoreB)
	c.obs.PlayerChanged(c.gs.CurrentPlayer)
	c.nextTurn()
}

func (c *Controller) reset() {
	c.abandon()
	c.gs.Clear()
	c.clearSelection()
	c.paused = false
	c.setState(Idle)
	c.log.Info().Msg("game reset")
	c.obs.ClearMoveCells()
	c.obs.BoardChanged(c.gs.Board)
}

// abandon 丢弃正在等待的电脑走子；迟到的搜索结果会因 gen 不匹配被忽略
func (c *Controller) abandon() {
	c.gen++
	c.stopTimer()
	if c.pending != nil {
		c.log.Debug().Uint64("gen", c.pending.gen).Msg("pending search abandoned")
	}
	c.pending = nil
}

func (c *Controller) stopTimer() {
	if c.pending != nil && c.pending.timer != nil {
		c.pending.timer.Stop()
	}
}

// nextTurn 根据轮到的玩家决定下一个状态
func (c *Controller) nextTurn() {
	if c.gs.GameOver {
		c.finish()
		return
	}
	if c.settings.IsComputer(c.gs.CurrentPlayer) {
		c.launchSearch()
		return
	}
	c.setState(AwaitingSelection)
}

func (c *Controller) finish() {
	c.setState(Idle)
	c.log.Info().
		Stringer("winner", c.gs.Winner).
		Int("score1", c.gs.ScoreA).
		Int("score2", c.gs.ScoreB).
		Msg("game over")
	c.obs.GameOver(c.gs.Winner)
}

func (c *Controller) launchSearch() {
	c.setState(ComputingMove)
	c.gen++
	player := c.gs.CurrentPlayer
	depth := c.settings.DepthFor(player)
	p := &pendingMove{gen: c.gen, player: player, remaining: c.delay}
	c.pending = p

	go c.runSearch(p.gen, c.gs.Board, player, depth)

	if c.delay <= 0 {
		p.delayDone = true
	} else {
		p.timer = time.NewTimer(c.delay)
		p.deadline = time.Now().Add(c.delay)
		if c.paused {
			p.timer.Stop()
		}
	}
	c.log.Debug().Uint64("gen", p.gen).Stringer("player", player).Int("depth", depth).Msg("search launched")
	c.setState(AwaitingMoveDelay)
}

// runSearch 在独立协程中运行，只读取传入的棋盘副本
func (c *Controller) runSearch(gen uint64, b game.Board, player game.CellState, depth int) {
	start := time.Now()
	mv, ok := c.search(b, player, depth)
	res := searchResult{gen: gen, move: mv, ok: ok, elapsed: time.Since(start)}
	select {
	case c.results <- res:
	case <-c.done:
	}
}

func (c *Controller) onSearchResult(res searchResult) {
	if c.pending == nil || res.gen != c.pending.gen || res.gen != c.gen {
		c.log.Debug().Uint64("gen", res.gen).Uint64("current", c.gen).Msg("stale search result discarded")
		return
	}
	c.log.Debug().
		Uint64("gen", res.gen).
		Stringer("move", res.move).
		Dur("elapsed", res.elapsed).
		Msg("search finished")
	c.pending.result = &res
	c.tryResolve()
}

func (c *Controller) tryResolve() {
	p := c.pending
	if p == nil || p.result == nil || !p.delayDone {
		return
	}
	c.pending = nil
	// 只在有合法走法时才会启动搜索，拿不到可用的走法就按当前子数终局
	if !p.result.ok {
		c.log.Warn().Stringer("player", p.player).Msg("search returned no move")
		c.gs.End()
		c.finish()
		return
	}
	if err := c.play(p.result.move); err != nil {
		c.log.Error().Err(err).Stringer("move", p.result.move).Msg("computer move rejected")
		c.gs.End()
		c.finish()
		return
	}
	c.nextTurn()
}

func (c *Controller) pauseOn() {
	if c.paused {
		return
	}
	c.paused = true
	p := c.pending
	if p == nil || p.timer == nil || p.delayDone {
		return
	}
	p.timer.Stop()
	p.remaining = time.Until(p.deadline)
	if p.remaining < 0 {
		p.remaining = 0
	}
	c.log.Debug().Dur("remaining", p.remaining).Msg("delay paused")
}

func (c *Controller) pauseOff() {
	if !c.paused {
		return
	}
	c.paused = false
	p := c.pending
	if p == nil || p.timer == nil || p.delayDone {
		return
	}
	p.deadline = time.Now().Add(p.remaining)
	p.timer.Reset(p.remaining)
	c.log.Debug().Dur("remaining", p.remaining).Msg("delay resumed")
}

func (c *Controller) click(index int) {
	if c.state != AwaitingSelection {
		c.log.Debug().Int("index", index).Stringer("state", c.state).Msg("click ignored")
		return
	}
	if !game.InBounds(index) {
		c.log.Debug().Int("index", index).Msg("click outside the board")
		return
	}
	player := c.gs.CurrentPlayer
	if c.gs.Board[index] == player {
		c.selected = index
		c.addCells, c.transferCells = game.Targets(&c.gs.Board, player, index)
		c.obs.MoveCells(c.addCells, c.transferCells)
		return
	}
	if c.selected < 0 {
		return
	}
	var mv game.Move
	switch {
	case contains(c.addCells, index):
		mv = game.Move{From: c.selected, To: index, Kind: game.Add}
	case contains(c.transferCells, index):
		mv = game.Move{From: c.selected, To: index, Kind: game.Transfer}
	default:
		c.log.Debug().Int("index", index).Msg("click on a cell that is not highlighted")
		return
	}

	c.setState(HumanTurnPending)
	c.clearSelection()
	c.obs.ClearMoveCells()
	if err := c.play(mv); err != nil {
		c.log.Warn().Err(err).Msg("human move rejected")
		c.setState(AwaitingSelection)
		return
	}
	c.nextTurn()
}

// play 落子并通知观察者
func (c *Controller) play(mv game.Move) error {
	player := c.gs.CurrentPlayer
	captured, err := c.gs.MakeMove(mv)
	if err != nil {
		return err
	}
	c.log.Debug().Stringer("player", player).Stringer("move", mv).Int("captured", len(captured)).Msg("move")
	c.obs.MoveMade(mv, player, captured)
	c.obs.BoardChanged(c.gs.Board)
	c.obs.ScoreChanged(c.gs.ScoreA, c.gs.ScoreB)
	if !c.gs.GameOver {
		c.obs.PlayerChanged(c.gs.CurrentPlayer)
	}
	return nil
}

func (c *Controller) clearSelection() {
	c.selected = -1
	c.addCells = nil
	c.transferCells = nil
}

func contains(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
