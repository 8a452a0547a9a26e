package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"hexxagon/internal/game"
	"hexxagon/internal/session"
)

func main() {
	// ───── 参数 ─────
	numGames := flag.Int("n", 100, "number of games")
	depth1 := flag.Int("d1", 1, "search depth of player 1 (0-2)")
	depth2 := flag.Int("d2", 1, "search depth of player 2 (0-2)")
	opening := flag.Int("opening", 2, "random opening plies per side")
	workers := flag.Int("workers", max(runtime.NumCPU()/2, 1), "games played in parallel")
	maxMoves := flag.Int("max-moves", 500, "abandon a game after this many moves")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "random seed")
	level := flag.String("log", "info", "log level")
	flag.Parse()

	lvl, err := zerolog.ParseLevel(*level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	s := session.Settings{First: game.PlayerA, Mode: session.ComputerVsComputer, Depth1: *depth1, Depth2: *depth2}
	if err := s.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	start := time.Now()
	t, err := run(ctx, s, runOptions{
		games:    *numGames,
		opening:  *opening,
		workers:  *workers,
		maxMoves: *maxMoves,
		seed:     *seed,
	})
	if err != nil {
		log.Error().Err(err).Msg("self-play interrupted")
	}
	fmt.Printf("games %d  player1 %d  player2 %d  draws %d  unfinished %d  avg moves %.1f  took %s\n",
		t.games(), t.wins[0].Load(), t.wins[1].Load(), t.draws.Load(), t.unfinished.Load(),
		t.avgMoves(), time.Since(start).Round(time.Millisecond))
	if err != nil {
		os.Exit(1)
	}
}

type runOptions struct {
	games    int
	opening  int
	workers  int
	maxMoves int
	seed     uint64
}

// tally 统计结果，多个 worker 并发累加
type tally struct {
	wins       [2]atomic.Int64
	draws      atomic.Int64
	unfinished atomic.Int64
	moves      atomic.Int64
}

func (t *tally) games() int64 {
	return t.wins[0].Load() + t.wins[1].Load() + t.draws.Load() + t.unfinished.Load()
}

func (t *tally) avgMoves() float64 {
	n := t.games()
	if n == 0 {
		return 0
	}
	return float64(t.moves.Load()) / float64(n)
}

func (t *tally) add(r result) {
	t.moves.Add(int64(r.moves))
	switch {
	case !r.finished:
		t.unfinished.Add(1)
	case r.winner == game.PlayerA:
		t.wins[0].Add(1)
	case r.winner == game.PlayerB:
		t.wins[1].Add(1)
	default:
		t.draws.Add(1)
	}
}

// run 用 errgroup 并行下 opts.games 局
func run(ctx context.Context, s session.Settings, opts runOptions) (*tally, error) {
	t := &tally{}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.workers, 1))
	for id := 0; id < opts.games; id++ {
		g.Go(func() error {
			r := rand.New(rand.NewSource(opts.seed + uint64(id))) // 独立随机源
			res, err := playOneGame(ctx, s, opts.opening, opts.maxMoves, r)
			if err != nil {
				return fmt.Errorf("game %d: %w", id, err)
			}
			t.add(res)
			log.Debug().Int("game", id).Stringer("winner", res.winner).Int("moves", res.moves).Bool("finished", res.finished).Msg("game done")
			if n := t.games(); n%100 == 0 {
				log.Info().Msgf("progress %d/%d", n, opts.games)
			}
			return nil
		})
	}
	return t, g.Wait()
}

type result struct {
	winner   game.CellState
	moves    int
	finished bool
}

// watcher 只关心走子数和终局
type watcher struct {
	session.NopObserver
	maxMoves int
	moves    atomic.Int64
	over     chan game.CellState
	limit    chan struct{}
}

func (w *watcher) MoveMade(game.Move, game.CellState, []int) {
	if n := w.moves.Add(1); w.maxMoves > 0 && n == int64(w.maxMoves) {
		close(w.limit)
	}
}

func (w *watcher) GameOver(winner game.CellState) {
	select {
	case w.over <- winner:
	default:
	}
}

// playOneGame 通过回合控制器下一整局，电脑走子没有延时
func playOneGame(ctx context.Context, s session.Settings, opening, maxMoves int, r *rand.Rand) (result, error) {
	w := &watcher{
		maxMoves: maxMoves,
		over:     make(chan game.CellState, 1),
		limit:    make(chan struct{}),
	}
	ctrl := session.New(w, session.Options{Search: openingSearch(opening, r)})

	gctx, cancel := context.WithCancel(ctx)
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		_ = ctrl.Run(gctx)
	}()
	defer func() {
		cancel()
		<-stopped
	}()

	if err := ctrl.Start(gctx, s); err != nil {
		return result{}, err
	}
	select {
	case winner := <-w.over:
		return result{winner: winner, moves: int(w.moves.Load()), finished: true}, nil
	case <-w.limit:
		return result{moves: int(w.moves.Load())}, nil
	case <-ctx.Done():
		return result{}, ctx.Err()
	}
}

// openingSearch 每方前 plies 步在合法走法中随机挑选，之后交给 alpha-beta
func openingSearch(plies int, r *rand.Rand) session.SearchFunc {
	var (
		mu    sync.Mutex
		calls int
	)
	return func(b game.Board, p game.CellState, depth int) (game.Move, bool) {
		mu.Lock()
		random := calls < 2*plies
		calls++
		var mv game.Move
		moves := game.GenerateMoves(&b, p)
		if random && len(moves) > 0 {
			mv = moves[r.Intn(len(moves))]
		}
		mu.Unlock()
		if random {
			return mv, len(moves) > 0
		}
		return session.DefaultSearch(b, p, depth)
	}
}
