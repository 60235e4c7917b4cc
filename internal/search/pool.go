package search

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"goosecore/internal/eval"
	"goosecore/internal/position"
)

// Pool is the Lazy SMP thread pool (C7, §5): a shared transposition table
// and stop flag, one Worker per thread. Helper threads run the same root
// position to varying depths so they diversify the shared TT instead of
// splitting the tree, grounded on other_examples/ChizhovVadim-CounterGo's
// lazysmp.go channel-fan-out pattern rather than that repo's sibling
// searchserviceparallel.go split-point/mutex design (explicitly rejected by
// the spec's no-lock-based-splitting design note).
type Pool struct {
	TT   *TranspositionTable
	stop atomic.Bool

	threads int
	hist    *History
}

// NewPool constructs a pool with the given hash size (MB) and thread count.
func NewPool(hashMB, threads int) *Pool {
	if threads < 1 {
		threads = 1
	}
	return &Pool{
		TT:      NewTranspositionTable(hashMB),
		threads: threads,
		hist:    NewHistory(),
	}
}

// Resize changes the shared TT size; callers must not search concurrently
// with a resize.
func (p *Pool) Resize(hashMB int) { p.TT.Resize(hashMB) }

// SetThreads changes how many workers Search fans out to next call.
func (p *Pool) SetThreads(n int) {
	if n < 1 {
		n = 1
	}
	p.threads = n
}

// Stop requests every in-flight worker to abort as soon as it next checks.
func (p *Pool) Stop() { p.stop.Store(true) }

// NewSearch clears the stop flag and bumps the TT generation, as a new
// "go" command begins (ucinewgame instead clears the table outright).
func (p *Pool) NewSearch() {
	p.stop.Store(false)
	p.TT.NewSearch()
}

// Clear resets the transposition table and the pool's own History, for the
// UCI "ucinewgame" command. Workers do not use that History: every Search
// gives each worker a new, zeroed one, so no history carries over between
// searches.
func (p *Pool) Clear() {
	p.TT.Clear()
	p.hist.Clear()
}

// Search runs iterative deepening across p.threads workers in parallel,
// sharing TT and stop-flag, and returns the root moves of the worker that
// selectBestThread picks (thread 0 or a helper). ctx
// cancellation stops every worker promptly; tm, if non-nil, additionally
// governs the main thread's depth cutoff.
func (p *Pool) Search(ctx context.Context, b *position.Board, e eval.Evaluator, lim Limits, multiPV int, keyHistory []uint64, tm *TimeManager) []RootMove {
	p.stop.Store(false)

	maxDepth := MaxPly
	if lim.HasDepth() {
		maxDepth = lim.Depth
	}

	workers := make([]*Worker, p.threads)
	for i := range workers {
		boardClone := b.Clone()
		w := NewWorker(i, boardClone, e, p.TT, &p.stop, keyHistory)
		w.IsMain = i == 0
		if w.IsMain {
			w.TM = tm
		}
		workers[i] = w
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, w := range workers {
		w := w
		depthForThread := maxDepth
		if i > 0 {
			// Depth skew: odd helper threads search one ply deeper, even
			// ones one ply shallower, so the shared TT fills with a spread
			// of depths instead of every thread retracing thread 0's path.
			if i%2 == 1 {
				depthForThread++
			} else if depthForThread > 1 {
				depthForThread--
			}
		}
		g.Go(func() error {
			w.RootSearch(depthForThread, multiPV)
			return nil
		})
	}

	go func() {
		<-gctx.Done()
		p.stop.Store(true)
	}()

	_ = g.Wait()
	p.stop.Store(true)

	best := selectBestThread(workers)
	if best == nil {
		return nil
	}
	return best.RootMoves
}

// selectBestThread starts from thread 0 (or the first worker with root
// moves) and switches to a helper whose top root move comes from a strictly
// deeper iteration with a score at least as high, or from the same depth
// with a strictly higher score. Node counts are not consulted.
func selectBestThread(workers []*Worker) *Worker {
	if len(workers) == 0 {
		return nil
	}
	best := workers[0]
	if len(best.RootMoves) == 0 {
		for _, w := range workers[1:] {
			if len(w.RootMoves) > 0 {
				best = w
				break
			}
		}
	}
	for _, w := range workers[1:] {
		if len(w.RootMoves) == 0 {
			continue
		}
		if len(best.RootMoves) == 0 {
			best = w
			continue
		}
		bm := best.RootMoves[0]
		wm := w.RootMoves[0]
		if wm.Depth > bm.Depth && wm.Score >= bm.Score {
			best = w
		} else if wm.Depth == bm.Depth && wm.Score > bm.Score {
			best = w
		}
	}
	return best
}
