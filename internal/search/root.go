package search

import (
	"slices"

	"goosecore/internal/position"
)

// RootSearch runs iterative deepening for this worker (C9, §4.5), filling
// in w.RootMoves and stopping when the time manager (main worker only) or
// the shared stop flag says so. Helper workers have no TimeManager (w.TM is
// nil) and simply run to the requested maxDepth (or until stopped), diversifying the
// search tree via Lazy SMP rather than by consulting a clock themselves.
func (w *Worker) RootSearch(maxDepth int, multiPV int) {
	legal := w.Board.GenerateLegalMoves()
	if len(legal) == 0 {
		return
	}
	if multiPV < 1 {
		multiPV = 1
	}
	if multiPV > len(legal) {
		multiPV = len(legal)
	}
	w.MultiPV = multiPV

	w.RootMoves = make([]RootMove, len(legal))
	for i, m := range legal {
		w.RootMoves[i] = RootMove{Move: m}
	}

	for depth := 1; depth <= maxDepth; depth++ {
		if w.checkStop() {
			break
		}
		if w.IsMain && w.TM != nil && !w.TM.ShouldStartNewDepth(depth) {
			break
		}

		w.SelDepth = 0
		aborted := false

		for pvIdx := 0; pvIdx < multiPV; pvIdx++ {
			w.MultiPVIndex = pvIdx
			score, ok := w.searchRootMove(pvIdx, depth)
			if !ok {
				aborted = true
				break
			}
			w.RootMoves[pvIdx].Score = score
			w.RootMoves[pvIdx].Depth = depth
			w.RootMoves[pvIdx].SelDepth = w.SelDepth

			lo := pvIdx
			hi := pvIdx + 1
			slices.SortFunc(w.RootMoves[lo:], func(a, b RootMove) int {
				return b.Score - a.Score
			})
			_ = hi
		}

		if aborted {
			break
		}

		if w.IsMain && w.TM != nil {
			w.TM.NoteBestMove(uint32(w.RootMoves[0].Move))
		}
		for i := range w.RootMoves {
			w.RootMoves[i].PreviousScore = w.RootMoves[i].Score
		}
	}
}

// searchRootMove runs one PV slot's aspiration-window search at depth,
// excluding the moves already placed in earlier PV slots this iteration.
// Returns ok=false if the search was aborted by the stop flag.
func (w *Worker) searchRootMove(pvIdx, depth int) (int, bool) {
	prev := w.RootMoves[pvIdx].PreviousScore
	alpha, beta := -MaxScore, MaxScore
	window := AspirationWindow
	if depth >= 5 && prev != 0 {
		alpha = prev - window
		beta = prev + window
	}

	excluded := make(map[position.Move]bool, pvIdx)
	for i := 0; i < pvIdx; i++ {
		excluded[w.RootMoves[i].Move] = true
	}

	failures := 0
	for {
		score := w.searchRootWindow(alpha, beta, depth, excluded, pvIdx)
		if score == searchAborted {
			return 0, false
		}

		if score <= alpha {
			beta = (alpha + beta) / 2
			alpha = score - window
			if alpha < -MaxScore {
				alpha = -MaxScore
			}
		} else if score >= beta {
			beta = score + window
			if beta > MaxScore {
				beta = MaxScore
			}
		} else {
			return score, true
		}

		failures++
		window *= 2
		if failures >= AspirationMaxFailures {
			alpha, beta = -MaxScore, MaxScore
		}
	}
}

// searchRootWindow performs one full root move loop at a fixed window,
// analogous to one ply-0 frame of Search but restricted to root moves not
// already claimed by an earlier MultiPV slot.
func (w *Worker) searchRootWindow(alpha, beta, depth int, excluded map[position.Move]bool, pvIdx int) int {
	sf := &w.stack[0]
	sf.ply = 0
	sf.pv.Clear()
	sf.inCheck = w.Board.OurKingInCheck()

	bestScore := -MaxScore
	bestIdx := -1
	origAlpha := alpha

	for i := range w.RootMoves {
		m := w.RootMoves[i].Move
		if excluded[m] {
			continue
		}

		if !w.makeMove(0, m) {
			continue
		}
		sf.currentMove = m

		var score int
		if i == 0 || bestIdx < 0 {
			score = -w.Search(1, -beta, -alpha, depth-1, false)
		} else {
			score = -w.Search(1, -alpha-1, -alpha, depth-1, true)
			if score > alpha && score < beta {
				score = -w.Search(1, -beta, -alpha, depth-1, false)
			}
		}
		w.unmakeMove(0, m)

		if score == searchAborted {
			return searchAborted
		}

		if score > bestScore {
			bestScore = score
			bestIdx = i
			if score > alpha {
				alpha = score
				line := PVLine{}
				line.Update(m, w.stack[1].pv)
				w.RootMoves[pvIdx].PV = line.Clone()
				if alpha >= beta {
					break
				}
			}
		}
	}

	if bestIdx < 0 {
		return origAlpha
	}

	if bestIdx != pvIdx {
		w.RootMoves[pvIdx], w.RootMoves[bestIdx] = w.RootMoves[bestIdx], w.RootMoves[pvIdx]
	}

	return bestScore
}

// BestRootMove returns the top-ranked root move and its PV, or the zero
// move if the search never completed one.
func (w *Worker) BestRootMove() RootMove {
	if len(w.RootMoves) == 0 {
		return RootMove{}
	}
	return w.RootMoves[0]
}
