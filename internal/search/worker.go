package search

import (
	"math/bits"
	"sync/atomic"

	"goosecore/internal/eval"
	"goosecore/internal/position"
)

// stackFrame is one ply's worth of search-local state (part of C6's data
// model, §3 "Search Stack Frame"). The stack is a fixed array indexed by
// ply rather than a linked list or recursion-carried struct, so a node can
// reach back to ply-1/ply-2 for "improving" and continuation history
// without any allocation.
type stackFrame struct {
	ply          int
	inCheck      bool
	staticEval   int
	currentMove  position.Move
	excludedMove position.Move
	pv           PVLine
	cont         *ContinuationTable
	doubleExt    int
}

// RootMove is one candidate at the root, tracked across iterative-deepening
// depths for MultiPV ranking and best-thread selection (§3 "Root Move").
type RootMove struct {
	Move          position.Move
	Score         int
	PreviousScore int
	AverageScore  int
	Depth         int
	SelDepth      int
	PV            PVLine
}

// Worker is one search stack (C6): a Position clone, its own history
// tables, and a view onto the pool-shared transposition table and stop
// flag. Workers never share mutable state with each other except through
// the TT and the stop flag, per §5.
type Worker struct {
	ID    int
	Board *position.Board
	Eval  eval.Evaluator
	TT    *TranspositionTable
	Hist  *History

	stack      [MaxPly + 8]stackFrame
	moveStates [MaxPly + 8]position.MoveState
	keyHistory []uint64

	Nodes    uint64
	SelDepth int

	stop *atomic.Bool

	RootMoves    []RootMove
	MultiPVIndex int
	MultiPV      int

	IsMain bool
	TM     *TimeManager
}

// NewWorker constructs a worker sharing tt/stop with the rest of the pool
// but owning its own board clone and history tables.
func NewWorker(id int, b *position.Board, e eval.Evaluator, tt *TranspositionTable, stop *atomic.Bool, keyHistory []uint64) *Worker {
	hist := make([]uint64, len(keyHistory), len(keyHistory)+MaxPly+8)
	copy(hist, keyHistory)
	return &Worker{
		ID:         id,
		Board:      b,
		Eval:       e,
		TT:         tt,
		Hist:       NewHistory(),
		stop:       stop,
		keyHistory: hist,
	}
}

func (w *Worker) checkStop() bool {
	if w.IsMain && w.TM != nil && w.TM.HardLimitExceeded() {
		w.stop.Store(true)
	}
	return w.stop.Load()
}

func (w *Worker) makeMove(ply int, m position.Move) bool {
	ok, st := w.Board.MakeMove(m)
	if !ok {
		return false
	}
	w.moveStates[ply] = st
	w.keyHistory = append(w.keyHistory, w.Board.Hash())
	return true
}

func (w *Worker) unmakeMove(ply int, m position.Move) {
	w.Board.UnmakeMove(m, w.moveStates[ply])
	w.keyHistory = w.keyHistory[:len(w.keyHistory)-1]
}

func (w *Worker) makeNull(ply int) position.NullState {
	st := w.Board.MakeNullMove()
	w.keyHistory = append(w.keyHistory, w.Board.Hash())
	return st
}

func (w *Worker) unmakeNull(st position.NullState) {
	w.Board.UnmakeNullMove(st)
	w.keyHistory = w.keyHistory[:len(w.keyHistory)-1]
}

// drawScore returns a ±1 jittered draw score, keyed per-node off the
// worker's running node counter rather than the root, per the resolved
// Open Question in §9: two helper threads reaching the same repeated
// position at different node counts jitter differently.
func (w *Worker) drawScore() int {
	if w.Nodes&1 == 0 {
		return DrawScore - 1
	}
	return DrawScore + 1
}

func (w *Worker) isDraw() bool {
	if w.Board.IsDrawBy50() {
		return true
	}
	if w.Board.IsDrawByRepetition(w.keyHistory) {
		return true
	}
	return isInsufficientMaterial(w.Board)
}

func isInsufficientMaterial(b *position.Board) bool {
	white := b.WhiteBitboards()
	black := b.BlackBitboards()
	if white.Pawns|black.Pawns|white.Rooks|black.Rooks|white.Queens|black.Queens != 0 {
		return false
	}
	minorCount := bits.OnesCount64(white.Knights|white.Bishops) + bits.OnesCount64(black.Knights|black.Bishops)
	return minorCount <= 1
}

// Search is the negamax alpha-beta core (C6, §4.3). depth is in plies;
// cutNode is true when the parent expects this node to fail high.
func (w *Worker) Search(ply int, alpha, beta, depth int, cutNode bool) int {
	pvNode := beta-alpha > 1

	if ply > 0 && w.isDraw() {
		return w.drawScore()
	}
	if depth <= 0 {
		return w.Quiescence(ply, alpha, beta)
	}
	if ply >= MaxPly {
		return w.Eval.Evaluate(w.Board)
	}

	w.Nodes++
	if w.Nodes&2047 == 0 && w.checkStop() {
		return searchAborted
	}
	if ply > w.SelDepth {
		w.SelDepth = ply
	}

	sf := &w.stack[ply]
	sf.ply = ply
	sf.pv.Clear()
	sf.inCheck = w.Board.OurKingInCheck()

	key := w.Board.Hash()
	ttEntry, ttHit := w.TT.Probe(key, ply)
	var ttMove position.Move
	if ttHit {
		ttMove = ttEntry.Move
		if ply > 0 && !pvNode && sf.excludedMove == 0 && ttEntry.Depth >= depth {
			switch ttEntry.Bound {
			case BoundExact:
				return ttEntry.Score
			case BoundLower:
				if ttEntry.Score >= beta {
					return ttEntry.Score
				}
			case BoundUpper:
				if ttEntry.Score <= alpha {
					return ttEntry.Score
				}
			}
		}
	}

	if sf.inCheck {
		sf.staticEval = -MaxScore
	} else if ttHit && ttEntry.Eval != 0 {
		sf.staticEval = ttEntry.Eval
	} else {
		sf.staticEval = w.Eval.Evaluate(w.Board)
	}

	improving := false
	if ply >= 2 && !sf.inCheck {
		improving = sf.staticEval > w.stack[ply-2].staticEval
	}

	canPrune := !pvNode && !sf.inCheck && sf.excludedMove == 0

	if canPrune {
		if depth <= RFPMaxDepth && ply > 0 {
			margin := RFPMargin * (depth - boolToInt(improving))
			if sf.staticEval-margin >= beta && sf.staticEval < MateInMax {
				return sf.staticEval
			}
		}

		if depth >= NMPMinDepth && sf.staticEval >= beta && ply > 0 && hasNonPawnMaterial(w.Board) {
			r := NMPBase + depth/NMPDivisor
			if bonus := (sf.staticEval - beta) / NMPEvalDiv; bonus < NMPEvalMax {
				r += bonus
			} else {
				r += NMPEvalMax
			}
			st := w.makeNull(ply)
			sf.currentMove = 0
			score := -w.Search(ply+1, -beta, -beta+1, depth-r, !cutNode)
			w.unmakeNull(st)
			if score == searchAborted {
				return searchAborted
			}
			if score >= beta && score < MateInMax {
				return score
			}
		}

		if depth >= ProbCutMinDepth {
			probBeta := beta + ProbCutBeta
			picker := NewQSearchMovePicker(w.Board, w.Hist, ttMove, false)
			for {
				m, ok := picker.Next()
				if !ok {
					break
				}
				if !w.Board.IsCapture(m) {
					continue
				}
				if w.Board.SEE(m) < probBeta-sf.staticEval {
					continue
				}
				if !w.makeMove(ply, m) {
					continue
				}
				score := -w.Search(ply+1, -probBeta, -probBeta+1, depth-ProbCutMinDepth+1, !cutNode)
				w.unmakeMove(ply, m)
				if score == searchAborted {
					return searchAborted
				}
				if score >= probBeta {
					return score
				}
			}
		}

		if ttMove == 0 && depth >= IIRMinDepth {
			depth--
		}
	}

	var cont1, cont2 *ContinuationTable
	if ply >= 1 {
		cont1 = w.Hist.ContinuationFor(flip(w.Board.SideToMove()), w.stack[ply-1].currentMove)
	}
	if ply >= 2 {
		cont2 = w.Hist.ContinuationFor(w.Board.SideToMove(), w.stack[ply-2].currentMove)
	}
	var prevMove position.Move
	if ply >= 1 {
		prevMove = w.stack[ply-1].currentMove
	}

	picker := NewMovePicker(w.Board, w.Hist, ttMove, ply, cont1, cont2, prevMove)

	bestScore := -MaxScore
	var bestMove position.Move
	origAlpha := alpha
	legalMoves := 0
	var quietsTried []position.Move

	side := w.Board.SideToMove()

	for {
		m, ok := picker.Next()
		if !ok {
			break
		}
		if m == sf.excludedMove {
			continue
		}

		isCapture := w.Board.IsCapture(m)
		givesCheck := w.Board.GivesCheck(m)

		if ply > 0 && canPrune && bestScore > -MateInMax {
			if !isCapture && !givesCheck {
				if depth <= FutilityMaxDepth && sf.staticEval+FutilityMargin*depth <= alpha {
					picker.SkipQuiets()
					continue
				}
				lmpIdx := depth
				if lmpIdx >= len(LateMovePruningBase) {
					lmpIdx = len(LateMovePruningBase) - 1
				}
				if legalMoves >= LateMovePruningBase[lmpIdx] {
					picker.SkipQuiets()
					continue
				}
			}
			if depth <= SEEPruneDepth {
				margin := SEEPruneMargin * depth * depth
				if w.Board.SEE(m) < margin {
					continue
				}
			}
		}

		extension := 0
		if m == ttMove && depth >= SingularMinDepth && ply > 0 && sf.excludedMove == 0 &&
			ttHit && ttEntry.Bound == BoundLower && ttEntry.Depth >= depth-3 && w.MultiPV <= 1 {
			sBeta := ttEntry.Score - SingularNumerator*depth
			sf.excludedMove = m
			score := w.Search(ply, sBeta-1, sBeta, (depth-1)/2, cutNode)
			sf.excludedMove = 0
			if score == searchAborted {
				return searchAborted
			}
			if score < sBeta {
				extension = 1
				if !pvNode && score < sBeta-32 && sf.doubleExt < 6 {
					extension = 2
					sf.doubleExt++
				}
			} else if sBeta >= beta {
				return sBeta
			}
		}

		if !w.makeMove(ply, m) {
			continue
		}
		legalMoves++
		sf.currentMove = m
		w.stack[ply+1].doubleExt = sf.doubleExt

		newDepth := depth - 1 + extension

		var score int
		if legalMoves == 1 {
			score = -w.Search(ply+1, -beta, -alpha, newDepth, false)
		} else {
			r := 0
			if !isCapture && depth >= LMRDepthLimit+1 && legalMoves > LMRMoveLimit {
				d := depth
				if d >= len(lmrTable) {
					d = len(lmrTable) - 1
				}
				mv := legalMoves
				if mv >= len(lmrTable[d]) {
					mv = len(lmrTable[d]) - 1
				}
				r = lmrTable[d][mv]
				histScore := w.Hist.ButterflyScore(side, m) + cont1.Score(m) + cont2.Score(m)
				if cutNode {
					r++
				}
				if histScore > LMRHistoryScale {
					r--
				} else if histScore < LMRHistoryLowThresh && legalMoves > LMRHistoryLegalMovesLimit {
					r++
				}
				if r < 0 {
					r = 0
				}
				if r > newDepth-1 {
					r = newDepth - 1
				}
			}

			score = -w.Search(ply+1, -alpha-1, -alpha, newDepth-r, true)
			if score > alpha && r > 0 {
				score = -w.Search(ply+1, -alpha-1, -alpha, newDepth, true)
			}
			if score > alpha && pvNode {
				score = -w.Search(ply+1, -beta, -alpha, newDepth, false)
			}
		}

		w.unmakeMove(ply, m)

		if score == searchAborted {
			return searchAborted
		}

		if !isCapture && score <= alpha {
			quietsTried = append(quietsTried, m)
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
			if score > alpha {
				alpha = score
				if pvNode {
					sf.pv.Update(m, w.stack[ply+1].pv)
				}
				if alpha >= beta {
					w.onBetaCutoff(side, m, isCapture, depth, ply, quietsTried)
					break
				}
			}
		}
	}

	if legalMoves == 0 {
		if sf.excludedMove != 0 {
			return alpha
		}
		if sf.inCheck {
			return -Checkmate + ply
		}
		return w.drawScore()
	}

	bound := BoundExact
	if bestScore <= origAlpha {
		bound = BoundUpper
	} else if bestScore >= beta {
		bound = BoundLower
	}
	if sf.excludedMove == 0 {
		w.TT.Store(key, bestMove, bestScore, sf.staticEval, depth, bound, ply)
	}

	return bestScore
}

func (w *Worker) onBetaCutoff(side position.Color, cutMove position.Move, isCapture bool, depth, ply int, quiets []position.Move) {
	if isCapture {
		w.Hist.AddCaptureBonus(cutMove, depth)
	} else {
		w.Hist.InsertKiller(ply, cutMove)
		w.Hist.AddButterflyBonus(side, cutMove, depth)
		if ply >= 1 {
			w.Hist.ContinuationFor(flip(side), w.stack[ply-1].currentMove).Bonus(cutMove, depth)
		}
		if ply >= 1 {
			w.Hist.SetCountermove(side, w.stack[ply-1].currentMove, cutMove)
		}
		for _, qm := range quiets {
			if qm == cutMove {
				continue
			}
			w.Hist.AddButterflyMalus(side, qm, depth)
		}
	}
}

// Quiescence is the tactical-only extension of Search (C6 §4.4): stand-pat,
// then captures (capturing promotions included) or, in check, all evasions;
// captures are SEE-pruned. Non-capturing promotions are not searched here.
func (w *Worker) Quiescence(ply, alpha, beta int) int {
	w.Nodes++
	if w.Nodes&2047 == 0 && w.checkStop() {
		return searchAborted
	}
	if ply >= MaxPly {
		return w.Eval.Evaluate(w.Board)
	}

	sf := &w.stack[ply]
	sf.ply = ply
	sf.pv.Clear()
	sf.inCheck = w.Board.OurKingInCheck()

	key := w.Board.Hash()
	ttEntry, ttHit := w.TT.Probe(key, ply)
	var ttMove position.Move
	if ttHit {
		ttMove = ttEntry.Move
		switch ttEntry.Bound {
		case BoundExact:
			return ttEntry.Score
		case BoundLower:
			if ttEntry.Score >= beta {
				return ttEntry.Score
			}
		case BoundUpper:
			if ttEntry.Score <= alpha {
				return ttEntry.Score
			}
		}
	}

	staticEval := w.Eval.Evaluate(w.Board)
	if !sf.inCheck {
		if staticEval >= beta {
			return beta
		}
		if staticEval > alpha {
			alpha = staticEval
		}
	}
	bestScore := staticEval
	if sf.inCheck {
		bestScore = -MaxScore
	}

	picker := NewQSearchMovePicker(w.Board, w.Hist, ttMove, sf.inCheck)
	for {
		m, ok := picker.Next()
		if !ok {
			break
		}
		if !sf.inCheck {
			if w.Board.SEE(m) < 0 {
				continue
			}
			if staticEval+QuiescenceDeltaMargin+captureValue(m) <= alpha {
				continue
			}
		}
		if !w.makeMove(ply, m) {
			continue
		}
		score := -w.Quiescence(ply+1, -beta, -alpha)
		w.unmakeMove(ply, m)
		if score == searchAborted {
			return searchAborted
		}
		if score > bestScore {
			bestScore = score
			if score > alpha {
				alpha = score
				sf.pv.Update(m, w.stack[ply+1].pv)
				if alpha >= beta {
					break
				}
			}
		}
	}

	if sf.inCheck && bestScore == -MaxScore {
		return -Checkmate + ply
	}

	bound := BoundUpper
	if bestScore >= beta {
		bound = BoundLower
	}
	w.TT.Store(key, 0, bestScore, staticEval, 0, bound, ply)
	return bestScore
}

func captureValue(m position.Move) int {
	const pawn, knight, bishop, rook, queen = 100, 320, 330, 500, 900
	switch m.CapturedPiece().Type() {
	case position.PieceTypePawn:
		return pawn
	case position.PieceTypeKnight:
		return knight
	case position.PieceTypeBishop:
		return bishop
	case position.PieceTypeRook:
		return rook
	case position.PieceTypeQueen:
		return queen
	default:
		return 0
	}
}

func hasNonPawnMaterial(b *position.Board) bool {
	bb := b.Bitboards(b.SideToMove())
	return bb.Knights|bb.Bishops|bb.Rooks|bb.Queens != 0
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func flip(c position.Color) position.Color {
	if c == position.White {
		return position.Black
	}
	return position.White
}
