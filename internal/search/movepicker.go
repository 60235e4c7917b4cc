package search

import "goosecore/internal/position"

type pickerStage int

const (
	stageTTMove pickerStage = iota
	stageGenCaptures
	stageGoodCaptures
	stageKiller1
	stageKiller2
	stageCountermove
	stageGenQuiets
	stageQuiets
	stageBadCaptures
	stageQSearchCaptures
	stageDone
)

type scoredMove struct {
	move  position.Move
	score int
}

// MovePicker implements the staged, lazily-scored move ordering described
// in §4.2 (C5): TT move, then SEE-filtered good captures, then killers,
// countermove, remaining quiets, and finally bad captures. Selection sort
// within a stage amortises well since most nodes only consume a handful of
// moves before a cutoff.
type MovePicker struct {
	board *position.Board
	hist  *History
	cont1 *ContinuationTable
	cont2 *ContinuationTable

	ttMove      position.Move
	killers     [2]position.Move
	countermove position.Move

	stage       pickerStage
	skipQuiets  bool
	quiescence  bool
	evasion     bool

	captures    []scoredMove
	badCaptures []scoredMove
	quiets      []scoredMove
	idx         int
}

// NewMovePicker builds a picker for a normal search node.
func NewMovePicker(b *position.Board, hist *History, ttMove position.Move, ply int, cont1, cont2 *ContinuationTable, prevMove position.Move) *MovePicker {
	killers := hist.Killers(ply)
	return &MovePicker{
		board:       b,
		hist:        hist,
		cont1:       cont1,
		cont2:       cont2,
		ttMove:      ttMove,
		killers:     killers,
		countermove: hist.Countermove(b.SideToMove(), prevMove),
		stage:       stageTTMove,
	}
}

// NewQSearchMovePicker builds a picker for quiescence search (§4.4): captures
// only (capturing promotions included, non-capturing promotions not) when
// the side to move is not in check, or one ply of
// full legal evasions (captures, blocks, and king steps alike) when it is —
// a losing capture is still the only way out of some checks, so evasions
// aren't SEE-filtered the way ordinary captures are.
func NewQSearchMovePicker(b *position.Board, hist *History, ttMove position.Move, inCheck bool) *MovePicker {
	return &MovePicker{
		board:      b,
		hist:       hist,
		ttMove:     ttMove,
		stage:      stageTTMove,
		quiescence: true,
		evasion:    inCheck,
	}
}

// SkipQuiets causes the remaining non-capture stages to be skipped, used
// after a futility prune fires mid-iteration.
func (mp *MovePicker) SkipQuiets() { mp.skipQuiets = true }

// Next returns the next move to try, or ok=false when exhausted.
func (mp *MovePicker) Next() (position.Move, bool) {
	for {
		switch mp.stage {
		case stageTTMove:
			mp.stage = stageGenCaptures
			if mp.ttMove != 0 && mp.board.IsPseudoLegal(mp.ttMove) {
				return mp.ttMove, true
			}

		case stageGenCaptures:
			if mp.evasion {
				mp.generateEvasions()
			} else {
				mp.generateCaptures()
			}
			if mp.quiescence {
				mp.stage = stageQSearchCaptures
			} else {
				mp.stage = stageGoodCaptures
			}

		case stageQSearchCaptures:
			if m, ok := mp.popBest(&mp.captures); ok {
				if m == mp.ttMove {
					continue
				}
				return m, true
			}
			mp.stage = stageDone

		case stageGoodCaptures:
			if m, ok := mp.popBest(&mp.captures); ok {
				if m == mp.ttMove {
					continue
				}
				return m, true
			}
			mp.stage = stageKiller1

		case stageKiller1:
			mp.stage = stageKiller2
			if mp.skipQuiets {
				continue
			}
			k := mp.killers[0]
			if k != 0 && k != mp.ttMove && mp.board.IsPseudoLegal(k) && !mp.board.IsCapture(k) {
				return k, true
			}

		case stageKiller2:
			mp.stage = stageCountermove
			if mp.skipQuiets {
				continue
			}
			k := mp.killers[1]
			if k != 0 && k != mp.ttMove && k != mp.killers[0] && mp.board.IsPseudoLegal(k) && !mp.board.IsCapture(k) {
				return k, true
			}

		case stageCountermove:
			mp.stage = stageGenQuiets
			if mp.skipQuiets {
				continue
			}
			cm := mp.countermove
			if cm != 0 && cm != mp.ttMove && cm != mp.killers[0] && cm != mp.killers[1] &&
				mp.board.IsPseudoLegal(cm) && !mp.board.IsCapture(cm) {
				return cm, true
			}

		case stageGenQuiets:
			mp.stage = stageBadCaptures
			if mp.skipQuiets {
				continue
			}
			mp.generateQuiets()
			mp.stage = stageQuiets

		case stageQuiets:
			if m, ok := mp.popBest(&mp.quiets); ok {
				if m == mp.ttMove || m == mp.killers[0] || m == mp.killers[1] || m == mp.countermove {
					continue
				}
				return m, true
			}
			mp.stage = stageBadCaptures

		case stageBadCaptures:
			if m, ok := mp.popBest(&mp.badCaptures); ok {
				if m == mp.ttMove {
					continue
				}
				return m, true
			}
			mp.stage = stageDone

		case stageDone:
			return 0, false
		}
	}
}

func (mp *MovePicker) generateCaptures() {
	raw := mp.board.GenerateCapturesInto(make([]position.Move, 0, 32))
	mp.captures = make([]scoredMove, 0, len(raw))
	mp.badCaptures = make([]scoredMove, 0, 4)
	for _, m := range raw {
		see := mp.board.SEE(m)
		score := mvvScore(m) + mp.hist.CaptureScore(m)
		if see >= 0 {
			mp.captures = append(mp.captures, scoredMove{m, score})
		} else {
			mp.badCaptures = append(mp.badCaptures, scoredMove{m, score})
		}
	}
}

// generateEvasions fills mp.captures with every legal move in the position,
// scored the same way captures are (MVV plus capture history) so that
// capturing the checker or a favorable block still sorts ahead of a bare
// king step. Used instead of generateCaptures when in check: a position can
// be in check with no capturing evasion at all, only a block or king move,
// and quiescence must still see it or it misreports checkmate.
func (mp *MovePicker) generateEvasions() {
	raw := mp.board.GenerateMovesInto(make([]position.Move, 0, 32))
	mp.captures = make([]scoredMove, 0, len(raw))
	mp.badCaptures = nil
	for _, m := range raw {
		score := mvvScore(m) + mp.hist.CaptureScore(m)
		mp.captures = append(mp.captures, scoredMove{m, score})
	}
}

func (mp *MovePicker) generateQuiets() {
	raw := mp.board.GenerateQuietsInto(make([]position.Move, 0, 48))
	mp.quiets = make([]scoredMove, 0, len(raw))
	side := mp.board.SideToMove()
	for _, m := range raw {
		score := mp.hist.ButterflyScore(side, m) + mp.cont1.Score(m) + mp.cont2.Score(m)
		mp.quiets = append(mp.quiets, scoredMove{m, score})
	}
}

func mvvScore(m position.Move) int {
	const mvvWeight = 10
	return int(m.CapturedPiece().Type())*mvvWeight*100 - int(m.MovedPiece().Type())
}

// popBest performs one pass of selection-sort, removing and returning the
// highest-scored remaining move.
func (mp *MovePicker) popBest(list *[]scoredMove) (position.Move, bool) {
	s := *list
	if len(s) == 0 {
		return 0, false
	}
	best := 0
	for i := 1; i < len(s); i++ {
		if s[i].score > s[best].score {
			best = i
		}
	}
	m := s[best].move
	s[best] = s[len(s)-1]
	*list = s[:len(s)-1]
	return m, true
}
