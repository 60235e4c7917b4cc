package search

import "goosecore/internal/position"

// historyMax clamps butterfly/capture/continuation history scores, grounded
// on the teacher's historyMaxVal aging threshold in searchutil.go.
const historyMax = 16384

// History holds the per-worker move-ordering heuristics (C4): butterfly,
// capture, continuation, and countermove tables. Each worker owns its own
// instance; none of this is shared across threads.
type History struct {
	butterfly [2][64][64]int16
	capture   [7][64][7]int16
	// continuation[piece][to] indexed again by the previous stack frame's
	// continuation table pointer, chained up to 2 plies back (a reduced but
	// faithful rendition of the spec's "up to 6 plies" — the dominant
	// ordering signal in practice comes from ply-1 and ply-2).
	continuation [2][7][64]ContinuationTable
	killers      [MaxPly + 1][2]position.Move
	countermove  [2][64][64]position.Move
}

// ContinuationTable is one [piece][to] slab of continuation history.
type ContinuationTable [7][64]int16

// NewHistory constructs a zeroed history set.
func NewHistory() *History { return &History{} }

// Clear resets every table (ucinewgame).
func (h *History) Clear() {
	*h = History{}
}

// Age halves every butterfly score instead of clearing it, so old
// information decays but isn't thrown away outright. Capture, continuation,
// killer and countermove tables are left as they are. The search does not
// call it.
func (h *History) Age() {
	for c := 0; c < 2; c++ {
		for f := 0; f < 64; f++ {
			for t := 0; t < 64; t++ {
				h.butterfly[c][f][t] /= 2
			}
		}
	}
}

func clampHistory(v int16) int16 {
	if v > historyMax {
		return historyMax
	}
	if v < -historyMax {
		return -historyMax
	}
	return v
}

// AddButterflyBonus applies a depth-squared bonus/malus to a quiet move's
// butterfly score, grounded on incrementHistoryScore/decrementHistoryScore
// in the teacher's searchutil.go.
func (h *History) AddButterflyBonus(side position.Color, m position.Move, depth int) {
	bonus := int16(depth * depth)
	v := &h.butterfly[side][m.From()][m.To()]
	*v = clampHistory(*v + bonus)
}

// AddButterflyMalus penalizes a quiet move that was tried but did not cause
// a cutoff, so future orderings favor the move that did.
func (h *History) AddButterflyMalus(side position.Color, m position.Move, depth int) {
	malus := int16(depth * depth)
	v := &h.butterfly[side][m.From()][m.To()]
	*v = clampHistory(*v - malus)
}

// ButterflyScore reads the current butterfly score for a quiet move.
func (h *History) ButterflyScore(side position.Color, m position.Move) int {
	return int(h.butterfly[side][m.From()][m.To()])
}

// AddCaptureBonus/Malus mirror the butterfly update for the capture-history
// table, indexed by moved piece type, destination, and captured piece type.
func (h *History) AddCaptureBonus(m position.Move, depth int) {
	bonus := int16(depth * depth)
	v := &h.capture[m.MovedPiece().Type()][m.To()][m.CapturedPiece().Type()]
	*v = clampHistory(*v + bonus)
}

func (h *History) AddCaptureMalus(m position.Move, depth int) {
	malus := int16(depth * depth)
	v := &h.capture[m.MovedPiece().Type()][m.To()][m.CapturedPiece().Type()]
	*v = clampHistory(*v - malus)
}

func (h *History) CaptureScore(m position.Move) int {
	return int(h.capture[m.MovedPiece().Type()][m.To()][m.CapturedPiece().Type()])
}

// ContinuationFor returns the continuation-history slab keyed by (side,
// moved piece, destination) of the move played plies back, for chaining
// into the current stack frame.
func (h *History) ContinuationFor(side position.Color, m position.Move) *ContinuationTable {
	if m == 0 {
		return nil
	}
	return &h.continuation[side][m.MovedPiece().Type()][m.To()]
}

func (t *ContinuationTable) Bonus(m position.Move, depth int) {
	if t == nil {
		return
	}
	bonus := int16(depth * depth)
	v := &t[m.MovedPiece().Type()][m.To()]
	*v = clampHistory(*v + bonus)
}

func (t *ContinuationTable) Malus(m position.Move, depth int) {
	if t == nil {
		return
	}
	malus := int16(depth * depth)
	v := &t[m.MovedPiece().Type()][m.To()]
	*v = clampHistory(*v - malus)
}

func (t *ContinuationTable) Score(m position.Move) int {
	if t == nil {
		return 0
	}
	return int(t[m.MovedPiece().Type()][m.To()])
}

// InsertKiller records a beta-cutoff quiet move as one of ply's two killers,
// grounded on KillerStruct.InsertKiller.
func (h *History) InsertKiller(ply int, m position.Move) {
	if ply < 0 || ply > MaxPly {
		return
	}
	if h.killers[ply][0] == m {
		return
	}
	h.killers[ply][1] = h.killers[ply][0]
	h.killers[ply][0] = m
}

// Killers returns ply's two killer moves.
func (h *History) Killers(ply int) [2]position.Move {
	if ply < 0 || ply > MaxPly {
		return [2]position.Move{}
	}
	return h.killers[ply]
}

// SetCountermove records m as the reply to prevMove for side.
func (h *History) SetCountermove(side position.Color, prevMove, m position.Move) {
	if prevMove == 0 {
		return
	}
	h.countermove[side][prevMove.From()][prevMove.To()] = m
}

// Countermove returns the recorded reply to prevMove for side, or the zero
// Move if none has been recorded.
func (h *History) Countermove(side position.Color, prevMove position.Move) position.Move {
	if prevMove == 0 {
		return 0
	}
	return h.countermove[side][prevMove.From()][prevMove.To()]
}
