package search

import (
	"strings"

	"goosecore/internal/position"
)

// PVLine holds the principal variation accumulated at one search stack
// frame. The teacher's search.go and searchutil.go both reference a PVLine
// type extensively but never define one anywhere in that repo; this shape
// follows what those call sites imply (Moves slice, Update-from-child,
// Clear, GetPVMove).
type PVLine struct {
	Moves []position.Move
}

// Clear empties the line without releasing its backing array.
func (pv *PVLine) Clear() {
	pv.Moves = pv.Moves[:0]
}

// Update replaces the line with move followed by child's line.
func (pv *PVLine) Update(move position.Move, child PVLine) {
	pv.Moves = append(pv.Moves[:0], move)
	pv.Moves = append(pv.Moves, child.Moves...)
}

// Clone returns an independent copy safe to store past this node's lifetime.
func (pv PVLine) Clone() PVLine {
	out := PVLine{Moves: make([]position.Move, len(pv.Moves))}
	copy(out.Moves, pv.Moves)
	return out
}

// GetPVMove returns the first move of the line, or the zero Move if empty.
func (pv PVLine) GetPVMove() position.Move {
	if len(pv.Moves) == 0 {
		return position.Move(0)
	}
	return pv.Moves[0]
}

// String renders the line as space-separated UCI move strings, for the
// "pv ..." segment of an info line.
func (pv PVLine) String() string {
	var sb strings.Builder
	for i, m := range pv.Moves {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(m.String())
	}
	return sb.String()
}
