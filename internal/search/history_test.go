package search

import (
	"testing"

	"goosecore/internal/position"
)

// sq builds a Square from zero-based file/rank indices (a1=0,0).
func sq(file, rank int) position.Square {
	return position.Square(file + rank*8)
}

func quietMove(from, to position.Square) position.Move {
	return position.NewMove(from, to, position.WhitePawn, position.NoPiece, position.NoPiece, position.FlagNone)
}

func TestButterflyBonusAndMalus(t *testing.T) {
	h := NewHistory()
	m := quietMove(sq(4,1), sq(4,3))

	h.AddButterflyBonus(position.White, m, 4)
	if got := h.ButterflyScore(position.White, m); got != 16 {
		t.Fatalf("after bonus: got %d want 16", got)
	}
	h.AddButterflyMalus(position.White, m, 2)
	if got := h.ButterflyScore(position.White, m); got != 12 {
		t.Fatalf("after malus: got %d want 12", got)
	}
}

func TestButterflyScoreClampsToHistoryMax(t *testing.T) {
	h := NewHistory()
	m := quietMove(sq(0,1), sq(0,3))
	for i := 0; i < 100; i++ {
		h.AddButterflyBonus(position.White, m, 64)
	}
	if got := h.ButterflyScore(position.White, m); got != historyMax {
		t.Fatalf("expected clamp at %d, got %d", historyMax, got)
	}
}

func TestKillerInsertionOrder(t *testing.T) {
	h := NewHistory()
	m1 := quietMove(sq(4,1), sq(4,3))
	m2 := quietMove(sq(3,1), sq(3,3))

	h.InsertKiller(3, m1)
	h.InsertKiller(3, m2)
	killers := h.Killers(3)
	if killers[0] != m2 || killers[1] != m1 {
		t.Fatalf("expected newest-first killer order, got %v", killers)
	}

	// Re-inserting an existing killer must not duplicate it.
	h.InsertKiller(3, m2)
	killers = h.Killers(3)
	if killers[0] != m2 || killers[1] != m1 {
		t.Fatalf("re-inserting existing killer changed order: got %v", killers)
	}
}

func TestCountermoveRoundTrip(t *testing.T) {
	h := NewHistory()
	prev := quietMove(sq(6,0), sq(5,2))
	reply := quietMove(sq(3,6), sq(3,4))

	if got := h.Countermove(position.Black, prev); got != 0 {
		t.Fatalf("expected no countermove recorded yet, got %v", got)
	}
	h.SetCountermove(position.Black, prev, reply)
	if got := h.Countermove(position.Black, prev); got != reply {
		t.Fatalf("got %v want %v", got, reply)
	}
}

func TestContinuationTableNilSafe(t *testing.T) {
	var ct *ContinuationTable
	m := quietMove(sq(4,1), sq(4,3))
	if got := ct.Score(m); got != 0 {
		t.Fatalf("nil continuation table should score 0, got %d", got)
	}
	ct.Bonus(m, 4) // must not panic
	ct.Malus(m, 4) // must not panic
}

func TestHistoryClearResetsAllTables(t *testing.T) {
	h := NewHistory()
	m := quietMove(sq(4,1), sq(4,3))
	h.AddButterflyBonus(position.White, m, 4)
	h.InsertKiller(0, m)
	h.Clear()
	if got := h.ButterflyScore(position.White, m); got != 0 {
		t.Fatalf("butterfly score not cleared: got %d", got)
	}
	if killers := h.Killers(0); killers[0] != 0 {
		t.Fatalf("killers not cleared: got %v", killers)
	}
}
