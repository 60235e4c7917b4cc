package search

import (
	"context"
	"testing"
	"time"

	"goosecore/internal/eval"
	"goosecore/internal/position"
)

func TestPoolSearchFindsMateInOne(t *testing.T) {
	// White to move: Qe1-e8 is checkmate (back-rank mate, black king boxed
	// in by its own pawns, queen protected by nothing but unreachable by
	// any black piece).
	b, err := position.ParseFEN("6k1/5ppp/8/8/8/8/8/4Q1K1 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	p := NewPool(1, 1)
	lim := Limits{Depth: 4}
	moves := p.Search(context.Background(), b, eval.NewClassical(), lim, 1, nil, nil)
	if len(moves) == 0 {
		t.Fatalf("expected at least one root move")
	}
	best := moves[0]
	want, err := b.ParseUCIMove("e1e8")
	if err != nil {
		t.Fatalf("ParseUCIMove: %v", err)
	}
	if best.Move != want {
		t.Fatalf("expected mating move %v, got %v (score %d)", want, best.Move, best.Score)
	}
	if best.Score < Checkmate-10 {
		t.Fatalf("expected a near-mate score, got %d", best.Score)
	}
}

func TestPoolSearchRespectsStop(t *testing.T) {
	b, err := position.ParseFEN(position.FENStartPos)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	p := NewPool(1, 1)

	done := make(chan []RootMove, 1)
	go func() {
		done <- p.Search(context.Background(), b, eval.NewClassical(), Limits{Infinite: true}, 1, nil, nil)
	}()
	// Give Search past its initial stop-flag reset before requesting a stop,
	// so this isn't racing Search's own p.stop.Store(false) at entry.
	time.Sleep(50 * time.Millisecond)
	p.Stop()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Stop() did not interrupt an infinite search in time")
	}
}

func TestPoolSearchMultiThreadedAgreesOnMate(t *testing.T) {
	b, err := position.ParseFEN("6k1/5ppp/8/8/8/8/8/4Q1K1 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	p := NewPool(1, 4)
	moves := p.Search(context.Background(), b, eval.NewClassical(), Limits{Depth: 4}, 1, nil, nil)
	if len(moves) == 0 {
		t.Fatalf("expected at least one root move")
	}
	want, err := b.ParseUCIMove("e1e8")
	if err != nil {
		t.Fatalf("ParseUCIMove: %v", err)
	}
	if moves[0].Move != want {
		t.Fatalf("expected mating move %v from 4-thread search, got %v", want, moves[0].Move)
	}
}
