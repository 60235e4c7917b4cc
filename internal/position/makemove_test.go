package position

import "testing"

// walk recursively applies every legal move to depth plies, checking after
// each make that the incremental Zobrist key matches a from-scratch
// recomputation and that unmaking restores the exact prior FEN, then
// returns the total number of leaf positions visited.
func walk(t *testing.T, b *Board, depth int) int {
	t.Helper()
	if depth == 0 {
		return 1
	}
	before := b.ToFEN()
	moves := b.GenerateLegalMoves()
	total := 0
	for _, m := range moves {
		ok, st := b.MakeMove(m)
		if !ok {
			continue
		}
		if got, want := b.Hash(), b.ComputeZobrist(); got != want {
			t.Fatalf("incremental zobrist mismatch after %s: got %x want %x", m.String(), got, want)
		}
		total += walk(t, b, depth-1)
		b.UnmakeMove(m, st)
		if after := b.ToFEN(); after != before {
			t.Fatalf("unmake did not restore position for move %s:\n before=%s\n after =%s", m.String(), before, after)
		}
		if got, want := b.Hash(), b.ComputeZobrist(); got != want {
			t.Fatalf("zobrist mismatch after unmake of %s: got %x want %x", m.String(), got, want)
		}
	}
	return total
}

func TestMakeUnmakeSymmetryStartpos(t *testing.T) {
	b, err := ParseFEN(FENStartPos)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if got, want := walk(t, b, 3), 8902; got != want {
		t.Fatalf("leaf count at depth 3: got %d want %d", got, want)
	}
}

func TestMakeUnmakeSymmetryKiwipete(t *testing.T) {
	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	b, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if got, want := walk(t, b, 2), 2039; got != want {
		t.Fatalf("leaf count at depth 2: got %d want %d", got, want)
	}
}

func TestNullMoveSymmetry(t *testing.T) {
	b, err := ParseFEN(FENStartPos)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	before := b.ToFEN()
	beforeHash := b.Hash()
	st := b.MakeNullMove()
	if b.SideToMove() == White {
		t.Fatalf("null move did not flip side to move")
	}
	b.UnmakeNullMove(st)
	if after := b.ToFEN(); after != before {
		t.Fatalf("null move unmake did not restore position:\n before=%s\n after =%s", before, after)
	}
	if b.Hash() != beforeHash {
		t.Fatalf("null move unmake did not restore hash")
	}
}
