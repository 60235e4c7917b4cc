package position

import "testing"

func seeOfUCI(t *testing.T, fen, moveStr string) int {
	t.Helper()
	b, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	m, err := b.ParseUCIMove(moveStr)
	if err != nil {
		t.Fatalf("ParseUCIMove(%q): %v", moveStr, err)
	}
	return b.SEE(m)
}

func TestSEEPawnTakesUndefendedPawn(t *testing.T) {
	// White pawn on e4 takes a lone black pawn on d5, no recapture possible.
	got := seeOfUCI(t, "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1", "e4d5")
	if got != 100 {
		t.Fatalf("SEE(exd5) = %d, want 100", got)
	}
}

func TestSEELosingCaptureIsNegative(t *testing.T) {
	// White queen captures a pawn defended by the black king on e8: loses the
	// queen for a pawn in the subsequent recapture.
	got := seeOfUCI(t, "4k3/3p4/8/8/3Q4/8/8/4K3 w - - 0 1", "d4d7")
	if got >= 0 {
		t.Fatalf("SEE(Qxd7) = %d, want a losing (negative) exchange", got)
	}
}

func TestSEERookBehindRookWinsPawn(t *testing.T) {
	// White rook on d2 takes a pawn on d5 defended by a black rook on d8;
	// White has a second rook behind on d1 backing up the file, so after
	// both recaptures settle the exchange nets a clean pawn.
	got := seeOfUCI(t, "3r2k1/8/8/3p4/8/8/3R4/3R2K1 w - - 0 1", "d2d5")
	if got != 100 {
		t.Fatalf("SEE(Rxd5) = %d, want 100", got)
	}
}
