package position

import "testing"

func perft(t *testing.T, fen string, results []uint64) {
	t.Helper()
	b, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	for depth, want := range results {
		if got := Perft(b, depth+1); got != want {
			t.Fatalf("perft depth %d: got %d want %d", depth+1, got, want)
		}
	}
}

func TestPerftStartpos(t *testing.T) {
	perft(t, FENStartPos, []uint64{20, 400, 8902})
}

func TestPerftKiwipete(t *testing.T) {
	perft(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		[]uint64{48, 2039, 97862})
}

func TestPerftEnPassant(t *testing.T) {
	perft(t, "k7/8/8/3pP3/8/8/8/7K w - d6 0 2", []uint64{5, 19})
}

func TestPerftPromotion(t *testing.T) {
	perft(t, "1n5k/P7/8/8/8/8/8/7K w - - 0 1", []uint64{11})
}

func TestPerftPosition5(t *testing.T) {
	perft(t, "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 0 1",
		[]uint64{44, 1486, 62379})
}

func TestPerftInitialDepth4(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping depth-4 perft in short mode")
	}
	perft(t, FENStartPos, []uint64{20, 400, 8902, 197281})
}
