package eval

import (
	"testing"

	"goosecore/internal/position"
)

func evalFEN(t *testing.T, fen string) int {
	t.Helper()
	b, err := position.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return NewClassical().Evaluate(b)
}

func TestClassicalStartposIsSymmetric(t *testing.T) {
	if got := evalFEN(t, position.FENStartPos); got != 0 {
		t.Fatalf("startpos should evaluate to 0 from either side, got %d", got)
	}
}

func TestClassicalMirroredMaterialIsSymmetric(t *testing.T) {
	// A lone king-and-rook ending, mirrored top-to-bottom and side-flipped,
	// must score identically regardless of whose move it is: both the
	// material/PSQT accumulation and the side-to-move sign flip must agree.
	white := evalFEN(t, "4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	black := evalFEN(t, "r3k3/8/8/8/8/8/8/4K3 b - - 0 1")
	if white != black {
		t.Fatalf("mirrored positions should score equally: white-to-move=%d black-to-move=%d", white, black)
	}
}

func TestClassicalRewardsMaterialAdvantage(t *testing.T) {
	even := evalFEN(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	extraQueen := evalFEN(t, "4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	if extraQueen <= even {
		t.Fatalf("an extra queen must strictly improve the score: even=%d withQueen=%d", even, extraQueen)
	}
}

func TestClassicalBishopPairScoresAboveLoneBishopOfEqualValue(t *testing.T) {
	// Holding total non-bishop material equal, white's second bishop should
	// outscore an equivalent single knight, since it both adds a minor
	// piece's worth of material and the bishop-pair bonus, while the knight
	// only adds the material term.
	oneBishopPlusKnight := evalFEN(t, "4k3/8/8/8/8/8/8/2BNK3 w - - 0 1")
	bishopPair := evalFEN(t, "4k3/8/8/8/8/8/8/2BBK3 w - - 0 1")
	if bishopPair <= oneBishopPlusKnight {
		t.Fatalf("bishop pair should score above bishop+knight: pair=%d bishopKnight=%d", bishopPair, oneBishopPlusKnight)
	}
}

func TestClassicalPerspectiveFlipsWithSideToMove(t *testing.T) {
	white := evalFEN(t, "4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	black := evalFEN(t, "4k3/8/8/8/8/8/8/3QK3 b - - 0 1")
	if white != -black {
		t.Fatalf("evaluation must negate with side to move: white=%d black=%d", white, black)
	}
}
