// Package eval implements the classical static evaluator that backs the
// search core's Evaluator collaborator. It stands in for an NNUE evaluator:
// no binary weight file is loaded, the tables below are compiled-in.
package eval

import (
	"math/bits"

	"goosecore/internal/position"
)

// Evaluator is the black-box oracle the search core consumes: a pure
// function of a position, scored from the perspective of the side to move.
type Evaluator interface {
	Evaluate(b *position.Board) int
}

// Classical is a tapered material + piece-square evaluator.
type Classical struct{}

// NewClassical constructs the default evaluator.
func NewClassical() *Classical { return &Classical{} }

// Game phase weights for midgame/endgame interpolation.
const (
	knightPhase = 1
	bishopPhase = 1
	rookPhase   = 2
	queenPhase  = 4
	totalPhase  = knightPhase*4 + bishopPhase*4 + rookPhase*4 + queenPhase*2
)

var pieceValueMG = [7]int{
	position.PieceTypeKing: 0, position.PieceTypePawn: 88, position.PieceTypeKnight: 316,
	position.PieceTypeBishop: 331, position.PieceTypeRook: 494, position.PieceTypeQueen: 993,
}
var pieceValueEG = [7]int{
	position.PieceTypeKing: 0, position.PieceTypePawn: 111, position.PieceTypeKnight: 305,
	position.PieceTypeBishop: 333, position.PieceTypeRook: 535, position.PieceTypeQueen: 963,
}

var mobilityValueMG = [7]int{
	position.PieceTypeKnight: 2, position.PieceTypeBishop: 3, position.PieceTypeRook: 2, position.PieceTypeQueen: 1,
}
var mobilityValueEG = [7]int{
	position.PieceTypeKnight: 3, position.PieceTypeBishop: 2, position.PieceTypeRook: 4, position.PieceTypeQueen: 4,
}

const (
	bishopPairBonusMG = 10
	bishopPairBonusEG = 50
)

// flipView mirrors a square vertically, so black's PSQT lookups reuse white's
// tables (the tables below are authored from white's point of view).
var flipView = [64]int{
	56, 57, 58, 59, 60, 61, 62, 63,
	48, 49, 50, 51, 52, 53, 54, 55,
	40, 41, 42, 43, 44, 45, 46, 47,
	32, 33, 34, 35, 36, 37, 38, 39,
	24, 25, 26, 27, 28, 29, 30, 31,
	16, 17, 18, 19, 20, 21, 22, 23,
	8, 9, 10, 11, 12, 13, 14, 15,
	0, 1, 2, 3, 4, 5, 6, 7,
}

// Evaluate returns a centipawn score from the perspective of the side to
// move. Tables are authored from white's perspective; black pieces look up
// the vertically mirrored square.
func (c *Classical) Evaluate(b *position.Board) int {
	white := b.WhiteBitboards()
	black := b.BlackBitboards()

	mg, eg := 0, 0
	phase := 0

	phase += bits.OnesCount64(white.Knights|black.Knights) * knightPhase
	phase += bits.OnesCount64(white.Bishops|black.Bishops) * bishopPhase
	phase += bits.OnesCount64(white.Rooks|black.Rooks) * rookPhase
	phase += bits.OnesCount64(white.Queens|black.Queens) * queenPhase
	if phase > totalPhase {
		phase = totalPhase
	}

	accumulate(&mg, &eg, white.Pawns, black.Pawns, position.PieceTypePawn)
	accumulate(&mg, &eg, white.Knights, black.Knights, position.PieceTypeKnight)
	accumulate(&mg, &eg, white.Bishops, black.Bishops, position.PieceTypeBishop)
	accumulate(&mg, &eg, white.Rooks, black.Rooks, position.PieceTypeRook)
	accumulate(&mg, &eg, white.Queens, black.Queens, position.PieceTypeQueen)
	accumulate(&mg, &eg, white.Kings, black.Kings, position.PieceTypeKing)

	mg += mobility(white.Knights, white.All, false, position.PieceTypeKnight)
	mg -= mobility(black.Knights, black.All, false, position.PieceTypeKnight)
	eg += mobility(white.Knights, white.All, true, position.PieceTypeKnight)
	eg -= mobility(black.Knights, black.All, true, position.PieceTypeKnight)

	mg += mobility(white.Bishops, white.All, false, position.PieceTypeBishop)
	mg -= mobility(black.Bishops, black.All, false, position.PieceTypeBishop)
	eg += mobility(white.Bishops, white.All, true, position.PieceTypeBishop)
	eg -= mobility(black.Bishops, black.All, true, position.PieceTypeBishop)

	mg += mobility(white.Rooks, white.All, false, position.PieceTypeRook)
	mg -= mobility(black.Rooks, black.All, false, position.PieceTypeRook)
	eg += mobility(white.Rooks, white.All, true, position.PieceTypeRook)
	eg -= mobility(black.Rooks, black.All, true, position.PieceTypeRook)

	mg += mobility(white.Queens, white.All, false, position.PieceTypeQueen)
	mg -= mobility(black.Queens, black.All, false, position.PieceTypeQueen)
	eg += mobility(white.Queens, white.All, true, position.PieceTypeQueen)
	eg -= mobility(black.Queens, black.All, true, position.PieceTypeQueen)

	if bits.OnesCount64(white.Bishops) >= 2 {
		mg += bishopPairBonusMG
		eg += bishopPairBonusEG
	}
	if bits.OnesCount64(black.Bishops) >= 2 {
		mg -= bishopPairBonusMG
		eg -= bishopPairBonusEG
	}

	score := (mg*phase + eg*(totalPhase-phase)) / totalPhase

	if b.SideToMove() == position.Black {
		return -score
	}
	return score
}

func accumulate(mg, eg *int, whiteBB, blackBB uint64, pt position.PieceType) {
	wv, bv := whiteBB, blackBB
	for wv != 0 {
		sq := bits.TrailingZeros64(wv)
		wv &= wv - 1
		*mg += pieceValueMG[pt] + psqtMG[pt][sq]
		*eg += pieceValueEG[pt] + psqtEG[pt][sq]
	}
	for bv != 0 {
		sq := bits.TrailingZeros64(bv)
		bv &= bv - 1
		flipped := flipView[sq]
		*mg -= pieceValueMG[pt] + psqtMG[pt][flipped]
		*eg -= pieceValueEG[pt] + psqtEG[pt][flipped]
	}
}

// mobility returns the number of pieces in pieceBB times the per-type
// mobility weight for the game phase. It does not count attack squares or
// look at occupancy: ownOcc is not used.
func mobility(pieceBB, ownOcc uint64, endgame bool, pt position.PieceType) int {
	count := bits.OnesCount64(pieceBB)
	if count == 0 {
		return 0
	}
	if endgame {
		return count * mobilityValueEG[pt]
	}
	return count * mobilityValueMG[pt]
}
