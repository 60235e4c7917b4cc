package position

import (
	"errors"
	"strings"
)

// OurKingInCheck reports whether the side to move has its king in check.
func (b *Board) OurKingInCheck() bool { return b.InCheck(b.sideToMove) }

// IsCapture reports whether m captures a piece on the current board, including
// en passant. It only consults board state, not the move's own encoded
// CapturedPiece field, so it is safe to call on moves built by ParseUCIMove.
func (b *Board) IsCapture(m Move) bool {
	toBB := uint64(1) << uint(m.To())
	if toBB&b.AllOccupancy() != 0 {
		return true
	}
	if b.enPassantSquare == NoSquare || m.Flags() != FlagEnPassant {
		return false
	}
	fromBB := uint64(1) << uint(m.From())
	return fromBB&(b.pawns[White]|b.pawns[Black]) != 0
}

// ParseUCIMove converts a UCI long-algebraic move string ("e2e4", "e7e8q",
// "0000") into a fully-populated Move for the current board, filling in the
// moved/captured piece, promotion piece (colored for the side to move), and
// castle/en-passant flags from board context, since this package's Move
// encoding is self-describing rather than needing board lookups at apply time.
func (b *Board) ParseUCIMove(movestr string) (Move, error) {
	movestr = strings.TrimSpace(strings.ToLower(movestr))
	if movestr == "0000" {
		return 0, nil
	}
	if len(movestr) < 4 || len(movestr) > 5 {
		return 0, errors.New("position: invalid move length")
	}
	fromIdx, err := algebraicToIndex(movestr[0:2])
	if err != nil {
		return 0, err
	}
	toIdx, err := algebraicToIndex(movestr[2:4])
	if err != nil {
		return 0, err
	}
	from, to := Square(fromIdx), Square(toIdx)

	moved := b.PieceAt(from)
	if moved == NoPiece {
		return 0, errors.New("position: no piece on origin square")
	}

	var promo Piece
	if len(movestr) == 5 {
		side := moved.Color()
		switch movestr[4] {
		case 'q':
			promo = PieceFromType(side, PieceTypeQueen)
		case 'r':
			promo = PieceFromType(side, PieceTypeRook)
		case 'b':
			promo = PieceFromType(side, PieceTypeBishop)
		case 'n':
			promo = PieceFromType(side, PieceTypeKnight)
		default:
			return 0, errors.New("position: invalid promotion piece")
		}
	}

	var flag uint8 = FlagNone
	captured := b.PieceAt(to)

	if moved.Type() == PieceTypePawn && to == b.enPassantSquare && captured == NoPiece {
		flag = FlagEnPassant
		if b.sideToMove == White {
			captured = BlackPawn
		} else {
			captured = WhitePawn
		}
	} else if moved.Type() == PieceTypeKing {
		diff := int(to) - int(from)
		if diff == 2 || diff == -2 {
			flag = FlagCastle
		}
	}

	return NewMove(from, to, moved, captured, promo, flag), nil
}

func algebraicToIndex(alg string) (int, error) {
	if len(alg) != 2 {
		return 0, errors.New("position: invalid algebraic square length")
	}
	file := alg[0]
	rank := alg[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return 0, errors.New("position: invalid algebraic square")
	}
	return int(file-'a') + int(rank-'1')*8, nil
}
