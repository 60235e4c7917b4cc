package position

// seePieceValues gives the material value used by the static exchange
// evaluator, indexed by PieceType. These mirror the coarse values the
// search package also uses for capture ordering; SEE only needs relative
// magnitude, not tuned centipawn precision.
var seePieceValues = [7]int{
	PieceTypeNone:   0,
	PieceTypePawn:   100,
	PieceTypeKnight: 320,
	PieceTypeBishop: 330,
	PieceTypeRook:   500,
	PieceTypeQueen:  900,
	PieceTypeKing:   20000,
}

// attackersTo returns a bitboard of every piece (either color) that attacks
// sq given the blocker set occ. occ must be a subset of the board's real
// occupancy; callers shrink it as pieces are swapped off during SEE.
func (b *Board) attackersTo(occ uint64, sq Square) uint64 {
	s := int(sq)
	var att uint64

	att |= pawnAttacks[Black][s] & b.pawns[White]
	att |= pawnAttacks[White][s] & b.pawns[Black]
	att |= knightMoves[s] & (b.knights[White] | b.knights[Black])
	att |= kingMoves[s] & (b.kings[White] | b.kings[Black])

	rq := b.rooks[White] | b.rooks[Black] | b.queens[White] | b.queens[Black]
	for d := 0; d < 4; d++ {
		att |= nearestBlocker(rookRays[s][d]&occ, rookDirPositive[d]) & rq
	}

	bq := b.bishops[White] | b.bishops[Black] | b.queens[White] | b.queens[Black]
	for d := 0; d < 4; d++ {
		att |= nearestBlocker(bishopRays[s][d]&occ, bishopDirPositive[d]) & bq
	}

	return att & occ
}

// leastValuableAttacker returns the bit of the cheapest attacker belonging to
// side within the attackers set, and its piece type. Returns (0, PieceTypeNone)
// if side has no attacker left.
func (b *Board) leastValuableAttacker(attackers uint64, side Color) (uint64, PieceType) {
	c := int(side)
	if bb := attackers & b.pawns[c]; bb != 0 {
		return bb & -bb, PieceTypePawn
	}
	if bb := attackers & b.knights[c]; bb != 0 {
		return bb & -bb, PieceTypeKnight
	}
	if bb := attackers & b.bishops[c]; bb != 0 {
		return bb & -bb, PieceTypeBishop
	}
	if bb := attackers & b.rooks[c]; bb != 0 {
		return bb & -bb, PieceTypeRook
	}
	if bb := attackers & b.queens[c]; bb != 0 {
		return bb & -bb, PieceTypeQueen
	}
	if bb := attackers & b.kings[c]; bb != 0 {
		return bb & -bb, PieceTypeKing
	}
	return 0, PieceTypeNone
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// SEE runs the classic swap-algorithm static exchange evaluation for the
// capture (or potential capture) represented by m, returning the material
// balance in centipawns from the mover's point of view if the exchange on
// m.To() is played out to its quiescent end. m need not be a legal move in
// the current position; it only needs consistent from/to/piece fields, which
// lets move ordering probe SEE before a move is actually made.
func (b *Board) SEE(m Move) int {
	to := m.To()
	from := m.From()

	var gain [32]int
	depth := 0

	var captured PieceType
	if m.Flags() == FlagEnPassant {
		captured = PieceTypePawn
	} else {
		captured = m.CapturedPiece().Type()
	}
	gain[0] = seePieceValues[captured]

	attackerType := m.MovedPiece().Type()
	if promo := m.PromotionPieceType(); promo != PieceTypeNone {
		gain[0] += seePieceValues[promo] - seePieceValues[PieceTypePawn]
		attackerType = promo
	}

	occ := b.AllOccupancy()
	occ &^= uint64(1) << uint(from)
	if m.Flags() == FlagEnPassant {
		var capSq Square
		if b.sideToMove == White {
			capSq = to - 8
		} else {
			capSq = to + 8
		}
		occ &^= uint64(1) << uint(capSq)
	}

	attackers := b.attackersTo(occ, to)
	side := Black
	if b.sideToMove == Black {
		side = White
	}

	for {
		bb, pt := b.leastValuableAttacker(attackers, side)
		if bb == 0 {
			break
		}
		depth++
		gain[depth] = seePieceValues[attackerType] - gain[depth-1]
		if maxInt(-gain[depth-1], gain[depth]) < 0 {
			break
		}
		occ &^= bb
		attackers = b.attackersTo(occ, to)
		attackerType = pt
		if side == White {
			side = Black
		} else {
			side = White
		}
	}

	for depth > 0 {
		depth--
		gain[depth] = -maxInt(-gain[depth], gain[depth+1])
	}
	return gain[0]
}

// SEEGreaterOrEqual is a cheap convenience wrapper for the common pruning
// check "does this capture win at least threshold centipawns".
func (b *Board) SEEGreaterOrEqual(m Move, threshold int) bool {
	return b.SEE(m) >= threshold
}

// IsPseudoLegal reports whether m is a currently legal move in the position.
// The search's transposition table stores moves without board context, so a
// TT-provided move must be revalidated against the live position before use;
// this performs that revalidation conservatively by checking full legality
// rather than a cheaper pseudo-legality-only test, since GenerateLegalMoves
// does not mutate board state and the extra cost is paid only on TT hits.
func (b *Board) IsPseudoLegal(m Move) bool {
	if m == 0 {
		return false
	}
	for _, lm := range b.GenerateLegalMoves() {
		if lm == m {
			return true
		}
	}
	return false
}
