package position

import "math/bits"

// rookDirPositive/bishopDirPositive record, for each of the four ray
// directions a rook or bishop slides along, whether that direction walks
// toward increasing square indices. N/E and NE/NW do; S/W and SE/SW don't.
// Every ray-walking query in this package (slider attack generation, square-
// attacked tests, check/pin detection, SEE's attackersTo, GivesCheck) needs
// the nearest blocker along a ray and used to re-derive this per call site;
// nearestBlocker below is the single place that decision lives now.
var rookDirPositive = [4]bool{true, false, true, false}   // N, S, E, W
var bishopDirPositive = [4]bool{true, true, false, false} // NE, NW, SE, SW

// nearestBlocker returns the bit of the first occupied square encountered
// walking outward from a ray's origin, or 0 if blockers is empty. Positive
// rays grow toward higher indices so the nearest blocker is the lowest set
// bit; negative rays grow toward lower indices so it's the highest set bit.
func nearestBlocker(blockers uint64, positive bool) uint64 {
	if blockers == 0 {
		return 0
	}
	if positive {
		return blockers & -blockers
	}
	first := 63 - bits.LeadingZeros64(blockers)
	return uint64(1) << uint(first)
}

// rayDirectionOf returns the rook or bishop ray direction index (0-3) along
// which targetBB lies from sq, and false if none of the four rays reach it.
// Used when a check's source square is known and only its direction from
// the king matters (computeCheckAndPins' single-checker case).
func rayDirectionOf(rays [64][4]uint64, sq int, targetBB uint64) (int, bool) {
	for d := 0; d < 4; d++ {
		if rays[sq][d]&targetBB != 0 {
			return d, true
		}
	}
	return 0, false
}

// software pext: extract bits of x at positions where mask has 1s, packed into low bits
func pext(x, mask uint64) uint64 {
	var res uint64
	var idx uint
	m := mask
	for m != 0 {
		lsb := m & -m
		bit := uint(bits.TrailingZeros64(lsb))
		if (x>>bit)&1 != 0 {
			res |= 1 << idx
		}
		idx++
		m &= m - 1
	}
	return res
}

// software pdep: deposit low bits of x into positions of mask
func pdep(x, mask uint64) uint64 {
	var res uint64
	var idx uint
	m := mask
	for m != 0 {
		lsb := m & -m
		bit := uint(bits.TrailingZeros64(lsb))
		if (x>>idx)&1 != 0 {
			res |= 1 << bit
		}
		idx++
		m &= m - 1
	}
	return res
}
