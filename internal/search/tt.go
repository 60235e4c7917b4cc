package search

import (
	"sync/atomic"
	"unsafe"

	"goosecore/internal/position"
)

// Bound describes which side of the search window a stored score is exact
// or constrained to.
type Bound uint8

const (
	BoundNone Bound = iota
	BoundUpper
	BoundLower
	BoundExact
)

// clusterSize entries share a cache-line-ish bucket; lookups scan the whole
// cluster, matching the teacher's transposition.go clustered layout.
const clusterSize = 4

// ttEntry is one slot. key holds the upper bits of the full Zobrist key
// (verification only — the cluster index already consumed the low bits),
// so a 64-bit key collapses to a cheap per-entry check without storing the
// whole hash twice.
type ttEntry struct {
	key      uint32
	move     position.Move
	score    int16
	eval     int16
	depth    int8
	bound    Bound
	gen      uint8
}

// TranspositionTable is the Thread-Pool-shared, lock-free cache keyed by
// Zobrist hash (C3). Concurrency safety follows §4.1 of the design: entries
// are written as plain (non-atomic) values because a torn read is caught by
// the move-legality check at the call site, and any accepted entry is
// revalidated by replaying its move through Position.IsPseudoLegal.
type TranspositionTable struct {
	clusters []ttEntry // len is a multiple of clusterSize
	mask     uint64    // clusterCount-1, clusterCount is a power of two
	gen      uint32    // bumped by NewSearch on each "go"; reset to 0 by Clear
}

// NewTranspositionTable allocates a table sized to fit within megabytes MB.
func NewTranspositionTable(megabytes int) *TranspositionTable {
	tt := &TranspositionTable{}
	tt.Resize(megabytes)
	return tt
}

// Resize reallocates the table to the given MB budget, discarding all
// entries. Rounds down to a power-of-two cluster count.
func (tt *TranspositionTable) Resize(megabytes int) {
	if megabytes < 1 {
		megabytes = 1
	}
	entrySize := uint64(unsafe.Sizeof(ttEntry{}))
	totalBytes := uint64(megabytes) * 1024 * 1024
	clusterBytes := entrySize * clusterSize
	clusterCount := totalBytes / clusterBytes
	clusterCount = nextPowerOfTwoFloor(clusterCount)
	if clusterCount == 0 {
		clusterCount = 1
	}
	tt.clusters = make([]ttEntry, clusterCount*clusterSize)
	tt.mask = clusterCount - 1
}

func nextPowerOfTwoFloor(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	p := uint64(1)
	for p*2 <= n {
		p *= 2
	}
	return p
}

// Clear zeroes every entry (ucinewgame). Bumping the generation alone would
// suffice for correctness, but a full clear matches UCI's documented
// behavior that ucinewgame starts from a clean hash table.
func (tt *TranspositionTable) Clear() {
	for i := range tt.clusters {
		tt.clusters[i] = ttEntry{}
	}
	atomic.StoreUint32(&tt.gen, 0)
}

// NewSearch bumps the generation counter so stale entries age out of
// replacement priority without being physically cleared.
func (tt *TranspositionTable) NewSearch() {
	atomic.AddUint32(&tt.gen, 1)
}

func (tt *TranspositionTable) clusterIndex(key uint64) uint64 {
	return key & tt.mask
}

func verificationBits(key uint64) uint32 {
	return uint32(key >> 32)
}

// Entry is the caller-facing decoded view of a probe hit, with mate scores
// already un-adjusted for the probing ply.
type Entry struct {
	Move  position.Move
	Score int
	Eval  int
	Depth int
	Bound Bound
}

// Probe looks up key, returning the decoded entry (with the ply-based mate
// adjustment reversed) and whether it was found.
func (tt *TranspositionTable) Probe(key uint64, ply int) (Entry, bool) {
	base := int(tt.clusterIndex(key)) * clusterSize
	verify := verificationBits(key)
	for i := 0; i < clusterSize; i++ {
		e := &tt.clusters[base+i]
		if e.key == verify && e.bound != BoundNone {
			return Entry{
				Move:  e.move,
				Score: unadjustMate(int(e.score), ply),
				Eval:  int(e.eval),
				Depth: int(e.depth),
				Bound: e.bound,
			}, true
		}
	}
	return Entry{}, false
}

// Store writes (or updates) the entry for key. Replacement prefers, in
// order: a matching existing entry, an empty slot, then the slot minimizing
// depth - (currentGen-entryGen)*ageWeight (oldest/shallowest first).
func (tt *TranspositionTable) Store(key uint64, move position.Move, score, eval, depth int, bound Bound, ply int) {
	if len(tt.clusters) == 0 {
		return
	}
	base := int(tt.clusterIndex(key)) * clusterSize
	verify := verificationBits(key)
	gen := uint8(atomic.LoadUint32(&tt.gen))

	target := -1
	for i := 0; i < clusterSize; i++ {
		if tt.clusters[base+i].key == verify {
			target = base + i
			break
		}
	}
	if target == -1 {
		for i := 0; i < clusterSize; i++ {
			if tt.clusters[base+i].bound == BoundNone {
				target = base + i
				break
			}
		}
	}
	if target == -1 {
		const ageWeight = 8
		target = base
		worst := replacementScore(&tt.clusters[base], gen, ageWeight)
		for i := 1; i < clusterSize; i++ {
			s := replacementScore(&tt.clusters[base+i], gen, ageWeight)
			if s < worst {
				worst = s
				target = base + i
			}
		}
	}

	e := &tt.clusters[target]
	e.key = verify
	e.move = move
	e.score = int16(adjustMate(score, ply))
	e.eval = int16(eval)
	e.depth = int8(depth)
	e.bound = bound
	e.gen = gen
}

func replacementScore(e *ttEntry, currentGen uint8, ageWeight int) int {
	ageDelta := int(currentGen - e.gen)
	return int(e.depth) - ageDelta*ageWeight
}

// Hashfull estimates table occupancy in permille, sampling the first 1000
// entries (cheap, matches the UCI "hashfull" line's documented precision).
func (tt *TranspositionTable) Hashfull() int {
	if len(tt.clusters) == 0 {
		return 0
	}
	sample := 1000
	if sample > len(tt.clusters) {
		sample = len(tt.clusters)
	}
	used := 0
	currentGen := uint8(atomic.LoadUint32(&tt.gen))
	for i := 0; i < sample; i++ {
		if tt.clusters[i].bound != BoundNone && tt.clusters[i].gen == currentGen {
			used++
		}
	}
	return used * 1000 / sample
}

// adjustMate converts an in-search mate score (distance from root) to a
// distance-from-this-node value suitable for storage, per I5.
func adjustMate(score, ply int) int {
	if score >= MateInMax {
		return score + ply
	}
	if score <= -MateInMax {
		return score - ply
	}
	return score
}

// unadjustMate reverses adjustMate when reading a stored score back at ply.
func unadjustMate(score, ply int) int {
	if score >= MateInMax {
		return score - ply
	}
	if score <= -MateInMax {
		return score + ply
	}
	return score
}
