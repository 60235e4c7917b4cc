package search

import (
	"testing"

	"goosecore/internal/position"
)

func TestTranspositionTableStoreProbeRoundTrip(t *testing.T) {
	tt := NewTranspositionTable(1)
	key := uint64(0x1234567890abcdef)
	move := position.Move(0xABCD)

	tt.Store(key, move, 123, -45, 7, BoundExact, 0)

	e, ok := tt.Probe(key, 0)
	if !ok {
		t.Fatalf("expected a hit after store")
	}
	if e.Move != move || e.Score != 123 || e.Eval != -45 || e.Depth != 7 || e.Bound != BoundExact {
		t.Fatalf("round trip mismatch: got %+v", e)
	}
}

func TestTranspositionTableProbeMiss(t *testing.T) {
	tt := NewTranspositionTable(1)
	if _, ok := tt.Probe(0xdeadbeef, 0); ok {
		t.Fatalf("expected a miss on an empty table")
	}
}

func TestTranspositionTableMateScoreDistanceAdjustment(t *testing.T) {
	tt := NewTranspositionTable(1)
	key := uint64(0xaaaaaaaaaaaaaaaa)

	// A mate found 3 plies deep at the storing node, stored from ply 5.
	mateScore := Checkmate - 3
	tt.Store(key, 0, mateScore, 0, 10, BoundExact, 5)

	// Probing from a shallower ply (2) should report the mate as nearer by
	// the ply delta: the score rises by 5-2=3.
	e, ok := tt.Probe(key, 2)
	if !ok {
		t.Fatalf("expected a hit")
	}
	wantScore := mateScore + (5 - 2)
	if e.Score != wantScore {
		t.Fatalf("mate distance not renormalized: got %d want %d", e.Score, wantScore)
	}
}

func TestTranspositionTableClearRemovesEntries(t *testing.T) {
	tt := NewTranspositionTable(1)
	key := uint64(0x1111111111111111)
	tt.Store(key, 1, 10, 10, 1, BoundExact, 0)
	if _, ok := tt.Probe(key, 0); !ok {
		t.Fatalf("expected hit before clear")
	}
	tt.Clear()
	if _, ok := tt.Probe(key, 0); ok {
		t.Fatalf("expected miss after clear")
	}
}

func TestTranspositionTableReplacementPrefersDeeper(t *testing.T) {
	tt := NewTranspositionTable(1)
	// Four distinct keys that collide into the same cluster: clusterIndex
	// uses key&mask, so shifting only the verification bits (upper 32)
	// keeps them in one cluster while giving each a distinct key.
	base := uint64(0x42)
	for i := 0; i < clusterSize; i++ {
		k := base | (uint64(i+1) << 40)
		tt.Store(k, position.Move(i), 0, 0, 1, BoundExact, 0)
	}
	// A fifth, deeper entry colliding into the same cluster should evict
	// the shallowest of the four rather than silently failing to store.
	newKey := base | (uint64(99) << 40)
	tt.Store(newKey, 99, 0, 0, 20, BoundExact, 0)
	e, ok := tt.Probe(newKey, 0)
	if !ok {
		t.Fatalf("expected the new deep entry to have been stored")
	}
	if e.Depth != 20 {
		t.Fatalf("got depth %d, want 20", e.Depth)
	}
}
