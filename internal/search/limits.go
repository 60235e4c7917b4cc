package search

import "time"

// Limits captures every way a UCI "go" command can bound a search.
type Limits struct {
	WTime, BTime     time.Duration
	WInc, BInc       time.Duration
	MovesToGo        int
	MoveTime         time.Duration
	Infinite         bool
	Depth            int
	Nodes            uint64
}

// HasMoveTime reports whether an exact per-move time budget was given.
func (l Limits) HasMoveTime() bool { return l.MoveTime > 0 }

// HasDepth reports whether a depth cap was given.
func (l Limits) HasDepth() bool { return l.Depth > 0 }

// HasNodes reports whether a node cap was given.
func (l Limits) HasNodes() bool { return l.Nodes > 0 }
