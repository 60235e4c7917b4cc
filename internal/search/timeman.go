package search

import "time"

// TimeManager computes soft/hard deadlines (C8) and tracks bestmove
// stability to scale the soft deadline between iterations. Grounded on the
// teacher's time_management.go allocation formula (remaining/movesLeft +
// increment, clamped by overhead/min/max fractions), generalized from that
// file's single-sided "remainingTime" field into proper wtime/btime
// handling and an explicit soft/hard split per §4.6.
type TimeManager struct {
	start      time.Time
	soft, hard time.Duration

	infinite     bool
	depthLimit   int
	nodeLimit    uint64

	lastBest      PVLineMoveOnly
	stableCount   int
}

// PVLineMoveOnly avoids importing position just for a move-equality check
// in this file; it is whatever comparable move representation the caller
// passes to NoteBestMove.
type PVLineMoveOnly = uint32

const (
	overhead   = 30 * time.Millisecond
	minMove    = 5 * time.Millisecond
	maxFrac    = 0.7
	panicThresh = 1000 * time.Millisecond
	panicFrac  = 0.90
)

// NewTimeManager derives soft/hard deadlines from limits and the side to
// move's clock. The base allocation is remaining/movestogo (30 when
// movestogo is not given) plus three quarters of the increment, or 90% of
// the increment when under a second remains. nonPawnPhase does not enter
// the allocation.
func NewTimeManager(l Limits, whiteToMove bool, nonPawnPhase int) *TimeManager {
	tm := &TimeManager{start: time.Now()}

	switch {
	case l.Infinite:
		tm.infinite = true
		return tm
	case l.HasMoveTime():
		tm.soft = l.MoveTime
		tm.hard = l.MoveTime
		return tm
	case l.HasDepth() && l.WTime == 0 && l.BTime == 0:
		tm.depthLimit = l.Depth
		tm.infinite = true
		return tm
	}

	if l.HasDepth() {
		tm.depthLimit = l.Depth
	}
	if l.HasNodes() {
		tm.nodeLimit = l.Nodes
	}

	remaining, inc := l.WTime, l.WInc
	if !whiteToMove {
		remaining, inc = l.BTime, l.BInc
	}
	if remaining <= 0 {
		tm.infinite = true
		return tm
	}

	movesLeft := 30
	if l.MovesToGo > 0 {
		movesLeft = l.MovesToGo
	}

	var moveTime time.Duration
	switch {
	case inc > 0 && remaining < panicThresh:
		moveTime = time.Duration(float64(inc) * panicFrac)
	default:
		moveTime = remaining/time.Duration(movesLeft) + time.Duration(float64(inc)*0.75)
	}

	if moveTime < minMove {
		moveTime = minMove
	}
	if maxCap := time.Duration(float64(remaining) * maxFrac); moveTime > maxCap {
		moveTime = maxCap
	}
	if moveTime > remaining-overhead {
		moveTime = remaining - overhead
	}
	if moveTime < minMove {
		moveTime = minMove
	}

	tm.soft = moveTime
	tm.hard = minDuration(remaining/2, moveTime*5)
	return tm
}

func estimateMovesRemaining(nonPawnPhase int) int {
	return (nonPawnPhase*25)/24 + 20
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}

// NoteBestMove records whether the root best move changed since the last
// completed iteration, shrinking the effective soft deadline when it has
// been stable (search less) and widening it otherwise.
func (tm *TimeManager) NoteBestMove(move PVLineMoveOnly) {
	if move == tm.lastBest {
		tm.stableCount++
	} else {
		tm.stableCount = 0
		tm.lastBest = move
	}
}

// stabilityFactor scales the soft deadline: more stable => search less.
func (tm *TimeManager) stabilityFactor() float64 {
	switch {
	case tm.stableCount >= 8:
		return 0.5
	case tm.stableCount >= 4:
		return 0.75
	case tm.stableCount >= 1:
		return 1.0
	default:
		return 1.3
	}
}

// ShouldStartNewDepth is consulted between iterations: if the soft deadline
// (scaled by bestmove stability) has passed, do not start another depth.
func (tm *TimeManager) ShouldStartNewDepth(depth int) bool {
	if tm.depthLimit > 0 && depth > tm.depthLimit {
		return false
	}
	if tm.infinite {
		return true
	}
	elapsed := time.Since(tm.start)
	effectiveSoft := time.Duration(float64(tm.soft) * tm.stabilityFactor())
	return elapsed < effectiveSoft
}

// HardLimitExceeded is polled periodically within the search; when true the
// worker must abort immediately.
func (tm *TimeManager) HardLimitExceeded() bool {
	if tm.infinite || tm.hard == 0 {
		return false
	}
	return time.Since(tm.start) >= tm.hard
}

// Elapsed returns wall-clock time since the search started.
func (tm *TimeManager) Elapsed() time.Duration { return time.Since(tm.start) }
