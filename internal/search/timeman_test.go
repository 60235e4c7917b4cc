package search

import (
	"testing"
	"time"
)

func TestTimeManagerInfiniteSearchNeverExpires(t *testing.T) {
	tm := NewTimeManager(Limits{Infinite: true}, true, 10)
	if !tm.ShouldStartNewDepth(1) {
		t.Fatalf("infinite search must always allow another depth")
	}
	if tm.HardLimitExceeded() {
		t.Fatalf("infinite search must never hard-expire")
	}
}

func TestTimeManagerMoveTimeSetsExactSoftAndHardDeadline(t *testing.T) {
	tm := NewTimeManager(Limits{MoveTime: 500 * time.Millisecond}, true, 10)
	if tm.soft != 500*time.Millisecond || tm.hard != 500*time.Millisecond {
		t.Fatalf("expected soft=hard=500ms, got soft=%v hard=%v", tm.soft, tm.hard)
	}
}

func TestTimeManagerDepthOnlyIsTreatedAsInfinite(t *testing.T) {
	tm := NewTimeManager(Limits{Depth: 12}, true, 10)
	if !tm.infinite {
		t.Fatalf("depth-only search with no clock should run untimed")
	}
	if tm.depthLimit != 12 {
		t.Fatalf("expected depthLimit 12, got %d", tm.depthLimit)
	}
	if !tm.ShouldStartNewDepth(12) {
		t.Fatalf("depth 12 must still be allowed to start")
	}
	if tm.ShouldStartNewDepth(13) {
		t.Fatalf("depth past the cap must not be allowed to start")
	}
}

func TestTimeManagerZeroRemainingClockIsInfinite(t *testing.T) {
	tm := NewTimeManager(Limits{WTime: 0, BTime: 0}, true, 10)
	if !tm.infinite {
		t.Fatalf("a zero clock with no move time should be treated as infinite")
	}
}

func TestTimeManagerNormalClockAllocatesWithinRemaining(t *testing.T) {
	tm := NewTimeManager(Limits{WTime: 60 * time.Second, WInc: 0}, true, 10)
	if tm.soft <= 0 {
		t.Fatalf("expected a positive soft deadline, got %v", tm.soft)
	}
	if tm.soft >= 60*time.Second {
		t.Fatalf("soft deadline must not consume the entire remaining clock, got %v", tm.soft)
	}
	if tm.hard < tm.soft {
		t.Fatalf("hard deadline (%v) must not be shorter than soft (%v)", tm.hard, tm.soft)
	}
}

func TestTimeManagerPanicModeWithLowTimeAndIncrement(t *testing.T) {
	tm := NewTimeManager(Limits{WTime: 500 * time.Millisecond, WInc: 200 * time.Millisecond}, true, 10)
	want := time.Duration(float64(200*time.Millisecond) * panicFrac)
	if tm.soft != want {
		t.Fatalf("expected panic-mode soft deadline %v, got %v", want, tm.soft)
	}
}

func TestTimeManagerNoteBestMoveTracksStability(t *testing.T) {
	tm := NewTimeManager(Limits{WTime: 10 * time.Second}, true, 10)
	tm.NoteBestMove(1)
	if tm.stableCount != 0 {
		t.Fatalf("first note should not count as stable, got stableCount=%d", tm.stableCount)
	}
	tm.NoteBestMove(1)
	if tm.stableCount != 1 {
		t.Fatalf("repeating the same move should increment stability, got %d", tm.stableCount)
	}
	tm.NoteBestMove(2)
	if tm.stableCount != 0 {
		t.Fatalf("a changed best move must reset stability, got %d", tm.stableCount)
	}
}

func TestTimeManagerStabilityFactorThresholds(t *testing.T) {
	tm := NewTimeManager(Limits{WTime: 10 * time.Second}, true, 10)
	if got := tm.stabilityFactor(); got != 1.3 {
		t.Fatalf("fresh manager should widen (1.3), got %v", got)
	}
	tm.stableCount = 1
	if got := tm.stabilityFactor(); got != 1.0 {
		t.Fatalf("stableCount=1 should be neutral (1.0), got %v", got)
	}
	tm.stableCount = 4
	if got := tm.stabilityFactor(); got != 0.75 {
		t.Fatalf("stableCount=4 should shrink (0.75), got %v", got)
	}
	tm.stableCount = 8
	if got := tm.stabilityFactor(); got != 0.5 {
		t.Fatalf("stableCount=8 should shrink further (0.5), got %v", got)
	}
}

func TestTimeManagerHardLimitExceeded(t *testing.T) {
	tm := NewTimeManager(Limits{MoveTime: 1 * time.Millisecond}, true, 10)
	time.Sleep(5 * time.Millisecond)
	if !tm.HardLimitExceeded() {
		t.Fatalf("expected the hard deadline to have passed")
	}
}
