package bridge

import (
	"testing"
	"time"
)

func TestRateLimiterSpacing(t *testing.T) {
	base := time.Unix(1700000000, 0)
	limiter := NewRateLimiter(1.0)

	if !limiter.Allow(base) {
		t.Fatal("first message should pass")
	}
	limiter.MarkForwarded(base)

	if limiter.Allow(base.Add(500 * time.Millisecond)) {
		t.Fatal("message 0.5s after a forward should be suppressed")
	}

	late := base.Add(1200 * time.Millisecond)
	if !limiter.Allow(late) {
		t.Fatal("message 1.2s after a forward should pass")
	}
	limiter.MarkForwarded(late)

	if limiter.Allow(late.Add(900 * time.Millisecond)) {
		t.Fatal("spacing must measure from the last actual forward")
	}
}

func TestRateLimiterExactBoundary(t *testing.T) {
	base := time.Unix(1700000000, 0)
	limiter := NewRateLimiter(1.0)
	limiter.MarkForwarded(base)

	if !limiter.Allow(base.Add(time.Second)) {
		t.Fatal("exactly the configured interval should pass")
	}
}

func TestRateLimiterSuppressedDoesNotAdvance(t *testing.T) {
	base := time.Unix(1700000000, 0)
	limiter := NewRateLimiter(1.0)
	limiter.MarkForwarded(base)

	// Suppressed arrivals at 0.5s and 0.9s never call MarkForwarded, so the
	// arrival at 1.1s still measures against t=0.
	if limiter.Allow(base.Add(500 * time.Millisecond)) {
		t.Fatal("0.5s arrival should be suppressed")
	}
	if limiter.Allow(base.Add(900 * time.Millisecond)) {
		t.Fatal("0.9s arrival should be suppressed")
	}
	if !limiter.Allow(base.Add(1100 * time.Millisecond)) {
		t.Fatal("1.1s arrival should pass")
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	base := time.Unix(1700000000, 0)
	for _, interval := range []float64{0, -1} {
		limiter := NewRateLimiter(interval)
		limiter.MarkForwarded(base)
		if !limiter.Allow(base) {
			t.Fatalf("interval %v should never suppress", interval)
		}
	}
}

func TestRateLimiterElapsed(t *testing.T) {
	base := time.Unix(1700000000, 0)
	limiter := NewRateLimiter(1.0)

	if limiter.Elapsed(base) != 0 {
		t.Fatal("elapsed before any forward should be zero")
	}
	limiter.MarkForwarded(base)
	if got := limiter.Elapsed(base.Add(300 * time.Millisecond)); got != 300*time.Millisecond {
		t.Fatalf("elapsed = %v", got)
	}
}
