package bridge

import "time"

// RateLimiter enforces a minimum interval between forwarded messages.
//
// The last-forward mark advances only when the caller reports an actual
// forward, so a stream of slightly-late arrivals keeps the configured spacing
// instead of drifting.
type RateLimiter struct {
	minInterval time.Duration
	lastForward time.Time
}

// NewRateLimiter creates a limiter; intervalSeconds <= 0 disables limiting.
func NewRateLimiter(intervalSeconds float64) *RateLimiter {
	if intervalSeconds <= 0 {
		return &RateLimiter{}
	}
	return &RateLimiter{minInterval: time.Duration(intervalSeconds * float64(time.Second))}
}

// Allow reports whether an event arriving at now may be forwarded.
func (r *RateLimiter) Allow(now time.Time) bool {
	if r.minInterval == 0 {
		return true
	}
	if r.lastForward.IsZero() {
		return true
	}
	return now.Sub(r.lastForward) >= r.minInterval
}

// MarkForwarded records that a forward actually happened at now.
func (r *RateLimiter) MarkForwarded(now time.Time) {
	r.lastForward = now
}

// Elapsed returns the time since the last forward, for diagnostics.
func (r *RateLimiter) Elapsed(now time.Time) time.Duration {
	if r.lastForward.IsZero() {
		return 0
	}
	return now.Sub(r.lastForward)
}
