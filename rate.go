package tweetstream

import "time"

// DefaultRatePeriod is how long a rate window stays open before the
// throughput figure is recomputed. Override with WithRatePeriod.
const DefaultRatePeriod = 10 * time.Second

// rateTracker computes records-per-second over fixed windows.
//
// The figure is intentionally stale: it is recomputed at most once per
// period, when queried after the window has run out. Queries inside an open
// window return the previous figure unchanged, so hot loops can read the
// rate on every record without churning it.
//
// Callers pass the clock in, which keeps the arithmetic testable.
type rateTracker struct {
	period      time.Duration
	windowStart time.Time
	windowCount int64
	rate        float64
}

// record counts one event in the open window.
func (t *rateTracker) record() {
	t.windowCount++
}

// start opens a window at now if none is open. Called on connect so the
// first window measures from the start of the session, not from the first
// rate query.
func (t *rateTracker) start(now time.Time) {
	if t.windowStart.IsZero() {
		t.windowStart = now
	}
}

// current returns records per second. If the window has been open longer
// than the period, the rate is recomputed from the window's count and a new
// window opens; otherwise the previous figure is returned.
func (t *rateTracker) current(now time.Time) float64 {
	if t.windowStart.IsZero() {
		t.windowStart = now
		return t.rate
	}

	elapsed := now.Sub(t.windowStart)
	if elapsed > t.period {
		t.rate = float64(t.windowCount) / elapsed.Seconds()
		t.windowCount = 0
		t.windowStart = now
	}
	return t.rate
}
