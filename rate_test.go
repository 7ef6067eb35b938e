package tweetstream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateTrackerStaleWindow(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tr := rateTracker{period: 10 * time.Second}

	tr.start(base)
	for i := 0; i < 20; i++ {
		tr.record()
	}

	// Inside the window the previous figure holds, arrivals notwithstanding.
	assert.Zero(t, tr.current(base.Add(9*time.Second)))

	// Once the window runs out, the next query recomputes over the actual
	// elapsed time, not the nominal period.
	got := tr.current(base.Add(10*time.Second + 500*time.Millisecond))
	assert.InDelta(t, 20/10.5, got, 1e-9)

	// The fresh figure then stays until the new window closes.
	tr.record()
	assert.InDelta(t, 20/10.5, tr.current(base.Add(12*time.Second)), 1e-9)

	// Second window: one record over the 11s since the last recompute.
	got = tr.current(base.Add(21*time.Second + 500*time.Millisecond))
	assert.InDelta(t, 1/11.0, got, 1e-9)
}

func TestRateTrackerPeriodBoundary(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tr := rateTracker{period: 10 * time.Second}

	tr.start(base)
	tr.record()

	// Exactly at the boundary the window is still open.
	assert.Zero(t, tr.current(base.Add(10*time.Second)))
	assert.NotZero(t, tr.current(base.Add(10*time.Second+time.Millisecond)))
}

func TestRateTrackerQueryBeforeStart(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tr := rateTracker{period: 10 * time.Second}

	// Querying with no window open starts one instead of dividing by a
	// missing timestamp.
	assert.Zero(t, tr.current(base))

	tr.record()
	assert.InDelta(t, 1/11.0, tr.current(base.Add(11*time.Second)), 1e-9)
}

func TestRateTrackerStartIsIdempotent(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tr := rateTracker{period: 10 * time.Second}

	tr.start(base)
	tr.record()

	// Reconnects call start again; an open window must not be clobbered.
	tr.start(base.Add(5 * time.Second))
	assert.InDelta(t, 1/11.0, tr.current(base.Add(11*time.Second)), 1e-9)
}
