package tweetstream

import (
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ReconnectPolicy tells a caller how to schedule the next connection attempt
// after a stream fault. The client itself never sleeps or retries; it
// classifies, and the caller's loop decides.
type ReconnectPolicy int

const (
	// PolicyFatal means do not reconnect. Authentication failures, closed
	// streams, and unclassified errors land here: blindly retrying those
	// either hammers the server or masks a bug.
	PolicyFatal ReconnectPolicy = iota

	// PolicyImmediate means reconnect without delay.
	PolicyImmediate

	// PolicyLinear means reconnect with linearly increasing delays.
	PolicyLinear

	// PolicyExponential means reconnect with exponentially increasing delays.
	PolicyExponential
)

// Delay schedule per the streaming API's reconnection guidance.
const (
	linearStep     = 250 * time.Millisecond
	linearMax      = 16 * time.Second
	exponentialMin = 5 * time.Second
	exponentialMax = 320 * time.Second
)

func (p ReconnectPolicy) String() string {
	switch p {
	case PolicyFatal:
		return "fatal"
	case PolicyImmediate:
		return "immediate"
	case PolicyLinear:
		return "linear"
	case PolicyExponential:
		return "exponential"
	default:
		return "unknown"
	}
}

// PolicyFor classifies an error into a reconnect policy by matching the
// sentinel it wraps. Errors outside the taxonomy, ErrAuthFailed and
// ErrStreamClosed included, map to PolicyFatal.
func PolicyFor(err error) ReconnectPolicy {
	switch {
	case errors.Is(err, ErrReconnectImmediately):
		return PolicyImmediate
	case errors.Is(err, ErrReconnectLinearly):
		return PolicyLinear
	case errors.Is(err, ErrReconnectExponentially):
		return PolicyExponential
	default:
		return PolicyFatal
	}
}

// BackOff returns a fresh delay schedule for the policy.
//
// Example reconnect loop:
//
//	rec, err := s.Next()
//	if err != nil {
//	    bo := tweetstream.PolicyFor(err).BackOff()
//	    d := bo.NextBackOff()
//	    if d == backoff.Stop {
//	        return err
//	    }
//	    time.Sleep(d)
//	    continue // next call to Next reconnects
//	}
//
// PolicyExponential schedules start at 5s and double up to 320s, with
// jitter. PolicyLinear grows by 250ms per attempt up to 16s. PolicyFatal
// returns backoff.Stop on the first call.
func (p ReconnectPolicy) BackOff() backoff.BackOff {
	switch p {
	case PolicyImmediate:
		return &backoff.ZeroBackOff{}
	case PolicyLinear:
		return &linearBackOff{step: linearStep, max: linearMax}
	case PolicyExponential:
		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = exponentialMin
		bo.Multiplier = 2
		bo.MaxInterval = exponentialMax
		bo.MaxElapsedTime = 0 // never give up on elapsed time; the caller decides
		// The constructor arms the schedule from the 500ms default before
		// the assignments above; Reset re-arms it from InitialInterval.
		bo.Reset()
		return bo
	default:
		return &backoff.StopBackOff{}
	}
}

// linearBackOff grows the delay by a fixed step per attempt, up to a maximum.
type linearBackOff struct {
	step time.Duration
	max  time.Duration
	cur  time.Duration
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.cur += b.step
	if b.cur > b.max {
		b.cur = b.max
	}
	return b.cur
}

func (b *linearBackOff) Reset() {
	b.cur = 0
}

var _ backoff.BackOff = (*linearBackOff)(nil)
