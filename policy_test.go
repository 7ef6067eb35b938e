package tweetstream

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ReconnectPolicy
	}{
		{
			name: "immediate through wrapping",
			err:  fmt.Errorf("pull failed: %w", ErrReconnectImmediately),
			want: PolicyImmediate,
		},
		{
			name: "linear",
			err:  ErrReconnectLinearly,
			want: PolicyLinear,
		},
		{
			name: "exponential through StreamError",
			err: newStreamError("connect", "https://example.com", 404,
				fmt.Errorf("%w: endpoint not available", ErrReconnectExponentially)),
			want: PolicyExponential,
		},
		{
			name: "auth failure is fatal",
			err:  newStreamError("connect", "https://example.com", 401, ErrAuthFailed),
			want: PolicyFatal,
		},
		{
			name: "closed stream is fatal",
			err:  ErrStreamClosed,
			want: PolicyFatal,
		},
		{
			name: "unclassified error is fatal",
			err:  errors.New("boom"),
			want: PolicyFatal,
		},
		{
			name: "nil is fatal",
			err:  nil,
			want: PolicyFatal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PolicyFor(tt.err))
		})
	}
}

func TestPolicyString(t *testing.T) {
	assert.Equal(t, "fatal", PolicyFatal.String())
	assert.Equal(t, "immediate", PolicyImmediate.String())
	assert.Equal(t, "linear", PolicyLinear.String())
	assert.Equal(t, "exponential", PolicyExponential.String())
	assert.Equal(t, "unknown", ReconnectPolicy(42).String())
}

func TestBackOffImmediate(t *testing.T) {
	bo := PolicyImmediate.BackOff()
	assert.Equal(t, time.Duration(0), bo.NextBackOff())
	assert.Equal(t, time.Duration(0), bo.NextBackOff())
}

func TestBackOffLinear(t *testing.T) {
	bo := PolicyLinear.BackOff()
	assert.Equal(t, 250*time.Millisecond, bo.NextBackOff())
	assert.Equal(t, 500*time.Millisecond, bo.NextBackOff())
	assert.Equal(t, 750*time.Millisecond, bo.NextBackOff())

	// Additive growth stops at the maximum.
	var last time.Duration
	for i := 0; i < 100; i++ {
		last = bo.NextBackOff()
	}
	assert.Equal(t, 16*time.Second, last)

	bo.Reset()
	assert.Equal(t, 250*time.Millisecond, bo.NextBackOff())
}

func TestBackOffExponential(t *testing.T) {
	bo := PolicyExponential.BackOff()

	// First delay is 5s with up to 50% jitter either way. The library
	// default is 500ms; a schedule starting there means the configured
	// interval never took effect.
	first := bo.NextBackOff()
	require.NotEqual(t, backoff.Stop, first)
	assert.GreaterOrEqual(t, first, 2500*time.Millisecond)
	assert.LessOrEqual(t, first, 7500*time.Millisecond)

	// Second delay doubles from the configured base: 10s jittered.
	second := bo.NextBackOff()
	require.NotEqual(t, backoff.Stop, second)
	assert.GreaterOrEqual(t, second, 5*time.Second)
	assert.LessOrEqual(t, second, 15*time.Second)

	// Delays never exceed the 320s ceiling plus jitter, and never stop.
	for i := 0; i < 50; i++ {
		d := bo.NextBackOff()
		require.NotEqual(t, backoff.Stop, d)
		assert.LessOrEqual(t, d, 480*time.Second)
	}
}

func TestBackOffFatal(t *testing.T) {
	bo := PolicyFatal.BackOff()
	assert.Equal(t, backoff.Stop, bo.NextBackOff())
}
