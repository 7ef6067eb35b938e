package tweetstream

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *StreamError
		want string
	}{
		{
			name: "with status",
			err:  newStreamError("connect", "https://example.com/stream", 401, ErrAuthFailed),
			want: "tweetstream: connect https://example.com/stream failed with status 401: tweetstream: could not authenticate",
		},
		{
			name: "without status",
			err:  newStreamError("read", "https://example.com/stream", 0, ErrReconnectImmediately),
			want: "tweetstream: read https://example.com/stream failed: tweetstream: reconnect immediately",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestStreamErrorUnwrap(t *testing.T) {
	inner := fmt.Errorf("%w: socket gone", ErrReconnectImmediately)
	var err error = newStreamError("read", "https://example.com/stream", 0, inner)

	assert.ErrorIs(t, err, ErrReconnectImmediately)
	assert.NotErrorIs(t, err, ErrAuthFailed)

	var se *StreamError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "read", se.Op)
	assert.Equal(t, "https://example.com/stream", se.URL)
}
