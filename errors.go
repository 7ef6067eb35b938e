package tweetstream

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying every stream fault.
// Check with errors.Is; each tells the caller how to reconnect.
var (
	// ErrAuthFailed indicates the server rejected the credentials (401).
	// Fatal: retrying with the same credentials cannot succeed.
	ErrAuthFailed = errors.New("tweetstream: could not authenticate")

	// ErrReconnectImmediately indicates the connection dropped mid-stream or
	// a record arrived garbled. Reconnect without delay.
	ErrReconnectImmediately = errors.New("tweetstream: reconnect immediately")

	// ErrReconnectLinearly indicates the caller should reconnect with
	// linearly increasing delays. The client never raises this itself; it is
	// defined for callers layering their own rate-limit handling.
	ErrReconnectLinearly = errors.New("tweetstream: reconnect with linearly increasing delay")

	// ErrReconnectExponentially indicates connection establishment failed at
	// the HTTP or network level. Reconnect with exponentially increasing
	// delays.
	ErrReconnectExponentially = errors.New("tweetstream: reconnect with exponentially increasing delay")

	// ErrStreamClosed indicates the stream was used after Close, or its
	// context was cancelled. Not a stream fault; construct a new Stream.
	ErrStreamClosed = errors.New("tweetstream: stream already closed")
)

// StreamError wraps errors with additional context about the failed operation.
type StreamError struct {
	// Op is the operation that failed: "connect", "read", "decode".
	Op string

	// URL is the endpoint URL.
	URL string

	// StatusCode is the HTTP status code, if available.
	StatusCode int

	// Err is the underlying error, always wrapping one of the sentinels.
	Err error
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("tweetstream: %s %s failed with status %d: %v", e.Op, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("tweetstream: %s %s failed: %v", e.Op, e.URL, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *StreamError) Unwrap() error {
	return e.Err
}

// newStreamError creates a StreamError for a failed stream operation.
func newStreamError(op, url string, statusCode int, err error) *StreamError {
	return &StreamError{
		Op:         op,
		URL:        url,
		StatusCode: statusCode,
		Err:        err,
	}
}
