package tweetstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/domrout/tweetstream-auth/internal/lines"
)

// connState is the connection lifecycle position of a Stream.
type connState int

const (
	stateDisconnected connState = iota
	stateConnecting
	stateConnected
)

// Stats is a point-in-time snapshot of a stream's counters.
type Stats struct {
	// Connected reports whether a live connection is currently held.
	Connected bool

	// StartTime is when the stream's first connection succeeded.
	// Zero until then; reconnects within the same Stream do not reset it.
	StartTime time.Time

	// Count is the number of records yielded so far. In decoded mode only
	// records carrying text count; in raw mode every line counts.
	Count int64

	// Rate is throughput in records per second, recomputed at most once per
	// rate period. See WithRatePeriod.
	Rate float64
}

// Stream is one logical session against a streaming endpoint.
//
// A Stream connects lazily: constructing one performs no I/O, and the first
// call to Next establishes the connection. After a fault the connection is
// dropped and the next call establishes a fresh one; each call performs at
// most one connection attempt, so the caller's loop controls retry pacing.
//
// Next must be called from a single goroutine. Close, Connected and Stats
// may be called from any goroutine.
type Stream struct {
	endpoint  string
	form      url.Values
	raw       bool
	userAgent string

	httpClient *http.Client
	logger     *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	// Pull-side state, touched only by the goroutine calling Next.
	state   connState
	body    io.ReadCloser
	scanner *lines.Scanner
	connID  string

	// Observable counters, shared with Stats and metrics readers.
	mu        sync.Mutex
	closed    bool
	connected bool
	startTime time.Time
	count     int64
	tracker   rateTracker

	now func() time.Time
}

// newStream wires a Stream for one endpoint. Variant constructors supply the
// endpoint and form payload; options adjust the rest.
func newStream(ctx context.Context, creds Credentials, endpoint string, form url.Values, opts ...Option) *Stream {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.endpoint != "" {
		endpoint = cfg.endpoint
	}
	if cfg.catchup > 0 {
		cfg.logger.Debug("catchup requested; endpoint does not support backfill",
			zap.Int("records", cfg.catchup))
	}

	sctx, cancel := context.WithCancel(ctx)
	return &Stream{
		endpoint:   endpoint,
		form:       form,
		raw:        cfg.raw,
		userAgent:  cfg.userAgent,
		httpClient: newHTTPClient(creds, cfg),
		logger:     cfg.logger,
		ctx:        sctx,
		cancel:     cancel,
		tracker:    rateTracker{period: cfg.ratePeriod},
		now:        time.Now,
	}
}

// Endpoint returns the URL this stream connects to.
func (s *Stream) Endpoint() string {
	return s.endpoint
}

// Next returns the next record from the stream, blocking until one arrives.
//
// If the stream is disconnected, Next first establishes a connection; connect
// failures surface as ErrAuthFailed or ErrReconnectExponentially. Faults on
// an established connection (disconnects, read timeouts, undecodable
// records) drop the connection and surface as ErrReconnectImmediately; the
// call after a fault connects anew. Classify with PolicyFor or errors.Is.
func (s *Stream) Next() (*Record, error) {
	if err := s.usable(); err != nil {
		return nil, err
	}

	if s.state != stateConnected {
		if err := s.connect(); err != nil {
			return nil, err
		}
	}

	line, err := s.scanner.Next()
	if err != nil {
		return nil, s.readFailed(err)
	}

	if s.raw {
		rec := &Record{Raw: line}
		s.observe(true)
		return rec, nil
	}

	rec, err := decodeRecord(line)
	if err != nil {
		s.drop()
		return nil, newStreamError("decode", s.endpoint, 0,
			fmt.Errorf("%w: undecodable record %q: %v", ErrReconnectImmediately, line, err))
	}
	s.observe(rec.HasText())
	return rec, nil
}

// connect establishes the streaming connection and interprets the handshake.
func (s *Stream) connect() error {
	s.state = stateConnecting
	s.connID = uuid.NewString()

	log := s.logger.With(
		zap.String("endpoint", s.endpoint),
		zap.String("conn_id", s.connID))
	log.Debug("connecting")

	var body io.Reader
	if len(s.form) > 0 {
		body = strings.NewReader(s.form.Encode())
	}
	req, err := http.NewRequestWithContext(s.ctx, http.MethodPost, s.endpoint, body)
	if err != nil {
		s.state = stateDisconnected
		return newStreamError("connect", s.endpoint, 0,
			fmt.Errorf("%w: %v", ErrReconnectExponentially, err))
	}
	req.Header.Set("User-Agent", s.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.state = stateDisconnected
		if s.ctx.Err() != nil {
			return ErrStreamClosed
		}
		log.Debug("connect failed", zap.Error(err))
		return newStreamError("connect", s.endpoint, 0,
			fmt.Errorf("%w: %v", ErrReconnectExponentially, err))
	}

	switch resp.StatusCode {
	case http.StatusOK:
		// Stream established.
	case http.StatusUnauthorized:
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		s.state = stateDisconnected
		log.Warn("authentication rejected", zap.Int("status", resp.StatusCode))
		return newStreamError("connect", s.endpoint, resp.StatusCode, ErrAuthFailed)
	case http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		s.state = stateDisconnected
		return newStreamError("connect", s.endpoint, resp.StatusCode,
			fmt.Errorf("%w: endpoint not available", ErrReconnectExponentially))
	default:
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		s.state = stateDisconnected
		log.Debug("unexpected handshake status", zap.Int("status", resp.StatusCode))
		return newStreamError("connect", s.endpoint, resp.StatusCode,
			fmt.Errorf("%w: unexpected status", ErrReconnectExponentially))
	}

	s.body = resp.Body
	s.scanner = lines.NewScanner(resp.Body)
	s.state = stateConnected

	now := s.now()
	s.mu.Lock()
	s.connected = true
	if s.startTime.IsZero() {
		s.startTime = now
	}
	s.tracker.start(now)
	s.mu.Unlock()

	log.Debug("connected")
	return nil
}

// readFailed classifies a mid-stream read error and drops the connection.
func (s *Stream) readFailed(err error) error {
	s.drop()

	if s.ctx.Err() != nil {
		return ErrStreamClosed
	}

	werr := fmt.Errorf("%w: server disconnected: %v", ErrReconnectImmediately, err)
	if errors.Is(err, io.EOF) {
		werr = fmt.Errorf("%w: server closed the stream", ErrReconnectImmediately)
	}
	return newStreamError("read", s.endpoint, 0, werr)
}

// drop abandons the live connection after a fault. Counters survive; the
// next pull starts fresh.
func (s *Stream) drop() {
	if s.body != nil {
		s.body.Close()
		s.body = nil
	}
	s.scanner = nil
	s.state = stateDisconnected

	s.mu.Lock()
	s.connected = false
	s.mu.Unlock()

	s.logger.Debug("disconnected",
		zap.String("endpoint", s.endpoint),
		zap.String("conn_id", s.connID))
}

// observe updates the counters for one yielded record.
func (s *Stream) observe(counted bool) {
	if !counted {
		return
	}
	s.mu.Lock()
	s.count++
	s.tracker.record()
	s.mu.Unlock()
}

// usable rejects pulls on closed or cancelled streams.
func (s *Stream) usable() error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()

	if closed || s.ctx.Err() != nil {
		return ErrStreamClosed
	}
	return nil
}

// Close shuts the stream down and releases its connection. It is idempotent
// and safe to call from any goroutine, including while a Next call is
// blocked: cancelling the session context unblocks the in-flight read.
// Implements io.Closer.
func (s *Stream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.connected = false
	s.mu.Unlock()

	// Cancelling the context tears down the transport's connection; the
	// pull side cleans up its own state when its read fails.
	s.cancel()

	s.logger.Debug("stream closed", zap.String("endpoint", s.endpoint))
	return nil
}

// Connected reports whether the stream currently holds a live connection.
func (s *Stream) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Stats returns a snapshot of the stream's counters. Querying may roll the
// rate window; see Stats.Rate.
func (s *Stream) Stats() Stats {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Connected: s.connected,
		StartTime: s.startTime,
		Count:     s.count,
		Rate:      s.tracker.current(now),
	}
}

// Ensure Stream implements io.Closer
var _ io.Closer = (*Stream)(nil)
