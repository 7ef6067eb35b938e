package tweetstream

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultUserAgent identifies the client on outgoing requests.
// Override per stream with WithUserAgent.
const DefaultUserAgent = "tweetstream-go/1.0"

// Credentials holds the four OAuth values issued for an application and an
// account. The client treats them as opaque: they are handed to the request
// signer and never inspected or logged.
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	AccessSecret   string
}

type config struct {
	endpoint   string
	raw        bool
	timeout    time.Duration
	catchup    int
	userAgent  string
	ratePeriod time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

func defaultConfig() *config {
	return &config{
		userAgent:  DefaultUserAgent,
		ratePeriod: DefaultRatePeriod,
		logger:     zap.NewNop(),
	}
}

// Option configures a Stream.
type Option func(*config)

// WithRaw disables JSON decoding: Next yields each wire line as-is in
// Record.Raw, every line counts toward Stats.Count, and malformed payloads
// pass through undetected.
func WithRaw() Option {
	return func(cfg *config) {
		cfg.raw = true
	}
}

// WithTimeout bounds how long a single read may block waiting for data. On
// expiry the pull fails with ErrReconnectImmediately. Default is no timeout:
// a quiet connection blocks until the server sends a keep-alive or the
// stream is closed.
func WithTimeout(d time.Duration) Option {
	return func(cfg *config) {
		cfg.timeout = d
	}
}

// WithEndpoint replaces the variant's default endpoint URL.
// Useful for proxies and for pointing a stream at a test server.
func WithEndpoint(url string) Option {
	return func(cfg *config) {
		cfg.endpoint = url
	}
}

// WithUserAgent sets the User-Agent header for all requests.
// Default is DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(cfg *config) {
		cfg.userAgent = ua
	}
}

// WithCatchup requests n records of backfill on connect. The value is
// accepted and logged but not transmitted; the endpoints this client targets
// ignore it.
func WithCatchup(n int) Option {
	return func(cfg *config) {
		cfg.catchup = n
	}
}

// WithRatePeriod sets the window length for the throughput figure in
// Stats.Rate. Default is DefaultRatePeriod.
func WithRatePeriod(d time.Duration) Option {
	return func(cfg *config) {
		cfg.ratePeriod = d
	}
}

// WithHTTPClient replaces the stream's HTTP client entirely, including the
// OAuth signing transport: requests go out exactly as built. Intended for
// tests and exotic transport setups.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *config) {
		cfg.httpClient = c
	}
}

// WithLogger sets the logger for connection lifecycle events.
// Default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *config) {
		cfg.logger = l
	}
}
