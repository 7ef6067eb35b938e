package tweetstream

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/dghubble/oauth1"
)

// newHTTPClient builds the stream's HTTP client: an OAuth1-signing transport
// over a streaming-tuned base transport. A client supplied via
// WithHTTPClient bypasses all of it, signing included.
func newHTTPClient(creds Credentials, cfg *config) *http.Client {
	if cfg.httpClient != nil {
		return cfg.httpClient
	}

	base := &http.Client{
		// No global timeout: the response body is read for the lifetime of
		// the connection. Read stalls are bounded by WithTimeout instead.
		Timeout:   0,
		Transport: newTransport(cfg.timeout),
	}

	// The signer wraps whatever client rides in on the context.
	octx := context.WithValue(context.Background(), oauth1.HTTPClient, base)
	oaCfg := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	return oaCfg.Client(octx, oauth1.NewToken(creds.AccessToken, creds.AccessSecret))
}

// newTransport returns a transport tuned for one long-lived connection:
// bounded dial and handshake phases, no read deadline of its own. When
// readTimeout is non-zero, every conn it dials re-arms a read deadline
// before each read.
func newTransport(readTimeout time.Duration) *http.Transport {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	dialContext := dialer.DialContext
	if readTimeout > 0 {
		dialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			return &deadlineConn{Conn: conn, timeout: readTimeout}, nil
		}
	}

	return &http.Transport{
		DialContext:           dialContext,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		DisableCompression:    false,
		ForceAttemptHTTP2:     true,
	}
}

// deadlineConn arms a fresh read deadline before every read so a wedged
// server fails the pull instead of blocking it forever.
type deadlineConn struct {
	net.Conn
	timeout time.Duration
}

func (c *deadlineConn) Read(p []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Read(p)
}
