// Package tweetstreamtest provides testing utilities for streaming API
// clients.
//
// The package includes a scripted in-process server that speaks the
// streaming wire format: a POST handshake followed by newline-delimited JSON
// records and blank keep-alive lines. Each scripted Conn answers one
// connection, so reconnect behavior can be exercised deterministically.
//
// Example:
//
//	func TestMyConsumer(t *testing.T) {
//	    srv := tweetstreamtest.NewServer(tweetstreamtest.Conn{
//	        Lines: []string{`{"id_str":"1","text":"hello"}`},
//	    })
//	    defer srv.Close()
//
//	    s := tweetstream.NewSampleStream(ctx, creds,
//	        tweetstream.WithEndpoint(srv.URL()))
//	    defer s.Close()
//	    // ...
//	}
package tweetstreamtest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
)

// Conn scripts one accepted connection.
type Conn struct {
	// Status is the handshake status code. Zero means 200.
	Status int

	// Lines are written to the body in order, each terminated with CRLF.
	// An empty string writes a bare keep-alive line.
	Lines []string

	// Hang keeps the connection open after Lines until either side closes
	// it. Default is to close, which the client observes as EOF.
	Hang bool
}

// Server is a scripted in-process streaming server. Connections consume the
// script in order; connections beyond the script are answered with 404.
type Server struct {
	server    *httptest.Server
	done      chan struct{}
	closeOnce sync.Once

	mu          sync.Mutex
	script      []Conn
	connects    int
	forms       []url.Values
	userAgents  []string
	auths       []string
	consumerKey string
}

// NewServer starts a server that plays the scripted connections in order.
func NewServer(script ...Conn) *Server {
	s := &Server{
		script: script,
		done:   make(chan struct{}),
	}
	s.server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// URL returns the server's base URL, for use with WithEndpoint.
func (s *Server) URL() string {
	return s.server.URL
}

// Queue appends connections to the script.
func (s *Server) Queue(conns ...Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.script = append(s.script, conns...)
}

// RequireConsumerKey makes the server reject with 401 any connection whose
// OAuth Authorization header does not carry the given consumer key.
func (s *Server) RequireConsumerKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consumerKey = key
}

// Connects returns how many connections the server has accepted.
func (s *Server) Connects() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connects
}

// Forms returns the form payload of each connection, in order.
func (s *Server) Forms() []url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]url.Values(nil), s.forms...)
}

// LastForm returns the form payload of the most recent connection, or nil if
// none connected yet.
func (s *Server) LastForm() url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.forms) == 0 {
		return nil
	}
	return s.forms[len(s.forms)-1]
}

// UserAgents returns the User-Agent header of each connection, in order.
func (s *Server) UserAgents() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.userAgents...)
}

// Authorizations returns the Authorization header of each connection, in
// order.
func (s *Server) Authorizations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.auths...)
}

// Close releases hanging connections and shuts the server down.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	s.server.Close()
}

// handle answers one connection from the script.
func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	r.ParseForm()

	s.mu.Lock()
	s.connects++
	s.forms = append(s.forms, cloneValues(r.PostForm))
	s.userAgents = append(s.userAgents, r.UserAgent())
	s.auths = append(s.auths, r.Header.Get("Authorization"))
	key := s.consumerKey
	s.mu.Unlock()

	// A rejected connection must not consume a scripted entry.
	if key != "" && !strings.Contains(r.Header.Get("Authorization"), `oauth_consumer_key="`+key+`"`) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
		return
	}

	s.mu.Lock()
	var conn Conn
	if len(s.script) > 0 {
		conn = s.script[0]
		s.script = s.script[1:]
	} else {
		conn = Conn{Status: http.StatusNotFound}
	}
	s.mu.Unlock()

	if conn.Status != 0 && conn.Status != http.StatusOK {
		http.Error(w, http.StatusText(conn.Status), conn.Status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	for _, line := range conn.Lines {
		fmt.Fprintf(w, "%s\r\n", line)
		if flusher != nil {
			flusher.Flush()
		}
	}

	if conn.Hang {
		select {
		case <-s.done:
		case <-r.Context().Done():
		}
	}
}

// cloneValues copies form values out of the request before it is recycled.
func cloneValues(v url.Values) url.Values {
	clone := url.Values{}
	for k, vs := range v {
		clone[k] = append([]string(nil), vs...)
	}
	return clone
}
