// Package tweetstream provides a Go client for Twitter-style streaming APIs.
//
// The streaming API holds an HTTP POST connection open indefinitely and sends
// an unbounded sequence of newline-delimited JSON records, interleaved with
// blank keep-alive lines. This client maintains one such connection, decodes
// records one at a time, tracks throughput, and classifies every failure into
// a small set of reconnection policies. It never sleeps or retries on its
// own: reconnection timing is the caller's decision.
//
// # Basic Usage
//
// Construct a stream for one of the API variants and pull records:
//
//	creds := tweetstream.Credentials{
//	    ConsumerKey:    "...",
//	    ConsumerSecret: "...",
//	    AccessToken:    "...",
//	    AccessSecret:   "...",
//	}
//
//	s := tweetstream.NewSampleStream(ctx, creds)
//	defer s.Close()
//
//	for {
//	    rec, err := s.Next()
//	    if err != nil {
//	        return err
//	    }
//	    if rec.HasText() {
//	        fmt.Println(*rec.Text)
//	    }
//	}
//
// Or with Go 1.23+ range syntax:
//
//	for rec, err := range s.Records() {
//	    if err != nil {
//	        return err
//	    }
//	    process(rec)
//	}
//
// # Error Handling and Reconnection
//
// Every error crossing the API wraps one of the exported sentinels:
//
//	if errors.Is(err, tweetstream.ErrAuthFailed) {
//	    // 401: fix credentials, do not retry
//	}
//	if errors.Is(err, tweetstream.ErrReconnectImmediately) {
//	    // mid-stream disconnect or garbled record: reconnect right away
//	}
//
// A Stream does not reconnect behind the caller's back. After a fault, the
// next call to Next establishes one fresh connection and resumes; how long to
// wait between calls is derived from the error:
//
//	pol := tweetstream.PolicyFor(err)
//	if pol == tweetstream.PolicyFatal {
//	    return err
//	}
//	bo := pol.BackOff()
//	time.Sleep(bo.NextBackOff())
//
// For detailed context, use errors.As with StreamError:
//
//	var se *tweetstream.StreamError
//	if errors.As(err, &se) {
//	    fmt.Println("Status:", se.StatusCode)
//	}
//
// # Concurrency
//
// A Stream is a single-consumer object: Next must not be called from more
// than one goroutine. Close and the Stats accessors are safe to call from
// other goroutines, so a metrics scraper or a shutdown path can observe and
// stop a stream while a pull is in flight.
package tweetstream
