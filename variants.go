package tweetstream

import (
	"context"
	"net/url"
	"strings"
)

// Default endpoint URLs for the three API variants.
// Override with WithEndpoint.
const (
	SampleEndpoint = "https://stream.twitter.com/1/statuses/sample.json"
	FilterEndpoint = "https://stream.twitter.com/1.1/statuses/filter.json"
	UserEndpoint   = "https://userstream.twitter.com/1.1/user.json"
)

// NewSampleStream returns a stream over a random sample of all public
// statuses. No network request is made until the first call to Next.
//
// Example:
//
//	s := tweetstream.NewSampleStream(ctx, creds)
//	defer s.Close()
func NewSampleStream(ctx context.Context, creds Credentials, opts ...Option) *Stream {
	return newStream(ctx, creds, SampleEndpoint, nil, opts...)
}

// NewUserStream returns a stream of events and statuses for the
// authenticated account. No network request is made until the first call to
// Next.
func NewUserStream(ctx context.Context, creds Credentials, opts ...Option) *Stream {
	return newStream(ctx, creds, UserEndpoint, nil, opts...)
}

// FilterQuery selects which statuses a filter stream delivers.
// At least one predicate must be set; the server rejects empty filters.
type FilterQuery struct {
	// Follow lists user IDs whose statuses to deliver.
	Follow []string

	// Locations lists bounding boxes as "lng,lat" corner pairs; statuses
	// geotagged inside any box are delivered.
	Locations []string

	// Track lists phrases to match against status text.
	Track []string
}

// values serializes the query as the endpoint's form payload: each predicate
// comma-joined under its own field, and absent entirely when empty.
func (q FilterQuery) values() url.Values {
	v := url.Values{}
	if len(q.Follow) > 0 {
		v.Set("follow", strings.Join(q.Follow, ","))
	}
	if len(q.Locations) > 0 {
		v.Set("locations", strings.Join(q.Locations, ","))
	}
	if len(q.Track) > 0 {
		v.Set("track", strings.Join(q.Track, ","))
	}
	return v
}

// NewFilterStream returns a stream of statuses matching the query. The query
// is sent as a form-encoded POST body on every connect, reconnects included.
// No network request is made until the first call to Next.
//
// Example:
//
//	s := tweetstream.NewFilterStream(ctx, creds, tweetstream.FilterQuery{
//	    Track: []string{"golang", "gopher"},
//	})
//	defer s.Close()
func NewFilterStream(ctx context.Context, creds Credentials, q FilterQuery, opts ...Option) *Stream {
	return newStream(ctx, creds, FilterEndpoint, q.values(), opts...)
}
