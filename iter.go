package tweetstream

import (
	"errors"
	"iter"
)

// Records returns an iterator over records from the stream.
// Use with Go 1.23+ range syntax:
//
//	for rec, err := range s.Records() {
//	    if err != nil {
//	        return err
//	    }
//	    process(rec)
//	}
//
// The iterator yields records until the stream faults, yields that fault
// once, then stops; range the stream again to reconnect. It ends silently
// when the stream is closed. Callers that want per-fault reconnect control
// should call Next directly.
func (s *Stream) Records() iter.Seq2[*Record, error] {
	return func(yield func(*Record, error) bool) {
		for {
			rec, err := s.Next()
			if err != nil {
				if errors.Is(err, ErrStreamClosed) {
					return
				}
				yield(nil, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}
