// Package lines splits a streaming response body into newline-delimited
// records.
//
// Wire format from the streaming API:
//   - records are separated by LF, optionally preceded by CR
//   - blank lines are keep-alive signals, not records
//   - the final record may arrive without a trailing newline
package lines

import (
	"bufio"
	"bytes"
	"io"
)

// Scanner reads newline-delimited records from an io.Reader.
type Scanner struct {
	reader *bufio.Reader
}

// NewScanner creates a new line scanner from an io.Reader.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{
		reader: bufio.NewReader(r),
	}
}

// Next returns the next non-empty line with the trailing CR/LF removed.
// Blank keep-alive lines are skipped. A final unterminated line is returned
// before io.EOF surfaces. Lines may be arbitrarily long; the returned slice
// is freshly allocated and safe to retain.
func (s *Scanner) Next() ([]byte, error) {
	for {
		line, err := s.reader.ReadBytes('\n')
		line = bytes.TrimRight(line, "\r\n")

		if len(line) > 0 {
			if err != nil && err != io.EOF {
				// A partial line cut off by a transport error is not a
				// record; surface the error instead.
				return nil, err
			}
			return line, nil
		}

		if err != nil {
			return nil, err
		}
		// Keep-alive line, skip.
	}
}
