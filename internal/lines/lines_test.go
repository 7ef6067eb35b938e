package lines

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScannerNext(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "lf separated",
			input: "{\"a\":1}\n{\"b\":2}\n",
			want:  []string{`{"a":1}`, `{"b":2}`},
		},
		{
			name:  "crlf separated",
			input: "{\"a\":1}\r\n{\"b\":2}\r\n",
			want:  []string{`{"a":1}`, `{"b":2}`},
		},
		{
			name:  "keep-alive lines skipped",
			input: "\n\r\n{\"a\":1}\n\n\n{\"b\":2}\n\r\n",
			want:  []string{`{"a":1}`, `{"b":2}`},
		},
		{
			name:  "final line without newline",
			input: "{\"a\":1}\n{\"b\":2}",
			want:  []string{`{"a":1}`, `{"b":2}`},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "only keep-alives",
			input: "\n\n\r\n",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScanner(strings.NewReader(tt.input))

			var got []string
			for {
				line, err := s.Next()
				if err != nil {
					require.ErrorIs(t, err, io.EOF)
					break
				}
				got = append(got, string(line))
			}
			assert.Equal(t, tt.want, got)

			// Exhausted scanners keep returning EOF.
			_, err := s.Next()
			assert.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestScannerLongLine(t *testing.T) {
	// Longer than the bufio default buffer; ReadBytes must stitch fragments.
	long := strings.Repeat("x", 64*1024)
	s := NewScanner(strings.NewReader(long + "\nend\n"))

	line, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, long, string(line))

	line, err = s.Next()
	require.NoError(t, err)
	assert.Equal(t, "end", string(line))
}

func TestScannerReadError(t *testing.T) {
	readErr := errors.New("connection reset")
	s := NewScanner(io.MultiReader(
		strings.NewReader("{\"a\":1}\npartial"),
		&errReader{err: readErr},
	))

	line, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(line))

	// The trailing partial line is discarded in favor of the error.
	_, err = s.Next()
	assert.ErrorIs(t, err, readErr)
}

type errReader struct {
	err error
}

func (r *errReader) Read([]byte) (int, error) {
	return 0, r.err
}
