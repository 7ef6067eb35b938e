package tweetstream

import "encoding/json"

// Record is one decoded record from the stream.
//
// The typed fields cover the subset of the wire format the client itself
// cares about. The full payload is always preserved in Raw; unmarshal Raw
// into your own types to reach fields not mapped here (delete notices,
// entities, extended tweets, and so on).
type Record struct {
	// ID is the record's string identifier.
	ID string `json:"id_str,omitempty"`

	// Text is the status text. It is nil when the record carries no text
	// key at all, which is how the API shapes deletions, limit notices and
	// other non-status events. Use HasText to branch on presence.
	Text *string `json:"text,omitempty"`

	// CreatedAt is the server-side creation timestamp, in the API's
	// "Mon Jan 02 15:04:05 -0700 2006" format.
	CreatedAt string `json:"created_at,omitempty"`

	// User is the author, when the record is a status.
	User *User `json:"user,omitempty"`

	// Raw is the exact line as received, without the trailing newline.
	// In raw mode it is the only populated field.
	Raw []byte `json:"-"`
}

// User identifies the author of a status.
type User struct {
	ID         string `json:"id_str,omitempty"`
	ScreenName string `json:"screen_name,omitempty"`
	Name       string `json:"name,omitempty"`
}

// HasText reports whether the record carried a text key on the wire.
// Only records with text count toward Stats.Count in decoded mode.
func (r *Record) HasText() bool {
	return r != nil && r.Text != nil
}

// decodeRecord parses one wire line into a Record, keeping the original
// bytes alongside the typed fields.
func decodeRecord(line []byte) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(line, &rec); err != nil {
		return nil, err
	}
	rec.Raw = line
	return &rec, nil
}
