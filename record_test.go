package tweetstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecord(t *testing.T) {
	line := []byte(`{"created_at":"Wed Aug 27 13:08:45 +0000 2008","id_str":"114","text":"gopher news","user":{"id_str":"7","screen_name":"gopher","name":"Go Pher"}}`)

	rec, err := decodeRecord(line)
	require.NoError(t, err)

	assert.Equal(t, "114", rec.ID)
	require.True(t, rec.HasText())
	assert.Equal(t, "gopher news", *rec.Text)
	assert.Equal(t, "Wed Aug 27 13:08:45 +0000 2008", rec.CreatedAt)
	require.NotNil(t, rec.User)
	assert.Equal(t, "gopher", rec.User.ScreenName)
	assert.Equal(t, "Go Pher", rec.User.Name)
	assert.Equal(t, line, rec.Raw)
}

func TestDecodeRecordWithoutText(t *testing.T) {
	// Deletion notices and limit events carry no text key.
	rec, err := decodeRecord([]byte(`{"delete":{"status":{"id_str":"99"}}}`))
	require.NoError(t, err)

	assert.False(t, rec.HasText())
	assert.Nil(t, rec.Text)
	assert.Empty(t, rec.ID)
}

func TestDecodeRecordEmptyText(t *testing.T) {
	// An empty text value is still a present text key.
	rec, err := decodeRecord([]byte(`{"id_str":"5","text":""}`))
	require.NoError(t, err)

	require.True(t, rec.HasText())
	assert.Empty(t, *rec.Text)
}

func TestDecodeRecordMalformed(t *testing.T) {
	_, err := decodeRecord([]byte(`{"id_str":"5",`))
	assert.Error(t, err)
}

func TestHasTextNilReceiver(t *testing.T) {
	var rec *Record
	assert.False(t, rec.HasText())
}
