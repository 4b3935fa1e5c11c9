package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampCursorRoundTrip(t *testing.T) {
	token := EncodeTimestampCursor(1714000000123)

	ts, err := DecodeTimestampCursor(token)

	require.NoError(t, err)
	assert.Equal(t, int64(1714000000123), ts)
}

func TestAliasCursorRoundTrip(t *testing.T) {
	token := EncodeAliasCursor("some_user")

	alias, err := DecodeAliasCursor(token)

	require.NoError(t, err)
	assert.Equal(t, "some_user", alias)
}

func TestDecodeCursor_RejectsGarbage(t *testing.T) {
	_, err := DecodeTimestampCursor("not-a-cursor!!")
	assert.Error(t, err)

	_, err = DecodeAliasCursor("%%%")
	assert.Error(t, err)
}

func TestClampPageSize(t *testing.T) {
	assert.Equal(t, int32(DefaultPageSize), ClampPageSize(0))
	assert.Equal(t, int32(DefaultPageSize), ClampPageSize(-5))
	assert.Equal(t, int32(7), ClampPageSize(7))
	assert.Equal(t, int32(MaxPageSize), ClampPageSize(5000))
}
