package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStatus_Validation(t *testing.T) {
	author := UserRef{Alias: "alice", FirstName: "Alice", LastName: "Author"}

	tests := []struct {
		name    string
		post    string
		author  UserRef
		ts      int64
		wantErr error
	}{
		{"valid", "hello", author, 1000, nil},
		{"empty post", "   ", author, 1000, ErrEmptyPost},
		{"missing author", "hello", UserRef{}, 1000, ErrMissingAuthor},
		{"zero timestamp", "hello", author, 0, ErrBadTimestamp},
		{"negative timestamp", "hello", author, -5, ErrBadTimestamp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, err := NewStatus(tt.post, tt.author, tt.ts)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ts, status.Timestamp)
		})
	}
}

func TestStatusPayloadRoundTrip(t *testing.T) {
	status, err := NewStatus("hello", UserRef{
		Alias:     "alice",
		FirstName: "Alice",
		LastName:  "Author",
		ImageURL:  "https://img/alice",
	}, 1000)
	require.NoError(t, err)

	payload := PayloadFromStatus(status)
	back, err := payload.ToStatus()

	require.NoError(t, err)
	assert.Equal(t, status, back)
}

func TestStatusPayload_WireFieldNames(t *testing.T) {
	// The queue payload field names are a contract between the
	// orchestrator and the worker stages.
	payload := StatusPayload{
		StatusBody:     "hello",
		AuthorIdentity: "alice",
		Timestamp:      1000,
	}

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(body, &fields))
	assert.Contains(t, fields, "statusBody")
	assert.Contains(t, fields, "authorIdentity")
	assert.Contains(t, fields, "authorDisplayFields")
	assert.Contains(t, fields, "timestamp")
}

func TestSessionExpired(t *testing.T) {
	session := &Session{Token: "t", Alias: "alice", IssuedAt: time.Now()}

	assert.False(t, session.Expired(time.Now()))
	assert.False(t, session.Expired(session.IssuedAt.Add(SessionTTL-time.Second)))
	assert.True(t, session.Expired(session.IssuedAt.Add(SessionTTL+time.Second)))
}
