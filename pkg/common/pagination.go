package common

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Pagination defaults shared by the paged read endpoints.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ClampPageSize bounds a caller-supplied page size.
func ClampPageSize(limit int32) int32 {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// cursorData is the decoded form of an opaque page token. Timestamp
// cursors page through story/feed reads; Alias cursors page through
// follower/followee listings.
type cursorData struct {
	Timestamp int64  `json:"ts,omitempty"`
	Alias     string `json:"alias,omitempty"`
}

// EncodeTimestampCursor creates a page token from the last-seen
// timestamp. Zero means the sequence is exhausted and yields no token.
func EncodeTimestampCursor(timestamp int64) string {
	if timestamp == 0 {
		return ""
	}
	return encodeCursor(cursorData{Timestamp: timestamp})
}

// DecodeTimestampCursor decodes a page token back into a timestamp.
// An empty token means start from the newest entry.
func DecodeTimestampCursor(token string) (int64, error) {
	if token == "" {
		return 0, nil
	}
	data, err := decodeCursor(token)
	if err != nil {
		return 0, err
	}
	return data.Timestamp, nil
}

// EncodeAliasCursor creates a page token from the last-seen alias.
func EncodeAliasCursor(alias string) string {
	if alias == "" {
		return ""
	}
	return encodeCursor(cursorData{Alias: alias})
}

// DecodeAliasCursor decodes a page token back into an alias.
func DecodeAliasCursor(token string) (string, error) {
	if token == "" {
		return "", nil
	}
	data, err := decodeCursor(token)
	if err != nil {
		return "", err
	}
	return data.Alias, nil
}

func encodeCursor(data cursorData) string {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(jsonData)
}

func decodeCursor(token string) (cursorData, error) {
	var data cursorData

	jsonData, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return data, fmt.Errorf("invalid cursor format: %w", err)
	}
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return data, fmt.Errorf("invalid cursor data: %w", err)
	}
	return data, nil
}
