package domain

import (
	"errors"
	"strings"
)

// Sentinel validation errors shared across entities.
var (
	ErrEmptyAlias    = errors.New("alias must not be empty")
	ErrEmptyName     = errors.New("first and last name must not be empty")
	ErrEmptyPost     = errors.New("status body must not be empty")
	ErrBadTimestamp  = errors.New("status timestamp must be positive")
	ErrMissingAuthor = errors.New("status author is required")
)

// Status is a single post authored by one user. Statuses are immutable
// once created; the timestamp is supplied by the caller at post time and
// doubles as the sort key in both the story and feed tables.
type Status struct {
	Post      string  `json:"post"`
	Author    UserRef `json:"author"`
	Timestamp int64   `json:"timestamp"` // epoch millis
}

// NewStatus validates and constructs a status.
func NewStatus(post string, author UserRef, timestamp int64) (*Status, error) {
	if strings.TrimSpace(post) == "" {
		return nil, ErrEmptyPost
	}
	if author.Alias == "" {
		return nil, ErrMissingAuthor
	}
	if timestamp <= 0 {
		return nil, ErrBadTimestamp
	}
	return &Status{Post: post, Author: author, Timestamp: timestamp}, nil
}

// FollowEdge is a directed follower → followee relationship. Display
// fields for both ends are denormalized so listings never need a second
// lookup.
type FollowEdge struct {
	Follower  UserRef
	Followee  UserRef
	CreatedAt int64 // epoch millis
}

// FeedEntry is a denormalized copy of a status materialized into one
// recipient's feed. Keyed by (receiver, status timestamp), so
// re-applying the same fan-out job overwrites rather than duplicates.
type FeedEntry struct {
	ReceiverAlias string
	Status        Status
}
