// Package domain holds the core entities of the feed system: users,
// follow edges, statuses, feed entries and the fan-out job payloads that
// cross the queue boundary.
package domain

import (
	"strings"
	"time"
)

// UserRef is the denormalized set of display fields carried wherever a
// user appears inside another record (statuses, follow edges, feed
// entries). It is intentionally small; the full profile lives in the
// user table.
type UserRef struct {
	Alias     string `json:"alias"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	ImageURL  string `json:"imageUrl"`
}

// User is a full user profile as stored in the user table.
type User struct {
	Alias         string
	FirstName     string
	LastName      string
	ImageURL      string
	FollowerCount int
	FolloweeCount int
}

// Ref returns the denormalized display fields for this user.
func (u *User) Ref() UserRef {
	return UserRef{
		Alias:     u.Alias,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		ImageURL:  u.ImageURL,
	}
}

// NewUser validates and constructs a user profile.
func NewUser(alias, firstName, lastName, imageURL string) (*User, error) {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return nil, ErrEmptyAlias
	}
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return nil, ErrEmptyName
	}
	return &User{
		Alias:     alias,
		FirstName: firstName,
		LastName:  lastName,
		ImageURL:  imageURL,
	}, nil
}

// Session is an authenticated session backed by an opaque token.
type Session struct {
	Token    string
	Alias    string
	IssuedAt time.Time
}

// SessionTTL is how long a session token stays valid. The session table
// carries a matching DynamoDB TTL attribute, but expiry is also checked
// on read because TTL deletion is lazy.
const SessionTTL = 24 * time.Hour

// Expired reports whether the session is past its lifetime at the given
// instant.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.IssuedAt.Add(SessionTTL))
}
