// Package ports defines the interfaces the application layer depends
// on. Infrastructure packages provide the DynamoDB, SQS and S3
// implementations; tests substitute fakes.
package ports

import (
	"context"

	"flock-backend/domain"
)

// UserRepository stores user profiles and their follower/followee
// counters.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User, passwordHash string) error
	GetByAlias(ctx context.Context, alias string) (*domain.User, error)
	GetWithPassword(ctx context.Context, alias string) (*domain.User, string, error)
	// AdjustCounts atomically adds the deltas to the stored follower and
	// followee counters.
	AdjustCounts(ctx context.Context, alias string, followerDelta, followeeDelta int) error
}

// SessionRepository stores opaque session tokens.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, token string) (*domain.Session, error)
	Delete(ctx context.Context, token string) error
}

// FollowRepository stores the directed follow graph. Follower-side
// queries go through a GSI keyed by followee.
type FollowRepository interface {
	Create(ctx context.Context, edge *domain.FollowEdge) error
	Delete(ctx context.Context, followerAlias, followeeAlias string) error
	IsFollowing(ctx context.Context, followerAlias, followeeAlias string) (bool, error)
	// FollowersPage returns one page of followers of followeeAlias,
	// ordered by follower alias. An empty cursor starts from the
	// beginning; an empty next cursor means the sequence is exhausted.
	FollowersPage(ctx context.Context, followeeAlias string, limit int32, cursor string) ([]domain.UserRef, string, error)
	FolloweesPage(ctx context.Context, followerAlias string, limit int32, cursor string) ([]domain.UserRef, string, error)
	// FollowerAliasesPage is the projection-only variant used by the
	// fan-out pipeline: identities without display fields.
	FollowerAliasesPage(ctx context.Context, followeeAlias string, limit int32, cursor string) ([]string, string, error)
	CountFollowers(ctx context.Context, followeeAlias string) (int, error)
	CountFollowees(ctx context.Context, followerAlias string) (int, error)
}

// StoryRepository stores each author's own statuses, newest first.
type StoryRepository interface {
	Append(ctx context.Context, status *domain.Status) error
	// Page returns statuses older than the before timestamp (0 means
	// newest), in descending timestamp order. The returned timestamp is
	// the cursor for the next page; 0 means exhausted.
	Page(ctx context.Context, authorAlias string, limit int32, before int64) ([]domain.Status, int64, error)
	Delete(ctx context.Context, authorAlias string, timestamp int64) error
}

// FeedRepository stores the per-recipient materialized feeds.
type FeedRepository interface {
	// Upsert writes a feed entry keyed by (receiver, status timestamp).
	// Re-applying the same entry must leave the table unchanged.
	Upsert(ctx context.Context, receiverAlias string, status *domain.Status) error
	Page(ctx context.Context, receiverAlias string, limit int32, before int64) ([]domain.Status, int64, error)
	Delete(ctx context.Context, receiverAlias string, timestamp int64) error
}
