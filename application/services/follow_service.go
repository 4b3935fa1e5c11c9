package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"flock-backend/application/ports"
	"flock-backend/domain"
	apperrors "flock-backend/pkg/errors"
)

// FollowService maintains the follow graph and the denormalized
// follower/followee counters on user profiles.
type FollowService struct {
	users   ports.UserRepository
	follows ports.FollowRepository
	logger  *zap.Logger
}

// NewFollowService creates a follow service.
func NewFollowService(users ports.UserRepository, follows ports.FollowRepository, logger *zap.Logger) *FollowService {
	return &FollowService{
		users:   users,
		follows: follows,
		logger:  logger,
	}
}

// Follow creates the edge caller → followee and bumps both counters.
func (s *FollowService) Follow(ctx context.Context, callerAlias, followeeAlias string) error {
	if callerAlias == followeeAlias {
		return apperrors.NewValidationError("cannot follow yourself")
	}

	follower, err := s.users.GetByAlias(ctx, callerAlias)
	if err != nil {
		return err
	}
	followee, err := s.users.GetByAlias(ctx, followeeAlias)
	if err != nil {
		return err
	}

	following, err := s.follows.IsFollowing(ctx, callerAlias, followeeAlias)
	if err != nil {
		return apperrors.NewDatabaseError("check follow", err)
	}
	if following {
		return apperrors.NewConflictError("already following this user")
	}

	edge := &domain.FollowEdge{
		Follower:  follower.Ref(),
		Followee:  followee.Ref(),
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := s.follows.Create(ctx, edge); err != nil {
		return apperrors.NewDatabaseError("create follow", err)
	}

	// Counter updates are best-effort denormalization; the follow table
	// remains the source of truth.
	if err := s.users.AdjustCounts(ctx, followeeAlias, 1, 0); err != nil {
		s.logger.Warn("Failed to bump follower count", zap.String("alias", followeeAlias), zap.Error(err))
	}
	if err := s.users.AdjustCounts(ctx, callerAlias, 0, 1); err != nil {
		s.logger.Warn("Failed to bump followee count", zap.String("alias", callerAlias), zap.Error(err))
	}

	return nil
}

// Unfollow removes the edge caller → followee and drops both counters.
func (s *FollowService) Unfollow(ctx context.Context, callerAlias, followeeAlias string) error {
	following, err := s.follows.IsFollowing(ctx, callerAlias, followeeAlias)
	if err != nil {
		return apperrors.NewDatabaseError("check follow", err)
	}
	if !following {
		return apperrors.NewNotFoundError("follow relationship")
	}

	if err := s.follows.Delete(ctx, callerAlias, followeeAlias); err != nil {
		return apperrors.NewDatabaseError("delete follow", err)
	}

	if err := s.users.AdjustCounts(ctx, followeeAlias, -1, 0); err != nil {
		s.logger.Warn("Failed to drop follower count", zap.String("alias", followeeAlias), zap.Error(err))
	}
	if err := s.users.AdjustCounts(ctx, callerAlias, 0, -1); err != nil {
		s.logger.Warn("Failed to drop followee count", zap.String("alias", callerAlias), zap.Error(err))
	}

	return nil
}

// IsFollower reports whether followerAlias follows followeeAlias.
func (s *FollowService) IsFollower(ctx context.Context, followerAlias, followeeAlias string) (bool, error) {
	following, err := s.follows.IsFollowing(ctx, followerAlias, followeeAlias)
	if err != nil {
		return false, apperrors.NewDatabaseError("check follow", err)
	}
	return following, nil
}

// FollowerCount counts followers of an alias by exhaustive paged
// counting against the follow table.
func (s *FollowService) FollowerCount(ctx context.Context, alias string) (int, error) {
	count, err := s.follows.CountFollowers(ctx, alias)
	if err != nil {
		return 0, apperrors.NewDatabaseError("count followers", err)
	}
	return count, nil
}

// FolloweeCount counts followees of an alias.
func (s *FollowService) FolloweeCount(ctx context.Context, alias string) (int, error) {
	count, err := s.follows.CountFollowees(ctx, alias)
	if err != nil {
		return 0, apperrors.NewDatabaseError("count followees", err)
	}
	return count, nil
}

// Followers returns one page of followers, plus the cursor for the next
// page ("" when exhausted).
func (s *FollowService) Followers(ctx context.Context, alias string, limit int32, cursor string) ([]domain.UserRef, string, error) {
	page, next, err := s.follows.FollowersPage(ctx, alias, limit, cursor)
	if err != nil {
		return nil, "", apperrors.NewDatabaseError("list followers", err)
	}
	return page, next, nil
}

// Followees returns one page of followees.
func (s *FollowService) Followees(ctx context.Context, alias string, limit int32, cursor string) ([]domain.UserRef, string, error) {
	page, next, err := s.follows.FolloweesPage(ctx, alias, limit, cursor)
	if err != nil {
		return nil, "", apperrors.NewDatabaseError("list followees", err)
	}
	return page, next, nil
}
