package services

import (
	"context"

	"go.uber.org/zap"

	"flock-backend/application/ports"
	"flock-backend/domain"
	apperrors "flock-backend/pkg/errors"
)

// StatusService serves the story and feed read paths and status
// deletion.
type StatusService struct {
	stories ports.StoryRepository
	feeds   ports.FeedRepository
	follows ports.FollowRepository
	logger  *zap.Logger
}

// NewStatusService creates a status service.
func NewStatusService(
	stories ports.StoryRepository,
	feeds ports.FeedRepository,
	follows ports.FollowRepository,
	logger *zap.Logger,
) *StatusService {
	return &StatusService{
		stories: stories,
		feeds:   feeds,
		follows: follows,
		logger:  logger,
	}
}

// Story returns one page of an author's own statuses, newest first.
// before is the timestamp cursor (0 starts at the newest); the returned
// cursor is 0 when the story is exhausted.
func (s *StatusService) Story(ctx context.Context, authorAlias string, limit int32, before int64) ([]domain.Status, int64, error) {
	statuses, next, err := s.stories.Page(ctx, authorAlias, limit, before)
	if err != nil {
		return nil, 0, apperrors.NewDatabaseError("read story", err)
	}
	return statuses, next, nil
}

// Feed returns one page of the recipient's materialized feed, newest
// first.
func (s *StatusService) Feed(ctx context.Context, receiverAlias string, limit int32, before int64) ([]domain.Status, int64, error) {
	statuses, next, err := s.feeds.Page(ctx, receiverAlias, limit, before)
	if err != nil {
		return nil, 0, apperrors.NewDatabaseError("read feed", err)
	}
	return statuses, next, nil
}

// DeleteStatus removes a status from the author's story and from the
// feeds of the author's current followers. Followers gained after the
// post was fanned out never received the entry, so the current follower
// set is the right deletion set.
func (s *StatusService) DeleteStatus(ctx context.Context, authorAlias string, timestamp int64) error {
	if timestamp <= 0 {
		return apperrors.NewValidationError("timestamp must be positive")
	}

	if err := s.stories.Delete(ctx, authorAlias, timestamp); err != nil {
		return apperrors.NewDatabaseError("delete status", err)
	}

	cursor := ""
	removed := 0
	for {
		aliases, next, err := s.follows.FollowerAliasesPage(ctx, authorAlias, 100, cursor)
		if err != nil {
			return apperrors.NewDatabaseError("list followers", err)
		}

		for _, alias := range aliases {
			if err := s.feeds.Delete(ctx, alias, timestamp); err != nil {
				return apperrors.NewDatabaseError("delete feed entry", err)
			}
			removed++
		}

		if next == "" {
			break
		}
		cursor = next
	}

	s.logger.Info("Status deleted",
		zap.String("authorAlias", authorAlias),
		zap.Int64("timestamp", timestamp),
		zap.Int("feedEntriesRemoved", removed),
	)

	return nil
}
