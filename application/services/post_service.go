// Package services contains the application services behind the HTTP
// handlers: posting, reading stories and feeds, the follow graph, user
// accounts and session authorization.
package services

import (
	"context"

	"go.uber.org/zap"

	"flock-backend/application/ports"
	"flock-backend/domain"
	apperrors "flock-backend/pkg/errors"
)

// PostService orchestrates status creation: persist the status into the
// author's story, then enqueue exactly one expansion job. Fan-out to
// follower feeds happens asynchronously behind the queue, so posting
// never blocks on follower cardinality.
type PostService struct {
	stories ports.StoryRepository
	queue   ports.FanoutQueue
	logger  *zap.Logger
}

// NewPostService creates a post service.
func NewPostService(stories ports.StoryRepository, queue ports.FanoutQueue, logger *zap.Logger) *PostService {
	return &PostService{
		stories: stories,
		queue:   queue,
		logger:  logger,
	}
}

// PostStatus persists the status and enqueues its fan-out job. The call
// fails as a whole if either step fails; a successful return means the
// story write and the enqueue both succeeded. Retrying a failed call
// with a fresh timestamp can leave a duplicate story entry — the
// timestamp is caller-supplied, and that tradeoff is accepted.
func (s *PostService) PostStatus(ctx context.Context, authorAlias string, status *domain.Status) error {
	if status == nil {
		return apperrors.NewValidationError("status is required")
	}
	if _, err := domain.NewStatus(status.Post, status.Author, status.Timestamp); err != nil {
		return apperrors.NewValidationError(err.Error())
	}
	if status.Author.Alias != authorAlias {
		return apperrors.NewValidationError("status author does not match authenticated user")
	}

	if err := s.stories.Append(ctx, status); err != nil {
		return apperrors.NewDatabaseError("append status", err)
	}

	job := domain.ExpansionJob{
		Status:      domain.PayloadFromStatus(status),
		AuthorAlias: authorAlias,
	}
	if err := s.queue.SendExpansionJob(ctx, job); err != nil {
		// The story entry is already durable at this point; surfacing
		// the failure (rather than reporting success) is what keeps a
		// silently-lost fan-out from existing.
		return apperrors.NewExternalError("fanout queue", err)
	}

	s.logger.Info("Status posted and queued for fan-out",
		zap.String("authorAlias", authorAlias),
		zap.Int64("timestamp", status.Timestamp),
	)

	return nil
}
