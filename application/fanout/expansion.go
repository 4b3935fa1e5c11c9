// Package fanout implements the asynchronous status fan-out pipeline:
// the expansion stage turns one posted status into one update job per
// follower, and the update stage applies those jobs to recipient feeds.
// Both stages are stateless batch handlers; the queue's visibility
// timeout is the only retry mechanism, so every failure must propagate.
package fanout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"flock-backend/application/ports"
	"flock-backend/domain"
)

// DefaultFollowerPageSize bounds each follower-table query issued while
// expanding an author into the full follower list.
const DefaultFollowerPageSize = 100

// ExpansionStage consumes expansion jobs, enumerates all followers of
// the author and re-queues one update job per follower.
type ExpansionStage struct {
	follows  ports.FollowRepository
	queue    ports.FanoutQueue
	pageSize int32
	validate *validator.Validate
	logger   *zap.Logger
}

// NewExpansionStage creates an expansion stage. pageSize <= 0 falls
// back to DefaultFollowerPageSize.
func NewExpansionStage(
	follows ports.FollowRepository,
	queue ports.FanoutQueue,
	pageSize int32,
	logger *zap.Logger,
) *ExpansionStage {
	if pageSize <= 0 {
		pageSize = DefaultFollowerPageSize
	}
	return &ExpansionStage{
		follows:  follows,
		queue:    queue,
		pageSize: pageSize,
		validate: validator.New(),
		logger:   logger,
	}
}

// ProcessBatch handles one queue delivery. Messages are processed in
// order; the first failure aborts the invocation so the queue
// redelivers the entire batch. Partial progress is safe: update jobs
// already sent are idempotent downstream.
func (s *ExpansionStage) ProcessBatch(ctx context.Context, bodies [][]byte) error {
	s.logger.Info("Processing expansion batch", zap.Int("messages", len(bodies)))

	for i, body := range bodies {
		if err := s.processMessage(ctx, body); err != nil {
			return fmt.Errorf("expansion message %d of %d failed: %w", i+1, len(bodies), err)
		}
	}

	return nil
}

// processMessage expands one posted status into per-follower update
// jobs.
func (s *ExpansionStage) processMessage(ctx context.Context, body []byte) error {
	var job domain.ExpansionJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("failed to parse expansion job: %w", err)
	}
	if err := s.validate.Struct(job); err != nil {
		return fmt.Errorf("invalid expansion job: %w", err)
	}

	started := time.Now()

	aliases, err := s.listAllFollowerAliases(ctx, job.AuthorAlias)
	if err != nil {
		return fmt.Errorf("failed to list followers of %s: %w", job.AuthorAlias, err)
	}

	if len(aliases) == 0 {
		s.logger.Info("No followers to notify",
			zap.String("authorAlias", job.AuthorAlias),
		)
		return nil
	}

	jobs := make([]domain.UpdateJob, 0, len(aliases))
	for _, alias := range aliases {
		jobs = append(jobs, domain.UpdateJob{
			Status:        job.Status,
			ReceiverAlias: alias,
		})
	}

	if err := s.queue.SendUpdateJobs(ctx, jobs); err != nil {
		return fmt.Errorf("failed to enqueue feed updates for %s: %w", job.AuthorAlias, err)
	}

	s.logger.Info("Fanned out status to followers",
		zap.String("authorAlias", job.AuthorAlias),
		zap.Int64("timestamp", job.Status.Timestamp),
		zap.Int("followers", len(aliases)),
		zap.Duration("elapsed", time.Since(started)),
	)

	return nil
}

// listAllFollowerAliases drains the paginated follower query into one
// flat list. Follower cardinality is unbounded; the loop runs until the
// store reports no further page.
func (s *ExpansionStage) listAllFollowerAliases(ctx context.Context, authorAlias string) ([]string, error) {
	var aliases []string
	cursor := ""

	for {
		page, next, err := s.follows.FollowerAliasesPage(ctx, authorAlias, s.pageSize, cursor)
		if err != nil {
			return nil, err
		}

		aliases = append(aliases, page...)

		if next == "" {
			return aliases, nil
		}
		cursor = next
	}
}
