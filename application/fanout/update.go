package fanout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"flock-backend/application/ports"
	"flock-backend/domain"
)

// UpdateStage consumes update jobs and applies each as an idempotent
// upsert into the recipient's feed.
type UpdateStage struct {
	feeds    ports.FeedRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewUpdateStage creates an update stage.
func NewUpdateStage(feeds ports.FeedRepository, logger *zap.Logger) *UpdateStage {
	return &UpdateStage{
		feeds:    feeds,
		validate: validator.New(),
		logger:   logger,
	}
}

// ProcessBatch handles one queue delivery. All messages are applied
// concurrently and joined; if any fails, the whole invocation fails and
// the queue redelivers the full batch. Messages that already succeeded
// are safe to redeliver because the upsert is keyed by
// (receiver, status timestamp).
func (s *UpdateStage) ProcessBatch(ctx context.Context, bodies [][]byte) error {
	if len(bodies) == 0 {
		return nil
	}

	s.logger.Info("Processing feed update batch", zap.Int("messages", len(bodies)))

	errs := make([]error, len(bodies))

	var wg sync.WaitGroup
	for i, body := range bodies {
		wg.Add(1)
		go func(i int, body []byte) {
			defer wg.Done()
			errs[i] = s.processMessage(ctx, body)
		}(i, body)
	}
	wg.Wait()

	failed := 0
	for i, err := range errs {
		if err != nil {
			failed++
			s.logger.Error("Feed update failed",
				zap.Int("message", i+1),
				zap.Error(err),
			)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d feed updates failed: %w", failed, len(bodies), errors.Join(errs...))
	}

	return nil
}

// processMessage applies one update job to one recipient's feed.
func (s *UpdateStage) processMessage(ctx context.Context, body []byte) error {
	var job domain.UpdateJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("failed to parse update job: %w", err)
	}
	if err := s.validate.Struct(job); err != nil {
		return fmt.Errorf("invalid update job: %w", err)
	}

	status, err := job.Status.ToStatus()
	if err != nil {
		return fmt.Errorf("invalid status payload for %s: %w", job.ReceiverAlias, err)
	}

	if err := s.feeds.Upsert(ctx, job.ReceiverAlias, status); err != nil {
		return fmt.Errorf("failed to update feed for %s: %w", job.ReceiverAlias, err)
	}

	return nil
}
