package ports

import (
	"context"

	"flock-backend/domain"
)

// FanoutQueue is the job queue carrying the two fan-out stages. Delivery
// is at-least-once with batch-level visibility timeout; both sends must
// surface partial failure as an error so the caller fails loudly.
type FanoutQueue interface {
	// SendExpansionJob enqueues exactly one expansion job onto the
	// post-status queue.
	SendExpansionJob(ctx context.Context, job domain.ExpansionJob) error
	// SendUpdateJobs enqueues the given update jobs onto the update-feed
	// queue, chunked to the provider's batch-send cap. Any per-entry
	// failure inside any chunk is an error for the whole call.
	SendUpdateJobs(ctx context.Context, jobs []domain.UpdateJob) error
}
