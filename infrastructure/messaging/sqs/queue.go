// Package sqs implements the fan-out queue port on Amazon SQS: one
// queue for expansion jobs (one message per posted status) and one for
// update jobs (one message per follower per status).
package sqs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"flock-backend/application/ports"
	"flock-backend/domain"
)

// MaxBatchSize is the SQS SendMessageBatch entry cap.
const MaxBatchSize = 10

// API is the slice of the SQS client the queue uses. Narrowed to an
// interface so tests can count and fail sends.
type API interface {
	SendMessage(ctx context.Context, params *awssqs.SendMessageInput, optFns ...func(*awssqs.Options)) (*awssqs.SendMessageOutput, error)
	SendMessageBatch(ctx context.Context, params *awssqs.SendMessageBatchInput, optFns ...func(*awssqs.Options)) (*awssqs.SendMessageBatchOutput, error)
}

// Queue implements ports.FanoutQueue on two SQS queues.
type Queue struct {
	client             API
	postStatusQueueURL string
	updateFeedQueueURL string
	logger             *zap.Logger
}

// NewQueue creates a fan-out queue client.
func NewQueue(client API, postStatusQueueURL, updateFeedQueueURL string, logger *zap.Logger) ports.FanoutQueue {
	return &Queue{
		client:             client,
		postStatusQueueURL: postStatusQueueURL,
		updateFeedQueueURL: updateFeedQueueURL,
		logger:             logger,
	}
}

// SendExpansionJob enqueues one expansion job onto the post-status
// queue.
func (q *Queue) SendExpansionJob(ctx context.Context, job domain.ExpansionJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal expansion job: %w", err)
	}

	input := &awssqs.SendMessageInput{
		QueueUrl:    aws.String(q.postStatusQueueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"authorAlias": {
				DataType:    aws.String("String"),
				StringValue: aws.String(job.AuthorAlias),
			},
		},
	}

	if _, err := q.client.SendMessage(ctx, input); err != nil {
		q.logger.Error("Failed to send expansion job",
			zap.Error(err),
			zap.String("authorAlias", job.AuthorAlias),
		)
		return fmt.Errorf("failed to send expansion job: %w", err)
	}

	q.logger.Info("Expansion job enqueued", zap.String("authorAlias", job.AuthorAlias))

	return nil
}

// SendUpdateJobs enqueues the update jobs onto the update-feed queue in
// chunks of at most MaxBatchSize. Any per-entry failure reported by SQS
// fails the whole call; the caller's invocation then fails and the
// source batch is redelivered.
func (q *Queue) SendUpdateJobs(ctx context.Context, jobs []domain.UpdateJob) error {
	if len(jobs) == 0 {
		return nil
	}

	totalBatches := (len(jobs) + MaxBatchSize - 1) / MaxBatchSize
	q.logger.Info("Sending update jobs",
		zap.Int("jobs", len(jobs)),
		zap.Int("batches", totalBatches),
	)

	for i := 0; i < len(jobs); i += MaxBatchSize {
		end := i + MaxBatchSize
		if end > len(jobs) {
			end = len(jobs)
		}

		if err := q.sendUpdateBatch(ctx, jobs[i:end], i); err != nil {
			return fmt.Errorf("batch %d of %d failed: %w", i/MaxBatchSize+1, totalBatches, err)
		}
	}

	return nil
}

// sendUpdateBatch sends one chunk (at most MaxBatchSize entries).
func (q *Queue) sendUpdateBatch(ctx context.Context, jobs []domain.UpdateJob, offset int) error {
	entries := make([]types.SendMessageBatchRequestEntry, 0, len(jobs))
	for j, job := range jobs {
		body, err := json.Marshal(job)
		if err != nil {
			return fmt.Errorf("failed to marshal update job for %s: %w", job.ReceiverAlias, err)
		}

		entries = append(entries, types.SendMessageBatchRequestEntry{
			Id:          aws.String(fmt.Sprintf("%d-%d", offset, j)),
			MessageBody: aws.String(string(body)),
			MessageAttributes: map[string]types.MessageAttributeValue{
				"receiverAlias": {
					DataType:    aws.String("String"),
					StringValue: aws.String(job.ReceiverAlias),
				},
			},
		})
	}

	input := &awssqs.SendMessageBatchInput{
		QueueUrl: aws.String(q.updateFeedQueueURL),
		Entries:  entries,
	}

	result, err := q.client.SendMessageBatch(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send update batch: %w", err)
	}

	if len(result.Failed) > 0 {
		for _, failed := range result.Failed {
			q.logger.Error("Update job rejected by queue",
				zap.String("id", aws.ToString(failed.Id)),
				zap.String("code", aws.ToString(failed.Code)),
				zap.String("message", aws.ToString(failed.Message)),
			)
		}
		return fmt.Errorf("queue rejected %d of %d update jobs", len(result.Failed), len(entries))
	}

	return nil
}
