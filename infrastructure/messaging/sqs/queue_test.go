package sqs

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"flock-backend/domain"
)

// fakeAPI records sends and can inject failures.
type fakeAPI struct {
	sendInputs  []*awssqs.SendMessageInput
	batchInputs []*awssqs.SendMessageBatchInput

	sendErr  error
	batchErr error

	// failEntriesOnBatch injects per-entry failures on the Nth batch
	// call (1-based).
	failEntriesOnBatch int
	failEntryCount     int
}

func (f *fakeAPI) SendMessage(ctx context.Context, params *awssqs.SendMessageInput, optFns ...func(*awssqs.Options)) (*awssqs.SendMessageOutput, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sendInputs = append(f.sendInputs, params)
	return &awssqs.SendMessageOutput{MessageId: aws.String("m-1")}, nil
}

func (f *fakeAPI) SendMessageBatch(ctx context.Context, params *awssqs.SendMessageBatchInput, optFns ...func(*awssqs.Options)) (*awssqs.SendMessageBatchOutput, error) {
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	f.batchInputs = append(f.batchInputs, params)

	out := &awssqs.SendMessageBatchOutput{}
	if f.failEntriesOnBatch == len(f.batchInputs) {
		for i := 0; i < f.failEntryCount && i < len(params.Entries); i++ {
			out.Failed = append(out.Failed, types.BatchResultErrorEntry{
				Id:      params.Entries[i].Id,
				Code:    aws.String("InternalError"),
				Message: aws.String("injected"),
			})
		}
	}
	return out, nil
}

func updateJobs(n int) []domain.UpdateJob {
	jobs := make([]domain.UpdateJob, n)
	for i := range jobs {
		jobs[i] = domain.UpdateJob{
			ReceiverAlias: fmt.Sprintf("follower%04d", i),
			Status: domain.StatusPayload{
				StatusBody:     "a post",
				AuthorIdentity: "alice",
				Timestamp:      100,
			},
		}
	}
	return jobs
}

func TestQueue_SendExpansionJob(t *testing.T) {
	// Arrange
	api := &fakeAPI{}
	q := NewQueue(api, "post-queue-url", "update-queue-url", zap.NewNop())

	job := domain.ExpansionJob{
		AuthorAlias: "alice",
		Status: domain.StatusPayload{
			StatusBody:     "hello",
			AuthorIdentity: "alice",
			Timestamp:      100,
		},
	}

	// Act
	err := q.SendExpansionJob(context.Background(), job)

	// Assert: one message to the post-status queue with a round-trippable body
	require.NoError(t, err)
	require.Len(t, api.sendInputs, 1)
	assert.Equal(t, "post-queue-url", aws.ToString(api.sendInputs[0].QueueUrl))

	var decoded domain.ExpansionJob
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(api.sendInputs[0].MessageBody)), &decoded))
	assert.Equal(t, job, decoded)
}

func TestQueue_SendUpdateJobs_ChunksToBatchCap(t *testing.T) {
	// Arrange: 37 jobs should go out as ceil(37/10) = 4 batches
	api := &fakeAPI{}
	q := NewQueue(api, "post-queue-url", "update-queue-url", zap.NewNop())

	// Act
	err := q.SendUpdateJobs(context.Background(), updateJobs(37))

	// Assert
	require.NoError(t, err)
	require.Len(t, api.batchInputs, 4)

	total := 0
	for _, batch := range api.batchInputs {
		assert.Equal(t, "update-queue-url", aws.ToString(batch.QueueUrl))
		assert.LessOrEqual(t, len(batch.Entries), MaxBatchSize)
		total += len(batch.Entries)
	}
	assert.Equal(t, 37, total)
	assert.Len(t, api.batchInputs[3].Entries, 7)
}

func TestQueue_SendUpdateJobs_ExactMultipleOfCap(t *testing.T) {
	api := &fakeAPI{}
	q := NewQueue(api, "post-queue-url", "update-queue-url", zap.NewNop())

	err := q.SendUpdateJobs(context.Background(), updateJobs(30))

	require.NoError(t, err)
	require.Len(t, api.batchInputs, 3)
	for _, batch := range api.batchInputs {
		assert.Len(t, batch.Entries, MaxBatchSize)
	}
}

func TestQueue_SendUpdateJobs_TenThousandJobs(t *testing.T) {
	// 10,000 jobs should go out as exactly 1,000 full batches
	api := &fakeAPI{}
	q := NewQueue(api, "post-queue-url", "update-queue-url", zap.NewNop())

	err := q.SendUpdateJobs(context.Background(), updateJobs(10000))

	require.NoError(t, err)
	require.Len(t, api.batchInputs, 1000)

	receivers := make(map[string]bool, 10000)
	for _, batch := range api.batchInputs {
		require.Len(t, batch.Entries, MaxBatchSize)
		for _, entry := range batch.Entries {
			var job domain.UpdateJob
			require.NoError(t, json.Unmarshal([]byte(aws.ToString(entry.MessageBody)), &job))
			require.False(t, receivers[job.ReceiverAlias], "duplicate send for %s", job.ReceiverAlias)
			receivers[job.ReceiverAlias] = true
		}
	}
	assert.Len(t, receivers, 10000)
}

func TestQueue_SendUpdateJobs_EmptyIsNoOp(t *testing.T) {
	api := &fakeAPI{}
	q := NewQueue(api, "post-queue-url", "update-queue-url", zap.NewNop())

	require.NoError(t, q.SendUpdateJobs(context.Background(), nil))
	assert.Empty(t, api.batchInputs)
}

func TestQueue_SendUpdateJobs_PartialEntryFailureFailsCall(t *testing.T) {
	// Arrange: the second batch reports two rejected entries
	api := &fakeAPI{failEntriesOnBatch: 2, failEntryCount: 2}
	q := NewQueue(api, "post-queue-url", "update-queue-url", zap.NewNop())

	// Act
	err := q.SendUpdateJobs(context.Background(), updateJobs(25))

	// Assert: the whole call fails and later batches are not attempted
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch 2 of 3 failed")
	assert.Contains(t, err.Error(), "rejected 2 of 10")
	assert.Len(t, api.batchInputs, 2)
}

func TestQueue_SendUpdateJobs_TransportErrorFailsCall(t *testing.T) {
	api := &fakeAPI{batchErr: fmt.Errorf("connection reset")}
	q := NewQueue(api, "post-queue-url", "update-queue-url", zap.NewNop())

	err := q.SendUpdateJobs(context.Background(), updateJobs(5))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}
