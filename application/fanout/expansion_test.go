package fanout

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"flock-backend/domain"
	"flock-backend/tests/fakes"
)

func expansionBody(t *testing.T, authorAlias string, timestamp int64) []byte {
	t.Helper()
	job := domain.ExpansionJob{
		AuthorAlias: authorAlias,
		Status: domain.StatusPayload{
			StatusBody:     "hello from " + authorAlias,
			AuthorIdentity: authorAlias,
			AuthorDisplayFields: domain.DisplayFields{
				FirstName: "Test",
				LastName:  "Author",
			},
			Timestamp: timestamp,
		},
	}
	body, err := json.Marshal(job)
	require.NoError(t, err)
	return body
}

func TestExpansionStage_FanOutToAllFollowers(t *testing.T) {
	// Arrange
	ctx := context.Background()
	follows := fakes.NewFollowRepo()
	queue := fakes.NewQueue()
	for i := 0; i < 7; i++ {
		follows.AddFollower(fmt.Sprintf("follower%02d", i), "alice")
	}

	stage := NewExpansionStage(follows, queue, 3, zap.NewNop())

	// Act
	err := stage.ProcessBatch(ctx, [][]byte{expansionBody(t, "alice", 1000)})

	// Assert
	require.NoError(t, err)
	require.Len(t, queue.UpdateJobs, 7)

	seen := make(map[string]bool)
	for _, job := range queue.UpdateJobs {
		assert.False(t, seen[job.ReceiverAlias], "duplicate job for %s", job.ReceiverAlias)
		seen[job.ReceiverAlias] = true
		assert.Equal(t, "hello from alice", job.Status.StatusBody)
		assert.Equal(t, "alice", job.Status.AuthorIdentity)
		assert.Equal(t, int64(1000), job.Status.Timestamp)
	}

	// 7 followers at page size 3 needs 3 queries
	assert.Equal(t, 3, follows.PageCalls)
}

func TestExpansionStage_ZeroFollowersIsNoOp(t *testing.T) {
	// Arrange
	ctx := context.Background()
	follows := fakes.NewFollowRepo()
	queue := fakes.NewQueue()
	stage := NewExpansionStage(follows, queue, 10, zap.NewNop())

	// Act
	err := stage.ProcessBatch(ctx, [][]byte{expansionBody(t, "loner", 500)})

	// Assert
	require.NoError(t, err)
	assert.Zero(t, queue.SendUpdateCalls, "no update send should happen for zero followers")
	assert.Empty(t, queue.UpdateJobs)
}

func TestExpansionStage_PaginationAtScale(t *testing.T) {
	// Arrange: 10,000 followers read 25 at a time
	ctx := context.Background()
	follows := fakes.NewFollowRepo()
	queue := fakes.NewQueue()
	for i := 0; i < 10000; i++ {
		follows.AddFollower(fmt.Sprintf("follower%05d", i), "celebrity")
	}

	stage := NewExpansionStage(follows, queue, 25, zap.NewNop())

	// Act
	err := stage.ProcessBatch(ctx, [][]byte{expansionBody(t, "celebrity", 42)})

	// Assert: every follower exactly once, no duplicates, no omissions
	require.NoError(t, err)
	require.Len(t, queue.UpdateJobs, 10000)

	seen := make(map[string]bool, 10000)
	for _, job := range queue.UpdateJobs {
		require.False(t, seen[job.ReceiverAlias], "duplicate job for %s", job.ReceiverAlias)
		seen[job.ReceiverAlias] = true
	}
	for i := 0; i < 10000; i++ {
		alias := fmt.Sprintf("follower%05d", i)
		require.True(t, seen[alias], "missing job for %s", alias)
	}

	assert.Equal(t, 400, follows.PageCalls)
}

func TestExpansionStage_QueueFailurePropagates(t *testing.T) {
	// Arrange
	ctx := context.Background()
	follows := fakes.NewFollowRepo()
	follows.AddFollower("bob", "alice")
	queue := fakes.NewQueue()
	queue.FailUpdates = fmt.Errorf("queue unavailable")

	stage := NewExpansionStage(follows, queue, 10, zap.NewNop())

	// Act
	err := stage.ProcessBatch(ctx, [][]byte{expansionBody(t, "alice", 1000)})

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue unavailable")
}

func TestExpansionStage_FollowQueryFailureAborts(t *testing.T) {
	// Arrange: the second page query fails mid-expansion
	ctx := context.Background()
	follows := fakes.NewFollowRepo()
	for i := 0; i < 10; i++ {
		follows.AddFollower(fmt.Sprintf("follower%02d", i), "alice")
	}
	follows.FailOnPage = 2
	queue := fakes.NewQueue()

	stage := NewExpansionStage(follows, queue, 4, zap.NewNop())

	// Act
	err := stage.ProcessBatch(ctx, [][]byte{expansionBody(t, "alice", 1000)})

	// Assert: nothing was sent; the whole message fails for redelivery
	require.Error(t, err)
	assert.Zero(t, queue.SendUpdateCalls)
}

func TestExpansionStage_MalformedMessageFailsBatch(t *testing.T) {
	// Arrange
	ctx := context.Background()
	follows := fakes.NewFollowRepo()
	follows.AddFollower("bob", "alice")
	queue := fakes.NewQueue()
	stage := NewExpansionStage(follows, queue, 10, zap.NewNop())

	bodies := [][]byte{
		[]byte("{not json"),
		expansionBody(t, "alice", 1000),
	}

	// Act
	err := stage.ProcessBatch(ctx, bodies)

	// Assert: first failure aborts before the second message runs
	require.Error(t, err)
	assert.Contains(t, err.Error(), "message 1 of 2")
	assert.Empty(t, queue.UpdateJobs)
}

func TestExpansionStage_RejectsJobWithoutAuthor(t *testing.T) {
	// Arrange
	ctx := context.Background()
	stage := NewExpansionStage(fakes.NewFollowRepo(), fakes.NewQueue(), 10, zap.NewNop())

	job := domain.ExpansionJob{
		Status: domain.StatusPayload{
			StatusBody:     "orphan",
			AuthorIdentity: "alice",
			Timestamp:      1,
		},
	}
	body, err := json.Marshal(job)
	require.NoError(t, err)

	// Act
	err = stage.ProcessBatch(ctx, [][]byte{body})

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid expansion job")
}
