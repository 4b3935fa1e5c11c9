package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"flock-backend/domain"
	apperrors "flock-backend/pkg/errors"
	"flock-backend/tests/mocks"
)

func testStatus(t *testing.T) *domain.Status {
	t.Helper()
	status, err := domain.NewStatus("hello world", domain.UserRef{
		Alias:     "alice",
		FirstName: "Alice",
		LastName:  "Author",
	}, 1000)
	require.NoError(t, err)
	return status
}

func TestPostService_PostStatus_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockStories := new(mocks.MockStoryRepository)
	mockQueue := new(mocks.MockFanoutQueue)
	status := testStatus(t)

	mockStories.On("Append", ctx, status).Return(nil)
	mockQueue.On("SendExpansionJob", ctx, mock.MatchedBy(func(job domain.ExpansionJob) bool {
		return job.AuthorAlias == "alice" &&
			job.Status.StatusBody == "hello world" &&
			job.Status.Timestamp == 1000
	})).Return(nil)

	svc := NewPostService(mockStories, mockQueue, zap.NewNop())

	// Act
	err := svc.PostStatus(ctx, "alice", status)

	// Assert
	assert.NoError(t, err)
	mockStories.AssertExpectations(t)
	mockQueue.AssertExpectations(t)
}

func TestPostService_PostStatus_StoryWriteFailureSkipsEnqueue(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockStories := new(mocks.MockStoryRepository)
	mockQueue := new(mocks.MockFanoutQueue)
	status := testStatus(t)

	mockStories.On("Append", ctx, status).Return(errors.New("table unavailable"))

	svc := NewPostService(mockStories, mockQueue, zap.NewNop())

	// Act
	err := svc.PostStatus(ctx, "alice", status)

	// Assert: no expansion job goes out when the story write fails
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeDatabase))
	mockQueue.AssertNotCalled(t, "SendExpansionJob", mock.Anything, mock.Anything)
}

func TestPostService_PostStatus_EnqueueFailureSurfaces(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockStories := new(mocks.MockStoryRepository)
	mockQueue := new(mocks.MockFanoutQueue)
	status := testStatus(t)

	mockStories.On("Append", ctx, status).Return(nil)
	mockQueue.On("SendExpansionJob", ctx, mock.Anything).Return(errors.New("queue down"))

	svc := NewPostService(mockStories, mockQueue, zap.NewNop())

	// Act
	err := svc.PostStatus(ctx, "alice", status)

	// Assert: the story write already happened but the caller still
	// sees a failure
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
	mockStories.AssertExpectations(t)
}

func TestPostService_PostStatus_RejectsMismatchedAuthor(t *testing.T) {
	// Arrange
	svc := NewPostService(new(mocks.MockStoryRepository), new(mocks.MockFanoutQueue), zap.NewNop())

	// Act
	err := svc.PostStatus(context.Background(), "mallory", testStatus(t))

	// Assert
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestPostService_PostStatus_RejectsInvalidStatus(t *testing.T) {
	svc := NewPostService(new(mocks.MockStoryRepository), new(mocks.MockFanoutQueue), zap.NewNop())

	tests := []struct {
		name   string
		status *domain.Status
	}{
		{"nil status", nil},
		{"empty post", &domain.Status{Author: domain.UserRef{Alias: "alice"}, Timestamp: 1}},
		{"zero timestamp", &domain.Status{Post: "hi", Author: domain.UserRef{Alias: "alice"}}},
		{"missing author", &domain.Status{Post: "hi", Timestamp: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.PostStatus(context.Background(), "alice", tt.status)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
		})
	}
}
