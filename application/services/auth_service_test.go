package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"flock-backend/domain"
	apperrors "flock-backend/pkg/errors"
	"flock-backend/tests/mocks"
)

func TestAuthService_ValidateToken_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockSessions := new(mocks.MockSessionRepository)
	mockSessions.On("Get", ctx, "token-1").Return(&domain.Session{
		Token:    "token-1",
		Alias:    "alice",
		IssuedAt: time.Now().Add(-time.Hour),
	}, nil)

	svc := NewAuthService(mockSessions, zap.NewNop())

	// Act
	alias, err := svc.ValidateToken(ctx, "token-1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "alice", alias)
	mockSessions.AssertExpectations(t)
}

func TestAuthService_ValidateToken_MissingToken(t *testing.T) {
	svc := NewAuthService(new(mocks.MockSessionRepository), zap.NewNop())

	_, err := svc.ValidateToken(context.Background(), "  ")

	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestAuthService_ValidateToken_UnknownToken(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockSessions := new(mocks.MockSessionRepository)
	mockSessions.On("Get", ctx, "nope").Return(nil, apperrors.NewNotFoundError("session"))

	svc := NewAuthService(mockSessions, zap.NewNop())

	// Act
	_, err := svc.ValidateToken(ctx, "nope")

	// Assert: not-found is reported as unauthorized, not as a lookup miss
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestAuthService_ValidateToken_ExpiredTokenIsRevoked(t *testing.T) {
	// Arrange: a session issued longer ago than the session lifetime
	ctx := context.Background()
	mockSessions := new(mocks.MockSessionRepository)
	mockSessions.On("Get", ctx, "stale").Return(&domain.Session{
		Token:    "stale",
		Alias:    "alice",
		IssuedAt: time.Now().Add(-domain.SessionTTL - time.Minute),
	}, nil)
	mockSessions.On("Delete", ctx, "stale").Return(nil)

	svc := NewAuthService(mockSessions, zap.NewNop())

	// Act
	_, err := svc.ValidateToken(ctx, "stale")

	// Assert: rejected and cleaned up
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
	mockSessions.AssertExpectations(t)
}

func TestAuthService_CreateSession_IssuesUniqueTokens(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockSessions := new(mocks.MockSessionRepository)
	mockSessions.On("Create", ctx, mock.AnythingOfType("*domain.Session")).Return(nil)

	svc := NewAuthService(mockSessions, zap.NewNop())

	// Act
	first, err := svc.CreateSession(ctx, "alice")
	require.NoError(t, err)
	second, err := svc.CreateSession(ctx, "alice")
	require.NoError(t, err)

	// Assert
	assert.Equal(t, "alice", first.Alias)
	assert.NotEmpty(t, first.Token)
	assert.NotEqual(t, first.Token, second.Token)
}

func TestAuthService_DeleteSession_IsIdempotent(t *testing.T) {
	// Arrange: the repository treats deleting a missing token as success
	ctx := context.Background()
	mockSessions := new(mocks.MockSessionRepository)
	mockSessions.On("Delete", ctx, "gone").Return(nil).Twice()

	svc := NewAuthService(mockSessions, zap.NewNop())

	// Act / Assert
	assert.NoError(t, svc.DeleteSession(ctx, "gone"))
	assert.NoError(t, svc.DeleteSession(ctx, "gone"))
	mockSessions.AssertExpectations(t)
}
