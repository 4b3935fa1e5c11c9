package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"flock-backend/application/services"
	"flock-backend/domain"
	apperrors "flock-backend/pkg/errors"
	"flock-backend/tests/mocks"
)

func authedHandler(t *testing.T, sessions *mocks.MockSessionRepository) http.Handler {
	t.Helper()
	auth := services.NewAuthService(sessions, zap.NewNop())

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(CallerAlias(r.Context())))
	})
	return Authenticate(auth, zap.NewNop())(next)
}

func TestAuthenticate_ValidToken(t *testing.T) {
	// Arrange
	sessions := new(mocks.MockSessionRepository)
	sessions.On("Get", mock.Anything, "token-1").Return(&domain.Session{
		Token:    "token-1",
		Alias:    "alice",
		IssuedAt: time.Now(),
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	req.Header.Set("Authorization", "Bearer token-1")
	rec := httptest.NewRecorder()

	// Act
	authedHandler(t, sessions).ServeHTTP(rec, req)

	// Assert: the caller alias reached the handler
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Body.String())
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	rec := httptest.NewRecorder()

	authedHandler(t, new(mocks.MockSessionRepository)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_UnknownToken(t *testing.T) {
	// Arrange
	sessions := new(mocks.MockSessionRepository)
	sessions.On("Get", mock.Anything, "bogus").Return(nil, apperrors.NewNotFoundError("session"))

	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec := httptest.NewRecorder()

	// Act
	authedHandler(t, sessions).ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	// Arrange
	sessions := new(mocks.MockSessionRepository)
	sessions.On("Get", mock.Anything, "stale").Return(&domain.Session{
		Token:    "stale",
		Alias:    "alice",
		IssuedAt: time.Now().Add(-domain.SessionTTL - time.Hour),
	}, nil)
	sessions.On("Delete", mock.Anything, "stale").Return(nil)

	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	req.Header.Set("Authorization", "Bearer stale")
	rec := httptest.NewRecorder()

	// Act
	authedHandler(t, sessions).ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
