package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"flock-backend/application/ports"
	"flock-backend/domain"
	apperrors "flock-backend/pkg/errors"
)

// AuthService owns the session token lifecycle. Tokens are opaque
// uuids stored server-side; the session table's TTL attribute evicts
// stale rows eventually, but expiry is enforced on every validation.
type AuthService struct {
	sessions ports.SessionRepository
	logger   *zap.Logger
}

// NewAuthService creates an auth service.
func NewAuthService(sessions ports.SessionRepository, logger *zap.Logger) *AuthService {
	return &AuthService{
		sessions: sessions,
		logger:   logger,
	}
}

// ValidateToken resolves a session token to the authenticated alias.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", apperrors.NewUnauthorizedError("missing authentication token")
	}

	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return "", apperrors.NewUnauthorizedError("invalid or expired token")
		}
		return "", err
	}

	if session.Expired(time.Now()) {
		// Best-effort cleanup; the TTL attribute would reap it anyway.
		if err := s.sessions.Delete(ctx, token); err != nil {
			s.logger.Warn("Failed to delete expired session", zap.Error(err))
		}
		return "", apperrors.NewUnauthorizedError("token has expired")
	}

	return session.Alias, nil
}

// CreateSession issues a fresh session token for the alias.
func (s *AuthService) CreateSession(ctx context.Context, alias string) (*domain.Session, error) {
	session := &domain.Session{
		Token:    uuid.New().String(),
		Alias:    alias,
		IssuedAt: time.Now(),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, apperrors.NewDatabaseError("create session", err)
	}

	return session, nil
}

// DeleteSession revokes a session token. Deleting an unknown token is
// not an error; logout must be idempotent.
func (s *AuthService) DeleteSession(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return apperrors.NewUnauthorizedError("missing authentication token")
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return apperrors.NewDatabaseError("delete session", err)
	}
	return nil
}
