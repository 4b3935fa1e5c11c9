package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"flock-backend/application/services"
	"flock-backend/pkg/common"
	apperrors "flock-backend/pkg/errors"
)

type contextKey string

const aliasContextKey contextKey = "callerAlias"

// CallerAlias returns the authenticated user's alias from the request
// context, or "" if the request was not authenticated.
func CallerAlias(ctx context.Context) string {
	alias, _ := ctx.Value(aliasContextKey).(string)
	return alias
}

// Authenticate validates the bearer session token on every request and
// stores the caller's alias in the request context.
func Authenticate(auth *services.AuthService, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				common.RespondAppError(w, apperrors.NewUnauthorizedError("missing authentication token"))
				return
			}

			alias, err := auth.ValidateToken(r.Context(), token)
			if err != nil {
				logger.Debug("rejected request token",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				common.RespondAppError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), aliasContextKey, alias)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken pulls the session token from the Authorization header.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
		return strings.TrimSpace(parts[1])
	}
	return authHeader
}
