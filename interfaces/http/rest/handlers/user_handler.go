package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"flock-backend/application/services"
	"flock-backend/pkg/common"
	apperrors "flock-backend/pkg/errors"
)

// UserHandler handles profile lookups.
type UserHandler struct {
	users  *services.UserService
	logger *zap.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(users *services.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// GetUser handles GET /users/{alias}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	alias := chi.URLParam(r, "alias")
	if alias == "" {
		common.RespondAppError(w, apperrors.NewValidationError("alias is required"))
		return
	}

	user, err := h.users.GetUser(r.Context(), alias)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, userDTO(user))
}
