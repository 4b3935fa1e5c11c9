package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"flock-backend/application/services"
	"flock-backend/domain"
	"flock-backend/interfaces/http/rest/middleware"
	"flock-backend/pkg/common"
	apperrors "flock-backend/pkg/errors"
)

// FollowHandler handles follow-graph requests.
type FollowHandler struct {
	follows *services.FollowService
	logger  *zap.Logger
}

// NewFollowHandler creates a new follow handler.
func NewFollowHandler(follows *services.FollowService, logger *zap.Logger) *FollowHandler {
	return &FollowHandler{follows: follows, logger: logger}
}

// FollowRequest represents the request body for creating a follow edge.
type FollowRequest struct {
	FolloweeAlias string `json:"followeeAlias" validate:"required"`
}

// UserPageResponse is one page of user listings with an opaque
// continuation cursor. An empty cursor means the listing is exhausted.
type UserPageResponse struct {
	Items      []domain.UserRef `json:"items"`
	NextCursor string           `json:"nextCursor,omitempty"`
}

// Follow handles POST /follows
func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerAlias(r.Context())

	var req FollowRequest
	if err := common.ParseJSONBody(r, &req, 1<<20); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body: "+err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		common.RespondAppError(w, apperrors.NewValidationError("followeeAlias is required"))
		return
	}

	if err := h.follows.Follow(r.Context(), caller, req.FolloweeAlias); err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, map[string]string{"message": "now following " + req.FolloweeAlias})
}

// Unfollow handles DELETE /follows/{followeeAlias}
func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerAlias(r.Context())
	followee := chi.URLParam(r, "followeeAlias")

	if err := h.follows.Unfollow(r.Context(), caller, followee); err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "unfollowed " + followee})
}

// IsFollowing handles GET /follows/{followerAlias}/is-following/{followeeAlias}
func (h *FollowHandler) IsFollowing(w http.ResponseWriter, r *http.Request) {
	follower := chi.URLParam(r, "followerAlias")
	followee := chi.URLParam(r, "followeeAlias")

	following, err := h.follows.IsFollower(r.Context(), follower, followee)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]bool{"isFollowing": following})
}

// Followers handles GET /users/{alias}/followers
func (h *FollowHandler) Followers(w http.ResponseWriter, r *http.Request) {
	alias := chi.URLParam(r, "alias")

	items, next, err := h.follows.Followers(r.Context(), alias, pageLimit(r), pageCursor(r))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, UserPageResponse{Items: items, NextCursor: next})
}

// Followees handles GET /users/{alias}/followees
func (h *FollowHandler) Followees(w http.ResponseWriter, r *http.Request) {
	alias := chi.URLParam(r, "alias")

	items, next, err := h.follows.Followees(r.Context(), alias, pageLimit(r), pageCursor(r))
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, UserPageResponse{Items: items, NextCursor: next})
}

// FollowerCount handles GET /users/{alias}/follower-count
func (h *FollowHandler) FollowerCount(w http.ResponseWriter, r *http.Request) {
	alias := chi.URLParam(r, "alias")

	count, err := h.follows.FollowerCount(r.Context(), alias)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]int{"count": count})
}

// FolloweeCount handles GET /users/{alias}/followee-count
func (h *FollowHandler) FolloweeCount(w http.ResponseWriter, r *http.Request) {
	alias := chi.URLParam(r, "alias")

	count, err := h.follows.FolloweeCount(r.Context(), alias)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]int{"count": count})
}
