package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"flock-backend/application/services"
	"flock-backend/domain"
	"flock-backend/interfaces/http/rest/middleware"
	"flock-backend/pkg/common"
	apperrors "flock-backend/pkg/errors"
)

// StatusHandler handles posting statuses and reading stories and feeds.
type StatusHandler struct {
	posts    *services.PostService
	statuses *services.StatusService
	users    *services.UserService
	logger   *zap.Logger
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(
	posts *services.PostService,
	statuses *services.StatusService,
	users *services.UserService,
	logger *zap.Logger,
) *StatusHandler {
	return &StatusHandler{posts: posts, statuses: statuses, users: users, logger: logger}
}

// PostStatusRequest represents the request body for posting a status.
// The timestamp is optional; when omitted the server stamps the post
// with the current time.
type PostStatusRequest struct {
	Post      string `json:"post" validate:"required"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// StatusPageResponse is one page of statuses in descending timestamp
// order with an opaque continuation cursor.
type StatusPageResponse struct {
	Items      []domain.Status `json:"items"`
	NextCursor string          `json:"nextCursor,omitempty"`
}

// PostStatus handles POST /statuses
func (h *StatusHandler) PostStatus(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerAlias(r.Context())

	var req PostStatusRequest
	if err := common.ParseJSONBody(r, &req, 1<<20); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body: "+err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "validation error: "+err.Error())
		return
	}

	author, err := h.users.GetUser(r.Context(), caller)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	if req.Timestamp == 0 {
		req.Timestamp = time.Now().UnixMilli()
	}

	status, err := domain.NewStatus(req.Post, author.Ref(), req.Timestamp)
	if err != nil {
		common.RespondAppError(w, apperrors.NewValidationError(err.Error()))
		return
	}

	if err := h.posts.PostStatus(r.Context(), caller, status); err != nil {
		h.logger.Error("failed to post status",
			zap.String("author", caller),
			zap.Int64("timestamp", status.Timestamp),
			zap.Error(err),
		)
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, status)
}

// DeleteStatus handles DELETE /statuses/{timestamp}
func (h *StatusHandler) DeleteStatus(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerAlias(r.Context())

	timestamp, err := strconv.ParseInt(chi.URLParam(r, "timestamp"), 10, 64)
	if err != nil || timestamp <= 0 {
		common.RespondAppError(w, apperrors.NewValidationError("timestamp must be a positive integer"))
		return
	}

	if err := h.statuses.DeleteStatus(r.Context(), caller, timestamp); err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "status deleted"})
}

// Story handles GET /users/{alias}/story
func (h *StatusHandler) Story(w http.ResponseWriter, r *http.Request) {
	alias := chi.URLParam(r, "alias")

	before, err := beforeTimestamp(r)
	if err != nil {
		common.RespondAppError(w, apperrors.NewValidationError("invalid cursor"))
		return
	}

	items, last, err := h.statuses.Story(r.Context(), alias, pageLimit(r), before)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, statusPage(items, last))
}

// Feed handles GET /feed
func (h *StatusHandler) Feed(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerAlias(r.Context())

	before, err := beforeTimestamp(r)
	if err != nil {
		common.RespondAppError(w, apperrors.NewValidationError("invalid cursor"))
		return
	}

	items, last, err := h.statuses.Feed(r.Context(), caller, pageLimit(r), before)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, statusPage(items, last))
}

// beforeTimestamp decodes the timestamp cursor, returning 0 for the
// first page.
func beforeTimestamp(r *http.Request) (int64, error) {
	cursor := pageCursor(r)
	if cursor == "" {
		return 0, nil
	}
	return common.DecodeTimestampCursor(cursor)
}

func statusPage(items []domain.Status, last int64) StatusPageResponse {
	resp := StatusPageResponse{Items: items}
	if last > 0 {
		resp.NextCursor = common.EncodeTimestampCursor(last)
	}
	return resp
}
