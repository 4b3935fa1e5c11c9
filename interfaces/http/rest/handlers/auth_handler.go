package handlers

import (
	"encoding/base64"
	"net/http"

	"go.uber.org/zap"

	"flock-backend/application/services"
	"flock-backend/domain"
	"flock-backend/interfaces/http/rest/middleware"
	"flock-backend/pkg/common"
	apperrors "flock-backend/pkg/errors"
)

const maxAuthBodyBytes = 10 << 20 // registration carries a base64 avatar

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	users  *services.UserService
	logger *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(users *services.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, logger: logger}
}

// RegisterRequest represents the request body for creating an account.
type RegisterRequest struct {
	FirstName     string `json:"firstName" validate:"required"`
	LastName      string `json:"lastName" validate:"required"`
	Alias         string `json:"alias" validate:"required"`
	Password      string `json:"password" validate:"required"`
	ImageBase64   string `json:"imageBase64" validate:"required"`
	ImageFileType string `json:"imageFileType" validate:"required"`
}

// LoginRequest represents the request body for logging in.
type LoginRequest struct {
	Alias    string `json:"alias" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the authenticated user and session token.
type AuthResponse struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := common.ParseJSONBody(r, &req, maxAuthBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body: "+err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "validation error: "+err.Error())
		return
	}

	image, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "profile image is not valid base64")
		return
	}

	user, session, err := h.users.Register(r.Context(), services.RegisterParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Alias:     req.Alias,
		Password:  req.Password,
		Image:     image,
		ImageType: req.ImageFileType,
	})
	if err != nil {
		h.logger.Warn("registration failed", zap.String("alias", req.Alias), zap.Error(err))
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, AuthResponse{
		User:  userDTO(user),
		Token: session.Token,
	})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := common.ParseJSONBody(r, &req, 1<<20); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body: "+err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "validation error: "+err.Error())
		return
	}

	user, session, err := h.users.Login(r.Context(), req.Alias, req.Password)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, AuthResponse{
		User:  userDTO(user),
		Token: session.Token,
	})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if middleware.CallerAlias(r.Context()) == "" {
		common.RespondAppError(w, apperrors.NewUnauthorizedError("not authenticated"))
		return
	}

	token := bearerToken(r)
	if err := h.users.Logout(r.Context(), token); err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// UserDTO is the public representation of a user profile.
type UserDTO struct {
	Alias         string `json:"alias"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	ImageURL      string `json:"imageUrl"`
	FollowerCount int    `json:"followerCount"`
	FolloweeCount int    `json:"followeeCount"`
}

func userDTO(u *domain.User) UserDTO {
	return UserDTO{
		Alias:         u.Alias,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		ImageURL:      u.ImageURL,
		FollowerCount: u.FollowerCount,
		FolloweeCount: u.FolloweeCount,
	}
}
