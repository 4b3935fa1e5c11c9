package services

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"flock-backend/application/ports"
	"flock-backend/domain"
	apperrors "flock-backend/pkg/errors"
)

// RegisterParams carries everything needed to create an account. The
// avatar arrives as raw bytes (base64-decoded by the handler) and is
// stored in the image store before the profile row is written.
type RegisterParams struct {
	FirstName string
	LastName  string
	Alias     string
	Password  string
	Image     []byte
	ImageType string
}

// UserService implements account registration, login/logout and profile
// lookups.
type UserService struct {
	users  ports.UserRepository
	images ports.ImageStore
	auth   *AuthService
	logger *zap.Logger
}

// NewUserService creates a user service.
func NewUserService(users ports.UserRepository, images ports.ImageStore, auth *AuthService, logger *zap.Logger) *UserService {
	return &UserService{
		users:  users,
		images: images,
		auth:   auth,
		logger: logger,
	}
}

// Register creates a user account, stores the avatar and opens a
// session.
func (s *UserService) Register(ctx context.Context, params RegisterParams) (*domain.User, *domain.Session, error) {
	if params.Password == "" {
		return nil, nil, apperrors.NewValidationError("password must not be empty")
	}
	if len(params.Image) == 0 {
		return nil, nil, apperrors.NewValidationError("profile image is required")
	}

	if existing, err := s.users.GetByAlias(ctx, params.Alias); err != nil && !apperrors.IsNotFound(err) {
		return nil, nil, err
	} else if existing != nil {
		return nil, nil, apperrors.NewConflictError("alias is already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, apperrors.NewInternalError("failed to hash password").WithCause(err)
	}

	imageURL, err := s.images.Put(ctx, params.Alias, params.Image, params.ImageType)
	if err != nil {
		return nil, nil, apperrors.NewExternalError("image store", err)
	}

	user, err := domain.NewUser(params.Alias, params.FirstName, params.LastName, imageURL)
	if err != nil {
		return nil, nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.users.Create(ctx, user, string(hash)); err != nil {
		return nil, nil, apperrors.NewDatabaseError("create user", err)
	}

	session, err := s.auth.CreateSession(ctx, user.Alias)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("User registered", zap.String("alias", user.Alias))

	return user, session, nil
}

// Login verifies credentials and opens a session. Unknown aliases and
// wrong passwords produce the same error so the response does not leak
// which aliases exist.
func (s *UserService) Login(ctx context.Context, alias, password string) (*domain.User, *domain.Session, error) {
	user, hash, err := s.users.GetWithPassword(ctx, alias)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil, apperrors.NewUnauthorizedError("invalid alias or password")
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, nil, apperrors.NewUnauthorizedError("invalid alias or password")
	}

	session, err := s.auth.CreateSession(ctx, user.Alias)
	if err != nil {
		return nil, nil, err
	}

	return user, session, nil
}

// Logout revokes the caller's session token.
func (s *UserService) Logout(ctx context.Context, token string) error {
	return s.auth.DeleteSession(ctx, token)
}

// GetUser returns the profile for an alias.
func (s *UserService) GetUser(ctx context.Context, alias string) (*domain.User, error) {
	user, err := s.users.GetByAlias(ctx, alias)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NewNotFoundError("user")
	}
	return user, nil
}
