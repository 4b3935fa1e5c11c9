package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"flock-backend/domain"
	apperrors "flock-backend/pkg/errors"
	"flock-backend/tests/mocks"
)

func registerParams() RegisterParams {
	return RegisterParams{
		FirstName: "Alice",
		LastName:  "Author",
		Alias:     "alice",
		Password:  "hunter2",
		Image:     []byte{0xff, 0xd8, 0xff},
		ImageType: "image/jpeg",
	}
}

func newUserService(users *mocks.MockUserRepository, images *mocks.MockImageStore, sessions *mocks.MockSessionRepository) *UserService {
	auth := NewAuthService(sessions, zap.NewNop())
	return NewUserService(users, images, auth, zap.NewNop())
}

func TestUserService_Register_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUsers := new(mocks.MockUserRepository)
	mockImages := new(mocks.MockImageStore)
	mockSessions := new(mocks.MockSessionRepository)

	mockUsers.On("GetByAlias", ctx, "alice").Return(nil, apperrors.NewNotFoundError("user"))
	mockImages.On("Put", ctx, "alice", mock.Anything, "image/jpeg").Return("https://img/alice", nil)
	mockUsers.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.Alias == "alice" && u.ImageURL == "https://img/alice"
	}), mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2")) == nil
	})).Return(nil)
	mockSessions.On("Create", ctx, mock.AnythingOfType("*domain.Session")).Return(nil)

	svc := newUserService(mockUsers, mockImages, mockSessions)

	// Act
	user, session, err := svc.Register(ctx, registerParams())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Alias)
	assert.Equal(t, "alice", session.Alias)
	assert.NotEmpty(t, session.Token)
	mockUsers.AssertExpectations(t)
	mockImages.AssertExpectations(t)
}

func TestUserService_Register_AliasTaken(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUsers := new(mocks.MockUserRepository)
	mockUsers.On("GetByAlias", ctx, "alice").Return(testUser("alice"), nil)

	svc := newUserService(mockUsers, new(mocks.MockImageStore), new(mocks.MockSessionRepository))

	// Act
	_, _, err := svc.Register(ctx, registerParams())

	// Assert
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestUserService_Register_RequiresImage(t *testing.T) {
	svc := newUserService(new(mocks.MockUserRepository), new(mocks.MockImageStore), new(mocks.MockSessionRepository))

	params := registerParams()
	params.Image = nil

	_, _, err := svc.Register(context.Background(), params)

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestUserService_Login_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	mockUsers := new(mocks.MockUserRepository)
	mockSessions := new(mocks.MockSessionRepository)
	mockUsers.On("GetWithPassword", ctx, "alice").Return(testUser("alice"), string(hash), nil)
	mockSessions.On("Create", ctx, mock.AnythingOfType("*domain.Session")).Return(nil)

	svc := newUserService(mockUsers, new(mocks.MockImageStore), mockSessions)

	// Act
	user, session, err := svc.Login(ctx, "alice", "hunter2")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Alias)
	assert.NotEmpty(t, session.Token)
}

func TestUserService_Login_WrongPasswordAndUnknownAliasLookAlike(t *testing.T) {
	// Arrange
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	mockUsers := new(mocks.MockUserRepository)
	mockUsers.On("GetWithPassword", ctx, "alice").Return(testUser("alice"), string(hash), nil)
	mockUsers.On("GetWithPassword", ctx, "ghost").Return(nil, "", apperrors.NewNotFoundError("user"))

	svc := newUserService(mockUsers, new(mocks.MockImageStore), new(mocks.MockSessionRepository))

	// Act
	_, _, wrongPassword := svc.Login(ctx, "alice", "wrong")
	_, _, unknownAlias := svc.Login(ctx, "ghost", "hunter2")

	// Assert: both failures carry the same message so responses don't
	// reveal which aliases exist
	require.Error(t, wrongPassword)
	require.Error(t, unknownAlias)
	assert.True(t, apperrors.IsUnauthorized(wrongPassword))
	assert.True(t, apperrors.IsUnauthorized(unknownAlias))
	assert.Equal(t, wrongPassword.Error(), unknownAlias.Error())
}

func TestUserService_GetUser_NotFound(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUsers := new(mocks.MockUserRepository)
	mockUsers.On("GetByAlias", ctx, "ghost").Return(nil, apperrors.NewNotFoundError("user"))

	svc := newUserService(mockUsers, new(mocks.MockImageStore), new(mocks.MockSessionRepository))

	// Act
	_, err := svc.GetUser(ctx, "ghost")

	// Assert
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}
