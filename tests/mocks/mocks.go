// Package mocks provides testify mock implementations of the
// application ports for unit testing services and pipeline stages.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"flock-backend/domain"
)

// MockUserRepository mocks ports.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User, passwordHash string) error {
	args := m.Called(ctx, user, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) GetByAlias(ctx context.Context, alias string) (*domain.User, error) {
	args := m.Called(ctx, alias)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetWithPassword(ctx context.Context, alias string) (*domain.User, string, error) {
	args := m.Called(ctx, alias)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}

func (m *MockUserRepository) AdjustCounts(ctx context.Context, alias string, followerDelta, followeeDelta int) error {
	args := m.Called(ctx, alias, followerDelta, followeeDelta)
	return args.Error(0)
}

// MockSessionRepository mocks ports.SessionRepository.
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Get(ctx context.Context, token string) (*domain.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionRepository) Delete(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// MockFollowRepository mocks ports.FollowRepository.
type MockFollowRepository struct {
	mock.Mock
}

func (m *MockFollowRepository) Create(ctx context.Context, edge *domain.FollowEdge) error {
	args := m.Called(ctx, edge)
	return args.Error(0)
}

func (m *MockFollowRepository) Delete(ctx context.Context, followerAlias, followeeAlias string) error {
	args := m.Called(ctx, followerAlias, followeeAlias)
	return args.Error(0)
}

func (m *MockFollowRepository) IsFollowing(ctx context.Context, followerAlias, followeeAlias string) (bool, error) {
	args := m.Called(ctx, followerAlias, followeeAlias)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) FollowersPage(ctx context.Context, followeeAlias string, limit int32, cursor string) ([]domain.UserRef, string, error) {
	args := m.Called(ctx, followeeAlias, limit, cursor)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]domain.UserRef), args.String(1), args.Error(2)
}

func (m *MockFollowRepository) FolloweesPage(ctx context.Context, followerAlias string, limit int32, cursor string) ([]domain.UserRef, string, error) {
	args := m.Called(ctx, followerAlias, limit, cursor)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]domain.UserRef), args.String(1), args.Error(2)
}

func (m *MockFollowRepository) FollowerAliasesPage(ctx context.Context, followeeAlias string, limit int32, cursor string) ([]string, string, error) {
	args := m.Called(ctx, followeeAlias, limit, cursor)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]string), args.String(1), args.Error(2)
}

func (m *MockFollowRepository) CountFollowers(ctx context.Context, followeeAlias string) (int, error) {
	args := m.Called(ctx, followeeAlias)
	return args.Int(0), args.Error(1)
}

func (m *MockFollowRepository) CountFollowees(ctx context.Context, followerAlias string) (int, error) {
	args := m.Called(ctx, followerAlias)
	return args.Int(0), args.Error(1)
}

// MockStoryRepository mocks ports.StoryRepository.
type MockStoryRepository struct {
	mock.Mock
}

func (m *MockStoryRepository) Append(ctx context.Context, status *domain.Status) error {
	args := m.Called(ctx, status)
	return args.Error(0)
}

func (m *MockStoryRepository) Page(ctx context.Context, authorAlias string, limit int32, before int64) ([]domain.Status, int64, error) {
	args := m.Called(ctx, authorAlias, limit, before)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Status), args.Get(1).(int64), args.Error(2)
}

func (m *MockStoryRepository) Delete(ctx context.Context, authorAlias string, timestamp int64) error {
	args := m.Called(ctx, authorAlias, timestamp)
	return args.Error(0)
}

// MockFeedRepository mocks ports.FeedRepository.
type MockFeedRepository struct {
	mock.Mock
}

func (m *MockFeedRepository) Upsert(ctx context.Context, receiverAlias string, status *domain.Status) error {
	args := m.Called(ctx, receiverAlias, status)
	return args.Error(0)
}

func (m *MockFeedRepository) Page(ctx context.Context, receiverAlias string, limit int32, before int64) ([]domain.Status, int64, error) {
	args := m.Called(ctx, receiverAlias, limit, before)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Status), args.Get(1).(int64), args.Error(2)
}

func (m *MockFeedRepository) Delete(ctx context.Context, receiverAlias string, timestamp int64) error {
	args := m.Called(ctx, receiverAlias, timestamp)
	return args.Error(0)
}

// MockFanoutQueue mocks ports.FanoutQueue.
type MockFanoutQueue struct {
	mock.Mock
}

func (m *MockFanoutQueue) SendExpansionJob(ctx context.Context, job domain.ExpansionJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockFanoutQueue) SendUpdateJobs(ctx context.Context, jobs []domain.UpdateJob) error {
	args := m.Called(ctx, jobs)
	return args.Error(0)
}

// MockImageStore mocks ports.ImageStore.
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Put(ctx context.Context, alias string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, alias, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) Delete(ctx context.Context, alias string) error {
	args := m.Called(ctx, alias)
	return args.Error(0)
}
