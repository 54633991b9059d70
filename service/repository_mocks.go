package service

import (
	"context"

	"curator/events"
	"curator/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByUserID(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, userID int64, username string) (*models.User, error) {
	args := m.Called(ctx, userID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUsername(ctx context.Context, userID int64, username string) error {
	args := m.Called(ctx, userID, username)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) TopBy(ctx context.Context, criterion models.RankCriterion, limit int) ([]*models.User, error) {
	args := m.Called(ctx, criterion, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) AddVote(ctx context.Context, authorID int64, kind models.VoteKind) (bool, error) {
	args := m.Called(ctx, authorID, kind)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) RemoveVote(ctx context.Context, authorID int64, kind models.VoteKind) (bool, error) {
	args := m.Called(ctx, authorID, kind)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) AddVotesCast(ctx context.Context, reactorID int64, delta int64) (bool, error) {
	args := m.Called(ctx, reactorID, delta)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) AdjustVotes(ctx context.Context, userID int64, kind models.VoteKind, delta int64) (bool, error) {
	args := m.Called(ctx, userID, kind, delta)
	return args.Bool(0), args.Error(1)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	userRepo UserRepository
}

// SetRepository wires the repository the mock hands out
func (m *MockUnitOfWork) SetRepository(userRepo UserRepository) {
	m.userRepo = userRepo
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() UserRepository {
	return m.userRepo
}

func (m *MockUnitOfWork) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
