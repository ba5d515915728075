package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/mentorlink/mentorlink-api/internal/models"
)

// MockUserStore is a mock implementation of repository.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) CreateUser(ctx context.Context, email, passwordHash, name string, role models.Role) (*models.User, error) {
	args := m.Called(ctx, email, passwordHash, name, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) UpdateUserProfile(ctx context.Context, id int, upd models.ProfileUpdate) (*models.User, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) ListMentors(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

// MockSessionStore is a mock implementation of repository.SessionStore
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) CreateSession(ctx context.Context, s *models.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionStore) GetSession(ctx context.Context, tokenID string) (*models.Session, error) {
	args := m.Called(ctx, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionStore) RevokeSession(ctx context.Context, tokenID string, at time.Time) error {
	args := m.Called(ctx, tokenID, at)
	return args.Error(0)
}

func (m *MockSessionStore) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// MockMatchRequestStore is a mock implementation of repository.MatchRequestStore
type MockMatchRequestStore struct {
	mock.Mock
}

func (m *MockMatchRequestStore) CreateMatchRequest(ctx context.Context, mentorID, menteeID int, message string) (*models.MatchRequest, error) {
	args := m.Called(ctx, mentorID, menteeID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MatchRequest), args.Error(1)
}

func (m *MockMatchRequestStore) GetMatchRequestByID(ctx context.Context, id string) (*models.MatchRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MatchRequest), args.Error(1)
}

func (m *MockMatchRequestStore) TransitionMatchRequest(ctx context.Context, id string, to models.MatchRequestStatus) (*models.MatchRequest, error) {
	args := m.Called(ctx, id, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MatchRequest), args.Error(1)
}

func (m *MockMatchRequestStore) ListMatchRequestsByMentor(ctx context.Context, mentorID int) ([]*models.MatchRequest, error) {
	args := m.Called(ctx, mentorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MatchRequest), args.Error(1)
}

func (m *MockMatchRequestStore) ListMatchRequestsByMentee(ctx context.Context, menteeID int) ([]*models.MatchRequest, error) {
	args := m.Called(ctx, menteeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MatchRequest), args.Error(1)
}
