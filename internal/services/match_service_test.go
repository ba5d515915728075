package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/services"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
)

var (
	menteeActor = &models.Actor{UserID: 10, Role: models.RoleMentee}
	mentorActor = &models.Actor{UserID: 20, Role: models.RoleMentor}
)

func TestMatchService_CreateRequest(t *testing.T) {
	users := new(MockUserStore)
	requests := new(MockMatchRequestStore)
	service := services.NewMatchService(users, requests)
	ctx := context.Background()

	mentor := &models.User{ID: 20, Role: models.RoleMentor}
	created := &models.MatchRequest{ID: "req-1", MentorID: 20, MenteeID: 10, Status: models.StatusPending}

	users.On("GetUserByID", ctx, 20).Return(mentor, nil).Once()
	requests.On("CreateMatchRequest", ctx, 20, 10, "please").Return(created, nil).Once()

	req, err := service.CreateRequest(ctx, menteeActor, &models.CreateMatchRequestPayload{MentorID: 20, Message: "please"})
	require.NoError(t, err)
	assert.Equal(t, created, req)

	users.AssertExpectations(t)
	requests.AssertExpectations(t)
}

func TestMatchService_CreateRequest_MentorCannotCreate(t *testing.T) {
	users := new(MockUserStore)
	requests := new(MockMatchRequestStore)
	service := services.NewMatchService(users, requests)

	_, err := service.CreateRequest(context.Background(), mentorActor, &models.CreateMatchRequestPayload{MentorID: 20})
	assert.ErrorIs(t, err, apperrors.ErrInvalidRole)
	requests.AssertNotCalled(t, "CreateMatchRequest")
}

func TestMatchService_CreateRequest_TargetMustBeMentor(t *testing.T) {
	users := new(MockUserStore)
	requests := new(MockMatchRequestStore)
	service := services.NewMatchService(users, requests)
	ctx := context.Background()

	users.On("GetUserByID", ctx, 11).Return(&models.User{ID: 11, Role: models.RoleMentee}, nil).Once()

	_, err := service.CreateRequest(ctx, menteeActor, &models.CreateMatchRequestPayload{MentorID: 11})
	assert.ErrorIs(t, err, apperrors.ErrInvalidRole)
	requests.AssertNotCalled(t, "CreateMatchRequest")
}

func TestMatchService_CreateRequest_UnknownMentor(t *testing.T) {
	users := new(MockUserStore)
	requests := new(MockMatchRequestStore)
	service := services.NewMatchService(users, requests)
	ctx := context.Background()

	users.On("GetUserByID", ctx, 999).Return(nil, apperrors.NotFoundError("user")).Once()

	_, err := service.CreateRequest(ctx, menteeActor, &models.CreateMatchRequestPayload{MentorID: 999})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMatchService_CreateRequest_PendingConflict(t *testing.T) {
	users := new(MockUserStore)
	requests := new(MockMatchRequestStore)
	service := services.NewMatchService(users, requests)
	ctx := context.Background()

	users.On("GetUserByID", ctx, 20).Return(&models.User{ID: 20, Role: models.RoleMentor}, nil).Once()
	requests.On("CreateMatchRequest", ctx, 20, 10, "").
		Return(nil, apperrors.ConflictError("mentee already has a pending request")).Once()

	_, err := service.CreateRequest(ctx, menteeActor, &models.CreateMatchRequestPayload{MentorID: 20})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestMatchService_DecideRequest(t *testing.T) {
	users := new(MockUserStore)
	requests := new(MockMatchRequestStore)
	service := services.NewMatchService(users, requests)
	ctx := context.Background()

	pending := &models.MatchRequest{ID: "req-1", MentorID: 20, MenteeID: 10, Status: models.StatusPending}
	now := time.Now()
	accepted := &models.MatchRequest{ID: "req-1", MentorID: 20, MenteeID: 10, Status: models.StatusAccepted, DecidedAt: &now}

	requests.On("GetMatchRequestByID", ctx, "req-1").Return(pending, nil).Once()
	requests.On("TransitionMatchRequest", ctx, "req-1", models.StatusAccepted).Return(accepted, nil).Once()

	req, err := service.DecideRequest(ctx, mentorActor, "req-1", models.OutcomeAccept)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, req.Status)

	requests.AssertExpectations(t)
}

func TestMatchService_DecideRequest_ForeignRequest(t *testing.T) {
	users := new(MockUserStore)
	requests := new(MockMatchRequestStore)
	service := services.NewMatchService(users, requests)
	ctx := context.Background()

	pending := &models.MatchRequest{ID: "req-1", MentorID: 99, MenteeID: 10, Status: models.StatusPending}
	requests.On("GetMatchRequestByID", ctx, "req-1").Return(pending, nil).Once()

	_, err := service.DecideRequest(ctx, mentorActor, "req-1", models.OutcomeReject)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	requests.AssertNotCalled(t, "TransitionMatchRequest")
}

func TestMatchService_DecideRequest_LostRace(t *testing.T) {
	users := new(MockUserStore)
	requests := new(MockMatchRequestStore)
	service := services.NewMatchService(users, requests)
	ctx := context.Background()

	// The request reads as pending but another writer decides it first
	pending := &models.MatchRequest{ID: "req-1", MentorID: 20, MenteeID: 10, Status: models.StatusPending}
	requests.On("GetMatchRequestByID", ctx, "req-1").Return(pending, nil).Once()
	requests.On("TransitionMatchRequest", ctx, "req-1", models.StatusRejected).
		Return(nil, apperrors.InvalidStateError("cancelled", "rejected")).Once()

	_, err := service.DecideRequest(ctx, mentorActor, "req-1", models.OutcomeReject)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestMatchService_DecideRequest_MenteeCannotDecide(t *testing.T) {
	users := new(MockUserStore)
	requests := new(MockMatchRequestStore)
	service := services.NewMatchService(users, requests)

	_, err := service.DecideRequest(context.Background(), menteeActor, "req-1", models.OutcomeAccept)
	assert.ErrorIs(t, err, apperrors.ErrInvalidRole)
}

func TestMatchService_CancelRequest(t *testing.T) {
	users := new(MockUserStore)
	requests := new(MockMatchRequestStore)
	service := services.NewMatchService(users, requests)
	ctx := context.Background()

	pending := &models.MatchRequest{ID: "req-1", MentorID: 20, MenteeID: 10, Status: models.StatusPending}
	cancelled := &models.MatchRequest{ID: "req-1", MentorID: 20, MenteeID: 10, Status: models.StatusCancelled}

	requests.On("GetMatchRequestByID", ctx, "req-1").Return(pending, nil).Once()
	requests.On("TransitionMatchRequest", ctx, "req-1", models.StatusCancelled).Return(cancelled, nil).Once()

	req, err := service.CancelRequest(ctx, menteeActor, "req-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, req.Status)
}

func TestMatchService_CancelRequest_ForeignRequest(t *testing.T) {
	users := new(MockUserStore)
	requests := new(MockMatchRequestStore)
	service := services.NewMatchService(users, requests)
	ctx := context.Background()

	pending := &models.MatchRequest{ID: "req-1", MentorID: 20, MenteeID: 55, Status: models.StatusPending}
	requests.On("GetMatchRequestByID", ctx, "req-1").Return(pending, nil).Once()

	_, err := service.CancelRequest(ctx, menteeActor, "req-1")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestMatchService_CancelRequest_AlreadyDecided(t *testing.T) {
	users := new(MockUserStore)
	requests := new(MockMatchRequestStore)
	service := services.NewMatchService(users, requests)
	ctx := context.Background()

	pending := &models.MatchRequest{ID: "req-1", MentorID: 20, MenteeID: 10, Status: models.StatusPending}
	requests.On("GetMatchRequestByID", ctx, "req-1").Return(pending, nil).Once()
	requests.On("TransitionMatchRequest", ctx, "req-1", models.StatusCancelled).
		Return(nil, apperrors.InvalidStateError("accepted", "cancelled")).Once()

	_, err := service.CancelRequest(ctx, menteeActor, "req-1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestMatchService_ListIncoming(t *testing.T) {
	users := new(MockUserStore)
	requests := new(MockMatchRequestStore)
	service := services.NewMatchService(users, requests)
	ctx := context.Background()

	stored := []*models.MatchRequest{
		{ID: "req-2", MentorID: 20, MenteeID: 11},
		{ID: "req-1", MentorID: 20, MenteeID: 10},
	}
	requests.On("ListMatchRequestsByMentor", ctx, 20).Return(stored, nil).Once()

	resp, err := service.ListIncoming(ctx, mentorActor)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, "req-2", resp.Requests[0].ID)

	// Role is enforced even if routing misses it
	_, err = service.ListIncoming(ctx, menteeActor)
	assert.ErrorIs(t, err, apperrors.ErrInvalidRole)
}

func TestMatchService_ListOutgoing(t *testing.T) {
	users := new(MockUserStore)
	requests := new(MockMatchRequestStore)
	service := services.NewMatchService(users, requests)
	ctx := context.Background()

	stored := []*models.MatchRequest{{ID: "req-1", MentorID: 20, MenteeID: 10}}
	requests.On("ListMatchRequestsByMentee", ctx, 10).Return(stored, nil).Once()

	resp, err := service.ListOutgoing(ctx, menteeActor)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)

	_, err = service.ListOutgoing(ctx, mentorActor)
	assert.ErrorIs(t, err, apperrors.ErrInvalidRole)
}
