package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/repository"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
	"github.com/mentorlink/mentorlink-api/pkg/metrics"
)

// MatchService manages the match-request lifecycle: mentees open requests
// against mentors, mentors accept or reject them, mentees may cancel while
// still pending.
type MatchService struct {
	users    repository.UserStore
	requests repository.MatchRequestStore
}

// NewMatchService creates a new MatchService
func NewMatchService(users repository.UserStore, requests repository.MatchRequestStore) *MatchService {
	return &MatchService{
		users:    users,
		requests: requests,
	}
}

// CreateRequest opens a pending match request from the acting mentee to the
// target mentor. A mentee can have at most one pending request at a time;
// the store enforces that atomically.
func (s *MatchService) CreateRequest(ctx context.Context, actor *models.Actor, payload *models.CreateMatchRequestPayload) (*models.MatchRequest, error) {
	if actor.Role != models.RoleMentee {
		metrics.MatchRequestsCreated.WithLabelValues("invalid_role").Inc()
		return nil, apperrors.ErrInvalidRole
	}

	target, err := s.users.GetUserByID(ctx, payload.MentorID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			metrics.MatchRequestsCreated.WithLabelValues("not_found").Inc()
			return nil, apperrors.NotFoundError("mentor")
		}
		metrics.MatchRequestsCreated.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to look up mentor: %w", err)
	}
	if target.Role != models.RoleMentor {
		metrics.MatchRequestsCreated.WithLabelValues("invalid_role").Inc()
		return nil, apperrors.ErrInvalidRole
	}

	request, err := s.requests.CreateMatchRequest(ctx, payload.MentorID, actor.UserID, payload.Message)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrConflict) {
			metrics.MatchRequestsCreated.WithLabelValues("conflict").Inc()
			return nil, err
		}
		logger.Error("Failed to create match request",
			zap.Int("mentee_id", actor.UserID),
			zap.Int("mentor_id", payload.MentorID),
			zap.Error(err))
		metrics.MatchRequestsCreated.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to create match request: %w", err)
	}

	metrics.MatchRequestsCreated.WithLabelValues("success").Inc()
	logger.Info("Match request created",
		zap.String("request_id", request.ID),
		zap.Int("mentee_id", actor.UserID),
		zap.Int("mentor_id", payload.MentorID))

	return request, nil
}

// DecideRequest moves a pending request to accepted or rejected. Only the
// mentor the request targets may decide it, and only the first decision on a
// pending request wins.
func (s *MatchService) DecideRequest(ctx context.Context, actor *models.Actor, requestID string, outcome models.DecisionOutcome) (*models.MatchRequest, error) {
	if actor.Role != models.RoleMentor {
		metrics.MatchRequestDecisions.WithLabelValues(string(outcome), "invalid_role").Inc()
		return nil, apperrors.ErrInvalidRole
	}

	request, err := s.requests.GetMatchRequestByID(ctx, requestID)
	if err != nil {
		metrics.MatchRequestDecisions.WithLabelValues(string(outcome), "not_found").Inc()
		return nil, err
	}
	if request.MentorID != actor.UserID {
		logger.Warn("Decision denied for foreign request",
			zap.String("request_id", requestID),
			zap.Int("request_mentor", request.MentorID),
			zap.Int("acting_mentor", actor.UserID))
		metrics.MatchRequestDecisions.WithLabelValues(string(outcome), "forbidden").Inc()
		return nil, apperrors.ForbiddenError("request belongs to another mentor")
	}

	updated, err := s.requests.TransitionMatchRequest(ctx, requestID, outcome.Status())
	if err != nil {
		if apperrors.Is(err, apperrors.ErrInvalidState) {
			metrics.MatchRequestDecisions.WithLabelValues(string(outcome), "invalid_state").Inc()
			return nil, err
		}
		logger.Error("Failed to decide match request",
			zap.String("request_id", requestID),
			zap.Error(err))
		metrics.MatchRequestDecisions.WithLabelValues(string(outcome), "error").Inc()
		return nil, fmt.Errorf("failed to decide match request: %w", err)
	}

	metrics.MatchRequestDecisions.WithLabelValues(string(outcome), "success").Inc()
	logger.Info("Match request decided",
		zap.String("request_id", requestID),
		zap.String("outcome", string(outcome)),
		zap.Int("mentor_id", actor.UserID))

	return updated, nil
}

// CancelRequest lets the mentee withdraw their own pending request. A request
// a mentor already decided can no longer be cancelled.
func (s *MatchService) CancelRequest(ctx context.Context, actor *models.Actor, requestID string) (*models.MatchRequest, error) {
	if actor.Role != models.RoleMentee {
		return nil, apperrors.ErrInvalidRole
	}

	request, err := s.requests.GetMatchRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.MenteeID != actor.UserID {
		logger.Warn("Cancellation denied for foreign request",
			zap.String("request_id", requestID),
			zap.Int("request_mentee", request.MenteeID),
			zap.Int("acting_mentee", actor.UserID))
		return nil, apperrors.ForbiddenError("request belongs to another mentee")
	}

	updated, err := s.requests.TransitionMatchRequest(ctx, requestID, models.StatusCancelled)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrInvalidState) {
			return nil, err
		}
		logger.Error("Failed to cancel match request",
			zap.String("request_id", requestID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to cancel match request: %w", err)
	}

	metrics.MatchRequestDecisions.WithLabelValues("cancel", "success").Inc()
	logger.Info("Match request cancelled",
		zap.String("request_id", requestID),
		zap.Int("mentee_id", actor.UserID))

	return updated, nil
}

// ListIncoming returns the requests targeting the acting mentor, newest first
func (s *MatchService) ListIncoming(ctx context.Context, actor *models.Actor) (*models.MatchRequestsResponse, error) {
	if actor.Role != models.RoleMentor {
		return nil, apperrors.ErrInvalidRole
	}

	start := time.Now()
	requests, err := s.requests.ListMatchRequestsByMentor(ctx, actor.UserID)
	if err != nil {
		logger.Error("Failed to list incoming requests",
			zap.Int("mentor_id", actor.UserID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list incoming requests: %w", err)
	}

	logger.Debug("Listed incoming requests",
		zap.Int("mentor_id", actor.UserID),
		zap.Int("count", len(requests)),
		zap.Duration("duration", time.Since(start)))

	return buildRequestsResponse(requests), nil
}

// ListOutgoing returns the requests the acting mentee opened, newest first
func (s *MatchService) ListOutgoing(ctx context.Context, actor *models.Actor) (*models.MatchRequestsResponse, error) {
	if actor.Role != models.RoleMentee {
		return nil, apperrors.ErrInvalidRole
	}

	start := time.Now()
	requests, err := s.requests.ListMatchRequestsByMentee(ctx, actor.UserID)
	if err != nil {
		logger.Error("Failed to list outgoing requests",
			zap.Int("mentee_id", actor.UserID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list outgoing requests: %w", err)
	}

	logger.Debug("Listed outgoing requests",
		zap.Int("mentee_id", actor.UserID),
		zap.Int("count", len(requests)),
		zap.Duration("duration", time.Since(start)))

	return buildRequestsResponse(requests), nil
}

func buildRequestsResponse(requests []*models.MatchRequest) *models.MatchRequestsResponse {
	out := make([]models.MatchRequest, 0, len(requests))
	for _, r := range requests {
		out = append(out, *r)
	}
	return &models.MatchRequestsResponse{
		Requests: out,
		Total:    len(out),
	}
}
