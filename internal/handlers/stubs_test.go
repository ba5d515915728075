package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/mentorlink/mentorlink-api/internal/middleware"
	"github.com/mentorlink/mentorlink-api/internal/models"
)

// stubAuthService implements services.AuthServiceInterface with function fields
type stubAuthService struct {
	signup  func(ctx context.Context, req *models.SignupRequest) (*models.User, error)
	login   func(ctx context.Context, email, password string) (string, error)
	logout  func(ctx context.Context, actor *models.Actor) error
	getUser func(ctx context.Context, userID int) (*models.User, error)
}

func (s *stubAuthService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	return s.signup(ctx, req)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, error) {
	return s.login(ctx, email, password)
}

func (s *stubAuthService) Authenticate(context.Context, string) (*models.Actor, error) {
	return nil, nil
}

func (s *stubAuthService) Logout(ctx context.Context, actor *models.Actor) error {
	return s.logout(ctx, actor)
}

func (s *stubAuthService) GetUser(ctx context.Context, userID int) (*models.User, error) {
	return s.getUser(ctx, userID)
}

// stubMatchService implements services.MatchServiceInterface with function fields
type stubMatchService struct {
	create   func(ctx context.Context, actor *models.Actor, payload *models.CreateMatchRequestPayload) (*models.MatchRequest, error)
	decide   func(ctx context.Context, actor *models.Actor, requestID string, outcome models.DecisionOutcome) (*models.MatchRequest, error)
	cancel   func(ctx context.Context, actor *models.Actor, requestID string) (*models.MatchRequest, error)
	incoming func(ctx context.Context, actor *models.Actor) (*models.MatchRequestsResponse, error)
	outgoing func(ctx context.Context, actor *models.Actor) (*models.MatchRequestsResponse, error)
}

func (s *stubMatchService) CreateRequest(ctx context.Context, actor *models.Actor, payload *models.CreateMatchRequestPayload) (*models.MatchRequest, error) {
	return s.create(ctx, actor, payload)
}

func (s *stubMatchService) DecideRequest(ctx context.Context, actor *models.Actor, requestID string, outcome models.DecisionOutcome) (*models.MatchRequest, error) {
	return s.decide(ctx, actor, requestID, outcome)
}

func (s *stubMatchService) CancelRequest(ctx context.Context, actor *models.Actor, requestID string) (*models.MatchRequest, error) {
	return s.cancel(ctx, actor, requestID)
}

func (s *stubMatchService) ListIncoming(ctx context.Context, actor *models.Actor) (*models.MatchRequestsResponse, error) {
	return s.incoming(ctx, actor)
}

func (s *stubMatchService) ListOutgoing(ctx context.Context, actor *models.Actor) (*models.MatchRequestsResponse, error) {
	return s.outgoing(ctx, actor)
}

// stubMentorService implements services.MentorServiceInterface
type stubMentorService struct {
	list func(ctx context.Context, filter models.MentorFilter) ([]*models.User, error)
}

func (s *stubMentorService) ListMentors(ctx context.Context, filter models.MentorFilter) ([]*models.User, error) {
	return s.list(ctx, filter)
}

// withActor injects an authenticated actor, standing in for AuthMiddleware
func withActor(actor *models.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ActorContextKey, actor)
		c.Next()
	}
}
