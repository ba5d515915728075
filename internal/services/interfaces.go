package services

import (
	"context"

	"github.com/mentorlink/mentorlink-api/internal/models"
)

// AuthServiceInterface defines the interface for account and session operations
type AuthServiceInterface interface {
	Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Authenticate(ctx context.Context, token string) (*models.Actor, error)
	Logout(ctx context.Context, actor *models.Actor) error
	GetUser(ctx context.Context, userID int) (*models.User, error)
}

// MentorServiceInterface defines the interface for the mentor directory
type MentorServiceInterface interface {
	ListMentors(ctx context.Context, filter models.MentorFilter) ([]*models.User, error)
}

// ProfileServiceInterface defines the interface for profile operations
type ProfileServiceInterface interface {
	UpdateProfile(ctx context.Context, userID int, req *models.UpdateProfileRequest) (*models.User, error)
	UploadProfilePicture(ctx context.Context, userID int, req *models.UploadProfilePictureRequest) (string, error)
}

// MatchServiceInterface defines the interface for match request management
type MatchServiceInterface interface {
	CreateRequest(ctx context.Context, actor *models.Actor, payload *models.CreateMatchRequestPayload) (*models.MatchRequest, error)
	DecideRequest(ctx context.Context, actor *models.Actor, requestID string, outcome models.DecisionOutcome) (*models.MatchRequest, error)
	CancelRequest(ctx context.Context, actor *models.Actor, requestID string) (*models.MatchRequest, error)
	ListIncoming(ctx context.Context, actor *models.Actor) (*models.MatchRequestsResponse, error)
	ListOutgoing(ctx context.Context, actor *models.Actor) (*models.MatchRequestsResponse, error)
}

// Ensure services implement their interfaces
var _ AuthServiceInterface = (*AuthService)(nil)
var _ MentorServiceInterface = (*MentorService)(nil)
var _ ProfileServiceInterface = (*ProfileService)(nil)
var _ MatchServiceInterface = (*MatchService)(nil)
