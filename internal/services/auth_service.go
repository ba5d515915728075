package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mentorlink/mentorlink-api/internal/cache"
	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/repository"
	"github.com/mentorlink/mentorlink-api/pkg/crypto"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
	"github.com/mentorlink/mentorlink-api/pkg/jwt"
	"github.com/mentorlink/mentorlink-api/pkg/logger"
	"github.com/mentorlink/mentorlink-api/pkg/metrics"
)

// AuthService handles signup, login, token validation and revocation
type AuthService struct {
	users    repository.UserStore
	sessions repository.SessionStore
	revoked  *cache.RevokedSessionCache
	tokens   *jwt.TokenManager
}

// NewAuthService creates a new AuthService
func NewAuthService(users repository.UserStore, sessions repository.SessionStore, revoked *cache.RevokedSessionCache, tokens *jwt.TokenManager) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		revoked:  revoked,
		tokens:   tokens,
	}
}

// Signup registers a new account with the given role. The password is hashed
// before it reaches the store; the plaintext is never persisted or logged.
func (s *AuthService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	if !req.Role.Valid() {
		metrics.Signups.WithLabelValues(string(req.Role), "invalid_role").Inc()
		return nil, apperrors.ErrInvalidRole
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		logger.Error("Failed to hash password", zap.Error(err))
		metrics.Signups.WithLabelValues(string(req.Role), "error").Inc()
		return nil, apperrors.InternalError("failed to process credentials")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.users.CreateUser(ctx, email, hash, req.Name, req.Role)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrConflict) {
			metrics.Signups.WithLabelValues(string(req.Role), "conflict").Inc()
			return nil, err
		}
		logger.Error("Failed to create user",
			zap.String("role", string(req.Role)),
			zap.Error(err))
		metrics.Signups.WithLabelValues(string(req.Role), "error").Inc()
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	metrics.Signups.WithLabelValues(string(req.Role), "success").Inc()
	logger.Info("User registered",
		zap.Int("user_id", user.ID),
		zap.String("role", string(user.Role)))

	return user, nil
}

// Login verifies the credentials and issues a session token. Unknown emails
// and wrong passwords produce the same error and take roughly the same time,
// so the endpoint cannot be used to probe which emails exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			crypto.BurnCompare(password)
			metrics.Logins.WithLabelValues("invalid_credentials").Inc()
			return "", apperrors.ErrInvalidCredentials
		}
		logger.Error("Failed to look up user for login", zap.Error(err))
		metrics.Logins.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	if !crypto.VerifyPassword(user.PasswordHash, password) {
		metrics.Logins.WithLabelValues("invalid_credentials").Inc()
		return "", apperrors.ErrInvalidCredentials
	}

	token, tokenID, err := s.tokens.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		logger.Error("Failed to generate session token",
			zap.Int("user_id", user.ID),
			zap.Error(err))
		metrics.Logins.WithLabelValues("error").Inc()
		return "", apperrors.InternalError("failed to issue session")
	}

	now := time.Now()
	session := &models.Session{
		TokenID:   tokenID,
		UserID:    user.ID,
		Role:      user.Role,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.tokens.GetExpirationTime()),
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		logger.Error("Failed to persist session",
			zap.Int("user_id", user.ID),
			zap.Error(err))
		metrics.Logins.WithLabelValues("error").Inc()
		return "", fmt.Errorf("failed to persist session: %w", err)
	}

	metrics.Logins.WithLabelValues("success").Inc()
	logger.Info("User logged in",
		zap.Int("user_id", user.ID),
		zap.String("role", string(user.Role)))

	return token, nil
}

// Authenticate resolves a bearer token to an actor. A token is accepted only
// when the signature and expiry check out and the session it names has not
// been revoked.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.Actor, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, apperrors.ErrUnauthenticated
	}

	if s.revoked.IsRevoked(claims.ID) {
		return nil, apperrors.ErrUnauthenticated
	}

	session, err := s.sessions.GetSession(ctx, claims.ID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthenticated
		}
		logger.Error("Failed to load session",
			zap.String("token_id", claims.ID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if session.Revoked() {
		s.revoked.MarkRevoked(session.TokenID)
		return nil, apperrors.ErrUnauthenticated
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, apperrors.ErrUnauthenticated
	}

	return &models.Actor{
		UserID:  claims.UserID,
		Email:   claims.Email,
		Role:    models.Role(claims.Role),
		TokenID: claims.ID,
	}, nil
}

// Logout revokes the actor's session. Revoking an already-revoked session is
// a no-op, so repeated logouts with the same token all succeed.
func (s *AuthService) Logout(ctx context.Context, actor *models.Actor) error {
	if err := s.sessions.RevokeSession(ctx, actor.TokenID, time.Now()); err != nil {
		logger.Error("Failed to revoke session",
			zap.Int("user_id", actor.UserID),
			zap.Error(err))
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	s.revoked.MarkRevoked(actor.TokenID)
	metrics.SessionRevocations.Inc()
	logger.Info("Session revoked", zap.Int("user_id", actor.UserID))

	return nil
}

// GetUser loads the full account record for an authenticated user
func (s *AuthService) GetUser(ctx context.Context, userID int) (*models.User, error) {
	return s.users.GetUserByID(ctx, userID)
}
