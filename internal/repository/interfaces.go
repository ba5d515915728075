// Package repository declares the store contracts the services depend on.
// Two implementations exist: internal/database/postgres (production) and
// internal/database/memory (offline mode and tests).
package repository

import (
	"context"
	"time"

	"github.com/mentorlink/mentorlink-api/internal/models"
)

// UserStore is the user directory contract
type UserStore interface {
	// CreateUser fails with ErrConflict on duplicate email
	CreateUser(ctx context.Context, email, passwordHash, name string, role models.Role) (*models.User, error)
	// GetUserByID fails with ErrNotFound
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	// GetUserByEmail fails with ErrNotFound
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// UpdateUserProfile applies a partial update; role and email are immutable
	UpdateUserProfile(ctx context.Context, id int, upd models.ProfileUpdate) (*models.User, error)
	// ListMentors returns a full snapshot of the mentor directory ordered by id
	ListMentors(ctx context.Context) ([]*models.User, error)
}

// SessionStore is the revocation-backing contract for issued tokens
type SessionStore interface {
	CreateSession(ctx context.Context, s *models.Session) error
	// GetSession fails with ErrNotFound
	GetSession(ctx context.Context, tokenID string) (*models.Session, error)
	// RevokeSession is idempotent
	RevokeSession(ctx context.Context, tokenID string, at time.Time) error
	DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error)
}

// MatchRequestStore is the match-request persistence contract. The write
// operations are atomic with respect to their invariants: CreateMatchRequest
// enforces one pending request per mentee, TransitionMatchRequest lets
// exactly one writer move a request out of pending.
type MatchRequestStore interface {
	// CreateMatchRequest fails with ErrConflict when the mentee already has a
	// pending request, ErrNotFound when either user doesn't exist
	CreateMatchRequest(ctx context.Context, mentorID, menteeID int, message string) (*models.MatchRequest, error)
	// GetMatchRequestByID fails with ErrNotFound
	GetMatchRequestByID(ctx context.Context, id string) (*models.MatchRequest, error)
	// TransitionMatchRequest fails with ErrInvalidState when the request is
	// not pending (including a lost race), ErrNotFound for unknown ids
	TransitionMatchRequest(ctx context.Context, id string, to models.MatchRequestStatus) (*models.MatchRequest, error)
	ListMatchRequestsByMentor(ctx context.Context, mentorID int) ([]*models.MatchRequest, error)
	ListMatchRequestsByMentee(ctx context.Context, menteeID int) ([]*models.MatchRequest, error)
}

// Store is the full persistence surface, satisfied by both backends
type Store interface {
	UserStore
	SessionStore
	MatchRequestStore
	Ping(ctx context.Context) error
}
