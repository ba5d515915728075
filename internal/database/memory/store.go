// Package memory provides an in-process store implementation used when the
// service runs in offline mode (DB_WORK_OFFLINE) and by tests. It enforces
// the same write invariants as the postgres store: unique emails, at most one
// pending match request per mentee, and first-writer-wins transitions.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mentorlink/mentorlink-api/internal/models"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
)

// Store is a mutex-guarded in-memory database
type Store struct {
	mu         sync.RWMutex
	nextUserID int
	users      map[int]*models.User
	emails     map[string]int // email -> user id
	sessions   map[string]*models.Session
	requests   map[string]*models.MatchRequest
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		nextUserID: 1,
		users:      make(map[int]*models.User),
		emails:     make(map[string]int),
		sessions:   make(map[string]*models.Session),
		requests:   make(map[string]*models.MatchRequest),
	}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	if u.Profile.Skills != nil {
		c.Profile.Skills = append([]string(nil), u.Profile.Skills...)
	}
	return &c
}

func cloneSession(s *models.Session) *models.Session {
	c := *s
	if s.RevokedAt != nil {
		at := *s.RevokedAt
		c.RevokedAt = &at
	}
	return &c
}

func cloneRequest(r *models.MatchRequest) *models.MatchRequest {
	c := *r
	if r.DecidedAt != nil {
		at := *r.DecidedAt
		c.DecidedAt = &at
	}
	return &c
}

// CreateUser registers a new account; duplicate emails fail with ErrConflict
func (s *Store) CreateUser(_ context.Context, email, passwordHash, name string, role models.Role) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	if _, exists := s.emails[key]; exists {
		return nil, apperrors.ConflictError("email already registered")
	}

	now := time.Now()
	u := &models.User{
		ID:           s.nextUserID,
		Email:        email,
		Role:         role,
		PasswordHash: passwordHash,
		Profile: models.Profile{
			Name: name,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if role == models.RoleMentor {
		u.Profile.Skills = []string{}
	}

	s.nextUserID++
	s.users[u.ID] = u
	s.emails[key] = u.ID

	return cloneUser(u), nil
}

// GetUserByID fetches a single account by id
func (s *Store) GetUserByID(_ context.Context, id int) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.NotFoundError("user")
	}
	return cloneUser(u), nil
}

// GetUserByEmail fetches a single account by email
func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[strings.ToLower(email)]
	if !ok {
		return nil, apperrors.NotFoundError("user")
	}
	return cloneUser(s.users[id]), nil
}

// UpdateUserProfile applies a partial update; role and email stay fixed
func (s *Store) UpdateUserProfile(_ context.Context, id int, upd models.ProfileUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.NotFoundError("user")
	}

	if upd.Name != nil {
		u.Profile.Name = *upd.Name
	}
	if upd.Bio != nil {
		u.Profile.Bio = *upd.Bio
	}
	if upd.Skills != nil && u.Role == models.RoleMentor {
		u.Profile.Skills = append([]string(nil), (*upd.Skills)...)
	}
	if upd.ImageURL != nil {
		u.Profile.ImageURL = *upd.ImageURL
	}
	u.UpdatedAt = time.Now()

	return cloneUser(u), nil
}

// ListMentors returns every mentor ordered by id
func (s *Store) ListMentors(_ context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mentors := []*models.User{}
	for _, u := range s.users {
		if u.Role == models.RoleMentor {
			mentors = append(mentors, cloneUser(u))
		}
	}
	sort.Slice(mentors, func(i, j int) bool { return mentors[i].ID < mentors[j].ID })

	return mentors, nil
}

// CreateSession records an issued token
func (s *Store) CreateSession(_ context.Context, sess *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.TokenID] = cloneSession(sess)
	return nil
}

// GetSession fetches a session by token id
func (s *Store) GetSession(_ context.Context, tokenID string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[tokenID]
	if !ok {
		return nil, apperrors.NotFoundError("session")
	}
	return cloneSession(sess), nil
}

// RevokeSession marks a session revoked; repeated and unknown-token calls are
// no-ops
func (s *Store) RevokeSession(_ context.Context, tokenID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[tokenID]
	if !ok || sess.RevokedAt != nil {
		return nil
	}
	sess.RevokedAt = &at
	return nil
}

// DeleteExpiredSessions drops sessions whose expiry has passed
func (s *Store) DeleteExpiredSessions(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, sess := range s.sessions {
		if sess.ExpiresAt.Before(before) {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}

// CreateMatchRequest inserts a pending request, enforcing the
// one-pending-per-mentee invariant under the store lock
func (s *Store) CreateMatchRequest(_ context.Context, mentorID, menteeID int, message string) (*models.MatchRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[mentorID]; !ok {
		return nil, apperrors.NotFoundError("user")
	}
	if _, ok := s.users[menteeID]; !ok {
		return nil, apperrors.NotFoundError("user")
	}

	for _, r := range s.requests {
		if r.MenteeID == menteeID && r.Status == models.StatusPending {
			return nil, apperrors.ConflictError("mentee already has a pending request")
		}
	}

	req := &models.MatchRequest{
		ID:        uuid.NewString(),
		MentorID:  mentorID,
		MenteeID:  menteeID,
		Message:   message,
		Status:    models.StatusPending,
		CreatedAt: time.Now(),
	}
	s.requests[req.ID] = req

	return cloneRequest(req), nil
}

// GetMatchRequestByID fetches a single request
func (s *Store) GetMatchRequestByID(_ context.Context, id string) (*models.MatchRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, ok := s.requests[id]
	if !ok {
		return nil, apperrors.NotFoundError("match request")
	}
	return cloneRequest(req), nil
}

// TransitionMatchRequest moves a request out of pending. Under the store lock
// the check-and-set is atomic, so concurrent writers see exactly one winner.
func (s *Store) TransitionMatchRequest(_ context.Context, id string, to models.MatchRequestStatus) (*models.MatchRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return nil, apperrors.NotFoundError("match request")
	}
	if req.Status != models.StatusPending {
		return nil, apperrors.InvalidStateError(string(req.Status), string(to))
	}

	now := time.Now()
	req.Status = to
	req.DecidedAt = &now

	return cloneRequest(req), nil
}

func (s *Store) listMatchRequests(match func(*models.MatchRequest) bool) []*models.MatchRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	requests := []*models.MatchRequest{}
	for _, r := range s.requests {
		if match(r) {
			requests = append(requests, cloneRequest(r))
		}
	}
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})

	return requests
}

// ListMatchRequestsByMentor returns all requests addressed to a mentor,
// newest first
func (s *Store) ListMatchRequestsByMentor(_ context.Context, mentorID int) ([]*models.MatchRequest, error) {
	return s.listMatchRequests(func(r *models.MatchRequest) bool { return r.MentorID == mentorID }), nil
}

// ListMatchRequestsByMentee returns all requests created by a mentee, newest
// first
func (s *Store) ListMatchRequestsByMentee(_ context.Context, menteeID int) ([]*models.MatchRequest, error) {
	return s.listMatchRequests(func(r *models.MatchRequest) bool { return r.MenteeID == menteeID }), nil
}

// Ping always succeeds for the in-memory store
func (s *Store) Ping(_ context.Context) error {
	return nil
}
