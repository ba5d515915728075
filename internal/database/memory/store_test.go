package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorlink/mentorlink-api/internal/models"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
)

func newTestStore(t *testing.T) (*Store, *models.User, *models.User) {
	t.Helper()
	s := NewStore()
	ctx := context.Background()

	mentor, err := s.CreateUser(ctx, "mentor@example.com", "hash", "Mentor One", models.RoleMentor)
	require.NoError(t, err)
	mentee, err := s.CreateUser(ctx, "mentee@example.com", "hash", "Mentee One", models.RoleMentee)
	require.NoError(t, err)

	return s, mentor, mentee
}

func TestStore_CreateUser_DuplicateEmail(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, "mentor@example.com", "hash", "Someone Else", models.RoleMentee)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// Email comparison is case-insensitive
	_, err = s.CreateUser(ctx, "MENTOR@example.com", "hash", "Someone Else", models.RoleMentee)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestStore_GetUserByEmail(t *testing.T) {
	s, mentor, _ := newTestStore(t)
	ctx := context.Background()

	found, err := s.GetUserByEmail(ctx, "mentor@example.com")
	require.NoError(t, err)
	assert.Equal(t, mentor.ID, found.ID)

	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStore_UpdateUserProfile_Partial(t *testing.T) {
	s, mentor, _ := newTestStore(t)
	ctx := context.Background()

	bio := "I mentor Go developers"
	updated, err := s.UpdateUserProfile(ctx, mentor.ID, models.ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "I mentor Go developers", updated.Profile.Bio)
	assert.Equal(t, "Mentor One", updated.Profile.Name, "untouched fields keep their values")

	skills := []string{"go", "postgres"}
	updated, err = s.UpdateUserProfile(ctx, mentor.ID, models.ProfileUpdate{Skills: &skills})
	require.NoError(t, err)
	assert.Equal(t, skills, updated.Profile.Skills)
	assert.Equal(t, "I mentor Go developers", updated.Profile.Bio)

	_, err = s.UpdateUserProfile(ctx, 9999, models.ProfileUpdate{Bio: &bio})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStore_ListMentors_OnlyMentors(t *testing.T) {
	s, mentor, _ := newTestStore(t)
	ctx := context.Background()

	mentors, err := s.ListMentors(ctx)
	require.NoError(t, err)
	require.Len(t, mentors, 1)
	assert.Equal(t, mentor.ID, mentors[0].ID)
}

func TestStore_RevokeSession_Idempotent(t *testing.T) {
	s, mentor, _ := newTestStore(t)
	ctx := context.Background()

	sess := &models.Session{
		TokenID:   "tok-1",
		UserID:    mentor.ID,
		Role:      mentor.Role,
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, s.CreateSession(ctx, sess))

	require.NoError(t, s.RevokeSession(ctx, "tok-1", time.Now()))

	got, err := s.GetSession(ctx, "tok-1")
	require.NoError(t, err)
	require.NotNil(t, got.RevokedAt)
	firstRevokedAt := *got.RevokedAt

	// Second revoke succeeds and keeps the original timestamp
	require.NoError(t, s.RevokeSession(ctx, "tok-1", time.Now().Add(time.Minute)))
	got, err = s.GetSession(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, firstRevokedAt, *got.RevokedAt)

	// Revoking an unknown token is a no-op
	assert.NoError(t, s.RevokeSession(ctx, "unknown", time.Now()))
}

func TestStore_DeleteExpiredSessions(t *testing.T) {
	s, mentor, _ := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.CreateSession(ctx, &models.Session{TokenID: "old", UserID: mentor.ID, ExpiresAt: now.Add(-time.Hour)}))
	require.NoError(t, s.CreateSession(ctx, &models.Session{TokenID: "live", UserID: mentor.ID, ExpiresAt: now.Add(time.Hour)}))

	deleted, err := s.DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = s.GetSession(ctx, "old")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = s.GetSession(ctx, "live")
	assert.NoError(t, err)
}

func TestStore_CreateMatchRequest_OnePendingPerMentee(t *testing.T) {
	s, mentor, mentee := newTestStore(t)
	ctx := context.Background()

	first, err := s.CreateMatchRequest(ctx, mentor.ID, mentee.ID, "hello")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, first.Status)

	_, err = s.CreateMatchRequest(ctx, mentor.ID, mentee.ID, "again")
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// After the pending request resolves the mentee can open a new one
	_, err = s.TransitionMatchRequest(ctx, first.ID, models.StatusRejected)
	require.NoError(t, err)

	_, err = s.CreateMatchRequest(ctx, mentor.ID, mentee.ID, "retry")
	assert.NoError(t, err)
}

func TestStore_CreateMatchRequest_UnknownUsers(t *testing.T) {
	s, mentor, mentee := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateMatchRequest(ctx, 9999, mentee.ID, "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = s.CreateMatchRequest(ctx, mentor.ID, 9999, "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStore_TransitionMatchRequest(t *testing.T) {
	s, mentor, mentee := newTestStore(t)
	ctx := context.Background()

	req, err := s.CreateMatchRequest(ctx, mentor.ID, mentee.ID, "")
	require.NoError(t, err)

	decided, err := s.TransitionMatchRequest(ctx, req.ID, models.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, decided.Status)
	require.NotNil(t, decided.DecidedAt)

	// A decided request cannot move again
	_, err = s.TransitionMatchRequest(ctx, req.ID, models.StatusCancelled)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	_, err = s.TransitionMatchRequest(ctx, "no-such-id", models.StatusAccepted)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStore_ConcurrentCreates_OneWins(t *testing.T) {
	s, mentor, mentee := newTestStore(t)
	ctx := context.Background()

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.CreateMatchRequest(ctx, mentor.ID, mentee.ID, "race")
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, apperrors.ErrConflict)
		}
	}
	assert.Equal(t, 1, successes, "exactly one concurrent create may succeed")
}

func TestStore_ConcurrentDecisions_OneWins(t *testing.T) {
	s, mentor, mentee := newTestStore(t)
	ctx := context.Background()

	req, err := s.CreateMatchRequest(ctx, mentor.ID, mentee.ID, "")
	require.NoError(t, err)

	statuses := []models.MatchRequestStatus{
		models.StatusAccepted, models.StatusRejected, models.StatusCancelled,
		models.StatusAccepted, models.StatusRejected, models.StatusCancelled,
	}

	var wg sync.WaitGroup
	errs := make([]error, len(statuses))
	for i, to := range statuses {
		wg.Add(1)
		go func(i int, to models.MatchRequestStatus) {
			defer wg.Done()
			_, errs[i] = s.TransitionMatchRequest(ctx, req.ID, to)
		}(i, to)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, apperrors.ErrInvalidState)
		}
	}
	assert.Equal(t, 1, successes, "exactly one transition out of pending may win")

	final, err := s.GetMatchRequestByID(ctx, req.ID)
	require.NoError(t, err)
	assert.True(t, final.Status.IsTerminal())
}

func TestStore_ListMatchRequests_NewestFirst(t *testing.T) {
	s, mentor, mentee := newTestStore(t)
	ctx := context.Background()

	first, err := s.CreateMatchRequest(ctx, mentor.ID, mentee.ID, "first")
	require.NoError(t, err)
	_, err = s.TransitionMatchRequest(ctx, first.ID, models.StatusRejected)
	require.NoError(t, err)

	second, err := s.CreateMatchRequest(ctx, mentor.ID, mentee.ID, "second")
	require.NoError(t, err)

	incoming, err := s.ListMatchRequestsByMentor(ctx, mentor.ID)
	require.NoError(t, err)
	require.Len(t, incoming, 2)
	assert.Equal(t, second.ID, incoming[0].ID)

	outgoing, err := s.ListMatchRequestsByMentee(ctx, mentee.ID)
	require.NoError(t, err)
	require.Len(t, outgoing, 2)
}
