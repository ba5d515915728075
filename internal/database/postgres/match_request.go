package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/mentorlink/mentorlink-api/internal/models"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
)

const matchRequestColumns = `id, mentor_id, mentee_id, message, status, created_at, decided_at`

func scanMatchRequest(row pgx.Row) (*models.MatchRequest, error) {
	var r models.MatchRequest
	var id uuid.UUID
	var message *string

	err := row.Scan(
		&id,
		&r.MentorID,
		&r.MenteeID,
		&message,
		&r.Status,
		&r.CreatedAt,
		&r.DecidedAt,
	)
	if err != nil {
		return nil, err
	}

	r.ID = id.String()
	if message != nil {
		r.Message = *message
	}

	return &r, nil
}

// CreateMatchRequest inserts a pending request. The partial unique index on
// (mentee_id) WHERE status = 'pending' makes the one-pending-per-mentee
// invariant hold even against concurrent inserts: the loser gets ErrConflict.
func (c *Client) CreateMatchRequest(ctx context.Context, mentorID, menteeID int, message string) (*models.MatchRequest, error) {
	start := time.Now()
	operation := "createMatchRequest"

	query := `
		INSERT INTO match_requests (id, mentor_id, mentee_id, message, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + matchRequestColumns

	row := c.pool.QueryRow(ctx, query,
		uuid.New(),
		mentorID,
		menteeID,
		nilIfEmpty(message),
		models.StatusPending,
	)

	req, err := scanMatchRequest(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				observe(operation, start, nil, zap.Int("mentee_id", menteeID), zap.String("outcome", "duplicate_pending"))
				return nil, apperrors.ConflictError("mentee already has a pending request")
			case pgerrcode.ForeignKeyViolation:
				observe(operation, start, nil, zap.Int("mentor_id", mentorID), zap.String("outcome", "missing_user"))
				return nil, apperrors.NotFoundError("user")
			}
		}
		observe(operation, start, err)
		return nil, fmt.Errorf("failed to create match request: %w", err)
	}

	observe(operation, start, nil, zap.String("request_id", req.ID))
	return req, nil
}

// GetMatchRequestByID fetches a single request
func (c *Client) GetMatchRequestByID(ctx context.Context, id string) (*models.MatchRequest, error) {
	start := time.Now()
	operation := "getMatchRequestByID"

	requestID, err := uuid.Parse(id)
	if err != nil {
		observe(operation, start, nil, zap.String("outcome", "bad_id"))
		return nil, apperrors.NotFoundError("match request")
	}

	query := `SELECT ` + matchRequestColumns + ` FROM match_requests WHERE id = $1`

	req, err := scanMatchRequest(c.pool.QueryRow(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			observe(operation, start, nil, zap.String("outcome", "missing"))
			return nil, apperrors.NotFoundError("match request")
		}
		observe(operation, start, err)
		return nil, fmt.Errorf("failed to get match request: %w", err)
	}

	observe(operation, start, nil)
	return req, nil
}

// TransitionMatchRequest moves a request out of pending with a conditional
// write. When two writers race, exactly one succeeds; the loser sees
// ErrInvalidState (or ErrNotFound if the id never existed).
func (c *Client) TransitionMatchRequest(ctx context.Context, id string, to models.MatchRequestStatus) (*models.MatchRequest, error) {
	start := time.Now()
	operation := "transitionMatchRequest"

	requestID, err := uuid.Parse(id)
	if err != nil {
		observe(operation, start, nil, zap.String("outcome", "bad_id"))
		return nil, apperrors.NotFoundError("match request")
	}

	query := `
		UPDATE match_requests
		SET status = $2, decided_at = now()
		WHERE id = $1 AND status = $3
		RETURNING ` + matchRequestColumns

	req, err := scanMatchRequest(c.pool.QueryRow(ctx, query, requestID, to, models.StatusPending))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguish a missing request from a lost race / terminal status
			current, getErr := c.GetMatchRequestByID(ctx, id)
			if getErr != nil {
				observe(operation, start, nil, zap.String("outcome", "missing"))
				return nil, getErr
			}
			observe(operation, start, nil,
				zap.String("request_id", id),
				zap.String("outcome", "not_pending"),
				zap.String("status", string(current.Status)))
			return nil, apperrors.InvalidStateError(string(current.Status), string(to))
		}
		observe(operation, start, err)
		return nil, fmt.Errorf("failed to transition match request: %w", err)
	}

	observe(operation, start, nil,
		zap.String("request_id", id),
		zap.String("to_status", string(to)))
	return req, nil
}

// listMatchRequests fetches requests for one side of the pairing, newest first
func (c *Client) listMatchRequests(ctx context.Context, operation, column string, userID int) ([]*models.MatchRequest, error) {
	start := time.Now()

	query := `SELECT ` + matchRequestColumns + ` FROM match_requests WHERE ` + column + ` = $1 ORDER BY created_at DESC`

	rows, err := c.pool.Query(ctx, query, userID)
	if err != nil {
		observe(operation, start, err)
		return nil, fmt.Errorf("failed to list match requests: %w", err)
	}
	defer rows.Close()

	requests := []*models.MatchRequest{}
	for rows.Next() {
		req, scanErr := scanMatchRequest(rows)
		if scanErr != nil {
			observe(operation, start, scanErr)
			return nil, fmt.Errorf("failed to scan match request: %w", scanErr)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		observe(operation, start, err)
		return nil, fmt.Errorf("failed to read match requests: %w", err)
	}

	observe(operation, start, nil, zap.Int("count", len(requests)))
	return requests, nil
}

// ListMatchRequestsByMentor returns all requests addressed to a mentor
func (c *Client) ListMatchRequestsByMentor(ctx context.Context, mentorID int) ([]*models.MatchRequest, error) {
	return c.listMatchRequests(ctx, "listMatchRequestsByMentor", "mentor_id", mentorID)
}

// ListMatchRequestsByMentee returns all requests created by a mentee
func (c *Client) ListMatchRequestsByMentee(ctx context.Context, menteeID int) ([]*models.MatchRequest, error) {
	return c.listMatchRequests(ctx, "listMatchRequestsByMentee", "mentee_id", menteeID)
}
