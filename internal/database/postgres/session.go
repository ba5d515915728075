package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/mentorlink/mentorlink-api/internal/models"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
)

// CreateSession records an issued token so it can be revoked before expiry
func (c *Client) CreateSession(ctx context.Context, s *models.Session) error {
	start := time.Now()
	operation := "createSession"

	query := `
		INSERT INTO sessions (token_id, user_id, role, issued_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := c.pool.Exec(ctx, query, s.TokenID, s.UserID, s.Role, s.IssuedAt, s.ExpiresAt)
	if err != nil {
		observe(operation, start, err)
		return fmt.Errorf("failed to create session: %w", err)
	}

	observe(operation, start, nil, zap.Int("user_id", s.UserID))
	return nil
}

// GetSession fetches a session by token id (jti)
func (c *Client) GetSession(ctx context.Context, tokenID string) (*models.Session, error) {
	start := time.Now()
	operation := "getSession"

	query := `
		SELECT token_id, user_id, role, issued_at, expires_at, revoked_at
		FROM sessions
		WHERE token_id = $1
	`

	var s models.Session
	err := c.pool.QueryRow(ctx, query, tokenID).Scan(
		&s.TokenID,
		&s.UserID,
		&s.Role,
		&s.IssuedAt,
		&s.ExpiresAt,
		&s.RevokedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			observe(operation, start, nil, zap.String("outcome", "missing"))
			return nil, apperrors.NotFoundError("session")
		}
		observe(operation, start, err)
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	observe(operation, start, nil)
	return &s, nil
}

// RevokeSession marks a session revoked. Calling it again, or on an unknown
// token id, is a no-op: revocation is idempotent.
func (c *Client) RevokeSession(ctx context.Context, tokenID string, at time.Time) error {
	start := time.Now()
	operation := "revokeSession"

	query := `
		UPDATE sessions
		SET revoked_at = $2
		WHERE token_id = $1 AND revoked_at IS NULL
	`

	tag, err := c.pool.Exec(ctx, query, tokenID, at)
	if err != nil {
		observe(operation, start, err)
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	observe(operation, start, nil, zap.Int64("rows", tag.RowsAffected()))
	return nil
}

// DeleteExpiredSessions removes rows whose expiry has passed; revocation
// checks for those tokens already fail on the expiry claim.
func (c *Client) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	start := time.Now()
	operation := "deleteExpiredSessions"

	tag, err := c.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < $1`, before)
	if err != nil {
		observe(operation, start, err)
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	observe(operation, start, nil, zap.Int64("rows", tag.RowsAffected()))
	return tag.RowsAffected(), nil
}
