package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/mentorlink/mentorlink-api/internal/models"
	apperrors "github.com/mentorlink/mentorlink-api/pkg/errors"
)

const userColumns = `id, email, role, password_hash, name, bio, skills, image_url, created_at, updated_at`

// scanUser scans a single row into a User. Expected columns: userColumns.
func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var bio, imageURL *string
	var skills []string

	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Role,
		&u.PasswordHash,
		&u.Profile.Name,
		&bio,
		&skills,
		&imageURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if bio != nil {
		u.Profile.Bio = *bio
	}
	if imageURL != nil {
		u.Profile.ImageURL = *imageURL
	}
	if u.Role == models.RoleMentor {
		if skills == nil {
			skills = []string{}
		}
		u.Profile.Skills = skills
	}

	return &u, nil
}

// CreateUser inserts a new account. The unique index on email turns duplicate
// signups into ErrConflict.
func (c *Client) CreateUser(ctx context.Context, email, passwordHash, name string, role models.Role) (*models.User, error) {
	start := time.Now()
	operation := "createUser"

	query := `
		INSERT INTO users (email, role, password_hash, name)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	user, err := scanUser(c.pool.QueryRow(ctx, query, email, role, passwordHash, name))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			observe(operation, start, nil, zap.String("email", email), zap.String("outcome", "duplicate"))
			return nil, apperrors.ConflictError("email already registered")
		}
		observe(operation, start, err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	observe(operation, start, nil, zap.Int("user_id", user.ID))
	return user, nil
}

// GetUserByID fetches a single account by primary key
func (c *Client) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	start := time.Now()
	operation := "getUserByID"

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(c.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			observe(operation, start, nil, zap.Int("user_id", id), zap.String("outcome", "missing"))
			return nil, apperrors.NotFoundError("user")
		}
		observe(operation, start, err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	observe(operation, start, nil, zap.Int("user_id", id))
	return user, nil
}

// GetUserByEmail fetches a single account by email
func (c *Client) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	start := time.Now()
	operation := "getUserByEmail"

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(c.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			observe(operation, start, nil, zap.String("outcome", "missing"))
			return nil, apperrors.NotFoundError("user")
		}
		observe(operation, start, err)
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	observe(operation, start, nil, zap.Int("user_id", user.ID))
	return user, nil
}

// UpdateUserProfile applies a partial profile update. COALESCE keeps columns
// untouched when the corresponding field is nil. Role and email are never
// written here.
func (c *Client) UpdateUserProfile(ctx context.Context, id int, upd models.ProfileUpdate) (*models.User, error) {
	start := time.Now()
	operation := "updateUserProfile"

	var skills []string
	if upd.Skills != nil {
		skills = *upd.Skills
	}

	query := `
		UPDATE users
		SET name       = COALESCE($2, name),
		    bio        = COALESCE($3, bio),
		    skills     = CASE WHEN $4::boolean THEN $5::text[] ELSE skills END,
		    image_url  = COALESCE($6, image_url),
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(c.pool.QueryRow(ctx, query,
		id,
		upd.Name,
		upd.Bio,
		upd.Skills != nil,
		skills,
		upd.ImageURL,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			observe(operation, start, nil, zap.Int("user_id", id), zap.String("outcome", "missing"))
			return nil, apperrors.NotFoundError("user")
		}
		observe(operation, start, err)
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	observe(operation, start, nil, zap.Int("user_id", id))
	return user, nil
}

// ListMentors returns every mentor account ordered by id. Skill filtering and
// alternative orderings are applied by the caller on top of this snapshot so
// the same data can be served from the directory cache.
func (c *Client) ListMentors(ctx context.Context) ([]*models.User, error) {
	start := time.Now()
	operation := "listMentors"

	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY id`

	rows, err := c.pool.Query(ctx, query, models.RoleMentor)
	if err != nil {
		observe(operation, start, err)
		return nil, fmt.Errorf("failed to list mentors: %w", err)
	}
	defer rows.Close()

	mentors := []*models.User{}
	for rows.Next() {
		mentor, scanErr := scanUser(rows)
		if scanErr != nil {
			observe(operation, start, scanErr)
			return nil, fmt.Errorf("failed to scan mentor: %w", scanErr)
		}
		mentors = append(mentors, mentor)
	}
	if err := rows.Err(); err != nil {
		observe(operation, start, err)
		return nil, fmt.Errorf("failed to read mentors: %w", err)
	}

	observe(operation, start, nil, zap.Int("count", len(mentors)))
	return mentors, nil
}
