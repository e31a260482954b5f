package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/ArturPrzybyloo/testingforge-auth/pkg/errors"

	"github.com/ArturPrzybyloo/testingforge-auth/internal/domain"
)

// DB is the subset of pgxpool.Pool used by the repository. It is also
// satisfied by pgxmock in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, password_hash, role, email_verified,
		verification_token_hash, verification_expires_at,
		refresh_token_hash, refresh_token_expires_at,
		points, level, created_at, updated_at`

// Create inserts a new user into the database.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, role, email_verified,
			verification_token_hash, verification_expires_at,
			refresh_token_hash, refresh_token_expires_at,
			points, level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.Exec(ctx, query,
		u.ID,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.Role,
		u.EmailVerified,
		u.VerificationTokenHash,
		u.VerificationExpiresAt,
		u.RefreshTokenHash,
		u.RefreshTokenExpiresAt,
		u.Points,
		u.Level,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if field, ok := uniqueViolationField(err); ok {
			value := u.Email
			if field == "username" {
				value = u.Username
			}
			return apperrors.AlreadyExists("user", field, value)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(ctx, query, id)
}

// GetByEmail retrieves a user by their email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(ctx, query, email)
}

// GetByUsername retrieves a user by their username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.scanUser(ctx, query, username)
}

// SetVerificationToken stores a fresh verification token hash and expiry.
func (r *UserRepository) SetVerificationToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	query := `
		UPDATE users
		SET verification_token_hash = $2, verification_expires_at = $3, updated_at = $4
		WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, userID, tokenHash, expiresAt, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set verification token: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", userID)
	}

	return nil
}

// ConsumeVerificationToken atomically verifies the user owning the token hash.
// The WHERE clause matches both the hash and a future expiry, so an expired or
// already-consumed token finds no row and the token cannot be replayed.
func (r *UserRepository) ConsumeVerificationToken(ctx context.Context, tokenHash string) (*domain.User, error) {
	query := `
		UPDATE users
		SET email_verified = true, verification_token_hash = NULL,
		    verification_expires_at = NULL, updated_at = $2
		WHERE verification_token_hash = $1 AND verification_expires_at > $2
		RETURNING ` + userColumns

	return r.scanUser(ctx, query, tokenHash, time.Now().UTC())
}

// SetRefreshToken stores the refresh token hash and expiry, overwriting any
// previous session. Nil values clear the stored token (logout).
func (r *UserRepository) SetRefreshToken(ctx context.Context, userID string, tokenHash *string, expiresAt *time.Time) error {
	query := `
		UPDATE users
		SET refresh_token_hash = $2, refresh_token_expires_at = $3, updated_at = $4
		WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, userID, tokenHash, expiresAt, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set refresh token: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", userID)
	}

	return nil
}

// RotateRefreshToken atomically swaps the stored refresh token hash. Matching
// on the old hash guarantees that two concurrent refreshes with the same stale
// token cannot both succeed: the second UPDATE finds no row.
func (r *UserRepository) RotateRefreshToken(ctx context.Context, oldHash, newHash string) (*domain.User, error) {
	query := `
		UPDATE users
		SET refresh_token_hash = $2, updated_at = $3
		WHERE refresh_token_hash = $1 AND refresh_token_expires_at > $3
		RETURNING ` + userColumns

	return r.scanUser(ctx, query, oldHash, newHash, time.Now().UTC())
}

// scanUser is a helper that executes a query expected to return a single user row.
func (r *UserRepository) scanUser(ctx context.Context, query string, args ...any) (*domain.User, error) {
	var u domain.User

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.EmailVerified,
		&u.VerificationTokenHash,
		&u.VerificationExpiresAt,
		&u.RefreshTokenHash,
		&u.RefreshTokenExpiresAt,
		&u.Points,
		&u.Level,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return &u, nil
}

// uniqueViolationField maps a PostgreSQL unique constraint violation (SQLSTATE
// 23505) to the colliding user field, based on the constraint name.
func uniqueViolationField(err error) (string, bool) {
	if err == nil || !strings.Contains(err.Error(), "23505") {
		return "", false
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "users_username_key"):
		return "username", true
	case strings.Contains(msg, "users_email_key"):
		return "email", true
	default:
		return "email", true
	}
}
