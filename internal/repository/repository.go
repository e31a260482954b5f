package repository

import (
	"context"
	"time"

	"github.com/ArturPrzybyloo/testingforge-auth/internal/domain"
)

// UserRepository defines the interface for credential-store persistence.
// Token-touching mutations (verification consumption, refresh rotation) are
// atomic update-if-matches operations so concurrent requests carrying the same
// stale token cannot both succeed.
type UserRepository interface {
	// Create inserts a new user. A unique-constraint collision is reported
	// as an already-exists error naming the colliding field (email or username).
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by their email address (stored lowercased).
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByUsername retrieves a user by their username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// SetVerificationToken stores a fresh verification token hash and expiry
	// for the user, replacing any previous one.
	SetVerificationToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error

	// ConsumeVerificationToken atomically marks the user owning the given
	// token hash as verified and clears both verification fields, provided
	// the token has not expired. Exactly one call can succeed per token.
	ConsumeVerificationToken(ctx context.Context, tokenHash string) (*domain.User, error)

	// SetRefreshToken stores the refresh token hash and expiry for the user,
	// overwriting any previous session. Pass nil for both to clear (logout).
	SetRefreshToken(ctx context.Context, userID string, tokenHash *string, expiresAt *time.Time) error

	// RotateRefreshToken atomically replaces the stored refresh token hash,
	// matching on the old hash and a non-expired expiry. A stale hash (already
	// rotated, cleared, or expired) finds no row. The expiry instant is left
	// unchanged: the session window is fixed at login.
	RotateRefreshToken(ctx context.Context, oldHash, newHash string) (*domain.User, error)
}
