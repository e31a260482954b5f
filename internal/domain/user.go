package domain

import (
	"time"
)

// User represents a registered player in the platform.
//
// Verification and refresh tokens are stored only as SHA-256 digests; the raw
// secrets exist solely in transit to the user. A user holds at most one active
// refresh token at a time (single active session).
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`

	EmailVerified         bool       `json:"email_verified"`
	VerificationTokenHash *string    `json:"-"`
	VerificationExpiresAt *time.Time `json:"-"`

	RefreshTokenHash      *string    `json:"-"`
	RefreshTokenExpiresAt *time.Time `json:"-"`

	// Progress is accumulated by the challenge submission subsystem; this
	// service only reads it.
	Points int `json:"points"`
	Level  int `json:"level"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasActiveRefreshToken reports whether the user holds a non-expired refresh token.
func (u *User) HasActiveRefreshToken(now time.Time) bool {
	return u.RefreshTokenHash != nil &&
		u.RefreshTokenExpiresAt != nil &&
		u.RefreshTokenExpiresAt.After(now)
}

// PublicUser is the client-facing user summary. It never carries the password
// hash or any token state.
type PublicUser struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	EmailVerified bool      `json:"email_verified"`
	Points        int       `json:"points"`
	Level         int       `json:"level"`
	CreatedAt     time.Time `json:"created_at"`
}

// Public returns the client-facing summary of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		Role:          u.Role,
		EmailVerified: u.EmailVerified,
		Points:        u.Points,
		Level:         u.Level,
		CreatedAt:     u.CreatedAt,
	}
}

// TokenPair holds an access and refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
