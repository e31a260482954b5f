package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublic_NeverExposesSecrets(t *testing.T) {
	hash := "deadbeef"
	exp := time.Now().UTC().Add(time.Hour)
	u := &User{
		ID:                    "u-1",
		Username:              "alice",
		Email:                 "alice@example.com",
		PasswordHash:          "$2a$12$secret",
		Role:                  RolePlayer,
		VerificationTokenHash: &hash,
		VerificationExpiresAt: &exp,
		RefreshTokenHash:      &hash,
		RefreshTokenExpiresAt: &exp,
		Points:                150,
		Level:                 2,
	}

	data, err := json.Marshal(u.Public())
	require.NoError(t, err)

	body := string(data)
	assert.NotContains(t, body, "secret")
	assert.NotContains(t, body, "deadbeef")
	assert.Contains(t, body, "alice")
	assert.Contains(t, body, `"points":150`)
}

func TestUserJSON_OmitsSensitiveFields(t *testing.T) {
	hash := "deadbeef"
	u := &User{
		ID:                    "u-1",
		PasswordHash:          "$2a$12$secret",
		VerificationTokenHash: &hash,
		RefreshTokenHash:      &hash,
	}

	data, err := json.Marshal(u)
	require.NoError(t, err)

	body := string(data)
	assert.NotContains(t, body, "secret")
	assert.NotContains(t, body, "deadbeef")
	assert.NotContains(t, body, "password")
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RolePlayer}).IsAdmin())
}

func TestHasActiveRefreshToken(t *testing.T) {
	now := time.Now().UTC()
	hash := "abc"

	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	assert.False(t, (&User{}).HasActiveRefreshToken(now), "no token stored")
	assert.False(t, (&User{RefreshTokenHash: &hash, RefreshTokenExpiresAt: &past}).HasActiveRefreshToken(now), "expired pair is treated as absent")
	assert.True(t, (&User{RefreshTokenHash: &hash, RefreshTokenExpiresAt: &future}).HasActiveRefreshToken(now))
}
