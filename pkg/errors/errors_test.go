package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_ErrorString(t *testing.T) {
	e := InvalidInput("email is required")
	assert.Equal(t, "INVALID_INPUT: email is required", e.Error())

	wrapped := Internal(errors.New("boom"))
	assert.Contains(t, wrapped.Error(), "INTERNAL_ERROR")
	assert.Contains(t, wrapped.Error(), "boom")
}

func TestAppError_UnwrapsToSentinel(t *testing.T) {
	assert.ErrorIs(t, NotFound("user", "u-1"), ErrNotFound)
	assert.ErrorIs(t, AlreadyExists("user", "email", "a@b.com"), ErrAlreadyExists)
	assert.ErrorIs(t, Unauthorized("nope"), ErrUnauthorized)
	assert.ErrorIs(t, InvalidToken(), ErrInvalidToken)
	assert.ErrorIs(t, RateLimited("slow down"), ErrRateLimited)
}

func TestAlreadyExists_NamesField(t *testing.T) {
	e := AlreadyExists("user", "username", "alice")
	assert.Contains(t, e.Message, "username")
	assert.Contains(t, e.Message, "alice")
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{NotFound("user", "u-1"), http.StatusNotFound},
		{AlreadyExists("user", "email", "a@b.com"), http.StatusConflict},
		{InvalidInput("bad"), http.StatusBadRequest},
		{Unauthorized("nope"), http.StatusUnauthorized},
		{Forbidden("admin only"), http.StatusForbidden},
		{InvalidToken(), http.StatusBadRequest},
		{RateLimited("too many"), http.StatusTooManyRequests},
		{errors.New("plain"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", ErrUnauthorized), http.StatusUnauthorized},
		{fmt.Errorf("wrapped: %w", ErrInvalidToken), http.StatusBadRequest},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, HTTPStatus(tt.err), "error: %v", tt.err)
	}
}
