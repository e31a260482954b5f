package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email    string `validate:"required,email"`
	Username string `validate:"required,min=3,max=30,alphanum"`
	Password string `validate:"required,min=8"`
}

func TestValidate_Valid(t *testing.T) {
	req := sampleRequest{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "SecurePass123",
	}

	assert.NoError(t, Validate(req))
}

func TestValidate_MissingFields(t *testing.T) {
	err := Validate(sampleRequest{})
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))

	fields := valErr.Fields()
	assert.Equal(t, "is required", fields["Email"])
	assert.Equal(t, "is required", fields["Username"])
	assert.Equal(t, "is required", fields["Password"])
}

func TestValidate_BadEmailAndShortPassword(t *testing.T) {
	req := sampleRequest{
		Email:    "not-an-email",
		Username: "alice",
		Password: "short",
	}

	err := Validate(req)
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))

	fields := valErr.Fields()
	assert.Equal(t, "must be a valid email address", fields["Email"])
	assert.Equal(t, "must be at least 8 characters", fields["Password"])
	assert.NotContains(t, fields, "Username")
}

func TestValidationError_ErrorMessage(t *testing.T) {
	err := Validate(sampleRequest{Email: "bad"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Email")
}
