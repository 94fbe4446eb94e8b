package util

import (
	"context"
	"testing"

	"inkline/internal/utils/crypto"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signUp struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,password"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, crypto.RegisterPasswordValidator(v))
	return v
}

func TestValidateCtx(t *testing.T) {
	v := newValidator(t)
	ctx := context.Background()

	assert.NoError(t, ValidateCtx(ctx, v, signUp{Email: "a@b.io", Password: "Password123"}))

	err := ValidateCtx(ctx, v, signUp{Email: "a@b.io", Password: "weak"})
	assert.ErrorIs(t, err, crypto.ErrPasswordStrength)

	err = ValidateCtx(ctx, v, signUp{Email: "nope", Password: "Password123"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, crypto.ErrPasswordStrength)
}

func TestRegisterPasswordValidator_Twice(t *testing.T) {
	v := validator.New()
	require.NoError(t, crypto.RegisterPasswordValidator(v))
	assert.NoError(t, crypto.RegisterPasswordValidator(v))
}
