package util

import (
	"context"
	"errors"

	"inkline/internal/utils/crypto"

	"github.com/go-playground/validator/v10"
)

// ValidateCtx executes v.StructCtx and surfaces crypto.ErrPasswordStrength
// verbatim when the password rule is the one that failed.
func ValidateCtx(ctx context.Context, v *validator.Validate, req any) error {
	err := v.StructCtx(ctx, req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "password" {
				return crypto.ErrPasswordStrength
			}
		}
	}
	return err
}
