package auth

import "errors"

var (
	// ErrGenAccessToken is returned when a token cannot be signed.
	ErrGenAccessToken = errors.New("failed to generate access token")
	// ErrUserNotFound is returned by repositories when no user matches.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials does not say whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrRegistrationFailed hides duplicate emails during sign-up.
	ErrRegistrationFailed = errors.New("registration failed")
	// ErrDuplicate is returned by repositories on a unique email violation.
	ErrDuplicate = errors.New("user with this email already exists")
)
