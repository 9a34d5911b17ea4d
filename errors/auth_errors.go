// api/errors/auth_errors.go
package errors

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrEmailTaken         = errors.New("email already registered")
	ErrMissingJWTSecret   = errors.New("jwt signing secret is not configured")
)
