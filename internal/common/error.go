// Package common defines shared constants and sentinel errors used across
// MeTools components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// ErrorInvalidCredentials covers both an unknown username and a wrong
	// password so a caller cannot tell the two apart.
	ErrorInvalidCredentials = errors.New("invalid credentials")

	// Request-gate errors.
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorNotVerified  = errors.New("user is not verified")

	// Session-token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
