// Package common defines shared constants and sentinel errors used across
// client and server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Input validation (missing or malformed fields, client-correctable).
	ErrValidation = errors.New("validation error")

	// Login errors. ErrInvalidCredentials deliberately covers both
	// unknown-email and wrong-password so responses cannot be used for
	// account enumeration. ErrAccountNotVerified is only ever returned
	// after the password has been confirmed correct.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotVerified = errors.New("account not verified")

	// Session guard errors. ErrUnauthenticated means no token was
	// presented at all; ErrForbidden means a token was presented but is
	// invalid or expired, and the client must clear its stored session.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
