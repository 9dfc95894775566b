// Package common defines shared constants and sentinel errors used across
// the storefront server layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// Session errors (missing, unknown or expired token).
	ErrorUnauthenticated = errors.New("unauthenticated")

	// Account errors. Wrong email and wrong password both map to
	// ErrorInvalidCredentials so the response does not reveal which one it was.
	ErrorInvalidCredentials = errors.New("invalid credentials")
	ErrorEmailTaken         = errors.New("email already in use")
	ErrorInvalidEmail       = errors.New("invalid email format")
	ErrorStaleEmail         = errors.New("old email does not match")
	ErrorPasswordMismatch   = errors.New("old password does not match")
)
