// Package common defines shared constants and sentinel errors used across
// the petcare backend and the terminal front-end. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Session errors: no resolvable owner for the current visitor.
	ErrNotAuthenticated = errors.New("not authenticated")

	// Validation errors, raised before any store call.
	ErrInvalidInput = errors.New("invalid input")

	// Identity provider rejections. They are kept apart so that the user
	// gets a message naming the actual problem.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailInUse         = errors.New("email already in use")

	// Backend failure on insert/query/delete/upload, including timeouts.
	ErrStoreUnavailable = errors.New("store unavailable")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
