// Package common defines shared constants and sentinel errors used across
// Taskboard layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Auth errors.
	ErrorUnauthorized       = errors.New("unauthorized")
	ErrorInvalidCredentials = errors.New("invalid credentials")
	ErrorInvalidToken       = errors.New("invalid token")

	// Boundary validation errors (password policy, malformed email).
	ErrorValidation = errors.New("validation error")
)
