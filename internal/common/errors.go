// Package common defines shared constants and sentinel errors used across
// the CrewDesk client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Storage-level errors.
	ErrNotFound = errors.New("not found")

	// Generic service-level errors.
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNoSession means there is no refresh credential to restore a
	// session from. This is the expected state for a first-time visitor,
	// not a failure.
	ErrNoSession = errors.New("no session")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
