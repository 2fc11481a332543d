// Package common defines shared constants and sentinel errors used across
// client and server layers of DayKeeper. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Transport-level error: the backend could not be reached at all.
	ErrNetwork = errors.New("network failure")

	// Identity-provider error vocabulary. The provider never surfaces raw
	// text to the user; every failure collapses into one of these.
	ErrInvalidCredential  = errors.New("invalid credential")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrEmailInUse         = errors.New("email already in use")
	ErrWeakPassword       = errors.New("password too weak")
	ErrMissingPassword    = errors.New("missing password")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrEmailNotRegistered = errors.New("email not registered")

	// ErrSSODismissed marks a single-sign-on flow the user abandoned.
	// It is a benign non-error: callers suppress it silently.
	ErrSSODismissed = errors.New("sso flow dismissed")

	// Validation errors caught before any external call.
	ErrValidation = errors.New("validation error")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
