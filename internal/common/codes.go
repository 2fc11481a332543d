package common

import "errors"

// Wire codes for the JSON error envelope {code, message}. The set is closed:
// a server must never invent a new code, and a client maps anything it does
// not recognize to ErrInternal.
const (
	CodeNetworkFailure     = "network-failure"
	CodeInvalidCredential  = "invalid-credential"
	CodeEmailNotVerified   = "email-not-verified"
	CodeEmailInUse         = "email-in-use"
	CodeWeakPassword       = "weak-password"
	CodeMissingPassword    = "missing-password"
	CodeInvalidEmail       = "invalid-email"
	CodeEmailNotRegistered = "email-not-registered"
	CodeNotFound           = "not-found"
	CodeUnauthorized       = "unauthorized"
	CodeValidation         = "validation"
	CodeTokenExpired       = "token-expired"
	CodeUnknown            = "unknown"
)

// CodeOf converts a sentinel error into its wire code.
func CodeOf(err error) string {
	switch {
	case errors.Is(err, ErrNetwork):
		return CodeNetworkFailure
	case errors.Is(err, ErrInvalidCredential):
		return CodeInvalidCredential
	case errors.Is(err, ErrEmailNotVerified):
		return CodeEmailNotVerified
	case errors.Is(err, ErrEmailInUse):
		return CodeEmailInUse
	case errors.Is(err, ErrWeakPassword):
		return CodeWeakPassword
	case errors.Is(err, ErrMissingPassword):
		return CodeMissingPassword
	case errors.Is(err, ErrInvalidEmail):
		return CodeInvalidEmail
	case errors.Is(err, ErrEmailNotRegistered):
		return CodeEmailNotRegistered
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidToken):
		return CodeUnauthorized
	case errors.Is(err, ErrTokenExpired):
		return CodeTokenExpired
	case errors.Is(err, ErrValidation):
		return CodeValidation
	default:
		return CodeUnknown
	}
}

// ErrorByCode is the inverse of CodeOf, used by the client when decoding
// an error envelope received from the server.
func ErrorByCode(code string) error {
	switch code {
	case CodeNetworkFailure:
		return ErrNetwork
	case CodeInvalidCredential:
		return ErrInvalidCredential
	case CodeEmailNotVerified:
		return ErrEmailNotVerified
	case CodeEmailInUse:
		return ErrEmailInUse
	case CodeWeakPassword:
		return ErrWeakPassword
	case CodeMissingPassword:
		return ErrMissingPassword
	case CodeInvalidEmail:
		return ErrInvalidEmail
	case CodeEmailNotRegistered:
		return ErrEmailNotRegistered
	case CodeNotFound:
		return ErrNotFound
	case CodeUnauthorized:
		return ErrUnauthorized
	case CodeTokenExpired:
		return ErrTokenExpired
	case CodeValidation:
		return ErrValidation
	default:
		return ErrInternal
	}
}
