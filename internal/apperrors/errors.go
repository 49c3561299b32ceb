// Package apperrors defines the error taxonomy shared by services and
// HTTP handlers, and the JSON error response format written to clients.
package apperrors

import "errors"

// Sentinel errors returned by the service layer. Handlers map each
// sentinel to an HTTP status; the default client message can be
// overridden with WithMessage.
var (
	// ErrInvalidInput marks malformed or missing request fields,
	// caught before any persistence.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDuplicateEmail marks a registration attempt with an email
	// that is already taken.
	ErrDuplicateEmail = errors.New("duplicate email")
	// ErrInvalidCredentials marks login or refresh failures. It is
	// intentionally non-specific to avoid user enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken marks a malformed, forged, or expired token.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUnauthenticated marks requests with a missing or invalid
	// access token.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden marks requests by an authenticated user without
	// access to the target resource.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound marks a resource id that does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrUnsupportedType marks an upload with a non-JPEG MIME type.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrTooLarge marks an upload exceeding the configured size limit.
	ErrTooLarge = errors.New("file too large")
)

// Error carries a client-safe message on top of a sentinel, so that
// errors.Is still matches the taxonomy while the HTTP layer can surface
// an operation-specific message.
type Error struct {
	// Kind is the sentinel this error belongs to.
	Kind error
	// Message is the human-readable message returned to the client.
	Message string
}

// Error returns the client-facing message.
func (e *Error) Error() string { return e.Message }

// Unwrap exposes the sentinel for errors.Is.
func (e *Error) Unwrap() error { return e.Kind }

// WithMessage wraps a sentinel with a client-safe message.
func WithMessage(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}
