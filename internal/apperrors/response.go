package apperrors

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// response is the JSON body written for every error. The message field
// is always a list, even for a single message.
type response struct {
	StatusCode int      `json:"statusCode"`
	Timestamp  string   `json:"timestamp"`
	Path       string   `json:"path"`
	Method     string   `json:"method"`
	Message    []string `json:"message"`
}

// WriteMessage writes an error response with an explicit status and message.
func WriteMessage(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response{
		StatusCode: status,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Path:       r.URL.Path,
		Method:     r.Method,
		Message:    []string{message},
	})
}

// Write maps err onto an HTTP status and client message and writes the
// error response. Errors outside the taxonomy become a generic 500; the
// caller is expected to log those with full detail before calling Write.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	WriteMessage(w, r, StatusFor(err), messageFor(err))
}

// StatusFor resolves the HTTP status code for an error from the taxonomy.
// Unknown errors map to 500.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrDuplicateEmail),
		errors.Is(err, ErrUnsupportedType),
		errors.Is(err, ErrTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// defaultMessages are used when the error carries no specific message.
var defaultMessages = map[error]string{
	ErrInvalidInput:       "Invalid request",
	ErrDuplicateEmail:     "User with this email already exists",
	ErrInvalidCredentials: "Invalid credentials",
	ErrInvalidToken:       "Invalid or expired token",
	ErrUnauthenticated:    "Unauthorized",
	ErrForbidden:          "Forbidden",
	ErrNotFound:           "Not Found",
	ErrUnsupportedType:    "Only JPEG files are allowed",
	ErrTooLarge:           "File size exceeds the allowed limit",
}

// messageFor resolves the client message for an error. Messages attached
// via WithMessage win; unknown errors never leak internals.
func messageFor(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	for kind, msg := range defaultMessages {
		if errors.Is(err, kind) {
			return msg
		}
	}
	return "Internal server error"
}
