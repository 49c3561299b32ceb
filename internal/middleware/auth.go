// Package middleware provides HTTP middlewares for authentication,
// request logging, and metrics.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/atinyakov/MediaKeeper/internal/apperrors"
	"github.com/atinyakov/MediaKeeper/internal/models"
)

type ctxKey string

const userKey ctxKey = "user"

// TokenVerifier validates access tokens for the authentication middleware.
type TokenVerifier interface {
	// VerifyAccess validates an access token and returns its subject
	// and email, or apperrors.ErrInvalidToken.
	VerifyAccess(token string) (string, string, error)
}

// UserLoader resolves the authenticated user for the middleware.
type UserLoader interface {
	// GetByID fetches a user by id. Returns apperrors.ErrNotFound
	// if the user no longer exists.
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// BearerAuth is a middleware that enforces bearer-token authentication.
//
// It extracts the token from the Authorization header, verifies it as an
// access token, and loads the referenced user. A missing or malformed
// header, an invalid or expired token, or a user that no longer exists
// all yield 401. On success the resolved user is stored in the request
// context for downstream handlers; no other side effects are made.
func BearerAuth(tokens TokenVerifier, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				apperrors.WriteMessage(w, r, http.StatusUnauthorized, "Missing Authorization header")
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				apperrors.WriteMessage(w, r, http.StatusUnauthorized, "Invalid Authorization header format")
				return
			}

			userID, _, err := tokens.VerifyAccess(parts[1])
			if err != nil {
				apperrors.WriteMessage(w, r, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				apperrors.WriteMessage(w, r, http.StatusUnauthorized, "Unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext extracts the authenticated user from the request
// context. Returns nil if no user is present.
func GetUserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

// WithUser returns a context carrying the given user. Used by tests to
// exercise handlers without the full middleware chain.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}
