// Package http provides HTTP handlers for user authentication and
// media management.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/mail"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/MediaKeeper/internal/apperrors"
	"github.com/atinyakov/MediaKeeper/internal/models"
)

// AuthService defines the interface for authentication operations
// required by the HTTP handlers.
type AuthService interface {
	// Register creates a new user and issues a token pair.
	Register(ctx context.Context, email, password, name string) (*models.User, models.TokenPair, error)
	// Login verifies credentials and issues a token pair.
	Login(ctx context.Context, email, password string) (*models.User, models.TokenPair, error)
	// Refresh verifies a refresh token and issues a fresh pair.
	Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error)
}

// AuthHandler handles HTTP requests for registration, login, and
// token refresh.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	// Logger records unexpected failures.
	Logger *zap.Logger
}

// userSummary is the user representation returned by auth endpoints.
type userSummary struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// authResponse is the body returned on successful register and login.
type authResponse struct {
	User         userSummary `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

// RegisterRequest represents the JSON payload for user registration.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Register handles POST /auth/register.
// It validates the payload, creates the user, and returns 201 with the
// user summary and a token pair. A taken email yields 400.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.WriteMessage(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg, ok := validateRegister(req); !ok {
		apperrors.WriteMessage(w, r, http.StatusBadRequest, msg)
		return
	}

	user, pair, err := h.AuthService.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		respondError(w, r, h.Logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		User:         toUserSummary(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /auth/login.
// Unknown email and wrong password both yield the same 401 response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.WriteMessage(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		apperrors.WriteMessage(w, r, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, pair, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, h.Logger, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		User:         toUserSummary(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// RefreshRequest represents the JSON payload for token refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh handles POST /auth/refresh.
// It returns a fresh token pair; the presented refresh token stays valid
// until its own expiry.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		apperrors.WriteMessage(w, r, http.StatusBadRequest, "Refresh token is required")
		return
	}

	pair, err := h.AuthService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		respondError(w, r, h.Logger, err)
		return
	}

	writeJSON(w, http.StatusOK, pair)
}

// validateRegister checks the registration payload, returning the first
// violation message.
func validateRegister(req RegisterRequest) (string, bool) {
	if req.Email == "" {
		return "Email is required", false
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return "Email must be a valid email address", false
	}
	if len(req.Password) < 6 {
		return "Password must be at least 6 characters long", false
	}
	if len(req.Name) < 2 || len(req.Name) > 50 {
		return "Name must be between 2 and 50 characters", false
	}
	return "", true
}

func toUserSummary(user *models.User) userSummary {
	return userSummary{
		ID:        user.ID,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
