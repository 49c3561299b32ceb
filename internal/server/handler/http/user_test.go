package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/atinyakov/MediaKeeper/internal/middleware"
	"github.com/atinyakov/MediaKeeper/internal/models"
)

func TestUserHandler_Me(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	user := &models.User{
		ID:           "user-1",
		Email:        "alice@example.com",
		PasswordHash: []byte("$2a$12$hash"),
		Name:         "Alice",
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	h := &UserHandler{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	h.Me(rec, req.WithContext(middleware.WithUser(req.Context(), user)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var resp profileResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "user-1" || resp.Email != "alice@example.com" || resp.Role != models.RoleUser {
		t.Errorf("unexpected profile: %+v", resp)
	}
	if strings.Contains(rec.Body.String(), "hash") {
		t.Errorf("profile must not expose the password hash: %s", rec.Body.String())
	}
}

func TestUserHandler_Me_NoUser(t *testing.T) {
	h := &UserHandler{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	h.Me(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}
