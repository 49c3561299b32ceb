package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/MediaKeeper/internal/apperrors"
	"github.com/atinyakov/MediaKeeper/internal/models"
)

// fakeAuthService implements AuthService for testing.
type fakeAuthService struct {
	user        *models.User
	pair        models.TokenPair
	registerErr error
	loginErr    error
	refreshErr  error
}

func (f *fakeAuthService) Register(ctx context.Context, email, password, name string) (*models.User, models.TokenPair, error) {
	if f.registerErr != nil {
		return nil, models.TokenPair{}, f.registerErr
	}
	return f.user, f.pair, nil
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (*models.User, models.TokenPair, error) {
	if f.loginErr != nil {
		return nil, models.TokenPair{}, f.loginErr
	}
	return f.user, f.pair, nil
}

func (f *fakeAuthService) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	if f.refreshErr != nil {
		return models.TokenPair{}, f.refreshErr
	}
	return f.pair, nil
}

func fakeUser() *models.User {
	return &models.User{
		ID:        "user-1",
		Email:     "alice@example.com",
		Role:      models.RoleUser,
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// errorBody decodes the structured error response and returns its messages.
func errorBody(t *testing.T, body *bytes.Buffer) []string {
	t.Helper()
	var resp struct {
		StatusCode int      `json:"statusCode"`
		Message    []string `json:"message"`
	}
	if err := json.Unmarshal(body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error body %q: %v", body.String(), err)
	}
	return resp.Message
}

func TestAuthHandler_Register(t *testing.T) {
	pair := models.TokenPair{AccessToken: "access", RefreshToken: "refresh"}
	tests := []struct {
		name         string
		body         string
		service      *fakeAuthService
		expectedCode int
		expectedMsg  string
	}{
		{
			name:         "invalid JSON",
			body:         `not a json`,
			service:      &fakeAuthService{},
			expectedCode: http.StatusBadRequest,
			expectedMsg:  "Invalid request body",
		},
		{
			name:         "missing email",
			body:         `{"password":"secret1","name":"Alice"}`,
			service:      &fakeAuthService{},
			expectedCode: http.StatusBadRequest,
			expectedMsg:  "Email is required",
		},
		{
			name:         "malformed email",
			body:         `{"email":"not-an-email","password":"secret1","name":"Alice"}`,
			service:      &fakeAuthService{},
			expectedCode: http.StatusBadRequest,
			expectedMsg:  "Email must be a valid email address",
		},
		{
			name:         "short password",
			body:         `{"email":"alice@example.com","password":"12345","name":"Alice"}`,
			service:      &fakeAuthService{},
			expectedCode: http.StatusBadRequest,
			expectedMsg:  "Password must be at least 6 characters long",
		},
		{
			name:         "short name",
			body:         `{"email":"alice@example.com","password":"secret1","name":"A"}`,
			service:      &fakeAuthService{},
			expectedCode: http.StatusBadRequest,
			expectedMsg:  "Name must be between 2 and 50 characters",
		},
		{
			name: "duplicate email",
			body: `{"email":"alice@example.com","password":"secret1","name":"Alice"}`,
			service: &fakeAuthService{
				registerErr: apperrors.WithMessage(apperrors.ErrDuplicateEmail, "User with this email already exists"),
			},
			expectedCode: http.StatusBadRequest,
			expectedMsg:  "User with this email already exists",
		},
		{
			name:         "service failure",
			body:         `{"email":"alice@example.com","password":"secret1","name":"Alice"}`,
			service:      &fakeAuthService{registerErr: errors.New("db down")},
			expectedCode: http.StatusInternalServerError,
			expectedMsg:  "Internal server error",
		},
		{
			name:         "success",
			body:         `{"email":"alice@example.com","password":"secret1","name":"Alice"}`,
			service:      &fakeAuthService{user: fakeUser(), pair: pair},
			expectedCode: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(tt.body))
			h := &AuthHandler{AuthService: tt.service, Logger: zap.NewNop()}
			h.Register(rec, req)
			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, res.StatusCode)
			}
			if tt.expectedMsg != "" {
				msgs := errorBody(t, rec.Body)
				if len(msgs) != 1 || msgs[0] != tt.expectedMsg {
					t.Errorf("expected message %q, got %v", tt.expectedMsg, msgs)
				}
			}
		})
	}
}

func TestAuthHandler_Register_Body(t *testing.T) {
	pair := models.TokenPair{AccessToken: "access", RefreshToken: "refresh"}
	h := &AuthHandler{AuthService: &fakeAuthService{user: fakeUser(), pair: pair}, Logger: zap.NewNop()}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"email":"alice@example.com","password":"secret1","name":"Alice"}`))
	h.Register(rec, req)

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.User.ID != "user-1" || resp.User.Email != "alice@example.com" {
		t.Errorf("unexpected user in response: %+v", resp.User)
	}
	if resp.AccessToken != "access" || resp.RefreshToken != "refresh" {
		t.Errorf("unexpected tokens in response: %+v", resp)
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("password")) {
		t.Errorf("response must not contain password material: %s", rec.Body.String())
	}
}

func TestAuthHandler_Login(t *testing.T) {
	pair := models.TokenPair{AccessToken: "access", RefreshToken: "refresh"}
	tests := []struct {
		name         string
		body         string
		service      *fakeAuthService
		expectedCode int
		expectedMsg  string
	}{
		{
			name:         "invalid JSON",
			body:         `{{`,
			service:      &fakeAuthService{},
			expectedCode: http.StatusBadRequest,
			expectedMsg:  "Invalid request body",
		},
		{
			name:         "missing password",
			body:         `{"email":"alice@example.com"}`,
			service:      &fakeAuthService{},
			expectedCode: http.StatusBadRequest,
			expectedMsg:  "Email and password are required",
		},
		{
			name:         "bad credentials",
			body:         `{"email":"alice@example.com","password":"wrong"}`,
			service:      &fakeAuthService{loginErr: apperrors.ErrInvalidCredentials},
			expectedCode: http.StatusUnauthorized,
			expectedMsg:  "Invalid credentials",
		},
		{
			name:         "success",
			body:         `{"email":"alice@example.com","password":"secret1"}`,
			service:      &fakeAuthService{user: fakeUser(), pair: pair},
			expectedCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tt.body))
			h := &AuthHandler{AuthService: tt.service, Logger: zap.NewNop()}
			h.Login(rec, req)
			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, res.StatusCode)
			}
			if tt.expectedMsg != "" {
				msgs := errorBody(t, rec.Body)
				if len(msgs) != 1 || msgs[0] != tt.expectedMsg {
					t.Errorf("expected message %q, got %v", tt.expectedMsg, msgs)
				}
			}
		})
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	pair := models.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}
	tests := []struct {
		name         string
		body         string
		service      *fakeAuthService
		expectedCode int
		expectedMsg  string
	}{
		{
			name:         "missing token",
			body:         `{}`,
			service:      &fakeAuthService{},
			expectedCode: http.StatusBadRequest,
			expectedMsg:  "Refresh token is required",
		},
		{
			name: "invalid token",
			body: `{"refreshToken":"garbage"}`,
			service: &fakeAuthService{
				refreshErr: apperrors.WithMessage(apperrors.ErrInvalidCredentials, "Invalid refresh token"),
			},
			expectedCode: http.StatusUnauthorized,
			expectedMsg:  "Invalid refresh token",
		},
		{
			name:         "success",
			body:         `{"refreshToken":"valid"}`,
			service:      &fakeAuthService{pair: pair},
			expectedCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/auth/refresh", strings.NewReader(tt.body))
			h := &AuthHandler{AuthService: tt.service, Logger: zap.NewNop()}
			h.Refresh(rec, req)
			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, res.StatusCode)
			}
			if tt.expectedMsg != "" {
				msgs := errorBody(t, rec.Body)
				if len(msgs) != 1 || msgs[0] != tt.expectedMsg {
					t.Errorf("expected message %q, got %v", tt.expectedMsg, msgs)
				}
			}
		})
	}
}
