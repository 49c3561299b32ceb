package service

import (
	"errors"
	"testing"
	"time"

	"github.com/atinyakov/MediaKeeper/internal/apperrors"
)

func newTestTokenService(accessTTL, refreshTTL time.Duration) *TokenService {
	return NewTokenService(
		[]byte("access-secret"), []byte("refresh-secret"),
		accessTTL, refreshTTL,
	)
}

func TestIssuePair_VerifyRoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService(time.Hour, 24*time.Hour)

	pair, err := svc.IssuePair("user-123", "user@example.com")
	if err != nil {
		t.Fatalf("IssuePair error: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("IssuePair returned empty tokens: %+v", pair)
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Fatalf("access and refresh tokens must differ")
	}

	userID, email, err := svc.VerifyAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("VerifyAccess error: %v", err)
	}
	if userID != "user-123" || email != "user@example.com" {
		t.Errorf("VerifyAccess = (%q, %q); want (user-123, user@example.com)", userID, email)
	}

	userID, email, err = svc.VerifyRefresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("VerifyRefresh error: %v", err)
	}
	if userID != "user-123" || email != "user@example.com" {
		t.Errorf("VerifyRefresh = (%q, %q); want (user-123, user@example.com)", userID, email)
	}
}

func TestVerifyAccess_Expired(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService(-1*time.Second, 24*time.Hour)

	pair, err := svc.IssuePair("u1", "u1@example.com")
	if err != nil {
		t.Fatalf("IssuePair error: %v", err)
	}

	if _, _, err := svc.VerifyAccess(pair.AccessToken); !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerify_WrongKindSecret(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService(time.Hour, 24*time.Hour)

	pair, err := svc.IssuePair("u2", "u2@example.com")
	if err != nil {
		t.Fatalf("IssuePair error: %v", err)
	}

	// A refresh token never verifies as an access token.
	if _, _, err := svc.VerifyAccess(pair.RefreshToken); !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Errorf("VerifyAccess(refresh token) = %v; want ErrInvalidToken", err)
	}

	// An access token never verifies as a refresh token.
	if _, _, err := svc.VerifyRefresh(pair.AccessToken); !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Errorf("VerifyRefresh(access token) = %v; want ErrInvalidToken", err)
	}
}

func TestVerifyAccess_Garbage(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService(time.Hour, 24*time.Hour)

	cases := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not a jwt", "definitely-not-a-token"},
		{"truncated", "eyJhbGciOiJIUzI1NiJ9.e30"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := svc.VerifyAccess(tc.token); !errors.Is(err, apperrors.ErrInvalidToken) {
				t.Errorf("VerifyAccess(%q) = %v; want ErrInvalidToken", tc.token, err)
			}
		})
	}
}

func TestVerifyAccess_TamperedSignature(t *testing.T) {
	t.Parallel()

	svc := newTestTokenService(time.Hour, 24*time.Hour)
	other := NewTokenService([]byte("other-secret"), []byte("other-refresh"), time.Hour, time.Hour)

	pair, err := other.IssuePair("u3", "u3@example.com")
	if err != nil {
		t.Fatalf("IssuePair error: %v", err)
	}

	if _, _, err := svc.VerifyAccess(pair.AccessToken); !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Errorf("token signed with a different secret verified: %v", err)
	}
}
