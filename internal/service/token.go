// Package service provides business-logic services for authentication,
// token issuance, and media management, delegating persistence to
// repository interfaces.
package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/atinyakov/MediaKeeper/internal/apperrors"
	"github.com/atinyakov/MediaKeeper/internal/models"
)

// tokenClaims are the claims embedded in both token kinds: the standard
// subject/expiry plus the user's email.
type tokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// TokenService issues and verifies access and refresh tokens. Each kind
// is signed with its own secret so that a leaked token of one kind can
// never stand in for the other. Tokens are stateless: there is no
// server-side session record and no individual revocation; compromise is
// bounded only by expiry.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenService constructs a TokenService with distinct signing
// secrets and lifetimes for the two token kinds.
func NewTokenService(accessSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// IssuePair signs a fresh access/refresh token pair for the given user.
func (s *TokenService) IssuePair(userID, email string) (models.TokenPair, error) {
	access, err := s.sign(userID, email, s.accessSecret, s.accessTTL)
	if err != nil {
		return models.TokenPair{}, err
	}
	refresh, err := s.sign(userID, email, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return models.TokenPair{}, err
	}
	return models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyAccess validates an access token and returns its subject and email.
// Fails with apperrors.ErrInvalidToken on a malformed, forged, or expired token.
func (s *TokenService) VerifyAccess(token string) (string, string, error) {
	return s.verify(token, s.accessSecret)
}

// VerifyRefresh validates a refresh token and returns its subject and email.
// A token signed with the access secret never verifies here.
func (s *TokenService) VerifyRefresh(token string) (string, string, error) {
	return s.verify(token, s.refreshSecret)
}

func (s *TokenService) sign(userID, email string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
	})
	return token.SignedString(secret)
}

func (s *TokenService) verify(tokenString string, secret []byte) (string, string, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return "", "", apperrors.ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", "", apperrors.ErrInvalidToken
	}
	return claims.Subject, claims.Email, nil
}
