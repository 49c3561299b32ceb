package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/MediaKeeper/internal/apperrors"
	"github.com/atinyakov/MediaKeeper/internal/models"
)

// bcryptCost is the work factor for password hashing.
const bcryptCost = 12

// UserRepository defines the persistence operations required by the
// authentication service.
type UserRepository interface {
	// Create inserts a new user record. Returns
	// apperrors.ErrDuplicateEmail if the email is already taken.
	Create(ctx context.Context, user *models.User) error
	// GetByEmail fetches a user by email. Returns
	// apperrors.ErrNotFound if no such user exists.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByID fetches a user by id. Returns apperrors.ErrNotFound
	// if no such user exists.
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// TokenIssuer defines the token operations required by the
// authentication service.
type TokenIssuer interface {
	// IssuePair signs a fresh access/refresh token pair.
	IssuePair(userID, email string) (models.TokenPair, error)
	// VerifyRefresh validates a refresh token and returns its
	// subject and email.
	VerifyRefresh(token string) (string, string, error)
}

// AuthService implements registration, login, and token refresh.
type AuthService struct {
	repo   UserRepository
	tokens TokenIssuer
}

// NewAuthService constructs an AuthService using the provided repository
// and token issuer.
func NewAuthService(repo UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{repo: repo, tokens: tokens}
}

// Register creates a new user with role "user" and a bcrypt password
// hash, and issues a token pair. Fails with apperrors.ErrDuplicateEmail
// if the email is already registered.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*models.User, models.TokenPair, error) {
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, models.TokenPair{}, apperrors.WithMessage(
			apperrors.ErrDuplicateEmail, "User with this email already exists")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, models.TokenPair{}, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, models.TokenPair{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateEmail) {
			return nil, models.TokenPair{}, apperrors.WithMessage(
				apperrors.ErrDuplicateEmail, "User with this email already exists")
		}
		return nil, models.TokenPair{}, fmt.Errorf("create user: %w", err)
	}

	pair, err := s.tokens.IssuePair(user.ID, user.Email)
	if err != nil {
		return nil, models.TokenPair{}, fmt.Errorf("issue tokens: %w", err)
	}
	return user, pair, nil
}

// Login verifies the credentials and issues a token pair. Unknown email
// and wrong password both fail with the same apperrors.ErrInvalidCredentials
// so callers cannot enumerate registered emails.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, models.TokenPair, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, models.TokenPair{}, apperrors.ErrInvalidCredentials
		}
		return nil, models.TokenPair{}, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, models.TokenPair{}, apperrors.ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(user.ID, user.Email)
	if err != nil {
		return nil, models.TokenPair{}, fmt.Errorf("issue tokens: %w", err)
	}
	return user, pair, nil
}

// Refresh verifies a refresh token and issues a fresh pair. The old
// refresh token stays valid until its own expiry; no rotation is
// performed. Fails with apperrors.ErrInvalidCredentials if the token is
// invalid or the referenced user no longer exists.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	userID, _, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return models.TokenPair{}, apperrors.WithMessage(
			apperrors.ErrInvalidCredentials, "Invalid refresh token")
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return models.TokenPair{}, apperrors.WithMessage(
				apperrors.ErrInvalidCredentials, "Invalid refresh token")
		}
		return models.TokenPair{}, fmt.Errorf("find user: %w", err)
	}

	pair, err := s.tokens.IssuePair(user.ID, user.Email)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("issue tokens: %w", err)
	}
	return pair, nil
}

// GetByID returns the user with the given id. Used by the authentication
// middleware and the profile endpoint.
func (s *AuthService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}
