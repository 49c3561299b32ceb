// Package models defines the core data structures for users, media records,
// and issued token pairs.
package models

import "time"

// User roles.
const (
	// RoleUser is the default role assigned on registration.
	RoleUser = "user"
	// RoleAdmin marks administrative accounts.
	RoleAdmin = "admin"
)

// Permission actions accepted by the media permission endpoint.
const (
	// PermissionAdd grants a user read access to a media record.
	PermissionAdd = "add"
	// PermissionRemove revokes previously granted read access.
	PermissionRemove = "remove"
)

// User represents an application user with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`
	// Email is the unique login email of the user.
	Email string `json:"email"`
	// PasswordHash is the bcrypt hash of the user's password.
	// It is never serialized outward.
	PasswordHash []byte `json:"-"`
	// Name is the display name chosen by the user.
	Name string `json:"name"`
	// Role is either "user" or "admin".
	Role string `json:"role"`
	// CreatedAt is the time the account was created.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the time the account was last modified.
	UpdatedAt time.Time `json:"updatedAt"`
}

// Media represents an uploaded file record together with its allow-list.
type Media struct {
	// ID is the unique identifier for the media record.
	ID string `json:"id"`
	// OwnerID references the user who uploaded the file.
	// Immutable after creation.
	OwnerID string `json:"ownerId"`
	// FileName is the original filename supplied on upload.
	FileName string `json:"fileName"`
	// FilePath is the opaque handle into the blob store.
	// Never exposed to clients.
	FilePath string `json:"-"`
	// MimeType is the declared MIME type of the file.
	MimeType string `json:"mimeType"`
	// Size is the file size in bytes.
	Size int64 `json:"size"`
	// AllowedUserIDs is the set of user IDs granted read access
	// beyond the owner. The owner is never listed here.
	AllowedUserIDs []string `json:"allowedUserIds"`
	// CreatedAt is the time the record was created.
	CreatedAt time.Time `json:"createdAt"`
}

// TokenPair holds a freshly issued access/refresh token pair.
type TokenPair struct {
	// AccessToken is the short-lived token authorizing API calls.
	AccessToken string `json:"accessToken"`
	// RefreshToken is the long-lived token used only to mint new pairs.
	RefreshToken string `json:"refreshToken"`
}
