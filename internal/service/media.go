package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/atinyakov/MediaKeeper/internal/apperrors"
	"github.com/atinyakov/MediaKeeper/internal/models"
)

// MediaRepository defines the persistence operations needed by the MediaService.
type MediaRepository interface {
	// Create inserts a new media record.
	Create(ctx context.Context, media *models.Media) error
	// GetByID fetches a single media record by id. Returns
	// apperrors.ErrNotFound if no record exists.
	GetByID(ctx context.Context, id string) (*models.Media, error)
	// ListByOwner fetches records owned by ownerID, newest first.
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]models.Media, error)
	// CountByOwner returns the total number of records owned by ownerID.
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	// Delete removes the record with the given id.
	Delete(ctx context.Context, id string) error
	// UpdateAllowedUsers replaces the allow-list of the given record.
	UpdateAllowedUsers(ctx context.Context, id string, allowed []string) error
}

// BlobStore defines the file storage operations needed by the MediaService.
type BlobStore interface {
	// GenerateName produces a unique stored name keeping the extension.
	GenerateName(originalName string) string
	// Save writes data under name and returns the path to persist.
	Save(name string, data []byte) (string, error)
	// Open opens a stored file for reading.
	Open(path string) (*os.File, error)
	// Exists reports whether the blob at path is on disk.
	Exists(path string) bool
	// Remove deletes the blob at path, tolerating its absence.
	Remove(path string) error
}

// MediaService implements upload, listing, access control, and deletion
// of media records and their underlying blobs.
type MediaService struct {
	repo        MediaRepository
	blobs       BlobStore
	maxFileSize int64
}

// NewMediaService constructs a MediaService with the provided repository,
// blob store, and maximum accepted upload size in bytes.
func NewMediaService(repo MediaRepository, blobs BlobStore, maxFileSize int64) *MediaService {
	return &MediaService{repo: repo, blobs: blobs, maxFileSize: maxFileSize}
}

// Upload validates the file, writes its bytes to the blob store, and
// persists a media record with an empty allow-list. The blob is written
// before the record; if persisting fails the blob is left behind as
// unreferenced garbage rather than rolled back.
func (s *MediaService) Upload(ctx context.Context, data []byte, originalName, mimeType, ownerID string) (*models.Media, error) {
	if len(data) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "No file uploaded")
	}

	mime := strings.ToLower(mimeType)
	if !strings.Contains(mime, "jpeg") && !strings.Contains(mime, "jpg") {
		return nil, apperrors.WithMessage(apperrors.ErrUnsupportedType, "Only JPEG files are allowed")
	}

	if int64(len(data)) > s.maxFileSize {
		return nil, apperrors.WithMessage(apperrors.ErrTooLarge,
			fmt.Sprintf("File size exceeds limit of %d bytes", s.maxFileSize))
	}

	name := s.blobs.GenerateName(originalName)
	path, err := s.blobs.Save(name, data)
	if err != nil {
		return nil, fmt.Errorf("save file: %w", err)
	}

	media := &models.Media{
		ID:             uuid.NewString(),
		OwnerID:        ownerID,
		FileName:       originalName,
		FilePath:       path,
		MimeType:       mimeType,
		Size:           int64(len(data)),
		AllowedUserIDs: []string{},
		CreatedAt:      time.Now(),
	}
	if err := s.repo.Create(ctx, media); err != nil {
		return nil, fmt.Errorf("create media record: %w", err)
	}
	return media, nil
}

// ListByOwner returns one page of the requester's own media records,
// newest first, together with the total count of their records.
func (s *MediaService) ListByOwner(ctx context.Context, ownerID string, page, limit int) ([]models.Media, int64, error) {
	offset := (page - 1) * limit

	items, err := s.repo.ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list media: %w", err)
	}
	total, err := s.repo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, 0, fmt.Errorf("count media: %w", err)
	}
	return items, total, nil
}

// GetByID returns the media record if the requester is its owner or on
// its allow-list. Fails with apperrors.ErrNotFound or apperrors.ErrForbidden.
func (s *MediaService) GetByID(ctx context.Context, id, requesterID string) (*models.Media, error) {
	media, err := s.getMedia(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canRead(media, requesterID) {
		return nil, apperrors.WithMessage(apperrors.ErrForbidden, "Access denied to this media")
	}
	return media, nil
}

// Delete removes the blob and then the record, owner-only. The blob is
// removed first; a crash between the two steps leaves an orphan record,
// which GetFile tolerates by reporting the file as missing.
func (s *MediaService) Delete(ctx context.Context, id, requesterID string) error {
	media, err := s.getMedia(ctx, id)
	if err != nil {
		return err
	}
	if media.OwnerID != requesterID {
		return apperrors.WithMessage(apperrors.ErrForbidden, "Only the owner can delete this media")
	}

	if err := s.blobs.Remove(media.FilePath); err != nil {
		return fmt.Errorf("remove file: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete media record: %w", err)
	}
	return nil
}

// GetFile resolves the stored path, original filename, and MIME type for
// a download, applying the same access check as GetByID. Fails with
// apperrors.ErrNotFound if the blob is absent even though the record exists.
func (s *MediaService) GetFile(ctx context.Context, id, requesterID string) (string, string, string, error) {
	media, err := s.GetByID(ctx, id, requesterID)
	if err != nil {
		return "", "", "", err
	}
	if !s.blobs.Exists(media.FilePath) {
		return "", "", "", apperrors.WithMessage(apperrors.ErrNotFound, "Media file not found on disk")
	}
	return media.FilePath, media.FileName, media.MimeType, nil
}

// GetPermissions returns the owner id and allow-list of a record, owner-only.
func (s *MediaService) GetPermissions(ctx context.Context, id, requesterID string) (string, []string, error) {
	media, err := s.getMedia(ctx, id)
	if err != nil {
		return "", nil, err
	}
	if media.OwnerID != requesterID {
		return "", nil, apperrors.WithMessage(apperrors.ErrForbidden, "Only the owner can view permissions")
	}
	return media.OwnerID, media.AllowedUserIDs, nil
}

// SetPermission adds or removes a user on the allow-list, owner-only.
// Both actions are idempotent: adding a listed user or removing an
// unlisted one leaves the list unchanged. The owner is never added to
// their own allow-list.
func (s *MediaService) SetPermission(ctx context.Context, id, targetUserID, action, requesterID string) (*models.Media, error) {
	media, err := s.getMedia(ctx, id)
	if err != nil {
		return nil, err
	}
	if media.OwnerID != requesterID {
		return nil, apperrors.WithMessage(apperrors.ErrForbidden, "Only the owner can manage permissions")
	}

	switch action {
	case models.PermissionAdd:
		if targetUserID != media.OwnerID && !contains(media.AllowedUserIDs, targetUserID) {
			media.AllowedUserIDs = append(media.AllowedUserIDs, targetUserID)
		}
	case models.PermissionRemove:
		filtered := media.AllowedUserIDs[:0]
		for _, userID := range media.AllowedUserIDs {
			if userID != targetUserID {
				filtered = append(filtered, userID)
			}
		}
		media.AllowedUserIDs = filtered
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Action must be add or remove")
	}

	if err := s.repo.UpdateAllowedUsers(ctx, id, media.AllowedUserIDs); err != nil {
		return nil, fmt.Errorf("update permissions: %w", err)
	}
	return media, nil
}

// getMedia fetches a record, translating a missing id into the
// client-facing not-found error.
func (s *MediaService) getMedia(ctx context.Context, id string) (*models.Media, error) {
	media, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrNotFound, "Media not found")
		}
		return nil, fmt.Errorf("get media: %w", err)
	}
	return media, nil
}

// canRead reports whether userID is the owner of media or on its allow-list.
func canRead(media *models.Media, userID string) bool {
	if media.OwnerID == userID {
		return true
	}
	return contains(media.AllowedUserIDs, userID)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
