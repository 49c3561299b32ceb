package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/atinyakov/MediaKeeper/internal/apperrors"
	"github.com/atinyakov/MediaKeeper/internal/middleware"
	"github.com/atinyakov/MediaKeeper/internal/models"

	"github.com/go-chi/chi/v5"
)

// Pagination defaults and bounds for the media listing endpoint.
const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// multipartSlack is extra room on top of the configured maximum file
// size to account for multipart framing and other form fields.
const multipartSlack = 1 << 20

// MediaService defines the interface for media operations required by
// the HTTP handlers.
type MediaService interface {
	// Upload validates and stores a file, returning the created record.
	Upload(ctx context.Context, data []byte, originalName, mimeType, ownerID string) (*models.Media, error)
	// ListByOwner returns one page of the owner's records plus the total count.
	ListByOwner(ctx context.Context, ownerID string, page, limit int) ([]models.Media, int64, error)
	// GetByID returns a record if the requester may read it.
	GetByID(ctx context.Context, id, requesterID string) (*models.Media, error)
	// Delete removes a record and its blob, owner-only.
	Delete(ctx context.Context, id, requesterID string) error
	// GetFile resolves the stored path, filename, and MIME type for download.
	GetFile(ctx context.Context, id, requesterID string) (string, string, string, error)
	// GetPermissions returns the owner id and allow-list, owner-only.
	GetPermissions(ctx context.Context, id, requesterID string) (string, []string, error)
	// SetPermission adds or removes a user on the allow-list, owner-only.
	SetPermission(ctx context.Context, id, targetUserID, action, requesterID string) (*models.Media, error)
}

// MediaHandler handles HTTP requests for media upload, listing,
// download, deletion, and permission management.
type MediaHandler struct {
	// MediaService performs the underlying media operations.
	MediaService MediaService
	// MaxFileSize bounds the multipart body size.
	MaxFileSize int64
	// Logger records unexpected failures.
	Logger *zap.Logger
}

// listResponse is the body returned by the listing endpoint.
type listResponse struct {
	Media []models.Media `json:"media"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// permissionsResponse is the body returned by the permissions endpoint.
type permissionsResponse struct {
	OwnerID        string   `json:"ownerId"`
	AllowedUserIDs []string `json:"allowedUserIds"`
}

// PermissionRequest represents the JSON payload for permission changes.
type PermissionRequest struct {
	UserID string `json:"userId"`
	Action string `json:"action"`
}

// Upload handles POST /media/upload.
// It reads the multipart "file" field and creates a media record.
// Non-JPEG types and oversized files yield 400.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxFileSize+multipartSlack)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			apperrors.WriteMessage(w, r, http.StatusBadRequest,
				fmt.Sprintf("File size exceeds limit of %d bytes", h.MaxFileSize))
			return
		}
		apperrors.WriteMessage(w, r, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		apperrors.WriteMessage(w, r, http.StatusBadRequest,
			fmt.Sprintf("File size exceeds limit of %d bytes", h.MaxFileSize))
		return
	}

	media, err := h.MediaService.Upload(r.Context(), data, header.Filename,
		header.Header.Get("Content-Type"), user.ID)
	if err != nil {
		respondError(w, r, h.Logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, media)
}

// List handles GET /media/my.
// It returns the requester's own records, newest first, with offset
// pagination. Defaults: page 1, limit 10; limit is capped at 100.
func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	page, limit, err := parsePagination(r)
	if err != nil {
		apperrors.WriteMessage(w, r, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := h.MediaService.ListByOwner(r.Context(), user.ID, page, limit)
	if err != nil {
		respondError(w, r, h.Logger, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Media: items,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// Get handles GET /media/{id}.
// Readable by the owner and allow-listed users only.
func (h *MediaHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	media, err := h.MediaService.GetByID(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		respondError(w, r, h.Logger, err)
		return
	}

	writeJSON(w, http.StatusOK, media)
}

// Download handles GET /media/{id}/download.
// It streams the file with Content-Type and an attachment
// Content-Disposition carrying the original filename.
func (h *MediaHandler) Download(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	path, fileName, mimeType, err := h.MediaService.GetFile(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		respondError(w, r, h.Logger, err)
		return
	}

	f, err := os.Open(path)
	if err != nil {
		respondError(w, r, h.Logger, fmt.Errorf("open media file: %w", err))
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	if _, err := io.Copy(w, f); err != nil {
		h.Logger.Warn("stream media file", zap.Error(err), zap.String("path", path))
	}
}

// Delete handles DELETE /media/{id}.
// Owner-only; returns 204 on success.
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	if err := h.MediaService.Delete(r.Context(), chi.URLParam(r, "id"), user.ID); err != nil {
		respondError(w, r, h.Logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetPermissions handles GET /media/{id}/permissions, owner-only.
func (h *MediaHandler) GetPermissions(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	ownerID, allowed, err := h.MediaService.GetPermissions(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		respondError(w, r, h.Logger, err)
		return
	}
	if allowed == nil {
		allowed = []string{}
	}

	writeJSON(w, http.StatusOK, permissionsResponse{
		OwnerID:        ownerID,
		AllowedUserIDs: allowed,
	})
}

// SetPermission handles POST /media/{id}/permissions, owner-only.
// Add and remove are both idempotent.
func (h *MediaHandler) SetPermission(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req PermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.WriteMessage(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" {
		apperrors.WriteMessage(w, r, http.StatusBadRequest, "userId is required")
		return
	}
	if req.Action != models.PermissionAdd && req.Action != models.PermissionRemove {
		apperrors.WriteMessage(w, r, http.StatusBadRequest, "Action must be add or remove")
		return
	}

	media, err := h.MediaService.SetPermission(r.Context(), chi.URLParam(r, "id"), req.UserID, req.Action, user.ID)
	if err != nil {
		respondError(w, r, h.Logger, err)
		return
	}

	writeJSON(w, http.StatusOK, media)
}

// parsePagination extracts and validates the page and limit query
// parameters, applying defaults when absent.
func parsePagination(r *http.Request) (int, int, error) {
	page := defaultPage
	limit := defaultLimit

	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return 0, 0, errors.New("page must be a positive integer")
		}
		page = n
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxLimit {
			return 0, 0, fmt.Errorf("limit must be between 1 and %d", maxLimit)
		}
		limit = n
	}
	return page, limit, nil
}
