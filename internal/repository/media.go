package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/atinyakov/MediaKeeper/internal/apperrors"
	"github.com/atinyakov/MediaKeeper/internal/models"
)

// PostgresMediaRepository implements media record persistence against
// a PostgreSQL database.
type PostgresMediaRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresMediaRepository creates a new PostgresMediaRepository using
// the provided *sql.DB. db must be a valid connection to a PostgreSQL instance.
func NewPostgresMediaRepository(db *sql.DB) *PostgresMediaRepository {
	return &PostgresMediaRepository{DB: db}
}

// Create inserts a new media record.
func (r *PostgresMediaRepository) Create(ctx context.Context, media *models.Media) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO media (id, owner_id, file_name, file_path, mime_type, size, allowed_user_ids, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		media.ID, media.OwnerID, media.FileName, media.FilePath, media.MimeType, media.Size,
		pq.Array(media.AllowedUserIDs), media.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert media: %w", err)
	}
	return nil
}

// GetByID fetches a single media record by id. Returns
// apperrors.ErrNotFound if no record exists.
func (r *PostgresMediaRepository) GetByID(ctx context.Context, id string) (*models.Media, error) {
	var media models.Media
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, owner_id, file_name, file_path, mime_type, size, allowed_user_ids, created_at
		FROM media WHERE id = $1
	`, id).Scan(&media.ID, &media.OwnerID, &media.FileName, &media.FilePath, &media.MimeType,
		&media.Size, pq.Array(&media.AllowedUserIDs), &media.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get media by id: %w", err)
	}
	if media.AllowedUserIDs == nil {
		media.AllowedUserIDs = []string{}
	}
	return &media, nil
}

// ListByOwner fetches media records owned by ownerID, newest first,
// using offset pagination.
func (r *PostgresMediaRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]models.Media, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, owner_id, file_name, file_path, mime_type, size, allowed_user_ids, created_at
		FROM media WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list media by owner: %w", err)
	}
	defer rows.Close()

	items := make([]models.Media, 0, limit)
	for rows.Next() {
		var media models.Media
		if err := rows.Scan(&media.ID, &media.OwnerID, &media.FileName, &media.FilePath,
			&media.MimeType, &media.Size, pq.Array(&media.AllowedUserIDs), &media.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if media.AllowedUserIDs == nil {
			media.AllowedUserIDs = []string{}
		}
		items = append(items, media)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list media by owner: %w", err)
	}
	return items, nil
}

// CountByOwner returns the total number of media records owned by ownerID,
// independent of any pagination window.
func (r *PostgresMediaRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var total int64
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM media WHERE owner_id = $1`, ownerID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count media by owner: %w", err)
	}
	return total, nil
}

// Delete removes the media record with the given id.
func (r *PostgresMediaRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	return nil
}

// UpdateAllowedUsers replaces the allow-list of the media record with
// the given id.
func (r *PostgresMediaRepository) UpdateAllowedUsers(ctx context.Context, id string, allowed []string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE media SET allowed_user_ids = $2 WHERE id = $1`,
		id, pq.Array(allowed),
	)
	if err != nil {
		return fmt.Errorf("update media permissions: %w", err)
	}
	return nil
}
