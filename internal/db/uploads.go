package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"modportal/internal/models"
)

// RecordUpload stores a completed upload.
func (d *DB) RecordUpload(ctx context.Context, u *models.Upload) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	var uploader any
	if u.UploadedBy != uuid.Nil {
		uploader = u.UploadedBy
	}

	query := `
		INSERT INTO uploads (id, key, url, name, size, backend, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	return d.Pool.QueryRow(ctx, query,
		u.ID, u.Key, u.URL, u.Name, u.Size, u.Backend, uploader,
	).Scan(&u.CreatedAt)
}

// GetUpload retrieves an upload by ID.
func (d *DB) GetUpload(ctx context.Context, id uuid.UUID) (*models.Upload, error) {
	query := `
		SELECT id, key, url, name, size, backend,
			   COALESCE(uploaded_by, '00000000-0000-0000-0000-000000000000'::uuid), created_at
		FROM uploads WHERE id = $1
	`

	var u models.Upload
	err := d.Pool.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Key, &u.URL, &u.Name, &u.Size, &u.Backend, &u.UploadedBy, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUploadNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUploadsByUser returns a user's uploads, newest first.
func (d *DB) ListUploadsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Upload, error) {
	query := `
		SELECT id, key, url, name, size, backend, uploaded_by, created_at
		FROM uploads
		WHERE uploaded_by = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := d.Pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	uploads := []models.Upload{}
	for rows.Next() {
		var u models.Upload
		if err := rows.Scan(&u.ID, &u.Key, &u.URL, &u.Name, &u.Size, &u.Backend, &u.UploadedBy, &u.CreatedAt); err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}

	return uploads, rows.Err()
}
