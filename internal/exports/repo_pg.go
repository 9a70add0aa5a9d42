package exports

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const exportColumns = `id, user_id, parse_id, format, status, file_name, storage_key, mime_type, size_bytes, error, created_at, completed_at`

// Create inserts an export.
func (r *PGRepo) Create(ctx context.Context, e Export) error {
	const query = `
INSERT INTO exports (
    id, user_id, parse_id, format, status, file_name, storage_key, mime_type, size_bytes, error, created_at, completed_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.DB.ExecContext(ctx, query,
		e.ID,
		e.UserID,
		e.ParseID,
		e.Format,
		e.Status,
		e.FileName,
		nullString(e.StorageKey),
		nullString(e.MimeType),
		e.SizeBytes,
		nullString(e.Error),
		e.CreatedAt,
		nullTime(e.CompletedAt),
	)
	return err
}

// Get returns an export by ID.
func (r *PGRepo) Get(ctx context.Context, exportID string) (Export, error) {
	query := `
SELECT ` + exportColumns + `
FROM exports
WHERE id = $1
LIMIT 1`
	return r.one(r.DB.QueryRowContext(ctx, query, exportID))
}

// GetByID returns an export by ID for a user.
func (r *PGRepo) GetByID(ctx context.Context, userID, exportID string) (Export, error) {
	query := `
SELECT ` + exportColumns + `
FROM exports
WHERE id = $1 AND user_id = $2
LIMIT 1`
	return r.one(r.DB.QueryRowContext(ctx, query, exportID, userID))
}

// Update writes the mutable export fields.
func (r *PGRepo) Update(ctx context.Context, e Export) error {
	const query = `
UPDATE exports
SET status = $2, storage_key = $3, mime_type = $4, size_bytes = $5, error = $6, completed_at = $7
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		e.ID,
		e.Status,
		nullString(e.StorageKey),
		nullString(e.MimeType),
		e.SizeBytes,
		nullString(e.Error),
		nullTime(e.CompletedAt),
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) one(row *sql.Row) (Export, error) {
	var e Export
	var storageKey, mimeType, errText sql.NullString
	var completedAt sql.NullTime
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.ParseID,
		&e.Format,
		&e.Status,
		&e.FileName,
		&storageKey,
		&mimeType,
		&e.SizeBytes,
		&errText,
		&e.CreatedAt,
		&completedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Export{}, ErrNotFound
		}
		return Export{}, err
	}
	e.StorageKey = storageKey.String
	e.MimeType = mimeType.String
	e.Error = errText.String
	if completedAt.Valid {
		t := completedAt.Time
		e.CompletedAt = &t
	}
	return e, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
