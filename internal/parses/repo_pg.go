package parses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres. The record, sections and warnings
// are stored as JSONB.
type PGRepo struct {
	DB *sql.DB
}

const parseColumns = `id, user_id, document_id, source, record, sections, warnings, confidence, created_at`

// Create inserts a parse.
func (r *PGRepo) Create(ctx context.Context, p Parse) error {
	const query = `
INSERT INTO parses (
    id, user_id, document_id, source, record, sections, warnings, confidence, created_at
) VALUES ($1, $2, $3, $4, $5::jsonb, $6::jsonb, $7::jsonb, $8, $9)`

	recordJSON, err := json.Marshal(p.Record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	sectionsJSON, err := json.Marshal(nonNilStrings(p.Sections))
	if err != nil {
		return fmt.Errorf("encode sections: %w", err)
	}
	warningsJSON, err := json.Marshal(nonNilWarnings(p.Warnings))
	if err != nil {
		return fmt.Errorf("encode warnings: %w", err)
	}

	var documentID sql.NullString
	if p.DocumentID != "" {
		documentID = sql.NullString{String: p.DocumentID, Valid: true}
	}

	_, err = r.DB.ExecContext(ctx, query,
		p.ID,
		p.UserID,
		documentID,
		p.Source,
		string(recordJSON),
		string(sectionsJSON),
		string(warningsJSON),
		p.Confidence,
		p.CreatedAt,
	)
	return err
}

// GetByID returns a parse by ID for a user.
func (r *PGRepo) GetByID(ctx context.Context, userID, parseID string) (Parse, error) {
	query := `
SELECT ` + parseColumns + `
FROM parses
WHERE id = $1 AND user_id = $2
LIMIT 1`
	p, err := scanParse(r.DB.QueryRowContext(ctx, query, parseID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Parse{}, ErrNotFound
		}
		return Parse{}, err
	}
	return p, nil
}

// ListByUser lists parses ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Parse, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	query := `
SELECT ` + parseColumns + `
FROM parses
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Parse{}
	for rows.Next() {
		p, err := scanParse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanParse(row rowScanner) (Parse, error) {
	var p Parse
	var documentID sql.NullString
	var recordRaw, sectionsRaw, warningsRaw []byte
	if err := row.Scan(
		&p.ID,
		&p.UserID,
		&documentID,
		&p.Source,
		&recordRaw,
		&sectionsRaw,
		&warningsRaw,
		&p.Confidence,
		&p.CreatedAt,
	); err != nil {
		return Parse{}, err
	}
	if documentID.Valid {
		p.DocumentID = documentID.String
	}
	if err := json.Unmarshal(recordRaw, &p.Record); err != nil {
		return Parse{}, fmt.Errorf("decode record %s: %w", p.ID, err)
	}
	if len(sectionsRaw) > 0 {
		if err := json.Unmarshal(sectionsRaw, &p.Sections); err != nil {
			return Parse{}, fmt.Errorf("decode sections %s: %w", p.ID, err)
		}
	}
	if len(warningsRaw) > 0 {
		if err := json.Unmarshal(warningsRaw, &p.Warnings); err != nil {
			return Parse{}, fmt.Errorf("decode warnings %s: %w", p.ID, err)
		}
	}
	return p, nil
}

var _ Repo = (*PGRepo)(nil)
