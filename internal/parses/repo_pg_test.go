package parses

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"matchrate-backend/resume/parse"
	"matchrate-backend/resume/record"
)

func TestPGRepoCreateEncodesJSON(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	p := Parse{
		ID:         "parse-1",
		UserID:     "u1",
		Source:     SourceText,
		Record:     record.Record{Name: "Jane Doe"}.WithDefaults(),
		Sections:   []string{"SUMMARY"},
		Confidence: 0.8,
		CreatedAt:  now,
	}
	recordJSON, _ := json.Marshal(p.Record)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO parses")).
		WithArgs("parse-1", "u1", nil, SourceText, string(recordJSON), `["SUMMARY"]`, `[]`, 0.8, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := (&PGRepo{DB: db}).Create(context.Background(), p); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetDecodesJSON(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "user_id", "document_id", "source", "record", "sections", "warnings", "confidence", "created_at"}).
		AddRow("parse-1", "u1", "doc-1", SourceDocument,
			[]byte(`{"name":"Jane Doe","contact":"","summary":["x"],"skills":["Go"],"experiences":[],"education":["BSc"],"recognition":null}`),
			[]byte(`["SUMMARY","KEY SKILLS"]`),
			[]byte(`[{"code":"experience_defaulted","field":"experiences","message":"m"}]`),
			0.8, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM parses")).
		WithArgs("parse-1", "u1").
		WillReturnRows(rows)

	got, err := (&PGRepo{DB: db}).GetByID(context.Background(), "u1", "parse-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.DocumentID != "doc-1" || got.Record.Name != "Jane Doe" {
		t.Fatalf("unexpected parse: %+v", got)
	}
	if got.Record.Recognition != nil {
		t.Fatalf("expected absent recognition to stay nil")
	}
	if len(got.Warnings) != 1 || got.Warnings[0].Code != parse.WarnExperienceDefaulted {
		t.Fatalf("unexpected warnings: %+v", got.Warnings)
	}
}

func TestPGRepoGetMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery(regexp.QuoteMeta("FROM parses")).
		WithArgs("nope", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := (&PGRepo{DB: db}).GetByID(context.Background(), "u1", "nope"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
