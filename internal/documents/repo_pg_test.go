package documents

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateAndGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	repo := &PGRepo{DB: db}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	doc := Document{
		ID:         "doc-1",
		UserID:     "guest:g1",
		FileName:   "cv.pdf",
		MimeType:   MimePDF,
		SizeBytes:  42,
		StorageKey: "abc/doc-1_cv.pdf",
		CreatedAt:  now,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO documents")).
		WithArgs("doc-1", "guest:g1", "cv.pdf", MimePDF, int64(42), "local", "abc/doc-1_cv.pdf", now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rows := sqlmock.NewRows([]string{"id", "user_id", "file_name", "mime_type", "size_bytes", "storage_provider", "storage_key", "extracted_text_key", "extracted_at", "created_at"}).
		AddRow("doc-1", "guest:g1", "cv.pdf", MimePDF, int64(42), "local", "abc/doc-1_cv.pdf", nil, nil, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM documents")).
		WithArgs("guest:g1", "doc-1").
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "guest:g1", "doc-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.StorageKey != doc.StorageKey || got.ExtractedAt != nil {
		t.Fatalf("unexpected document: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoGetMissingIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM documents")).
		WithArgs("u", "missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = (&PGRepo{DB: db}).GetByID(context.Background(), "u", "missing")
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
