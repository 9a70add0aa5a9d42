package documents

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	localstore "matchrate-backend/internal/shared/storage/object/local"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return &Service{
		Store: localstore.New(t.TempDir()),
		Repo:  NewMemoryRepo(),
		Now:   func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) },
	}
}

func TestUploadValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		userID   string
		fileName string
		body     string
		want     error
	}{
		{"missing user", "", "cv.txt", "x", ErrInvalidInput},
		{"missing name", "u", " ", "x", ErrInvalidInput},
		{"bad extension", "u", "cv.exe", "x", ErrUnsupportedType},
		{"empty file", "u", "cv.txt", "", ErrInvalidInput},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(ctx, tt.userID, tt.fileName, strings.NewReader(tt.body))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSaveExtractionCachesText(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Upload(ctx, "u", "cv.txt", strings.NewReader("Jane Doe"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if _, ok := svc.ExtractedText(ctx, doc); ok {
		t.Fatalf("expected no cached text before extraction")
	}

	svc.SaveExtraction(ctx, doc, "Jane Doe")
	doc, err = svc.Get(ctx, "u", doc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc.ExtractedAt == nil {
		t.Fatalf("expected extractedAt to be set")
	}
	text, ok := svc.ExtractedText(ctx, doc)
	if !ok || text != "Jane Doe" {
		t.Fatalf("unexpected cached text %q (ok=%v)", text, ok)
	}
}
