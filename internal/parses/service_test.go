package parses

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"matchrate-backend/internal/documents"
	localstore "matchrate-backend/internal/shared/storage/object/local"
	"matchrate-backend/resume/parse"
	"matchrate-backend/resume/record"
)

const sampleResume = `Jane Doe
jane@example.com | (555) 123-4567
SUMMARY
Backend engineer.
KEY SKILLS
Go, SQL
PROFESSIONAL EXPERIENCE
Senior Engineer | Acme Corp | 01/2020 - Present
• Built the billing pipeline.
EDUCATION
BSc Computer Science`

func newTestService(t *testing.T) (*Service, *documents.Service) {
	t.Helper()
	clock := func() time.Time { return time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC) }
	docs := &documents.Service{
		Store: localstore.New(t.TempDir()),
		Repo:  documents.NewMemoryRepo(),
		Now:   clock,
	}
	return &Service{Repo: NewMemoryRepo(), Docs: docs, Now: clock}, docs
}

func TestPreviewIsTotal(t *testing.T) {
	svc, _ := newTestService(t)

	rec, report, err := svc.Preview("")
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if rec.Name != record.PlaceholderName {
		t.Fatalf("expected placeholder name, got %q", rec.Name)
	}
	if !report.Has(parse.WarnNameDefaulted) {
		t.Fatalf("expected name_defaulted warning")
	}

	if _, _, err := svc.Preview(strings.Repeat("x", MaxTextBytes+1)); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for oversized text, got %v", err)
	}
}

func TestFromTextStoresParse(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.FromText(ctx, "guest:g1", sampleResume, "")
	if err != nil {
		t.Fatalf("FromText: %v", err)
	}
	if p.Source != SourceText {
		t.Fatalf("expected source text, got %q", p.Source)
	}
	if p.Record.Name != "Jane Doe" || len(p.Record.Experiences) != 1 {
		t.Fatalf("unexpected record: %+v", p.Record)
	}
	if p.Confidence != 1 {
		t.Fatalf("expected full confidence, got %v", p.Confidence)
	}

	got, err := svc.Get(ctx, "guest:g1", p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != p.ID {
		t.Fatalf("expected %s, got %s", p.ID, got.ID)
	}
	if _, err := svc.Get(ctx, "guest:other", p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other user, got %v", err)
	}

	list, err := svc.List(ctx, "guest:g1", 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 parse, got %d", len(list))
	}
}

func TestFromTextValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		userID string
		text   string
	}{
		{"missing user", "", sampleResume},
		{"blank text", "u", "  \n\t"},
		{"oversized", "u", strings.Repeat("a", MaxTextBytes+1)},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.FromText(ctx, tt.userID, tt.text, SourceText); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestFromDocumentExtractsAndCaches(t *testing.T) {
	svc, docs := newTestService(t)
	ctx := context.Background()

	doc, err := docs.Upload(ctx, "u1", "resume.txt", strings.NewReader(sampleResume))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	p, err := svc.FromDocument(ctx, "u1", doc.ID)
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	if p.DocumentID != doc.ID || p.Source != SourceDocument {
		t.Fatalf("unexpected parse: %+v", p)
	}
	if p.Record.Experiences[0].Company != "Acme Corp" {
		t.Fatalf("unexpected company %q", p.Record.Experiences[0].Company)
	}

	doc, err = docs.Get(ctx, "u1", doc.ID)
	if err != nil {
		t.Fatalf("Get document: %v", err)
	}
	if doc.ExtractedTextKey == "" {
		t.Fatalf("expected extracted text to be cached")
	}

	if _, err := svc.FromDocument(ctx, "u2", doc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other user, got %v", err)
	}
}
