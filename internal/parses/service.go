package parses

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"matchrate-backend/internal/documents"
	"matchrate-backend/internal/extract"
	"matchrate-backend/internal/shared/metrics"
	"matchrate-backend/internal/shared/telemetry"
	"matchrate-backend/resume/parse"
	"matchrate-backend/resume/record"
)

// MaxTextBytes caps resume text accepted for a parse.
const MaxTextBytes = 256 << 10

// DocumentSource loads uploaded documents and their cached text.
type DocumentSource interface {
	Get(ctx context.Context, userID, documentID string) (documents.Document, error)
	Open(ctx context.Context, doc documents.Document) (io.ReadCloser, error)
	ExtractedText(ctx context.Context, doc documents.Document) (string, bool)
	SaveExtraction(ctx context.Context, doc documents.Document, text string)
}

// Service runs the parser and stores its results.
type Service struct {
	Repo Repo
	Docs DocumentSource
	Now  func() time.Time
}

// Preview parses text without storing anything.
func (s *Service) Preview(text string) (record.Record, parse.Report, error) {
	if len(text) > MaxTextBytes {
		return record.Record{}, parse.Report{}, fmt.Errorf("%w: text exceeds %d bytes", ErrInvalidInput, MaxTextBytes)
	}
	start := time.Now()
	rec, report := parse.ParseWithReport(text)
	observe(start, report)
	return rec, report, nil
}

// FromText parses text and stores the result for userID.
func (s *Service) FromText(ctx context.Context, userID, text, source string) (Parse, error) {
	if userID == "" {
		return Parse{}, ErrInvalidInput
	}
	if strings.TrimSpace(text) == "" {
		return Parse{}, fmt.Errorf("%w: text is required", ErrInvalidInput)
	}
	if source == "" {
		source = SourceText
	}
	return s.store(ctx, userID, "", text, source)
}

// FromDocument extracts text from an uploaded document, parses it and stores
// the result. Extracted text is cached on the document.
func (s *Service) FromDocument(ctx context.Context, userID, documentID string) (Parse, error) {
	if userID == "" || strings.TrimSpace(documentID) == "" {
		return Parse{}, ErrInvalidInput
	}
	if s.Docs == nil {
		return Parse{}, errors.New("document source not configured")
	}

	doc, err := s.Docs.Get(ctx, userID, documentID)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			return Parse{}, ErrNotFound
		}
		return Parse{}, fmt.Errorf("load document %s: %w", documentID, err)
	}

	text, cached := s.Docs.ExtractedText(ctx, doc)
	if !cached {
		text, err = s.extract(ctx, doc)
		if err != nil {
			telemetry.Error("parse.extract_failed", map[string]any{
				"document_id": doc.ID,
				"mime_type":   doc.MimeType,
				"error":       err.Error(),
			})
			return Parse{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
		}
		s.Docs.SaveExtraction(ctx, doc, text)
	}
	if strings.TrimSpace(text) == "" {
		return Parse{}, fmt.Errorf("%w: no text found", ErrUnreadable)
	}
	return s.store(ctx, userID, doc.ID, text, SourceDocument)
}

// Get returns one of the user's parses.
func (s *Service) Get(ctx context.Context, userID, parseID string) (Parse, error) {
	if userID == "" || strings.TrimSpace(parseID) == "" {
		return Parse{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, userID, parseID)
}

// List returns the user's parses ordered newest-first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Parse, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) extract(ctx context.Context, doc documents.Document) (string, error) {
	rc, err := s.Docs.Open(ctx, doc)
	if err != nil {
		return "", err
	}
	defer rc.Close()
	return extract.ExtractText(ctx, rc, doc.MimeType, doc.FileName)
}

func (s *Service) store(ctx context.Context, userID, documentID, text, source string) (Parse, error) {
	if len(text) > MaxTextBytes {
		return Parse{}, fmt.Errorf("%w: text exceeds %d bytes", ErrInvalidInput, MaxTextBytes)
	}

	start := time.Now()
	rec, report := parse.ParseWithReport(text)
	observe(start, report)

	p := Parse{
		ID:         uuid.NewString(),
		UserID:     userID,
		DocumentID: documentID,
		Source:     source,
		Record:     rec,
		Sections:   report.Sections,
		Warnings:   report.Warnings,
		Confidence: report.Confidence(),
		CreatedAt:  s.now(),
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return Parse{}, fmt.Errorf("create parse: %w", err)
	}

	telemetry.Info("parse.stored", map[string]any{
		"parse_id":    p.ID,
		"user_id":     userID,
		"document_id": documentID,
		"source":      source,
		"warnings":    len(p.Warnings),
		"confidence":  p.Confidence,
		"experiences": len(rec.Experiences),
	})
	return p, nil
}

func observe(start time.Time, report parse.Report) {
	metrics.ObserveParse(metrics.SinceMillis(start), len(report.Warnings), report.Confidence() < 1)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
