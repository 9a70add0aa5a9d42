package documents

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"matchrate-backend/internal/shared/metrics"
	"matchrate-backend/internal/shared/storage/object"
	"matchrate-backend/internal/shared/telemetry"
)

// Service contains business logic for documents.
type Service struct {
	Store           object.ObjectStore
	Repo            DocumentsRepo
	StorageProvider string
	Now             func() time.Time
}

// Upload saves the file to object storage and records the document.
// Only PDF, DOCX and plain text files are accepted.
func (s *Service) Upload(ctx context.Context, userID, fileName string, r io.Reader) (Document, error) {
	fileName = strings.TrimSpace(fileName)
	if userID == "" || fileName == "" {
		return Document{}, ErrInvalidInput
	}
	if !allowedExtension(fileName) {
		return Document{}, fmt.Errorf("%w: %s", ErrUnsupportedType, path.Ext(fileName))
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, userID, fileName, r)
	if err != nil {
		return Document{}, fmt.Errorf("save document: %w", err)
	}
	if size == 0 {
		return Document{}, fmt.Errorf("%w: empty file", ErrInvalidInput)
	}
	if !Parseable(mimeType) {
		return Document{}, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}

	doc := Document{
		ID:              uuid.NewString(),
		UserID:          userID,
		FileName:        fileName,
		MimeType:        mimeType,
		SizeBytes:       size,
		StorageProvider: s.StorageProvider,
		StorageKey:      storageKey,
		CreatedAt:       s.now(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, fmt.Errorf("create document: %w", err)
	}

	metrics.IncDocumentsUploaded()
	telemetry.Info("document.uploaded", map[string]any{
		"document_id": doc.ID,
		"user_id":     userID,
		"mime_type":   mimeType,
		"size_bytes":  size,
	})
	return doc, nil
}

// Get returns one of the user's documents.
func (s *Service) Get(ctx context.Context, userID, documentID string) (Document, error) {
	if userID == "" || strings.TrimSpace(documentID) == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, userID, documentID)
}

// List returns the user's documents, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Open streams the stored file for doc.
func (s *Service) Open(ctx context.Context, doc Document) (io.ReadCloser, error) {
	return s.Store.Open(ctx, doc.StorageKey)
}

// SaveExtraction stores extracted text next to the document so later parses
// skip extraction. Failures are logged and ignored.
func (s *Service) SaveExtraction(ctx context.Context, doc Document, text string) {
	if doc.ExtractedTextKey != "" {
		return
	}
	key := "extracted/" + doc.ID + ".txt"
	if _, err := s.Store.SaveWithKey(ctx, key, MimeText, strings.NewReader(text)); err != nil {
		telemetry.Error("document.extraction_save_failed", map[string]any{"document_id": doc.ID, "error": err.Error()})
		return
	}
	if err := s.Repo.UpdateExtraction(ctx, doc.UserID, doc.ID, key, s.now()); err != nil {
		telemetry.Error("document.extraction_update_failed", map[string]any{"document_id": doc.ID, "error": err.Error()})
	}
}

// ExtractedText returns the cached extraction for doc, if any.
func (s *Service) ExtractedText(ctx context.Context, doc Document) (string, bool) {
	if doc.ExtractedTextKey == "" {
		return "", false
	}
	rc, err := s.Store.Open(ctx, doc.ExtractedTextKey)
	if err != nil {
		return "", false
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return "", false
	}
	return string(data), true
}

func allowedExtension(fileName string) bool {
	switch strings.ToLower(path.Ext(fileName)) {
	case ".pdf", ".docx", ".txt", ".md":
		return true
	default:
		return false
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
