package exports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"matchrate-backend/internal/parses"
	"matchrate-backend/internal/queue"
	"matchrate-backend/internal/shared/metrics"
	"matchrate-backend/internal/shared/storage/object"
	"matchrate-backend/internal/shared/telemetry"
	"matchrate-backend/internal/shared/util"
	"matchrate-backend/resume/record"
	"matchrate-backend/resume/render"
)

// ParseReader loads stored parses.
type ParseReader interface {
	Get(ctx context.Context, userID, parseID string) (parses.Parse, error)
}

// Service renders stored parses into downloadable documents.
type Service struct {
	Repo   Repo
	Parses ParseReader
	Store  object.ObjectStore
	// Queue hands exports to a worker; when nil exports render inline.
	Queue queue.Client
	Now   func() time.Time
}

// Create registers an export of the user's parse. Without a queue the export
// is rendered before Create returns.
func (s *Service) Create(ctx context.Context, userID, parseID, format string) (Export, error) {
	if userID == "" || strings.TrimSpace(parseID) == "" {
		return Export{}, ErrInvalidInput
	}
	if format == "" {
		format = FormatDOCX
	}
	if !ValidFormat(format) {
		return Export{}, fmt.Errorf("%w: unsupported format %q", ErrInvalidInput, format)
	}

	p, err := s.Parses.Get(ctx, userID, parseID)
	if err != nil {
		if errors.Is(err, parses.ErrNotFound) {
			return Export{}, ErrNotFound
		}
		return Export{}, fmt.Errorf("load parse %s: %w", parseID, err)
	}

	exp := Export{
		ID:        uuid.NewString(),
		UserID:    userID,
		ParseID:   p.ID,
		Format:    format,
		Status:    StatusQueued,
		FileName:  FileName(p.Record, format),
		CreatedAt: s.now(),
	}
	if err := s.Repo.Create(ctx, exp); err != nil {
		return Export{}, fmt.Errorf("create export: %w", err)
	}

	if s.Queue == nil {
		if err := s.Process(ctx, exp.ID); err != nil {
			return Export{}, err
		}
		return s.Repo.Get(ctx, exp.ID)
	}

	msg := queue.NewMessage(exp.ID, requestIDFromContext(ctx), s.now())
	if err := s.Queue.Send(ctx, msg); err != nil {
		s.fail(ctx, exp, fmt.Errorf("enqueue: %w", err), s.now())
		return Export{}, fmt.Errorf("enqueue export %s: %w", exp.ID, err)
	}
	metrics.IncExportQueued()
	telemetry.Info("export.queued", map[string]any{
		"request_id": msg.RequestID,
		"export_id":  exp.ID,
		"parse_id":   exp.ParseID,
		"user_id":    userID,
		"format":     format,
	})
	return exp, nil
}

// Process renders and stores a queued export. Completed exports are left as
// they are, so redelivered messages are harmless.
func (s *Service) Process(ctx context.Context, exportID string) error {
	if strings.TrimSpace(exportID) == "" {
		return ErrInvalidInput
	}
	exp, err := s.Repo.Get(ctx, exportID)
	if err != nil {
		return err
	}
	if exp.Status == StatusCompleted {
		return nil
	}

	start := s.now()
	p, err := s.Parses.Get(ctx, exp.UserID, exp.ParseID)
	if err != nil {
		if errors.Is(err, parses.ErrNotFound) {
			s.fail(ctx, exp, err, start)
			return fmt.Errorf("parse %s: %w", exp.ParseID, ErrNotFound)
		}
		return fmt.Errorf("load parse %s: %w", exp.ParseID, err)
	}

	data, mimeType, err := RenderRecord(p.Record, exp.Format)
	if err != nil {
		s.fail(ctx, exp, err, start)
		return err
	}

	key := StorageKey(exp)
	size, err := s.Store.SaveWithKey(ctx, key, mimeType, bytes.NewReader(data))
	if err != nil {
		s.fail(ctx, exp, err, start)
		return fmt.Errorf("store export %s: %w", exp.ID, err)
	}

	completedAt := s.now()
	exp.Status = StatusCompleted
	exp.StorageKey = key
	exp.MimeType = mimeType
	exp.SizeBytes = size
	exp.Error = ""
	exp.CompletedAt = &completedAt
	if err := s.Repo.Update(ctx, exp); err != nil {
		return fmt.Errorf("update export %s: %w", exp.ID, err)
	}

	durationMs := float64(completedAt.Sub(start).Milliseconds())
	metrics.IncExportCompleted()
	metrics.ObserveExportDurationMs(durationMs)
	telemetry.Info("export.completed", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"export_id":         exp.ID,
		"parse_id":          exp.ParseID,
		"user_id":           exp.UserID,
		"status_transition": "queued->completed",
		"size_bytes":        size,
		"duration_ms":       durationMs,
	})
	return nil
}

// Get returns one of the user's exports.
func (s *Service) Get(ctx context.Context, userID, exportID string) (Export, error) {
	if userID == "" || strings.TrimSpace(exportID) == "" {
		return Export{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, userID, exportID)
}

// Open streams a completed export.
func (s *Service) Open(ctx context.Context, userID, exportID string) (Export, io.ReadCloser, error) {
	exp, err := s.Get(ctx, userID, exportID)
	if err != nil {
		return Export{}, nil, err
	}
	if exp.Status != StatusCompleted {
		return exp, nil, ErrNotReady
	}
	rc, err := s.Store.Open(ctx, exp.StorageKey)
	if err != nil {
		return Export{}, nil, fmt.Errorf("open export %s: %w", exp.ID, err)
	}
	return exp, rc, nil
}

// RenderRecord renders rec in format and returns the bytes with their
// content type.
func RenderRecord(rec record.Record, format string) ([]byte, string, error) {
	switch format {
	case "", FormatDOCX:
		data, err := render.RenderDOCX(rec)
		if err != nil {
			return nil, "", err
		}
		return data, render.MimeTypeDOCX, nil
	case FormatText:
		return []byte(render.PlainText(rec)), mimeText, nil
	default:
		return nil, "", fmt.Errorf("%w: unsupported format %q", ErrInvalidInput, format)
	}
}

// FileName suggests a download name for rec in format.
func FileName(rec record.Record, format string) string {
	ext := ".docx"
	if format == FormatText {
		ext = ".txt"
	}
	base := "resume"
	if name := strings.TrimSpace(rec.Name); name != "" && name != record.PlaceholderName {
		base = strings.ReplaceAll(name, " ", "_") + "_resume"
	}
	clean, err := util.SanitizeFileName(base + ext)
	if err != nil {
		return "resume" + ext
	}
	return clean
}

// StorageKey is where an export's bytes live in the object store.
func StorageKey(exp Export) string {
	ext := ".docx"
	if exp.Format == FormatText {
		ext = ".txt"
	}
	return "exports/" + util.HashUserKey(exp.UserID) + "/" + exp.ID + ext
}

func (s *Service) fail(ctx context.Context, exp Export, cause error, start time.Time) {
	completedAt := s.now()
	exp.Status = StatusFailed
	exp.Error = cause.Error()
	exp.CompletedAt = &completedAt
	if err := s.Repo.Update(ctx, exp); err != nil {
		telemetry.Error("export.update_failed", map[string]any{
			"export_id": exp.ID,
			"error":     err.Error(),
		})
	}
	metrics.IncExportFailed()
	telemetry.Error("export.failed", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"export_id":         exp.ID,
		"parse_id":          exp.ParseID,
		"user_id":           exp.UserID,
		"status_transition": "queued->failed",
		"duration_ms":       float64(completedAt.Sub(start).Milliseconds()),
		"error":             cause.Error(),
	})
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
