package rewrites

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"matchrate-backend/internal/llm"
	"matchrate-backend/internal/parses"
	"matchrate-backend/internal/shared/telemetry"
)

// MaxJobDescriptionBytes caps the job description sent to the provider.
const MaxJobDescriptionBytes = 32 << 10

// ParseStore parses and stores resume text.
type ParseStore interface {
	FromText(ctx context.Context, userID, text, source string) (parses.Parse, error)
}

// Service tailors resumes to job descriptions through an LLM and parses the
// result like any other resume text.
type Service struct {
	LLM           llm.Client
	Parses        ParseStore
	PromptVersion string
}

// Rewrite asks the LLM for a tailored resume and stores its parse.
func (s *Service) Rewrite(ctx context.Context, userID, resumeText, jobDescription string) (parses.Parse, error) {
	if userID == "" {
		return parses.Parse{}, ErrInvalidInput
	}
	if strings.TrimSpace(resumeText) == "" {
		return parses.Parse{}, fmt.Errorf("%w: resume text is required", ErrInvalidInput)
	}
	if strings.TrimSpace(jobDescription) == "" {
		return parses.Parse{}, fmt.Errorf("%w: job description is required", ErrInvalidInput)
	}
	if len(resumeText) > parses.MaxTextBytes {
		return parses.Parse{}, fmt.Errorf("%w: resume text exceeds %d bytes", ErrInvalidInput, parses.MaxTextBytes)
	}
	if len(jobDescription) > MaxJobDescriptionBytes {
		return parses.Parse{}, fmt.Errorf("%w: job description exceeds %d bytes", ErrInvalidInput, MaxJobDescriptionBytes)
	}

	start := time.Now()
	text, err := s.LLM.RewriteResume(ctx, llm.RewriteInput{
		ResumeText:     resumeText,
		JobDescription: jobDescription,
		PromptVersion:  s.PromptVersion,
	})
	if err != nil {
		telemetry.Error("rewrite.llm_failed", map[string]any{
			"user_id":     userID,
			"duration_ms": time.Since(start).Milliseconds(),
			"error":       err.Error(),
		})
		return parses.Parse{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if strings.TrimSpace(text) == "" {
		return parses.Parse{}, fmt.Errorf("%w: empty rewrite", ErrUnavailable)
	}

	p, err := s.Parses.FromText(ctx, userID, text, parses.SourceRewrite)
	if err != nil {
		if errors.Is(err, parses.ErrInvalidInput) {
			return parses.Parse{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return parses.Parse{}, err
	}
	telemetry.Info("rewrite.completed", map[string]any{
		"user_id":     userID,
		"parse_id":    p.ID,
		"duration_ms": time.Since(start).Milliseconds(),
		"warnings":    len(p.Warnings),
	})
	return p, nil
}
