package parses

import (
	"time"

	"matchrate-backend/resume/parse"
	"matchrate-backend/resume/record"
)

// ParseResponse is the outward-facing representation of a parse.
type ParseResponse struct {
	ParseID    string          `json:"parseId"`
	DocumentID string          `json:"documentId,omitempty"`
	Source     string          `json:"source"`
	Record     record.Record   `json:"record"`
	Sections   []string        `json:"sections"`
	Warnings   []parse.Warning `json:"warnings"`
	Confidence float64         `json:"confidence"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// PreviewResponse is returned by the stateless parse endpoint.
type PreviewResponse struct {
	Record     record.Record   `json:"record"`
	Sections   []string        `json:"sections"`
	Warnings   []parse.Warning `json:"warnings"`
	Confidence float64         `json:"confidence"`
}

// ToResponse converts a stored parse for JSON output.
func ToResponse(p Parse) ParseResponse {
	return ParseResponse{
		ParseID:    p.ID,
		DocumentID: p.DocumentID,
		Source:     p.Source,
		Record:     p.Record,
		Sections:   nonNilStrings(p.Sections),
		Warnings:   nonNilWarnings(p.Warnings),
		Confidence: p.Confidence,
		CreatedAt:  p.CreatedAt,
	}
}

func toPreview(rec record.Record, report parse.Report) PreviewResponse {
	return PreviewResponse{
		Record:     rec,
		Sections:   nonNilStrings(report.Sections),
		Warnings:   nonNilWarnings(report.Warnings),
		Confidence: report.Confidence(),
	}
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilWarnings(w []parse.Warning) []parse.Warning {
	if w == nil {
		return []parse.Warning{}
	}
	return w
}
