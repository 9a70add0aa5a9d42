package parses

import (
	"time"

	"matchrate-backend/resume/parse"
	"matchrate-backend/resume/record"
)

// Parse sources.
const (
	SourceText     = "text"
	SourceDocument = "document"
	SourceRewrite  = "rewrite"
)

// Parse is a stored parser run over a resume text.
type Parse struct {
	ID         string
	UserID     string
	DocumentID string
	Source     string
	Record     record.Record
	Sections   []string
	Warnings   []parse.Warning
	Confidence float64
	CreatedAt  time.Time
}
