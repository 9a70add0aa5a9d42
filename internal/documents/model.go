package documents

import "time"

// Document represents an uploaded resume file owned by a user.
type Document struct {
	ID               string
	UserID           string
	FileName         string
	MimeType         string
	SizeBytes        int64
	StorageProvider  string
	StorageKey       string
	ExtractedTextKey string
	ExtractedAt      *time.Time
	CreatedAt        time.Time
}

// Supported upload types.
const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

// Parseable reports whether text can be extracted from mimeType.
func Parseable(mimeType string) bool {
	switch mimeType {
	case MimePDF, MimeDOCX, MimeText:
		return true
	default:
		return false
	}
}
