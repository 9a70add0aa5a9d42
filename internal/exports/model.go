package exports

import "time"

const (
	StatusQueued    = "queued"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

const (
	FormatDOCX = "docx"
	FormatText = "text"
)

const mimeText = "text/plain; charset=utf-8"

// Export is a rendered document built from a stored parse.
type Export struct {
	ID          string
	UserID      string
	ParseID     string
	Format      string
	Status      string
	FileName    string
	StorageKey  string
	MimeType    string
	SizeBytes   int64
	Error       string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// ValidFormat reports whether f names a supported export format.
func ValidFormat(f string) bool {
	return f == FormatDOCX || f == FormatText
}
