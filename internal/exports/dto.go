package exports

import "time"

// ExportResponse is the outward-facing representation of an export.
type ExportResponse struct {
	ExportID    string     `json:"exportId"`
	ParseID     string     `json:"parseId"`
	Format      string     `json:"format"`
	Status      string     `json:"status"`
	FileName    string     `json:"fileName"`
	MimeType    string     `json:"mimeType,omitempty"`
	SizeBytes   int64      `json:"sizeBytes,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	DownloadURL string     `json:"downloadUrl,omitempty"`
}

func toResponse(e Export) ExportResponse {
	resp := ExportResponse{
		ExportID:    e.ID,
		ParseID:     e.ParseID,
		Format:      e.Format,
		Status:      e.Status,
		FileName:    e.FileName,
		MimeType:    e.MimeType,
		SizeBytes:   e.SizeBytes,
		Error:       e.Error,
		CreatedAt:   e.CreatedAt,
		CompletedAt: e.CompletedAt,
	}
	if e.Status == StatusCompleted {
		resp.DownloadURL = "/api/v1/exports/" + e.ID + "/download"
	}
	return resp
}
