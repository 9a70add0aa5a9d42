package object

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ObjectStore saves and retrieves uploaded documents and rendered exports.
type ObjectStore interface {
	// Save stores r under the owner's namespace and returns the generated key.
	Save(ctx context.Context, ownerID string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	// SaveWithKey stores r at a caller-chosen key, replacing any prior object.
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

// SniffLen is how many leading bytes DetectMime looks at.
const SniffLen = 3072

// DetectMime identifies head by content, falling back to the file extension
// for formats that sniff as generic containers or text.
func DetectMime(head []byte, fileName string) string {
	detected := mimetype.Detect(head)
	byExt := mimeByExtension(fileName)
	if byExt != "" && (detected.Is("application/zip") || detected.Is("application/octet-stream") || detected.Is("text/plain")) {
		return byExt
	}
	if mt := detected.String(); mt != "" {
		if i := strings.IndexByte(mt, ';'); i > 0 {
			return mt[:i]
		}
		return mt
	}
	return "application/octet-stream"
}

func mimeByExtension(fileName string) string {
	switch strings.ToLower(path.Ext(fileName)) {
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".pdf":
		return "application/pdf"
	case ".txt", ".md":
		return "text/plain"
	default:
		return ""
	}
}
