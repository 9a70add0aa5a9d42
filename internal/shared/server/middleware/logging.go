package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"matchrate-backend/internal/shared/telemetry"
)

// Context keys handlers set so the request log can name the resources touched.
const (
	DocumentIDKey = "documentId"
	ParseIDKey    = "parseId"
	ExportIDKey   = "exportId"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		telemetry.Info("request.complete", map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"user_id":     UserIDFromContext(c),
			"is_guest":    IsGuest(c),
			"document_id": c.GetString(DocumentIDKey),
			"parse_id":    c.GetString(ParseIDKey),
			"export_id":   c.GetString(ExportIDKey),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})
	}
}
