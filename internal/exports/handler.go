package exports

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"matchrate-backend/internal/shared/server/middleware"
	"matchrate-backend/internal/shared/server/respond"
	"matchrate-backend/internal/shared/telemetry"
	"matchrate-backend/resume/record"
)

// maxRecordBytes caps the JSON body accepted by the render endpoint.
const maxRecordBytes = 1 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterPublicRoutes attaches routes that need no identity.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/render", h.render)
}

// RegisterRoutes attaches export routes for the caller's parses.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/parses/:id/exports", h.create)
	rg.GET("/exports/:id", h.get)
	rg.GET("/exports/:id/download", h.download)
}

type createRequest struct {
	Format string `json:"format"`
}

func (h *Handler) render(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRecordBytes)

	var rec record.Record
	if err := c.ShouldBindJSON(&rec); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid record", nil)
		return
	}

	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", FormatDOCX)))
	data, mimeType, err := RenderRecord(rec, format)
	if err != nil {
		h.fail(c, err)
		return
	}

	respond.Attachment(c, FileName(rec, format), mimeType)
	c.Data(http.StatusOK, mimeType, data)
}

func (h *Handler) create(c *gin.Context) {
	parseID := c.Param("id")
	c.Set(middleware.ParseIDKey, parseID)

	var req createRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}
	if req.Format == "" {
		req.Format = c.Query("format")
	}

	ctx := WithRequestID(c.Request.Context(), c.GetString("requestId"))
	exp, err := h.Svc.Create(ctx, middleware.UserIDFromContext(c), parseID, strings.ToLower(strings.TrimSpace(req.Format)))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Set(middleware.ExportIDKey, exp.ID)

	status := http.StatusAccepted
	if exp.Status == StatusCompleted {
		status = http.StatusCreated
	}
	respond.JSON(c, status, toResponse(exp))
}

func (h *Handler) get(c *gin.Context) {
	exportID := c.Param("id")
	c.Set(middleware.ExportIDKey, exportID)

	exp, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), exportID)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(exp))
}

func (h *Handler) download(c *gin.Context) {
	exportID := c.Param("id")
	c.Set(middleware.ExportIDKey, exportID)

	exp, reader, err := h.Svc.Open(c.Request.Context(), middleware.UserIDFromContext(c), exportID)
	if err != nil {
		h.fail(c, err)
		return
	}
	defer reader.Close()

	respond.Attachment(c, exp.FileName, exp.MimeType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		telemetry.Error("export.download_failed", map[string]any{
			"export_id": exp.ID,
			"error":     err.Error(),
		})
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotReady):
		respond.Error(c, http.StatusConflict, "not_ready", "export is not ready", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to export resume", nil)
	}
}
