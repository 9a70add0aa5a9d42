package parses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"matchrate-backend/internal/documents"
	"matchrate-backend/internal/shared/server/middleware"
	"matchrate-backend/internal/shared/server/respond"
)

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
	rg.POST("/parse", h.preview)
}

// RegisterRoutes attaches routes that store parses for the caller.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/parses", h.create)
	rg.GET("/parses", h.list)
	rg.GET("/parses/:id", h.get)
	rg.POST("/documents/:id/parse", h.fromDocument)
}

type textRequest struct {
	Text string `json:"text"`
}

func (h *Handler) preview(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	rec, report, err := h.Svc.Preview(req.Text)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, toPreview(rec, report))
}

func (h *Handler) create(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	p, err := h.Svc.FromText(c.Request.Context(), middleware.UserIDFromContext(c), req.Text, SourceText)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Set(middleware.ParseIDKey, p.ID)
	respond.Created(c, ToResponse(p))
}

func (h *Handler) fromDocument(c *gin.Context) {
	documentID := c.Param("id")
	c.Set(middleware.DocumentIDKey, documentID)

	p, err := h.Svc.FromDocument(c.Request.Context(), middleware.UserIDFromContext(c), documentID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Set(middleware.ParseIDKey, p.ID)
	respond.Created(c, ToResponse(p))
}

func (h *Handler) get(c *gin.Context) {
	parseID := c.Param("id")
	c.Set(middleware.ParseIDKey, parseID)

	p, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), parseID)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, ToResponse(p))
}

func (h *Handler) list(c *gin.Context) {
	limit, offset := documents.Paging(c)

	items, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), limit, offset)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]ParseResponse, 0, len(items))
	for _, p := range items {
		resp = append(resp, ToResponse(p))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrUnreadable):
		respond.Error(c, http.StatusUnprocessableEntity, "unreadable_document", "could not read text from document", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to parse resume", nil)
	}
}
