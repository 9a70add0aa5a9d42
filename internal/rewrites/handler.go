package rewrites

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"matchrate-backend/internal/llm"
	"matchrate-backend/internal/parses"
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

// RegisterRoutes attaches rewrite routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/rewrites", h.create)
}

type rewriteRequest struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
}

func (h *Handler) create(c *gin.Context) {
	var req rewriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	p, err := h.Svc.Rewrite(c.Request.Context(), middleware.UserIDFromContext(c), req.ResumeText, req.JobDescription)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, llm.ErrNotConfigured):
			respond.Error(c, http.StatusServiceUnavailable, "llm_not_configured", "rewrites are not enabled", nil)
		case errors.Is(err, ErrUnavailable):
			respond.Error(c, http.StatusBadGateway, "llm_failed", "could not rewrite resume", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to rewrite resume", nil)
		}
		return
	}
	c.Set(middleware.ParseIDKey, p.ID)
	respond.Created(c, parses.ToResponse(p))
}
