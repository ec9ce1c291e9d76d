package intel

import (
	"context"
	"net/http"

	"risclens_backend/platform/httpkit"
	"risclens_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// Enqueuer schedules an extraction to run out of band.
type Enqueuer interface {
	EnqueueExtract(ctx context.Context, domain string) error
}

// Handler exposes the admin intelligence endpoints.
type Handler struct {
	svc      *Service
	enqueuer Enqueuer // nil when the task queue is not configured
	val      *validator.Validator
}

func NewHandler(svc *Service, enqueuer Enqueuer, val *validator.Validator) *Handler {
	return &Handler{svc: svc, enqueuer: enqueuer, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/extract", h.Extract)
	rg.POST("/extract/async", h.ExtractAsync)
	rg.GET("/companies/:slug", h.GetCompany)
}

// Extract runs the pipeline synchronously and returns the full result.
func (h *Handler) Extract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	result := h.svc.Extract(c.Request.Context(), req.Domain)
	httpkit.OK(c, result)
}

// ExtractAsync enqueues the extraction and returns immediately.
func (h *Handler) ExtractAsync(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}
	if h.enqueuer == nil {
		httpkit.Error(c, http.StatusServiceUnavailable, "task queue not configured", nil)
		return
	}

	if err := h.enqueuer.EnqueueExtract(c.Request.Context(), req.Domain); err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.Accepted(c, ExtractAcceptedResponse{Domain: req.Domain, Status: "queued"})
}

// GetCompany returns the stored extraction result for a domain slug.
func (h *Handler) GetCompany(c *gin.Context) {
	result, err := h.svc.GetCompany(c.Request.Context(), c.Param("slug"))
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	httpkit.OK(c, result)
}
