package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfmatch/backend/internal/domain"
	"github.com/shelfmatch/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	matcher *usecase.MatchingService
}

// NewHandler creates a new HTTP handler
func NewHandler(matcher *usecase.MatchingService) *Handler {
	return &Handler{matcher: matcher}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "shelfmatch-backend",
		"version": "1.0.0",
	})
}

// matchRequest carries one source product and the target catalog to match
// it against.
type matchRequest struct {
	Source   domain.Product   `json:"source" binding:"required"`
	Targets  []domain.Product `json:"targets" binding:"required"`
	Retailer string           `json:"retailer"`
}

// batchMatchRequest carries a whole source catalog.
type batchMatchRequest struct {
	Sources  []domain.Product `json:"sources" binding:"required"`
	Targets  []domain.Product `json:"targets" binding:"required"`
	Retailer string           `json:"retailer"`
}

// MatchProduct adjudicates a single source product against an inline target
// catalog and returns the decision.
func (h *Handler) MatchProduct(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request: " + err.Error(),
		})
		return
	}

	if req.Source.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "source product name is required",
		})
		return
	}

	catalog := h.matcher.IndexTargets(req.Targets)
	decision := h.matcher.MatchOne(c.Request.Context(), 0, req.Source, req.Retailer, catalog)

	c.JSON(http.StatusOK, gin.H{
		"decision": decision,
	})
}

// MatchBatch adjudicates every source product against the target catalog.
// Individual failures degrade to no-match decisions; only cancellation aborts
// the batch.
func (h *Handler) MatchBatch(c *gin.Context) {
	var req batchMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request: " + err.Error(),
		})
		return
	}

	if len(req.Sources) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "at least one source product is required",
		})
		return
	}

	decisions, err := h.matcher.MatchBatch(c.Request.Context(), req.Sources, req.Targets, req.Retailer)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "batch aborted: " + err.Error(),
		})
		return
	}

	matched := 0
	for _, d := range decisions {
		if d.Matched {
			matched++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"decisions": decisions,
		"total":     len(decisions),
		"matched":   matched,
	})
}
