package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/tarima-dispatch/internal/application"
	"github.com/wms-platform/tarima-dispatch/pkg/logging"
	"github.com/wms-platform/tarima-dispatch/pkg/middleware"
)

// SubmissionHandlers contains handlers for the submission workflow
type SubmissionHandlers struct {
	service SubmissionService
	logger  *logging.Logger
}

// NewSubmissionHandlers creates a new SubmissionHandlers
func NewSubmissionHandlers(service SubmissionService, logger *logging.Logger) *SubmissionHandlers {
	return &SubmissionHandlers{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers submission routes on the router
func (h *SubmissionHandlers) RegisterRoutes(router *gin.RouterGroup) {
	submissions := router.Group("/submissions")
	{
		submissions.POST("", h.Submit)
		submissions.GET("/state", h.GetState)
		submissions.POST("/pending/retry", h.RetryRelease)
		submissions.POST("/pending/durable", h.StartDurableRetry)
		submissions.DELETE("/pending", h.DiscardPending)
	}
}

// Submit marks the pending part of the selection as assigned and creates a release
func (h *SubmissionHandlers) Submit(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var req struct {
		Description string `json:"description" binding:"max=500"`
		Notes       string `json:"notes" binding:"max=2000"`
		CreatedBy   string `json:"createdBy"`
	}
	// the body is optional; chunked requests report no length
	if c.Request.Body != nil && c.Request.Body != http.NoBody {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			respondBindError(responder, err)
			return
		}
	}

	createdBy := req.CreatedBy
	if createdBy == "" {
		createdBy = middleware.GetOperator(c, defaultOperator)
	}

	result, err := h.service.Run(c.Request.Context(), application.SubmitCommand{
		Description: req.Description,
		Notes:       req.Notes,
		CreatedBy:   createdBy,
	})
	if err != nil {
		respondError(responder, err)
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"submission.processed": len(result.ProcessedIDs),
		"submission.noop":      result.NoOp,
		"release.name":         result.ReleaseName,
	})
	c.JSON(http.StatusOK, result)
}

// GetState returns the workflow state and any pending release
func (h *SubmissionHandlers) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Snapshot())
}

// RetryRelease reruns release creation for already assigned pallets
func (h *SubmissionHandlers) RetryRelease(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	result, err := h.service.RetryRelease(c.Request.Context())
	if err != nil {
		respondError(responder, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// StartDurableRetry hands the pending release to the workflow engine
func (h *SubmissionHandlers) StartDurableRetry(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	runID, err := h.service.StartDurableRetry(c.Request.Context(), middleware.GetOperator(c, defaultOperator))
	if err != nil {
		respondError(responder, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"runId": runID})
}

// DiscardPending drops the pending release without creating it
func (h *SubmissionHandlers) DiscardPending(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	pending, err := h.service.DiscardPendingRelease(c.Request.Context(), middleware.GetOperator(c, defaultOperator))
	if err != nil {
		respondError(responder, err)
		return
	}

	c.JSON(http.StatusOK, pending)
}
