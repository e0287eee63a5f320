package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/tarima-dispatch/internal/application"
	"github.com/wms-platform/tarima-dispatch/internal/domain"
	"github.com/wms-platform/tarima-dispatch/pkg/logging"
	"github.com/wms-platform/tarima-dispatch/pkg/middleware"
)

// ReleaseHandlers contains handlers for browsing and editing releases
type ReleaseHandlers struct {
	service ReleaseService
	exports ExportService
	logger  *logging.Logger
}

// NewReleaseHandlers creates a new ReleaseHandlers
func NewReleaseHandlers(service ReleaseService, exports ExportService, logger *logging.Logger) *ReleaseHandlers {
	return &ReleaseHandlers{
		service: service,
		exports: exports,
		logger:  logger,
	}
}

// RegisterRoutes registers release routes on the router
func (h *ReleaseHandlers) RegisterRoutes(router *gin.RouterGroup) {
	releases := router.Group("/releases")
	{
		releases.GET("", h.ListReleases)
		releases.GET("/:releaseId", h.GetRelease)
		releases.PUT("/:releaseId", h.UpdateRelease)
		releases.GET("/:releaseId/export", h.ExportRelease)
	}
}

// ListReleases returns all releases
func (h *ReleaseHandlers) ListReleases(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	releases, err := h.service.ListReleases(c.Request.Context())
	if err != nil {
		respondError(responder, err)
		return
	}

	c.JSON(http.StatusOK, releases)
}

// GetRelease returns one release with totals
func (h *ReleaseHandlers) GetRelease(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	id, ok := parseID(c, "releaseId")
	if !ok {
		responder.RespondBadRequest("releaseId must be a positive integer")
		return
	}
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"release.id": id,
	})

	release, err := h.service.GetRelease(c.Request.Context(), application.GetReleaseQuery{ReleaseID: id})
	if err != nil {
		respondError(responder, err)
		return
	}

	c.JSON(http.StatusOK, release)
}

// UpdateRelease edits description, notes and line items of a release
func (h *ReleaseHandlers) UpdateRelease(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	id, ok := parseID(c, "releaseId")
	if !ok {
		responder.RespondBadRequest("releaseId must be a positive integer")
		return
	}
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"release.id": id,
	})

	var req struct {
		Description   string                    `json:"description"`
		Notes         string                    `json:"notes"`
		ShipmentItems []domain.ShipmentLineItem `json:"shipmentItems" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(responder, err)
		return
	}

	release, err := h.service.UpdateRelease(c.Request.Context(), application.UpdateReleaseCommand{
		ReleaseID: id,
		Update: domain.ReleaseUpdate{
			Description:   req.Description,
			Notes:         req.Notes,
			ShipmentItems: req.ShipmentItems,
		},
		Operator: middleware.GetOperator(c, defaultOperator),
	})
	if err != nil {
		respondError(responder, err)
		return
	}

	c.JSON(http.StatusOK, release)
}

// ExportRelease downloads a release as a workbook
func (h *ReleaseHandlers) ExportRelease(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	id, ok := parseID(c, "releaseId")
	if !ok {
		responder.RespondBadRequest("releaseId must be a positive integer")
		return
	}

	file, err := h.exports.ExportRelease(c.Request.Context(), application.GetReleaseQuery{ReleaseID: id})
	if err != nil {
		respondError(responder, err)
		return
	}

	sendFile(c, file)
}
