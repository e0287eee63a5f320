package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/tarima-dispatch/pkg/logging"
	"github.com/wms-platform/tarima-dispatch/pkg/middleware"
)

// SelectionHandlers contains handlers for the pallet selection
type SelectionHandlers struct {
	session SessionService
	exports ExportService
	logger  *logging.Logger
}

// NewSelectionHandlers creates a new SelectionHandlers
func NewSelectionHandlers(session SessionService, exports ExportService, logger *logging.Logger) *SelectionHandlers {
	return &SelectionHandlers{
		session: session,
		exports: exports,
		logger:  logger,
	}
}

// RegisterRoutes registers selection routes on the router
func (h *SelectionHandlers) RegisterRoutes(router *gin.RouterGroup) {
	selection := router.Group("/selection")
	{
		selection.GET("", h.GetSelection)
		selection.POST("/toggle", h.Toggle)
		selection.DELETE("/:rfidId", h.Remove)
		selection.DELETE("", h.Clear)
		selection.GET("/export", h.Export)
	}
}

// GetSelection returns the selected pallets with stats and weight info
func (h *SelectionHandlers) GetSelection(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Selection())
}

// Toggle adds or removes a pallet. A weight ceiling rejection is a 422.
func (h *SelectionHandlers) Toggle(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var req struct {
		RFIDID int64 `json:"rfidId" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(responder, err)
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"pallet.rfid_id": req.RFIDID,
	})

	result, err := h.session.Toggle(req.RFIDID)
	if err != nil {
		respondError(responder, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Remove drops one pallet from the selection
func (h *SelectionHandlers) Remove(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	id, ok := parseID(c, "rfidId")
	if !ok {
		responder.RespondBadRequest("rfidId must be a positive integer")
		return
	}

	c.JSON(http.StatusOK, h.session.Remove(id))
}

// Clear empties the selection
func (h *SelectionHandlers) Clear(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.ClearSelection())
}

// Export downloads the selection as a workbook
func (h *SelectionHandlers) Export(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	file, err := h.exports.ExportSelection(c.Request.Context())
	if err != nil {
		respondError(responder, err)
		return
	}

	sendFile(c, file)
}
