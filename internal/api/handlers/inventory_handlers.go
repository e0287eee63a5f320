package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/tarima-dispatch/internal/domain"
	"github.com/wms-platform/tarima-dispatch/pkg/logging"
	"github.com/wms-platform/tarima-dispatch/pkg/middleware"
)

// InventoryHandlers contains handlers for the inventory listing
type InventoryHandlers struct {
	session SessionService
	fetcher InventoryRefresher
	logger  *logging.Logger
}

// NewInventoryHandlers creates a new InventoryHandlers
func NewInventoryHandlers(session SessionService, fetcher InventoryRefresher, logger *logging.Logger) *InventoryHandlers {
	return &InventoryHandlers{
		session: session,
		fetcher: fetcher,
		logger:  logger,
	}
}

// RegisterRoutes registers inventory routes on the router
func (h *InventoryHandlers) RegisterRoutes(router *gin.RouterGroup) {
	pallets := router.Group("/pallets")
	{
		pallets.GET("", h.ListPallets)
		pallets.POST("/refresh", h.Refresh)
		pallets.PUT("/tab", h.SetTab)
	}
}

// ListPallets returns the filtered inventory. A tab query parameter previews
// that tab without switching to it.
func (h *InventoryHandlers) ListPallets(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	raw, ok := c.GetQuery("tab")
	if !ok {
		c.JSON(http.StatusOK, h.session.InventoryView())
		return
	}

	tab, err := domain.ParseInventoryTab(raw)
	if err != nil {
		responder.RespondValidationError("invalid tab", map[string]string{"tab": raw})
		return
	}
	c.JSON(http.StatusOK, h.session.InventoryViewFor(tab))
}

// Refresh refetches the inventory from the remote service
func (h *InventoryHandlers) Refresh(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	view, err := h.fetcher.Refresh(c.Request.Context())
	if err != nil {
		respondError(responder, err)
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"inventory.total": view.Total,
	})
	c.JSON(http.StatusOK, view)
}

// SetTab switches the inventory tab, clearing the selection on change
func (h *InventoryHandlers) SetTab(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var req struct {
		Tab string `json:"tab" binding:"required,inventory_tab"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(responder, err)
		return
	}

	tab, err := domain.ParseInventoryTab(req.Tab)
	if err != nil {
		responder.RespondValidationError("invalid tab", map[string]string{"tab": req.Tab})
		return
	}
	c.JSON(http.StatusOK, h.session.SetTab(tab))
}
