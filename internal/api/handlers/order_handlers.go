package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/tarima-dispatch/internal/application"
	"github.com/wms-platform/tarima-dispatch/pkg/logging"
	"github.com/wms-platform/tarima-dispatch/pkg/middleware"
)

const maxWorkbookBytes = 10 << 20

// OrderHandlers contains handlers for the PO/item order filter
type OrderHandlers struct {
	service OrderService
	logger  *logging.Logger
}

// NewOrderHandlers creates a new OrderHandlers
func NewOrderHandlers(service OrderService, logger *logging.Logger) *OrderHandlers {
	return &OrderHandlers{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers order filter routes on the router
func (h *OrderHandlers) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/orders")
	{
		orders.POST("/import", h.ImportText)
		orders.POST("/import/xlsx", h.ImportWorkbook)
		orders.DELETE("/filter", h.ClearFilter)
	}
}

// ImportText applies pasted spreadsheet text as the order filter
func (h *OrderHandlers) ImportText(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var req struct {
		Text string `json:"text" binding:"required,not_blank"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(responder, err)
		return
	}

	result, err := h.service.ImportText(c.Request.Context(), application.ImportOrdersCommand{
		Text:     req.Text,
		Operator: middleware.GetOperator(c, defaultOperator),
	})
	if err != nil {
		respondError(responder, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ImportWorkbook applies the first sheet of an uploaded .xlsx as the order filter
func (h *OrderHandlers) ImportWorkbook(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		responder.RespondBadRequest("a workbook must be uploaded in the file field")
		return
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
		responder.RespondBadRequest("only .xlsx workbooks are accepted")
		return
	}
	if fileHeader.Size > maxWorkbookBytes {
		responder.RespondBadRequest("the workbook is too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		responder.RespondInternalError(err)
		return
	}
	defer file.Close()

	result, err := h.service.ImportWorkbook(c.Request.Context(), file, middleware.GetOperator(c, defaultOperator))
	if err != nil {
		respondError(responder, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ClearFilter removes the order filter
func (h *OrderHandlers) ClearFilter(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.ClearFilter(c.Request.Context(), middleware.GetOperator(c, defaultOperator)))
}
