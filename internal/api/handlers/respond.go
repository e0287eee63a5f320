package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/tarima-dispatch/internal/application"
	"github.com/wms-platform/tarima-dispatch/pkg/errors"
	"github.com/wms-platform/tarima-dispatch/pkg/middleware"
)

const defaultOperator = "operator"

func respondError(responder *middleware.ErrorResponder, err error) {
	if appErr, ok := errors.AsAppError(err); ok {
		responder.RespondWithAppError(appErr)
		return
	}
	responder.RespondInternalError(err)
}

func respondBindError(responder *middleware.ErrorResponder, err error) {
	if fields, ok := middleware.ValidationFields(err); ok {
		responder.RespondValidationError("invalid request body", fields)
		return
	}
	responder.RespondBadRequest("invalid request body: " + err.Error())
}

func sendFile(c *gin.Context, file *application.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
