package openapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/gin-gonic/gin"

	"github.com/wms-platform/tarima-dispatch/pkg/errors"
	"github.com/wms-platform/tarima-dispatch/pkg/middleware"
)

// Validator validates HTTP requests and responses against an OpenAPI document.
type Validator struct {
	doc    *openapi3.T
	router routers.Router
}

// NewValidatorFromBytes creates a validator from an OpenAPI document.
func NewValidatorFromBytes(specBytes []byte) (*Validator, error) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(specBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI spec: %w", err)
	}

	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI spec: %w", err)
	}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}

	return &Validator{doc: doc, router: router}, nil
}

// ValidateRequest validates an HTTP request. The request body is restored afterwards.
func (v *Validator) ValidateRequest(req *http.Request) error {
	route, pathParams, err := v.router.FindRoute(req)
	if err != nil {
		return fmt.Errorf("failed to find route for %s %s: %w", req.Method, req.URL.Path, err)
	}

	input := &openapi3filter.RequestValidationInput{
		Request:    req,
		PathParams: pathParams,
		Route:      route,
		Options: &openapi3filter.Options{
			MultiError: true,
		},
	}

	if err := openapi3filter.ValidateRequest(req.Context(), input); err != nil {
		return fmt.Errorf("request validation failed: %w", err)
	}
	return nil
}

// ValidateResponse validates a recorded response for req.
func (v *Validator) ValidateResponse(req *http.Request, status int, header http.Header, body []byte) error {
	route, pathParams, err := v.router.FindRoute(req)
	if err != nil {
		return fmt.Errorf("failed to find route for %s %s: %w", req.Method, req.URL.Path, err)
	}

	input := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request:    req,
			PathParams: pathParams,
			Route:      route,
		},
		Status: status,
		Header: header,
		Body:   io.NopCloser(bytes.NewReader(body)),
		Options: &openapi3filter.Options{
			MultiError:            true,
			IncludeResponseStatus: true,
		},
	}

	if err := openapi3filter.ValidateResponse(context.Background(), input); err != nil {
		return fmt.Errorf("response validation failed: %w", err)
	}
	return nil
}

// OperationID returns the operation ID for a given request.
func (v *Validator) OperationID(req *http.Request) (string, error) {
	route, _, err := v.router.FindRoute(req)
	if err != nil {
		return "", fmt.Errorf("failed to find route: %w", err)
	}
	return route.Operation.OperationID, nil
}

// RequestValidation rejects JSON requests that do not match the document.
// Routes missing from the document and non-JSON bodies are passed through.
func RequestValidation(v *Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		contentType := c.ContentType()
		if c.Request.ContentLength > 0 && !strings.HasPrefix(contentType, "application/json") {
			c.Next()
			return
		}

		if _, _, err := v.router.FindRoute(c.Request); err != nil {
			c.Next()
			return
		}

		if err := v.ValidateRequest(c.Request); err != nil {
			appErr := errors.ErrValidation("request does not match the API contract").
				WithDetail("contract", err.Error()).
				Wrap(err)
			middleware.AbortWithAppError(c, appErr)
			return
		}

		c.Next()
	}
}
