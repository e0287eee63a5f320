package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Standard error codes
const (
	CodeValidationError    = "VALIDATION_ERROR"
	CodeNotFound           = "RESOURCE_NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeBadRequest         = "BAD_REQUEST"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeTimeout            = "TIMEOUT"

	CodeWeightLimitExceeded  = "WEIGHT_LIMIT_EXCEEDED"
	CodeRemoteRejected       = "REMOTE_REJECTED"
	CodeReleasePending       = "RELEASE_PENDING"
	CodeSubmissionInProgress = "SUBMISSION_IN_PROGRESS"
)

// Severity levels surfaced to the operator alongside the error code
const (
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// AppError represents an application error with HTTP status and error code
type AppError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Severity   string            `json:"severity,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
	HTTPStatus int               `json:"-"`
	Err        error             `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails replaces the error details
func (e *AppError) WithDetails(details map[string]string) *AppError {
	e.Details = details
	return e
}

// WithDetail adds a single detail to the error
func (e *AppError) WithDetail(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSeverity overrides the severity reported to clients
func (e *AppError) WithSeverity(severity string) *AppError {
	e.Severity = severity
	return e
}

// Wrap wraps an existing error
func (e *AppError) Wrap(err error) *AppError {
	e.Err = err
	return e
}

// NewAppError creates a new AppError
func NewAppError(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Severity:   SeverityError,
		HTTPStatus: httpStatus,
	}
}

// ErrValidation creates a validation error
func ErrValidation(message string) *AppError {
	return NewAppError(CodeValidationError, message, http.StatusBadRequest)
}

// ErrValidationWithFields creates a validation error with field details
func ErrValidationWithFields(message string, fields map[string]string) *AppError {
	return ErrValidation(message).WithDetails(fields)
}

// ErrNotFound creates a not found error
func ErrNotFound(resource string) *AppError {
	return NewAppError(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// ErrNotFoundWithID creates a not found error with ID
func ErrNotFoundWithID(resource, id string) *AppError {
	return ErrNotFound(resource).WithDetail("id", id)
}

// ErrConflict creates a conflict error
func ErrConflict(message string) *AppError {
	return NewAppError(CodeConflict, message, http.StatusConflict)
}

// ErrInternal creates an internal error
func ErrInternal(message string) *AppError {
	if message == "" {
		message = "an internal error occurred"
	}
	return NewAppError(CodeInternalError, message, http.StatusInternalServerError)
}

// ErrBadRequest creates a bad request error
func ErrBadRequest(message string) *AppError {
	return NewAppError(CodeBadRequest, message, http.StatusBadRequest)
}

// ErrServiceUnavailable creates a service unavailable error
func ErrServiceUnavailable(service string) *AppError {
	return NewAppError(CodeServiceUnavailable, fmt.Sprintf("%s is temporarily unavailable", service), http.StatusServiceUnavailable)
}

// ErrTimeout creates a timeout error
func ErrTimeout(operation string) *AppError {
	return NewAppError(CodeTimeout, fmt.Sprintf("%s timed out", operation), http.StatusGatewayTimeout)
}

// ErrWeightLimitExceeded reports a selection insertion refused by the weight ceiling
func ErrWeightLimitExceeded(message string) *AppError {
	return NewAppError(CodeWeightLimitExceeded, message, http.StatusUnprocessableEntity).WithSeverity(SeverityWarning)
}

// ErrRemoteRejected reports a non-success response from the inventory service
func ErrRemoteRejected(message string) *AppError {
	return NewAppError(CodeRemoteRejected, message, http.StatusBadGateway)
}

// ErrReleasePending reports pallets that were assigned remotely but have no release yet
func ErrReleasePending(message string) *AppError {
	return NewAppError(CodeReleasePending, message, http.StatusBadGateway).WithSeverity(SeverityCritical)
}

// ErrSubmissionInProgress reports a submission triggered while another one is running
func ErrSubmissionInProgress() *AppError {
	return NewAppError(CodeSubmissionInProgress, "a submission is already in progress", http.StatusConflict)
}

// Converter is implemented by errors that carry their own API representation
type Converter interface {
	AppError() *AppError
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var conv Converter
	if errors.As(err, &conv) {
		return conv.AppError(), true
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// MapDomainError maps common domain error messages to AppErrors
func MapDomainError(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "not found"):
		return ErrNotFound("resource").Wrap(err)
	case strings.Contains(lower, "already exists"), strings.Contains(lower, "in progress"):
		return ErrConflict(msg).Wrap(err)
	case strings.Contains(lower, "invalid"), strings.Contains(lower, "required"):
		return ErrValidation(msg).Wrap(err)
	case strings.Contains(lower, "timeout"), strings.Contains(lower, "deadline exceeded"):
		return ErrTimeout("operation").Wrap(err)
	default:
		return ErrInternal("").Wrap(err)
	}
}
