package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_WrapAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	appErr := ErrRemoteRejected("status update rejected").Wrap(cause)

	assert.Equal(t, http.StatusBadGateway, appErr.HTTPStatus)
	assert.ErrorIs(t, appErr, cause)
	assert.Contains(t, appErr.Error(), "REMOTE_REJECTED")
}

func TestErrReleasePending_IsCritical(t *testing.T) {
	appErr := ErrReleasePending("release not created")

	assert.Equal(t, SeverityCritical, appErr.Severity)
	assert.Equal(t, CodeReleasePending, appErr.Code)
}

func TestErrWeightLimitExceeded(t *testing.T) {
	appErr := ErrWeightLimitExceeded("too heavy").WithDetail("excessKg", "1000")

	assert.Equal(t, http.StatusUnprocessableEntity, appErr.HTTPStatus)
	assert.Equal(t, SeverityWarning, appErr.Severity)
	assert.Equal(t, "1000", appErr.Details["excessKg"])
}

func TestAsAppError_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", ErrSubmissionInProgress())

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, appErr.HTTPStatus)
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"nil", nil, 0},
		{"not found", errors.New("pallet not found"), http.StatusNotFound},
		{"invalid", errors.New("invalid tab"), http.StatusBadRequest},
		{"in progress", errors.New("submission in progress"), http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := MapDomainError(tt.err)
			if tt.err == nil {
				assert.Nil(t, appErr)
				return
			}
			assert.Equal(t, tt.status, appErr.HTTPStatus)
		})
	}
}

type pendingFailure struct{ cause error }

func (e *pendingFailure) Error() string { return "pending: " + e.cause.Error() }

func (e *pendingFailure) AppError() *AppError {
	return ErrReleasePending("release not created").Wrap(e.cause)
}

func TestAsAppError_Converter(t *testing.T) {
	err := fmt.Errorf("submit: %w", &pendingFailure{cause: errors.New("502")})

	appErr, ok := AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, CodeReleasePending, appErr.Code)
	assert.Equal(t, SeverityCritical, appErr.Severity)
}
