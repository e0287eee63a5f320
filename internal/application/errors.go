package application

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/wms-platform/tarima-dispatch/internal/domain"
	sharedErrors "github.com/wms-platform/tarima-dispatch/pkg/errors"
)

// ReleasePendingError reports that pallets were assigned remotely but no
// release could be created for them. Only release creation should be retried.
type ReleasePendingError struct {
	ProcessedIDs []int64
	Pending      PendingRelease
	Payload      *domain.ReleasePayload
	Cause        error
}

func (e *ReleasePendingError) Error() string {
	return fmt.Sprintf("%d pallets were assigned but the release was not created: %v", len(e.ProcessedIDs), e.Cause)
}

func (e *ReleasePendingError) Unwrap() error {
	return e.Cause
}

// Severity ranks this failure above ordinary remote rejections
func (e *ReleasePendingError) Severity() string {
	return sharedErrors.SeverityCritical
}

// AppError converts the failure into the API error envelope
func (e *ReleasePendingError) AppError() *sharedErrors.AppError {
	appErr := sharedErrors.ErrReleasePending(
		"Pallets were assigned but the release was not created. Retry release creation; do not resubmit the pallets.",
	).WithDetail("processedPallets", strconv.Itoa(len(e.ProcessedIDs)))
	if e.Payload != nil {
		appErr = appErr.WithDetail("releaseName", e.Payload.Name)
	}
	if status := remoteStatus(e.Cause); status != 0 {
		appErr = appErr.WithDetail("remoteStatus", strconv.Itoa(status))
	}
	return appErr.Wrap(e.Cause)
}

// remoteRejection converts a failed remote call into an AppError carrying status and body
func remoteRejection(message string, err error) *sharedErrors.AppError {
	var rf RemoteFailure
	if errors.As(err, &rf) {
		return sharedErrors.ErrRemoteRejected(fmt.Sprintf("%s (HTTP %d): %s", message, rf.RemoteStatus(), rf.RemoteBody())).
			WithDetail("remoteStatus", strconv.Itoa(rf.RemoteStatus())).
			WithDetail("remoteBody", rf.RemoteBody()).
			Wrap(err)
	}
	return sharedErrors.ErrServiceUnavailable("inventory service").Wrap(err)
}

// toggleError maps selection failures onto API errors
func toggleError(err error) error {
	var limitErr *domain.WeightLimitExceededError
	if errors.As(err, &limitErr) {
		return sharedErrors.ErrWeightLimitExceeded(limitErr.Error()).
			WithDetail("palletId", strconv.FormatInt(limitErr.PalletID, 10)).
			WithDetail("currentWeightKg", formatKg(limitErr.CurrentWeightKg)).
			WithDetail("palletWeightKg", formatKg(limitErr.PalletWeightKg)).
			WithDetail("excessKg", formatKg(limitErr.ExcessKg)).
			WithDetail("limitKg", formatKg(limitErr.LimitKg)).
			Wrap(err)
	}
	return sharedErrors.ErrValidation(err.Error()).Wrap(err)
}

func formatKg(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
