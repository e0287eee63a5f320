package activities

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/wms-platform/tarima-dispatch/internal/application"
	"github.com/wms-platform/tarima-dispatch/internal/domain"
	"github.com/wms-platform/tarima-dispatch/internal/workflows"
	"github.com/wms-platform/tarima-dispatch/pkg/logging"
)

// ReleaseActivities contains activities that talk to the release service
type ReleaseActivities struct {
	gateway application.InventoryGateway
	creator *application.ReleaseCreator
	logger  *logging.Logger
}

// NewReleaseActivities creates a new ReleaseActivities instance
func NewReleaseActivities(gateway application.InventoryGateway, logger *logging.Logger) *ReleaseActivities {
	return &ReleaseActivities{
		gateway: gateway,
		creator: application.NewReleaseCreator(gateway, domain.DefaultReleaseDefaults(), logger),
		logger:  logger.WithComponent("release-activities"),
	}
}

// FetchNextReleaseSequence returns the next sequence number, falling back to 1
func (a *ReleaseActivities) FetchNextReleaseSequence(ctx context.Context) (workflows.SequenceResult, error) {
	seq, fallback := a.creator.NextSequence(ctx)
	return workflows.SequenceResult{Sequence: seq, Fallback: fallback}, nil
}

// CreateRelease submits the release. A 4xx rejection is not retried.
func (a *ReleaseActivities) CreateRelease(ctx context.Context, payload *domain.ReleasePayload) (*domain.ReleaseRef, error) {
	info := activity.GetInfo(ctx)
	a.logger.WithContext(ctx).Info("Creating release",
		"name", payload.Name,
		"lineItems", len(payload.ShipmentItems),
		"attempt", info.Attempt,
	)

	if err := payload.Validate(); err != nil {
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), workflows.ErrTypeValidation, err)
	}

	ref, err := a.gateway.CreateRelease(ctx, payload)
	if err != nil {
		var remote application.RemoteFailure
		if errors.As(err, &remote) && remote.RemoteStatus() >= 400 && remote.RemoteStatus() < 500 {
			return nil, temporal.NewNonRetryableApplicationError(
				fmt.Sprintf("release %s rejected (HTTP %d): %s", payload.Name, remote.RemoteStatus(), remote.RemoteBody()),
				workflows.ErrTypeRemoteRejected,
				err,
			)
		}
		return nil, fmt.Errorf("failed to create release %s: %w", payload.Name, err)
	}
	return ref, nil
}
