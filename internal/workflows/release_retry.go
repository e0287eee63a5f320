package workflows

import (
	"fmt"

	"go.temporal.io/sdk/workflow"

	"github.com/wms-platform/tarima-dispatch/internal/application"
	"github.com/wms-platform/tarima-dispatch/internal/domain"
	"github.com/wms-platform/tarima-dispatch/pkg/temporal"
)

// ReleaseRetryInput carries a release whose pallets are already assigned remotely
type ReleaseRetryInput struct {
	Pallets     []domain.Pallet        `json:"pallets"`
	Description string                 `json:"description"`
	Notes       string                 `json:"notes"`
	CreatedBy   string                 `json:"createdBy"`
	Defaults    domain.ReleaseDefaults `json:"defaults"`
}

// SequenceResult is the result of the FetchNextReleaseSequence activity
type SequenceResult struct {
	Sequence int  `json:"sequence"`
	Fallback bool `json:"fallback"`
}

// ReleaseRetryResult describes the created release
type ReleaseRetryResult struct {
	ReleaseID        int64                       `json:"releaseId"`
	Name             string                      `json:"name"`
	Sequence         int                         `json:"sequence"`
	SequenceFallback bool                        `json:"sequenceFallback"`
	LineItems        int                         `json:"lineItems"`
	Warnings         []domain.DataQualityWarning `json:"warnings,omitempty"`
}

// ReleaseRetryWorkflow creates the release for pallets whose status update
// already succeeded. The payload is built once so every attempt submits the
// same release name.
func ReleaseRetryWorkflow(ctx workflow.Context, input ReleaseRetryInput) (*ReleaseRetryResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting release retry workflow", "pallets", len(input.Pallets), "createdBy", input.CreatedBy)

	if len(input.Pallets) == 0 {
		return nil, fmt.Errorf("release retry requires at least one pallet")
	}

	seqCtx := workflow.WithActivityOptions(ctx, GetActivityOptions(SequenceActivityTimeout, NoRetry))
	seq := SequenceResult{Sequence: domain.DefaultSequenceNumber, Fallback: true}
	if err := workflow.ExecuteActivity(seqCtx, temporal.ActivityNames.FetchNextReleaseSequence).Get(ctx, &seq); err != nil {
		logger.Warn("Release sequence unavailable, using default", "error", err)
		seq = SequenceResult{Sequence: domain.DefaultSequenceNumber, Fallback: true}
	}

	pending := application.PendingRelease{
		Pallets:     input.Pallets,
		Description: input.Description,
		Notes:       input.Notes,
		CreatedBy:   input.CreatedBy,
	}
	payload, warnings, err := application.BuildReleasePayload(pending, seq.Sequence, workflow.Now(ctx), input.Defaults)
	if err != nil {
		return nil, fmt.Errorf("failed to build release payload: %w", err)
	}

	createCtx := workflow.WithActivityOptions(ctx, GetActivityOptions(DefaultActivityTimeout, PersistentRetry))
	var ref domain.ReleaseRef
	if err := workflow.ExecuteActivity(createCtx, temporal.ActivityNames.CreateRelease, payload).Get(ctx, &ref); err != nil {
		logger.Error("Release creation failed", "name", payload.Name, "error", err)
		return nil, fmt.Errorf("failed to create release %s: %w", payload.Name, err)
	}

	logger.Info("Release created", "releaseId", ref.ID, "name", ref.Name)

	return &ReleaseRetryResult{
		ReleaseID:        ref.ID,
		Name:             ref.Name,
		Sequence:         seq.Sequence,
		SequenceFallback: seq.Fallback,
		LineItems:        len(payload.ShipmentItems),
		Warnings:         warnings,
	}, nil
}
