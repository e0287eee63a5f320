package durable

import (
	"context"
	"fmt"
	"time"

	"go.temporal.io/sdk/client"

	"github.com/wms-platform/tarima-dispatch/internal/application"
	"github.com/wms-platform/tarima-dispatch/internal/domain"
	"github.com/wms-platform/tarima-dispatch/internal/workflows"
	"github.com/wms-platform/tarima-dispatch/pkg/logging"
	"github.com/wms-platform/tarima-dispatch/pkg/temporal"
)

// WorkflowStarter starts workflow executions. *temporal.Client implements it.
type WorkflowStarter interface {
	StartWorkflow(ctx context.Context, workflowID, taskQueue, workflowName string, args ...interface{}) (client.WorkflowRun, error)
}

// ReleaseRetrier hands pending releases to ReleaseRetryWorkflow
type ReleaseRetrier struct {
	starter  WorkflowStarter
	defaults domain.ReleaseDefaults
	now      func() time.Time
	logger   *logging.Logger
}

// NewReleaseRetrier creates a new ReleaseRetrier
func NewReleaseRetrier(starter WorkflowStarter, defaults domain.ReleaseDefaults, logger *logging.Logger) *ReleaseRetrier {
	return &ReleaseRetrier{
		starter:  starter,
		defaults: defaults,
		now:      time.Now,
		logger:   logger.WithComponent("release-retrier"),
	}
}

// StartReleaseRetry starts the workflow and returns its run ID
func (r *ReleaseRetrier) StartReleaseRetry(ctx context.Context, pending application.PendingRelease) (string, error) {
	if len(pending.Pallets) == 0 {
		return "", fmt.Errorf("pending release has no pallets")
	}

	workflowID := fmt.Sprintf("release-retry-%d-%d", pending.Pallets[0].RFIDID, r.now().UnixMilli())
	input := workflows.ReleaseRetryInput{
		Pallets:     pending.Pallets,
		Description: pending.Description,
		Notes:       pending.Notes,
		CreatedBy:   pending.CreatedBy,
		Defaults:    r.defaults,
	}

	run, err := r.starter.StartWorkflow(ctx, workflowID, temporal.TaskQueues.ReleaseRetry, temporal.WorkflowNames.ReleaseRetry, input)
	if err != nil {
		return "", fmt.Errorf("failed to start release retry workflow: %w", err)
	}

	r.logger.WorkflowStart(ctx, temporal.WorkflowNames.ReleaseRetry, workflowID)
	return run.GetRunID(), nil
}
