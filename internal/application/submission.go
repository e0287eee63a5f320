package application

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/wms-platform/tarima-dispatch/internal/domain"
	"github.com/wms-platform/tarima-dispatch/pkg/errors"
	"github.com/wms-platform/tarima-dispatch/pkg/logging"
	"github.com/wms-platform/tarima-dispatch/pkg/metrics"
)

// SubmissionState is a state of the submission workflow
type SubmissionState string

const (
	StateIdle            SubmissionState = "idle"
	StateUpdatingStatus  SubmissionState = "updating-status"
	StateCreatingRelease SubmissionState = "creating-release"
	StateCompleted       SubmissionState = "completed"
	StateError           SubmissionState = "error"
)

// Busy reports whether a remote mutation is in flight
func (s SubmissionState) Busy() bool {
	return s == StateUpdatingStatus || s == StateCreatingRelease
}

// Submission outcomes recorded in metrics
const (
	outcomeNoop               = "noop"
	outcomeCompleted          = "completed"
	outcomeStatusUpdateFailed = "status_update_failed"
	outcomeReleaseFailed      = "release_failed"
)

// defaultPublishTimeout bounds one best-effort event publish
const defaultPublishTimeout = 5 * time.Second

// SubmissionConfig holds the display delays before returning to idle and the
// per-event publish timeout
type SubmissionConfig struct {
	SuccessDelay   time.Duration
	ErrorDelay     time.Duration
	PublishTimeout time.Duration
}

// DefaultSubmissionConfig returns the standard delays
func DefaultSubmissionConfig() SubmissionConfig {
	return SubmissionConfig{
		SuccessDelay:   2 * time.Second,
		ErrorDelay:     3 * time.Second,
		PublishTimeout: defaultPublishTimeout,
	}
}

// SubmissionWorkflow processes the selection in two remote phases: mark the
// pallets assigned, then create a release for them. Phase two only starts
// after phase one succeeded. A phase-two failure keeps a pending release that
// can be retried without repeating phase one.
type SubmissionWorkflow struct {
	session   *Session
	gateway   InventoryGateway
	creator   *ReleaseCreator
	publisher EventPublisher
	durable   DurableRetrier
	refetch   func(ctx context.Context) error
	config    SubmissionConfig
	clock     func() time.Time
	metrics   *metrics.Metrics
	logger    *logging.Logger

	mu         sync.Mutex
	state      SubmissionState
	message    string
	severity   string
	updatedAt  time.Time
	last       *SubmissionResult
	pending    *PendingRelease
	resetTimer *time.Timer
	generation uint64
}

// NewSubmissionWorkflow creates a new SubmissionWorkflow. publisher and fetcher may be nil.
func NewSubmissionWorkflow(
	session *Session,
	gateway InventoryGateway,
	creator *ReleaseCreator,
	fetcher *InventoryFetcher,
	publisher EventPublisher,
	config SubmissionConfig,
	m *metrics.Metrics,
	logger *logging.Logger,
) *SubmissionWorkflow {
	w := &SubmissionWorkflow{
		session:   session,
		gateway:   gateway,
		creator:   creator,
		publisher: publisher,
		config:    config,
		clock:     time.Now,
		metrics:   m,
		logger:    logger.WithComponent("submission"),
		state:     StateIdle,
		updatedAt: time.Now(),
	}
	if fetcher != nil {
		w.refetch = func(ctx context.Context) error {
			_, err := fetcher.Refresh(ctx)
			return err
		}
	}
	return w
}

// WithDurableRetrier enables handing pending releases to a durable runner
func (w *SubmissionWorkflow) WithDurableRetrier(d DurableRetrier) *SubmissionWorkflow {
	w.durable = d
	return w
}

// Snapshot returns the observable state
func (w *SubmissionWorkflow) Snapshot() *SubmissionSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := &SubmissionSnapshot{
		State:      string(w.state),
		Message:    w.message,
		Severity:   w.severity,
		Busy:       w.state.Busy(),
		LastResult: w.last,
		UpdatedAt:  w.updatedAt,
	}
	if w.pending != nil {
		p := *w.pending
		snap.Pending = ToPendingReleaseDTO(&p)
	}
	return snap
}

// Run processes the unassigned members of the selection. Already assigned
// members are skipped and reported. With nothing to process it returns a
// no-op result without calling the remote service.
func (w *SubmissionWorkflow) Run(ctx context.Context, cmd SubmitCommand) (*SubmissionResult, error) {
	// a disconnecting client must not abort a half-done submission
	ctx = context.WithoutCancel(ctx)

	w.mu.Lock()
	if w.state.Busy() {
		w.mu.Unlock()
		return nil, errors.ErrSubmissionInProgress()
	}
	if w.pending != nil {
		pendingCount := len(w.pending.Pallets)
		w.mu.Unlock()
		return nil, errors.ErrReleasePending("a release is still pending for pallets already assigned; retry or discard it first").
			WithDetail("processedPallets", strconv.Itoa(pendingCount))
	}

	pallets, alreadyAssigned := w.session.PendingSubset()
	result := &SubmissionResult{AlreadyAssigned: alreadyAssigned}

	if len(pallets) == 0 {
		w.stopResetLocked()
		result.NoOp = true
		w.last = result
		w.transitionLocked(ctx, StateIdle, "No pallets to process", "")
		w.mu.Unlock()
		w.metrics.RecordSubmission(outcomeNoop)
		return result, nil
	}

	ids := domain.PalletIDs(pallets)
	result.ProcessedIDs = ids
	w.stopResetLocked()
	w.last = nil
	w.transitionLocked(ctx, StateUpdatingStatus, fmt.Sprintf("Updating status of %d pallets", len(ids)), "")
	w.mu.Unlock()

	if err := w.gateway.MarkAssigned(ctx, ids); err != nil {
		appErr := remoteRejection("status update rejected", err)
		w.logger.WithContext(ctx).WithError(err).Error("Failed to mark pallets assigned", "pallets", len(ids))
		w.fail(ctx, appErr.Message, errors.SeverityError, outcomeStatusUpdateFailed)
		return nil, appErr
	}

	synced := w.session.ApplyProcessed(ids)
	w.metrics.RecordPalletsAssigned(len(ids))

	for i := range pallets {
		pallets[i].AssignedToDelivery = true
	}
	grossWeight := domain.ComputeStats(pallets).TotalGrossWeight
	now := w.clock()

	assigned := &domain.PalletsAssignedEvent{
		PalletIDs:     ids,
		GrossWeightKg: grossWeight,
		AssignedBy:    cmd.CreatedBy,
		AssignedAt:    now,
	}
	w.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType:  "pallets.assigned",
		EntityType: "pallet",
		EntityID:   fmt.Sprint(ids),
		Action:     "assigned",
		Data: map[string]any{
			"pallets":          len(ids),
			"grossWeightKg":    grossWeight,
			"inventoryUpdated": synced.InventoryUpdated,
			"selectionUpdated": synced.SelectionUpdated,
			"operator":         cmd.CreatedBy,
		},
	})

	w.transition(ctx, StateCreatingRelease, "Creating release")

	pending := PendingRelease{
		Pallets:     pallets,
		Description: cmd.Description,
		Notes:       cmd.Notes,
		CreatedBy:   cmd.CreatedBy,
		AssignedAt:  now,
	}
	return w.createRelease(ctx, pending, result, assigned)
}

// RetryRelease reruns release creation for the pending release only
func (w *SubmissionWorkflow) RetryRelease(ctx context.Context) (*SubmissionResult, error) {
	ctx = context.WithoutCancel(ctx)

	w.mu.Lock()
	if w.state.Busy() {
		w.mu.Unlock()
		return nil, errors.ErrSubmissionInProgress()
	}
	if w.pending == nil {
		w.mu.Unlock()
		return nil, errors.ErrNotFound("pending release")
	}
	pending := *w.pending
	w.stopResetLocked()
	w.last = nil
	w.transitionLocked(ctx, StateCreatingRelease, "Retrying release creation", "")
	w.mu.Unlock()

	w.logger.WithContext(ctx).Info("Retrying release creation",
		"pallets", len(pending.Pallets),
		"attempt", pending.Attempts+1,
	)
	return w.createRelease(ctx, pending, &SubmissionResult{ProcessedIDs: pending.PalletIDs()})
}

// DiscardPendingRelease drops the pending release. Its pallets stay assigned.
func (w *SubmissionWorkflow) DiscardPendingRelease(ctx context.Context, operator string) (*PendingReleaseDTO, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state.Busy() {
		return nil, errors.ErrSubmissionInProgress()
	}
	if w.pending == nil {
		return nil, errors.ErrNotFound("pending release")
	}

	discarded := *w.pending
	w.pending = nil
	w.logger.Audit(ctx, "discard", "pending-release", fmt.Sprint(discarded.PalletIDs()), operator, map[string]any{
		"pallets":  len(discarded.Pallets),
		"attempts": discarded.Attempts,
	})
	return ToPendingReleaseDTO(&discarded), nil
}

// StartDurableRetry hands the pending release to the durable runner and drops it locally
func (w *SubmissionWorkflow) StartDurableRetry(ctx context.Context, operator string) (string, error) {
	if w.durable == nil {
		return "", errors.ErrServiceUnavailable("durable release retry")
	}

	w.mu.Lock()
	if w.state.Busy() {
		w.mu.Unlock()
		return "", errors.ErrSubmissionInProgress()
	}
	if w.pending == nil {
		w.mu.Unlock()
		return "", errors.ErrNotFound("pending release")
	}
	pending := *w.pending
	w.stopResetLocked()
	w.transitionLocked(ctx, StateCreatingRelease, "Handing release to durable retry", "")
	w.mu.Unlock()

	runID, err := w.durable.StartReleaseRetry(ctx, pending)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.transitionLocked(ctx, StateIdle, "", "")
		w.logger.WithContext(ctx).WithError(err).Error("Failed to start durable release retry")
		return "", errors.ErrServiceUnavailable("workflow engine").Wrap(err)
	}

	w.pending = nil
	w.transitionLocked(ctx, StateIdle, "", "")
	w.logger.Audit(ctx, "durable-retry", "pending-release", runID, operator, map[string]any{
		"pallets": len(pending.Pallets),
	})
	return runID, nil
}

// createRelease runs phase two. Events, including the ones passed in, are only
// dispatched once phase two has finished.
func (w *SubmissionWorkflow) createRelease(ctx context.Context, pending PendingRelease, result *SubmissionResult, events ...domain.DomainEvent) (*SubmissionResult, error) {
	pending.Attempts++
	outcome, err := w.creator.Create(ctx, pending)
	if outcome != nil {
		result.Sequence = outcome.Sequence
		result.SequenceFallback = outcome.SequenceFallback
		result.Warnings = outcome.Warnings
		if outcome.Payload != nil {
			result.ReleaseName = outcome.Payload.Name
			result.LineItems = len(outcome.Payload.ShipmentItems)
		}
	}

	if err != nil {
		pending.LastError = err.Error()
		relErr := &ReleasePendingError{
			ProcessedIDs: pending.PalletIDs(),
			Pending:      pending,
			Cause:        err,
		}
		if outcome != nil {
			relErr.Payload = outcome.Payload
		}

		w.mu.Lock()
		w.pending = &pending
		w.mu.Unlock()

		w.logger.WithContext(ctx).WithError(err).Error("Release creation failed after pallets were assigned",
			"pallets", len(pending.Pallets),
			"releaseName", result.ReleaseName,
			"attempt", pending.Attempts,
		)
		w.fail(ctx, relErr.AppError().Message, errors.SeverityCritical, outcomeReleaseFailed)
		w.dispatch(ctx, append(events, &domain.ReleaseFailedEvent{
			Name:       result.ReleaseName,
			PalletIDs:  relErr.ProcessedIDs,
			StatusCode: remoteStatus(err),
			Reason:     err.Error(),
			FailedAt:   w.clock(),
		})...)
		return nil, relErr
	}

	result.Release = outcome.Ref
	totals := domain.Totals(outcome.Payload.ShipmentItems)

	w.metrics.RecordReleaseCreated()
	w.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType:  "release.created",
		EntityType: "release",
		EntityID:   strconv.FormatInt(outcome.Ref.ID, 10),
		Action:     "created",
		RelatedIDs: map[string]string{"releaseName": outcome.Payload.Name},
		Data: map[string]any{
			"lineItems":     totals.LineItems,
			"pallets":       totals.Pallets,
			"grossWeightKg": totals.GrossWeight,
		},
	})

	w.mu.Lock()
	w.pending = nil
	w.last = result
	w.transitionLocked(ctx, StateCompleted, fmt.Sprintf("Release %s created", outcome.Payload.Name), "")
	w.scheduleResetLocked(w.config.SuccessDelay, true)
	w.mu.Unlock()

	w.metrics.RecordSubmission(outcomeCompleted)
	w.dispatch(ctx, append(events, &domain.ReleaseCreatedEvent{
		ReleaseID:     outcome.Ref.ID,
		Name:          outcome.Payload.Name,
		LineItems:     totals.LineItems,
		Pallets:       totals.Pallets,
		GrossWeightKg: totals.GrossWeight,
		CreatedBy:     pending.CreatedBy,
		CreatedAt:     w.clock(),
	})...)
	return result, nil
}

func (w *SubmissionWorkflow) fail(ctx context.Context, message, severity, outcome string) {
	w.mu.Lock()
	w.transitionLocked(ctx, StateError, message, severity)
	w.scheduleResetLocked(w.config.ErrorDelay, false)
	w.mu.Unlock()

	w.metrics.RecordSubmission(outcome)
}

func (w *SubmissionWorkflow) transition(ctx context.Context, to SubmissionState, message string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.transitionLocked(ctx, to, message, "")
}

func (w *SubmissionWorkflow) transitionLocked(ctx context.Context, to SubmissionState, message, severity string) {
	from := w.state
	w.state = to
	w.message = message
	w.severity = severity
	w.updatedAt = w.clock()
	if from != to {
		w.logger.SubmissionTransition(ctx, string(from), string(to), message)
	}
}

// scheduleResetLocked returns to idle after delay, optionally refetching the inventory
func (w *SubmissionWorkflow) scheduleResetLocked(delay time.Duration, refetch bool) {
	w.stopResetLocked()
	gen := w.generation

	w.resetTimer = time.AfterFunc(delay, func() {
		ctx := context.Background()

		w.mu.Lock()
		if w.generation != gen {
			w.mu.Unlock()
			return
		}
		w.resetTimer = nil
		w.transitionLocked(ctx, StateIdle, "", "")
		w.mu.Unlock()

		if refetch && w.refetch != nil {
			if err := w.refetch(ctx); err != nil {
				w.logger.WithError(err).Warn("Inventory refetch after submission failed")
			}
		}
	})
}

func (w *SubmissionWorkflow) stopResetLocked() {
	if w.resetTimer != nil {
		w.resetTimer.Stop()
		w.resetTimer = nil
	}
	w.generation++
}

// dispatch publishes events in order on a background goroutine. Each publish
// is bounded by the publish timeout; failures are logged and dropped.
func (w *SubmissionWorkflow) dispatch(ctx context.Context, events ...domain.DomainEvent) {
	if w.publisher == nil || len(events) == 0 {
		return
	}
	timeout := w.config.PublishTimeout
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}

	go func() {
		for _, event := range events {
			publishCtx, cancel := context.WithTimeout(ctx, timeout)
			err := w.publisher.Publish(publishCtx, event)
			cancel()
			if err != nil {
				w.logger.WithContext(ctx).WithError(err).Warn("Failed to publish event", "eventType", event.EventType())
			}
		}
	}()
}
