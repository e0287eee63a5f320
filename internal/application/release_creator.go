package application

import (
	"context"
	"fmt"
	"time"

	"github.com/wms-platform/tarima-dispatch/internal/domain"
	"github.com/wms-platform/tarima-dispatch/pkg/logging"
)

// PendingRelease is the input of release creation: pallets already assigned
// remotely plus the operator's description, notes and identity.
type PendingRelease struct {
	Pallets     []domain.Pallet `json:"pallets"`
	Description string          `json:"description"`
	Notes       string          `json:"notes"`
	CreatedBy   string          `json:"createdBy"`
	AssignedAt  time.Time       `json:"assignedAt"`
	Attempts    int             `json:"attempts"`
	LastError   string          `json:"lastError,omitempty"`
}

// PalletIDs returns the identifiers of the pending pallets
func (p PendingRelease) PalletIDs() []int64 {
	return domain.PalletIDs(p.Pallets)
}

// ReleaseOutcome describes one release creation attempt
type ReleaseOutcome struct {
	Ref              *domain.ReleaseRef          `json:"release,omitempty"`
	Payload          *domain.ReleasePayload      `json:"-"`
	Warnings         []domain.DataQualityWarning `json:"warnings,omitempty"`
	Sequence         int                         `json:"sequence"`
	SequenceFallback bool                        `json:"sequenceFallback"`
}

// BuildReleasePayload consolidates pallets into line items and names the
// release from the date and sequence number.
func BuildReleasePayload(pending PendingRelease, sequence int, now time.Time, defaults domain.ReleaseDefaults) (*domain.ReleasePayload, []domain.DataQualityWarning, error) {
	consolidated := domain.Consolidate(pending.Pallets)

	items, err := domain.BuildLineItems(consolidated.Lines, now, defaults)
	if err != nil {
		return nil, consolidated.Warnings, err
	}

	payload, err := domain.NewReleasePayload(
		domain.ReleaseName(now, sequence),
		pending.Description,
		pending.Notes,
		pending.CreatedBy,
		items,
	)
	if err != nil {
		return nil, consolidated.Warnings, err
	}
	return payload, consolidated.Warnings, nil
}

// ReleaseCreator runs release creation: sequence lookup, consolidation, naming and submission
type ReleaseCreator struct {
	gateway  InventoryGateway
	defaults domain.ReleaseDefaults
	clock    func() time.Time
	logger   *logging.Logger
}

// NewReleaseCreator creates a new ReleaseCreator
func NewReleaseCreator(gateway InventoryGateway, defaults domain.ReleaseDefaults, logger *logging.Logger) *ReleaseCreator {
	return &ReleaseCreator{
		gateway:  gateway,
		defaults: defaults,
		clock:    time.Now,
		logger:   logger.WithComponent("release-creator"),
	}
}

// NextSequence fetches the next release sequence number. Any failure falls back to 1.
func (c *ReleaseCreator) NextSequence(ctx context.Context) (int, bool) {
	seq, err := c.gateway.FetchNextReleaseSequence(ctx)
	if err != nil || seq < 1 {
		c.logger.WithContext(ctx).Warn("Release sequence unavailable, using default",
			"default", domain.DefaultSequenceNumber,
			"sequence", seq,
			"error", fmt.Sprint(err),
		)
		return domain.DefaultSequenceNumber, true
	}
	return seq, false
}

// Create builds and submits the release. The returned outcome carries the
// payload even when submission fails.
func (c *ReleaseCreator) Create(ctx context.Context, pending PendingRelease) (*ReleaseOutcome, error) {
	seq, fallback := c.NextSequence(ctx)
	outcome := &ReleaseOutcome{Sequence: seq, SequenceFallback: fallback}

	payload, warnings, err := BuildReleasePayload(pending, seq, c.clock(), c.defaults)
	outcome.Warnings = warnings
	for _, w := range warnings {
		c.logger.WithContext(ctx).Warn("Consolidation data-quality warning",
			"code", w.Code,
			"poNumber", w.PONumber,
			"itemNumber", w.ItemNumber,
			"rfidId", w.PalletID,
		)
	}
	if err != nil {
		return outcome, fmt.Errorf("failed to build release payload: %w", err)
	}
	outcome.Payload = payload

	ref, err := c.gateway.CreateRelease(ctx, payload)
	if err != nil {
		return outcome, fmt.Errorf("failed to create release %s: %w", payload.Name, err)
	}
	outcome.Ref = ref
	return outcome, nil
}
