package application

import (
	"context"
	"time"

	"github.com/wms-platform/tarima-dispatch/pkg/logging"
)

// InventoryFetcher loads the inventory snapshot into a session and tracks loading/error state
type InventoryFetcher struct {
	gateway InventoryGateway
	session *Session
	logger  *logging.Logger
}

// NewInventoryFetcher creates a new InventoryFetcher
func NewInventoryFetcher(gateway InventoryGateway, session *Session, logger *logging.Logger) *InventoryFetcher {
	return &InventoryFetcher{
		gateway: gateway,
		session: session,
		logger:  logger.WithComponent("inventory-fetcher"),
	}
}

// Refresh refetches the full inventory. On failure the previous snapshot is kept.
func (f *InventoryFetcher) Refresh(ctx context.Context) (*InventoryViewDTO, error) {
	start := time.Now()
	f.session.beginFetch()

	pallets, fetchErr := f.gateway.FetchInventory(ctx)
	if err := f.session.completeFetch(pallets, fetchErr); err != nil {
		f.logger.WithContext(ctx).WithError(err).Error("Failed to fetch inventory")
		return nil, remoteRejection("inventory fetch failed", err)
	}

	f.logger.WithContext(ctx).Info("Inventory fetched",
		"pallets", len(pallets),
		"durationMs", time.Since(start).Milliseconds(),
	)
	return f.session.InventoryView(), nil
}
