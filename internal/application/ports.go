package application

import (
	"context"
	"errors"
	"io"

	"github.com/wms-platform/tarima-dispatch/internal/domain"
)

// InventoryGateway is the remote inventory and release service used by a session
type InventoryGateway interface {
	FetchInventory(ctx context.Context) ([]domain.Pallet, error)
	MarkAssigned(ctx context.Context, ids []int64) error
	FetchNextReleaseSequence(ctx context.Context) (int, error)
	CreateRelease(ctx context.Context, payload *domain.ReleasePayload) (*domain.ReleaseRef, error)
}

// ReleaseCatalog browses and edits releases already created remotely
type ReleaseCatalog interface {
	ListReleases(ctx context.Context) ([]domain.Release, error)
	GetRelease(ctx context.Context, id int64) (*domain.Release, error)
	UpdateRelease(ctx context.Context, id int64, update domain.ReleaseUpdate) (*domain.Release, error)
}

// EventPublisher publishes domain events. Failures are logged by callers, never surfaced.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.DomainEvent) error
}

// DurableRetrier hands a pending release to a durable retry runner and returns its run ID
type DurableRetrier interface {
	StartReleaseRetry(ctx context.Context, pending PendingRelease) (string, error)
}

// OrderSheetReader extracts cell rows from the first sheet of an uploaded workbook
type OrderSheetReader interface {
	ReadRows(r io.Reader) ([][]string, error)
}

// WorkbookExporter renders releases and selections as workbooks
type WorkbookExporter interface {
	ExportRelease(release *domain.Release) ([]byte, error)
	ExportSelection(pallets []domain.Pallet, stats domain.SelectionStats) ([]byte, error)
}

// RemoteFailure is implemented by gateway errors that carry the remote response
type RemoteFailure interface {
	error
	RemoteStatus() int
	RemoteBody() string
}

// remoteStatus returns the HTTP status of a remote rejection, or zero
func remoteStatus(err error) int {
	var rf RemoteFailure
	if errors.As(err, &rf) {
		return rf.RemoteStatus()
	}
	return 0
}
