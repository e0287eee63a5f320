package handlers

import (
	"context"
	"io"

	"github.com/wms-platform/tarima-dispatch/internal/application"
	"github.com/wms-platform/tarima-dispatch/internal/domain"
)

// SessionService is the operator session: inventory view and selection
type SessionService interface {
	InventoryView() *application.InventoryViewDTO
	InventoryViewFor(tab domain.InventoryTab) *application.InventoryViewDTO
	SetTab(tab domain.InventoryTab) *application.InventoryViewDTO
	Toggle(id int64) (*application.ToggleResultDTO, error)
	Remove(id int64) *application.SelectionDTO
	ClearSelection() *application.SelectionDTO
	Selection() *application.SelectionDTO
}

// InventoryRefresher refetches the inventory snapshot
type InventoryRefresher interface {
	Refresh(ctx context.Context) (*application.InventoryViewDTO, error)
}

// SubmissionService runs and observes the submission workflow
type SubmissionService interface {
	Run(ctx context.Context, cmd application.SubmitCommand) (*application.SubmissionResult, error)
	Snapshot() *application.SubmissionSnapshot
	RetryRelease(ctx context.Context) (*application.SubmissionResult, error)
	StartDurableRetry(ctx context.Context, operator string) (string, error)
	DiscardPendingRelease(ctx context.Context, operator string) (*application.PendingReleaseDTO, error)
}

// OrderService imports PO/item pairs as the inventory order filter
type OrderService interface {
	ImportText(ctx context.Context, cmd application.ImportOrdersCommand) (*application.OrderImportDTO, error)
	ImportWorkbook(ctx context.Context, r io.Reader, operator string) (*application.OrderImportDTO, error)
	ClearFilter(ctx context.Context, operator string) *application.InventoryViewDTO
}

// ReleaseService browses and edits releases
type ReleaseService interface {
	ListReleases(ctx context.Context) ([]application.ReleaseSummaryDTO, error)
	GetRelease(ctx context.Context, query application.GetReleaseQuery) (*application.ReleaseDTO, error)
	UpdateRelease(ctx context.Context, cmd application.UpdateReleaseCommand) (*application.ReleaseDTO, error)
}

// ExportService renders workbooks
type ExportService interface {
	ExportRelease(ctx context.Context, query application.GetReleaseQuery) (*application.ExportFile, error)
	ExportSelection(ctx context.Context) (*application.ExportFile, error)
}
