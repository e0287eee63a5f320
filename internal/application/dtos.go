package application

import (
	"time"

	"github.com/wms-platform/tarima-dispatch/internal/domain"
)

// PalletDTO represents a pallet in listings
type PalletDTO struct {
	RFIDID             int64   `json:"rfidId"`
	ProductKey         string  `json:"productKey"`
	ProductName        string  `json:"productName"`
	Lot                string  `json:"lot"`
	UnitOfMeasure      string  `json:"unitOfMeasure"`
	Warehouse          string  `json:"warehouse"`
	Quantity           float64 `json:"quantity"`
	PONumber           string  `json:"poNumber"`
	ItemNumber         string  `json:"itemNumber"`
	Cases              int     `json:"cases"`
	UnitsPerCase       int     `json:"unitsPerCase"`
	TotalUnits         int     `json:"totalUnits"`
	GrossWeight        float64 `json:"grossWeight"`
	NetWeight          float64 `json:"netWeight"`
	SAPOrder           string  `json:"sapOrder"`
	AssignedToDelivery bool    `json:"assignedToDelivery"`
	Selected           bool    `json:"selected"`
}

// OrderFilterDTO represents the active order filter
type OrderFilterDTO struct {
	Pairs     []domain.OrderKey `json:"pairs"`
	Unmatched []domain.OrderKey `json:"unmatched"`
}

// InventoryViewDTO represents the inventory listing
type InventoryViewDTO struct {
	Tab         string          `json:"tab"`
	Pallets     []PalletDTO     `json:"pallets"`
	Total       int             `json:"total"`
	Visible     int             `json:"visible"`
	OrderFilter *OrderFilterDTO `json:"orderFilter,omitempty"`
	FetchState  FetchState      `json:"fetchState"`
}

// SelectionDTO represents the selection with its derived figures
type SelectionDTO struct {
	Pallets          []PalletDTO           `json:"pallets"`
	Stats            domain.SelectionStats `json:"stats"`
	WeightInfo       domain.WeightInfo     `json:"weightInfo"`
	AutoClearPending bool                  `json:"autoClearPending"`
}

// ToggleResultDTO represents the outcome of a toggle
type ToggleResultDTO struct {
	Action     string                 `json:"action"`
	PalletID   int64                  `json:"palletId"`
	Advisory   *domain.WeightAdvisory `json:"advisory,omitempty"`
	WeightInfo domain.WeightInfo      `json:"weightInfo"`
	Selected   int                    `json:"selected"`
}

// SubmissionResult represents the outcome of a submission or release retry
type SubmissionResult struct {
	NoOp             bool                        `json:"noOp"`
	ProcessedIDs     []int64                     `json:"processedIds"`
	AlreadyAssigned  []int64                     `json:"alreadyAssigned,omitempty"`
	ReleaseName      string                      `json:"releaseName,omitempty"`
	Release          *domain.ReleaseRef          `json:"release,omitempty"`
	LineItems        int                         `json:"lineItems"`
	Sequence         int                         `json:"sequence,omitempty"`
	SequenceFallback bool                        `json:"sequenceFallback,omitempty"`
	Warnings         []domain.DataQualityWarning `json:"warnings,omitempty"`
}

// PendingReleaseDTO represents a release that still has to be created
type PendingReleaseDTO struct {
	PalletIDs     []int64   `json:"palletIds"`
	GrossWeightKg float64   `json:"grossWeightKg"`
	Description   string    `json:"description"`
	Notes         string    `json:"notes"`
	CreatedBy     string    `json:"createdBy"`
	AssignedAt    time.Time `json:"assignedAt"`
	Attempts      int       `json:"attempts"`
	LastError     string    `json:"lastError,omitempty"`
}

// SubmissionSnapshot represents the observable workflow state
type SubmissionSnapshot struct {
	State      string             `json:"state"`
	Message    string             `json:"message,omitempty"`
	Severity   string             `json:"severity,omitempty"`
	Busy       bool               `json:"busy"`
	LastResult *SubmissionResult  `json:"lastResult,omitempty"`
	Pending    *PendingReleaseDTO `json:"pending,omitempty"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// OrderImportDTO represents the outcome of an order import
type OrderImportDTO struct {
	Pairs     []domain.OrderKey     `json:"pairs"`
	Rejected  []domain.RejectedLine `json:"rejected,omitempty"`
	Matched   int                   `json:"matchedPallets"`
	Unmatched []domain.OrderKey     `json:"unmatched"`
}

// ReleaseSummaryDTO represents a release in listings
type ReleaseSummaryDTO struct {
	ID        int64                `json:"id"`
	Name      string               `json:"name"`
	CreatedBy string               `json:"createdBy"`
	CreatedAt time.Time            `json:"createdAt"`
	Totals    domain.ReleaseTotals `json:"totals"`
}

// ReleaseDTO represents a full release
type ReleaseDTO struct {
	ID            int64                     `json:"id"`
	Name          string                    `json:"name"`
	Description   string                    `json:"description"`
	Notes         string                    `json:"notes"`
	CreatedBy     string                    `json:"createdBy"`
	CreatedAt     time.Time                 `json:"createdAt"`
	ShipmentItems []domain.ShipmentLineItem `json:"shipmentItems"`
	Totals        domain.ReleaseTotals      `json:"totals"`
}

// ExportFile is a rendered workbook
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
