package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Release payload constants
const (
	ItemTypeFinishedGood       = "Finished Good"
	DefaultSalesCSRNames       = "Customer Service"
	DefaultCompanyID           = 1
	DefaultSequenceNumber      = 1
	QuantityAlreadyShippedNone = "0"
	releaseNameDateLayout      = "2006-01-02"
	releaseNamePrefix          = "LOAD"
)

// ReleaseDefaults are the constant fields stamped on every line item
type ReleaseDefaults struct {
	CompanyID     int     `json:"companyId" yaml:"companyId"`
	SalesCSRNames string  `json:"salesCsrNames" yaml:"salesCsrNames"`
	ItemType      string  `json:"itemType" yaml:"itemType"`
	UnitPrice     float64 `json:"unitPrice" yaml:"unitPrice"`
}

// DefaultReleaseDefaults returns the standard line item constants
func DefaultReleaseDefaults() ReleaseDefaults {
	return ReleaseDefaults{
		CompanyID:     DefaultCompanyID,
		SalesCSRNames: DefaultSalesCSRNames,
		ItemType:      ItemTypeFinishedGood,
	}
}

// ShipmentLineItem is the wire form of a consolidated line in a release
type ShipmentLineItem struct {
	Company                int     `json:"company"`
	ShipDate               string  `json:"shipDate"`
	PONumber               string  `json:"poNumber"`
	SAP                    string  `json:"sap"`
	ProductKey             string  `json:"productKey"`
	CustomerItemNumber     string  `json:"customerItemNumber"`
	ItemDescription        string  `json:"itemDescription"`
	QuantityAlreadyShipped string  `json:"quantityAlreadyShipped"`
	Pallets                int     `json:"pallets"`
	CasesPerPallet         int     `json:"casesPerPallet"`
	UnitsPerCase           int     `json:"unitsPerCase"`
	GrossWeight            float64 `json:"grossWeight"`
	NetWeight              float64 `json:"netWeight"`
	ItemType               string  `json:"itemType"`
	SalesCSRNames          string  `json:"salesCSRNames"`
	Traceabilities         string  `json:"traceabilities"`
	UnitPrice              float64 `json:"unitPrice"`
}

// Validate checks a line item before it is sent or edited
func (li ShipmentLineItem) Validate() error {
	switch {
	case li.Pallets < 1:
		return fmt.Errorf("%w: PO %s item %s has %d pallets", ErrInvalidLineItem, li.PONumber, li.CustomerItemNumber, li.Pallets)
	case li.GrossWeight < 0 || li.NetWeight < 0:
		return fmt.Errorf("%w: PO %s item %s has a negative weight", ErrInvalidLineItem, li.PONumber, li.CustomerItemNumber)
	case li.UnitPrice < 0:
		return fmt.Errorf("%w: PO %s item %s has a negative unit price", ErrInvalidLineItem, li.PONumber, li.CustomerItemNumber)
	}
	return nil
}

// ReleasePayload is the body sent to create a release
type ReleasePayload struct {
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	Notes         string             `json:"notes"`
	CreatedBy     string             `json:"createdBy"`
	ShipmentItems []ShipmentLineItem `json:"shipmentItems"`
}

// Validate checks the payload before it is sent
func (p *ReleasePayload) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrReleaseNameRequired
	}
	if len(p.ShipmentItems) == 0 {
		return ErrNoLineItems
	}
	for _, item := range p.ShipmentItems {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ReleaseTotals sums the line items of a release
type ReleaseTotals struct {
	LineItems   int     `json:"lineItems"`
	Pallets     int     `json:"pallets"`
	GrossWeight float64 `json:"grossWeight"`
	NetWeight   float64 `json:"netWeight"`
}

// Totals computes ReleaseTotals over items
func Totals(items []ShipmentLineItem) ReleaseTotals {
	totals := ReleaseTotals{LineItems: len(items)}
	gross, net := decimal.Zero, decimal.Zero
	for _, item := range items {
		totals.Pallets += item.Pallets
		gross = gross.Add(decimal.NewFromFloat(item.GrossWeight))
		net = net.Add(decimal.NewFromFloat(item.NetWeight))
	}
	totals.GrossWeight = gross.InexactFloat64()
	totals.NetWeight = net.InexactFloat64()
	return totals
}

// ReleaseName builds LOAD_<yyyy-mm-dd>_<sequence> from the UTC date of at
func ReleaseName(at time.Time, sequence int) string {
	if sequence < 1 {
		sequence = DefaultSequenceNumber
	}
	return fmt.Sprintf("%s_%s_%d", releaseNamePrefix, at.UTC().Format(releaseNameDateLayout), sequence)
}

// BuildLineItems converts consolidated lines into release line items shipped at shipDate
func BuildLineItems(lines []ConsolidatedLine, shipDate time.Time, defaults ReleaseDefaults) ([]ShipmentLineItem, error) {
	date := shipDate.UTC().Format(time.RFC3339)
	items := make([]ShipmentLineItem, 0, len(lines))

	for _, line := range lines {
		lots := line.Traceabilities
		if lots == nil {
			lots = []string{}
		}
		traceabilities, err := json.Marshal(lots)
		if err != nil {
			return nil, fmt.Errorf("failed to encode traceabilities: %w", err)
		}

		items = append(items, ShipmentLineItem{
			Company:                defaults.CompanyID,
			ShipDate:               date,
			PONumber:               line.PONumber,
			SAP:                    line.SAPOrder,
			ProductKey:             line.ProductKey,
			CustomerItemNumber:     line.ItemNumber,
			ItemDescription:        line.Description,
			QuantityAlreadyShipped: QuantityAlreadyShippedNone,
			Pallets:                line.Pallets,
			CasesPerPallet:         line.CasesPerPallet,
			UnitsPerCase:           line.UnitsPerCase,
			GrossWeight:            line.GrossWeight,
			NetWeight:              line.NetWeight,
			ItemType:               defaults.ItemType,
			SalesCSRNames:          defaults.SalesCSRNames,
			Traceabilities:         string(traceabilities),
			UnitPrice:              defaults.UnitPrice,
		})
	}

	return items, nil
}

// NewReleasePayload assembles and validates a creation payload
func NewReleasePayload(name, description, notes, createdBy string, items []ShipmentLineItem) (*ReleasePayload, error) {
	payload := &ReleasePayload{
		Name:          name,
		Description:   description,
		Notes:         notes,
		CreatedBy:     createdBy,
		ShipmentItems: items,
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return payload, nil
}

// ReleaseRef identifies a release created in the remote service
type ReleaseRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Release is a remote-owned shipment manifest
type Release struct {
	ID            int64              `json:"id"`
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	Notes         string             `json:"notes"`
	CreatedBy     string             `json:"createdBy"`
	CreatedAt     time.Time          `json:"createdAt"`
	ShipmentItems []ShipmentLineItem `json:"shipmentItems"`
}

// ReleaseUpdate carries the editable fields of a release
type ReleaseUpdate struct {
	Description   string             `json:"description"`
	Notes         string             `json:"notes"`
	ShipmentItems []ShipmentLineItem `json:"shipmentItems"`
}

// Validate checks the edited line items
func (u ReleaseUpdate) Validate() error {
	for _, item := range u.ShipmentItems {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return nil
}
