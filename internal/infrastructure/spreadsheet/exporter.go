package spreadsheet

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/wms-platform/tarima-dispatch/internal/domain"
)

const (
	sheetRelease   = "Release"
	sheetLineItems = "Line Items"
	sheetSelection = "Selection"
	defaultSheet   = "Sheet1"
	totalsLabel    = "TOTAL"
)

var lineItemHeader = []interface{}{
	"Company", "Ship Date", "PO", "SAP", "Product Key", "Customer Item", "Description",
	"Qty Already Shipped", "Pallets", "Cases/Pallet", "Units/Case", "Gross Weight (kg)",
	"Net Weight (kg)", "Item Type", "Sales CSR", "Traceabilities", "Unit Price",
}

var selectionHeader = []interface{}{
	"RFID", "Product Key", "Product", "Lot", "PO", "Item", "SAP", "Warehouse",
	"Cases", "Units/Case", "Quantity", "Unit", "Gross Weight (kg)", "Net Weight (kg)", "Assigned",
}

// Exporter renders releases and selections as .xlsx workbooks
type Exporter struct{}

// NewExporter creates an Exporter
func NewExporter() *Exporter {
	return &Exporter{}
}

// ExportRelease writes a header sheet and a line-items sheet with a totals row
func (e *Exporter) ExportRelease(release *domain.Release) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := boldStyle(f)
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetName(defaultSheet, sheetRelease); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	createdAt := ""
	if !release.CreatedAt.IsZero() {
		createdAt = release.CreatedAt.UTC().Format(time.RFC3339)
	}
	header := [][]interface{}{
		{"Name", release.Name},
		{"Description", release.Description},
		{"Notes", release.Notes},
		{"Created By", release.CreatedBy},
		{"Created At", createdAt},
	}
	for i, row := range header {
		if err := writeRow(f, sheetRelease, i+1, row); err != nil {
			return nil, err
		}
	}
	if err := f.SetColStyle(sheetRelease, "A", bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	if _, err := f.NewSheet(sheetLineItems); err != nil {
		return nil, fmt.Errorf("failed to add sheet: %w", err)
	}
	if err := writeHeader(f, sheetLineItems, lineItemHeader, bold); err != nil {
		return nil, err
	}

	row := 2
	for _, item := range release.ShipmentItems {
		values := []interface{}{
			item.Company, item.ShipDate, item.PONumber, item.SAP, item.ProductKey,
			item.CustomerItemNumber, item.ItemDescription, item.QuantityAlreadyShipped,
			item.Pallets, item.CasesPerPallet, item.UnitsPerCase, item.GrossWeight,
			item.NetWeight, item.ItemType, item.SalesCSRNames, item.Traceabilities, item.UnitPrice,
		}
		if err := writeRow(f, sheetLineItems, row, values); err != nil {
			return nil, err
		}
		row++
	}

	totals := domain.Totals(release.ShipmentItems)
	totalsRow := make([]interface{}, len(lineItemHeader))
	totalsRow[0] = totalsLabel
	totalsRow[8] = totals.Pallets
	totalsRow[11] = totals.GrossWeight
	totalsRow[12] = totals.NetWeight
	if err := writeRow(f, sheetLineItems, row, totalsRow); err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(sheetLineItems, row, row, bold); err != nil {
		return nil, fmt.Errorf("failed to style totals: %w", err)
	}

	return finish(f, sheetRelease)
}

// ExportSelection writes one row per pallet followed by a totals row
func (e *Exporter) ExportSelection(pallets []domain.Pallet, stats domain.SelectionStats) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := boldStyle(f)
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetName(defaultSheet, sheetSelection); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := writeHeader(f, sheetSelection, selectionHeader, bold); err != nil {
		return nil, err
	}

	row := 2
	for _, p := range pallets {
		assigned := "No"
		if p.AssignedToDelivery {
			assigned = "Yes"
		}
		values := []interface{}{
			p.RFIDID, p.ProductKey, p.ProductName, p.Lot, p.PONumber, p.ItemNumber, p.SAPOrder,
			p.Warehouse, p.Cases, p.UnitsPerCase, p.Quantity, domain.UnitLabel(p.UnitOfMeasure),
			p.GrossWeight, p.NetWeight, assigned,
		}
		if err := writeRow(f, sheetSelection, row, values); err != nil {
			return nil, err
		}
		row++
	}

	totalsRow := make([]interface{}, len(selectionHeader))
	totalsRow[0] = totalsLabel
	totalsRow[1] = fmt.Sprintf("%d pallets", stats.Pallets)
	totalsRow[8] = stats.TotalCases
	totalsRow[10] = stats.TotalQuantity
	totalsRow[11] = stats.UnitLabel
	totalsRow[12] = stats.TotalGrossWeight
	totalsRow[13] = stats.TotalNetWeight
	if err := writeRow(f, sheetSelection, row, totalsRow); err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(sheetSelection, row, row, bold); err != nil {
		return nil, fmt.Errorf("failed to style totals: %w", err)
	}

	return finish(f, sheetSelection)
}

func boldStyle(f *excelize.File) (int, error) {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return 0, fmt.Errorf("failed to create style: %w", err)
	}
	return style, nil
}

func writeHeader(f *excelize.File, sheet string, header []interface{}, style int) error {
	if err := writeRow(f, sheet, 1, header); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 1, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

func finish(f *excelize.File, active string) ([]byte, error) {
	idx, err := f.GetSheetIndex(active)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
