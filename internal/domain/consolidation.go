package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Data-quality warning codes raised by Consolidate
const (
	WarningBlankSAP        = "BLANK_SAP_REFERENCE"
	WarningDivergentMember = "DIVERGENT_GROUP_MEMBER"
)

// ConsolidatedLine is one (PO, customer item) aggregate over selected pallets.
// Descriptive fields come from the first pallet of the group.
type ConsolidatedLine struct {
	PONumber       string   `json:"poNumber"`
	ItemNumber     string   `json:"itemNumber"`
	SAPOrder       string   `json:"sapOrder"`
	ProductKey     string   `json:"productKey"`
	Description    string   `json:"description"`
	Pallets        int      `json:"pallets"`
	CasesPerPallet int      `json:"casesPerPallet"`
	UnitsPerCase   int      `json:"unitsPerCase"`
	GrossWeight    float64  `json:"grossWeight"`
	NetWeight      float64  `json:"netWeight"`
	Traceabilities []string `json:"traceabilities"`
	PalletIDs      []int64  `json:"palletIds"`
}

// DataQualityWarning flags suspicious input without rejecting it
type DataQualityWarning struct {
	Code       string `json:"code"`
	PONumber   string `json:"poNumber"`
	ItemNumber string `json:"itemNumber"`
	PalletID   int64  `json:"palletId"`
	Message    string `json:"message"`
}

// ConsolidationResult is the output of Consolidate
type ConsolidationResult struct {
	Lines    []ConsolidatedLine   `json:"lines"`
	Warnings []DataQualityWarning `json:"warnings,omitempty"`
}

type lineAccumulator struct {
	line  ConsolidatedLine
	gross decimal.Decimal
	net   decimal.Decimal
	rep   Pallet
}

// Consolidate groups pallets by exact (PO, customer item) pair, in order of
// first appearance. Each group yields one line whose pallet count is the group
// size and whose weights are the sums of its members.
func Consolidate(pallets []Pallet) ConsolidationResult {
	result := ConsolidationResult{Lines: []ConsolidatedLine{}}

	groups := make(map[OrderKey]*lineAccumulator)
	var order []OrderKey

	for _, p := range pallets {
		key := p.OrderKey()
		acc, ok := groups[key]
		if !ok {
			acc = &lineAccumulator{
				rep: p,
				line: ConsolidatedLine{
					PONumber:       p.PONumber,
					ItemNumber:     p.ItemNumber,
					SAPOrder:       p.SAPOrder,
					ProductKey:     p.ProductKey,
					Description:    p.ProductName,
					CasesPerPallet: p.Cases,
					UnitsPerCase:   p.UnitsPerCase,
					Traceabilities: []string{},
				},
				gross: decimal.Zero,
				net:   decimal.Zero,
			}
			groups[key] = acc
			order = append(order, key)

			if strings.TrimSpace(p.SAPOrder) == "" {
				result.Warnings = append(result.Warnings, DataQualityWarning{
					Code:       WarningBlankSAP,
					PONumber:   p.PONumber,
					ItemNumber: p.ItemNumber,
					PalletID:   p.RFIDID,
					Message:    fmt.Sprintf("PO %s item %s has no SAP reference", p.PONumber, p.ItemNumber),
				})
			}
		} else if field := divergentField(acc.rep, p); field != "" {
			result.Warnings = append(result.Warnings, DataQualityWarning{
				Code:       WarningDivergentMember,
				PONumber:   p.PONumber,
				ItemNumber: p.ItemNumber,
				PalletID:   p.RFIDID,
				Message: fmt.Sprintf("pallet %d differs from pallet %d on %s; the first pallet's value is used",
					p.RFIDID, acc.rep.RFIDID, field),
			})
		}

		acc.line.Pallets++
		acc.gross = acc.gross.Add(decimal.NewFromFloat(p.GrossWeight))
		acc.net = acc.net.Add(decimal.NewFromFloat(p.NetWeight))
		acc.line.Traceabilities = append(acc.line.Traceabilities, p.Lot)
		acc.line.PalletIDs = append(acc.line.PalletIDs, p.RFIDID)
	}

	for _, key := range order {
		acc := groups[key]
		acc.line.GrossWeight = acc.gross.InexactFloat64()
		acc.line.NetWeight = acc.net.InexactFloat64()
		result.Lines = append(result.Lines, acc.line)
	}

	return result
}

// divergentField names the first representative field p disagrees on
func divergentField(rep, p Pallet) string {
	switch {
	case rep.Cases != p.Cases:
		return "cases per pallet"
	case rep.UnitsPerCase != p.UnitsPerCase:
		return "units per case"
	case rep.SAPOrder != p.SAPOrder:
		return "SAP reference"
	case rep.ProductKey != p.ProductKey:
		return "product key"
	default:
		return ""
	}
}
