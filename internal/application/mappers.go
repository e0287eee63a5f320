package application

import "github.com/wms-platform/tarima-dispatch/internal/domain"

// ToPalletDTO converts a domain Pallet to PalletDTO
func ToPalletDTO(p domain.Pallet, selected bool) PalletDTO {
	return PalletDTO{
		RFIDID:             p.RFIDID,
		ProductKey:         p.ProductKey,
		ProductName:        p.ProductName,
		Lot:                p.Lot,
		UnitOfMeasure:      p.UnitOfMeasure,
		Warehouse:          p.Warehouse,
		Quantity:           p.Quantity,
		PONumber:           p.PONumber,
		ItemNumber:         p.ItemNumber,
		Cases:              p.Cases,
		UnitsPerCase:       p.UnitsPerCase,
		TotalUnits:         p.Units(),
		GrossWeight:        p.GrossWeight,
		NetWeight:          p.NetWeight,
		SAPOrder:           p.SAPOrder,
		AssignedToDelivery: p.AssignedToDelivery,
		Selected:           selected,
	}
}

// ToPalletDTOs converts pallets, flagging those in sel
func ToPalletDTOs(pallets []domain.Pallet, sel *domain.Selection) []PalletDTO {
	dtos := make([]PalletDTO, 0, len(pallets))
	for _, p := range pallets {
		dtos = append(dtos, ToPalletDTO(p, sel != nil && sel.Contains(p.RFIDID)))
	}
	return dtos
}

// ToSelectionDTO converts a selection
func ToSelectionDTO(sel *domain.Selection, autoClearPending bool) *SelectionDTO {
	pallets := sel.Pallets()
	dtos := make([]PalletDTO, 0, len(pallets))
	for _, p := range pallets {
		dtos = append(dtos, ToPalletDTO(p, true))
	}
	return &SelectionDTO{
		Pallets:          dtos,
		Stats:            sel.Stats(),
		WeightInfo:       sel.WeightInfo(),
		AutoClearPending: autoClearPending,
	}
}

// ToToggleResultDTO converts a toggle result
func ToToggleResultDTO(result domain.ToggleResult, sel *domain.Selection) *ToggleResultDTO {
	return &ToggleResultDTO{
		Action:     string(result.Action),
		PalletID:   result.PalletID,
		Advisory:   result.Advisory,
		WeightInfo: sel.WeightInfo(),
		Selected:   sel.Len(),
	}
}

// ToPendingReleaseDTO converts a pending release
func ToPendingReleaseDTO(p *PendingRelease) *PendingReleaseDTO {
	if p == nil {
		return nil
	}
	return &PendingReleaseDTO{
		PalletIDs:     p.PalletIDs(),
		GrossWeightKg: domain.ComputeStats(p.Pallets).TotalGrossWeight,
		Description:   p.Description,
		Notes:         p.Notes,
		CreatedBy:     p.CreatedBy,
		AssignedAt:    p.AssignedAt,
		Attempts:      p.Attempts,
		LastError:     p.LastError,
	}
}

// ToReleaseDTO converts a domain Release to ReleaseDTO
func ToReleaseDTO(r *domain.Release) *ReleaseDTO {
	if r == nil {
		return nil
	}
	items := r.ShipmentItems
	if items == nil {
		items = []domain.ShipmentLineItem{}
	}
	return &ReleaseDTO{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		Notes:         r.Notes,
		CreatedBy:     r.CreatedBy,
		CreatedAt:     r.CreatedAt,
		ShipmentItems: items,
		Totals:        domain.Totals(items),
	}
}

// ToReleaseSummaryDTO converts a domain Release to ReleaseSummaryDTO
func ToReleaseSummaryDTO(r domain.Release) ReleaseSummaryDTO {
	return ReleaseSummaryDTO{
		ID:        r.ID,
		Name:      r.Name,
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
		Totals:    domain.Totals(r.ShipmentItems),
	}
}
