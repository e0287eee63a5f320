package domain

import "fmt"

// Pallet is one physical inventory unit ("tarima") as reported by the inventory service.
// Everything except AssignedToDelivery is read-only once fetched.
type Pallet struct {
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
}

// Validate rejects pallets that cannot enter any collection
func (p Pallet) Validate() error {
	if p.GrossWeight < 0 || p.NetWeight < 0 {
		return fmt.Errorf("pallet %d: %w", p.RFIDID, ErrNegativeWeight)
	}
	return nil
}

// OrderKey returns the (PO, customer item) pair the pallet ships under
func (p Pallet) OrderKey() OrderKey {
	return OrderKey{PONumber: p.PONumber, ItemNumber: p.ItemNumber}
}

// Units returns TotalUnits, deriving it from cases when the service sent zero
func (p Pallet) Units() int {
	if p.TotalUnits > 0 {
		return p.TotalUnits
	}
	return p.Cases * p.UnitsPerCase
}

// PalletIDs extracts identifiers in order
func PalletIDs(pallets []Pallet) []int64 {
	ids := make([]int64, len(pallets))
	for i, p := range pallets {
		ids[i] = p.RFIDID
	}
	return ids
}
