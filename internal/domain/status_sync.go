package domain

// SyncResult reports how many records changed in each collection
type SyncResult struct {
	InventoryUpdated int `json:"inventoryUpdated"`
	SelectionUpdated int `json:"selectionUpdated"`
}

// ApplyProcessedStatus sets AssignedToDelivery on every pallet in both the
// inventory and the selection whose identifier is in processed. Both
// collections are always updated together so the two views cannot diverge.
// Either collection may be nil.
func ApplyProcessedStatus(inv *Inventory, sel *Selection, processed []int64) SyncResult {
	ids := idSet(processed)
	var result SyncResult
	if inv != nil {
		result.InventoryUpdated = inv.markProcessed(ids)
	}
	if sel != nil {
		result.SelectionUpdated = sel.markProcessed(ids)
	}
	return result
}
