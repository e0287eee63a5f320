package domain

import "fmt"

// InventoryTab is the operator's view filter over the inventory
type InventoryTab string

const (
	TabAll       InventoryTab = "all"
	TabAvailable InventoryTab = "available"
	TabAssigned  InventoryTab = "assigned"
)

// ParseInventoryTab validates a tab name. Empty means TabAll.
func ParseInventoryTab(value string) (InventoryTab, error) {
	switch tab := InventoryTab(value); tab {
	case "":
		return TabAll, nil
	case TabAll, TabAvailable, TabAssigned:
		return tab, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTab, value)
	}
}

// Includes reports whether a pallet is visible under the tab
func (t InventoryTab) Includes(p Pallet) bool {
	switch t {
	case TabAvailable:
		return !p.AssignedToDelivery
	case TabAssigned:
		return p.AssignedToDelivery
	default:
		return true
	}
}

// Inventory is the full pallet snapshot last fetched from the inventory service
type Inventory struct {
	pallets []Pallet
	index   map[int64]int
}

// RejectedPallet is a snapshot record left out of the inventory
type RejectedPallet struct {
	RFIDID int64  `json:"rfidId"`
	Reason string `json:"reason"`
}

// NewInventory builds an inventory. Records with a negative weight or an
// identifier already seen are left out and returned; the first occurrence of
// an identifier wins.
func NewInventory(pallets []Pallet) (*Inventory, []RejectedPallet) {
	inv := &Inventory{
		pallets: make([]Pallet, 0, len(pallets)),
		index:   make(map[int64]int, len(pallets)),
	}

	var rejected []RejectedPallet
	for _, p := range pallets {
		if err := p.Validate(); err != nil {
			rejected = append(rejected, RejectedPallet{RFIDID: p.RFIDID, Reason: err.Error()})
			continue
		}
		if _, dup := inv.index[p.RFIDID]; dup {
			rejected = append(rejected, RejectedPallet{
				RFIDID: p.RFIDID,
				Reason: fmt.Sprintf("%v: %d", ErrDuplicatePallet, p.RFIDID),
			})
			continue
		}
		inv.index[p.RFIDID] = len(inv.pallets)
		inv.pallets = append(inv.pallets, p)
	}

	return inv, rejected
}

// Len returns the number of pallets
func (inv *Inventory) Len() int {
	return len(inv.pallets)
}

// Find returns the pallet with the given identifier
func (inv *Inventory) Find(id int64) (Pallet, bool) {
	i, ok := inv.index[id]
	if !ok {
		return Pallet{}, false
	}
	return inv.pallets[i], true
}

// Filter returns the pallets visible under tab
func (inv *Inventory) Filter(tab InventoryTab) []Pallet {
	out := make([]Pallet, 0, len(inv.pallets))
	for _, p := range inv.pallets {
		if tab.Includes(p) {
			out = append(out, p)
		}
	}
	return out
}

// markProcessed flips AssignedToDelivery on matching pallets and returns how many changed
func (inv *Inventory) markProcessed(ids map[int64]struct{}) int {
	changed := 0
	for i := range inv.pallets {
		if _, ok := ids[inv.pallets[i].RFIDID]; ok && !inv.pallets[i].AssignedToDelivery {
			inv.pallets[i].AssignedToDelivery = true
			changed++
		}
	}
	return changed
}
