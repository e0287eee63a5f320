package application

import (
	"fmt"
	"sync"
	"time"

	"github.com/wms-platform/tarima-dispatch/internal/domain"
	"github.com/wms-platform/tarima-dispatch/pkg/errors"
	"github.com/wms-platform/tarima-dispatch/pkg/logging"
	"github.com/wms-platform/tarima-dispatch/pkg/metrics"
)

// SessionConfig configures an operator session
type SessionConfig struct {
	WeightLimitKg  float64
	AutoClearDelay time.Duration
}

// DefaultSessionConfig returns the standard ceiling and grace period
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		WeightLimitKg:  domain.DefaultWeightLimitKg,
		AutoClearDelay: DefaultAutoClearDelay,
	}
}

// FetchState is the loading/error state of the inventory snapshot
type FetchState struct {
	Loading   bool                    `json:"loading"`
	Error     string                  `json:"error,omitempty"`
	FetchedAt *time.Time              `json:"fetchedAt,omitempty"`
	Rejected  []domain.RejectedPallet `json:"rejected,omitempty"`
}

// Session owns the state of the single operator session: the inventory
// snapshot, the selection, the tab and the order filter. Every mutation of
// the inventory and the selection happens under one lock so both views
// always change together.
type Session struct {
	mu        sync.Mutex
	inventory *domain.Inventory
	selection *domain.Selection
	tab       domain.InventoryTab
	filter    *domain.OrderFilter
	fetch     FetchState

	autoClear *AutoClear
	metrics   *metrics.Metrics
	logger    *logging.Logger
}

// NewSession creates an empty session
func NewSession(config SessionConfig, m *metrics.Metrics, logger *logging.Logger) *Session {
	inv, _ := domain.NewInventory(nil)
	s := &Session{
		inventory: inv,
		selection: domain.NewSelection(config.WeightLimitKg),
		tab:       domain.TabAll,
		metrics:   m,
		logger:    logger.WithComponent("session"),
	}
	s.autoClear = NewAutoClear(config.AutoClearDelay, s.clearIfUnchanged)
	return s
}

// InventoryView returns the pallets visible under the current tab and order filter
func (s *Session) InventoryView() *InventoryViewDTO {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inventoryViewLocked()
}

// InventoryViewFor returns the listing under tab without switching to it
func (s *Session) InventoryViewFor(tab domain.InventoryTab) *InventoryViewDTO {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked(tab)
}

func (s *Session) inventoryViewLocked() *InventoryViewDTO {
	return s.viewLocked(s.tab)
}

func (s *Session) viewLocked(tab domain.InventoryTab) *InventoryViewDTO {
	visible := s.inventory.Filter(tab)

	var filter *OrderFilterDTO
	if s.filter != nil {
		matched, unmatched := s.filter.Apply(visible)
		visible = matched
		filter = &OrderFilterDTO{
			Pairs:     s.filter.Keys(),
			Unmatched: unmatched,
		}
	}

	return &InventoryViewDTO{
		Tab:         string(tab),
		Pallets:     ToPalletDTOs(visible, s.selection),
		Total:       s.inventory.Len(),
		Visible:     len(visible),
		OrderFilter: filter,
		FetchState:  s.fetch,
	}
}

// SetTab switches the inventory tab. A tab change clears the selection.
func (s *Session) SetTab(tab domain.InventoryTab) *InventoryViewDTO {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tab != s.tab {
		s.tab = tab
		if !s.selection.IsEmpty() {
			s.selection.Clear()
			s.selectionChangedLocked()
			s.logger.Info("Selection cleared on tab change", "tab", string(tab))
		}
	}
	return s.inventoryViewLocked()
}

// Toggle adds or removes a pallet from the selection
func (s *Session) Toggle(id int64) (*ToggleResultDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selection.Remove(id) {
		s.selectionChangedLocked()
		return ToToggleResultDTO(domain.ToggleResult{Action: domain.ToggleRemoved, PalletID: id}, s.selection), nil
	}

	p, ok := s.inventory.Find(id)
	if !ok {
		return nil, errors.ErrNotFoundWithID("pallet", fmt.Sprintf("%d", id))
	}

	result, err := s.selection.Toggle(p)
	if err != nil {
		s.metrics.RecordWeightRejection()
		s.logger.Warn("Pallet rejected", "rfidId", id, "error", err.Error())
		return nil, toggleError(err)
	}

	s.selectionChangedLocked()
	return ToToggleResultDTO(result, s.selection), nil
}

// Remove drops a pallet from the selection. Removing a non-member is a no-op.
func (s *Session) Remove(id int64) *SelectionDTO {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selection.Remove(id) {
		s.selectionChangedLocked()
	}
	return ToSelectionDTO(s.selection, s.autoClearPendingLocked())
}

// ClearSelection empties the selection
func (s *Session) ClearSelection() *SelectionDTO {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selection.Clear()
	s.selectionChangedLocked()
	return ToSelectionDTO(s.selection, false)
}

// Selection returns the members with their stats and weight info
func (s *Session) Selection() *SelectionDTO {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ToSelectionDTO(s.selection, s.autoClearPendingLocked())
}

// SelectionSnapshot returns a copy of the members and their stats
func (s *Session) SelectionSnapshot() ([]domain.Pallet, domain.SelectionStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Pallets(), s.selection.Stats()
}

// PendingSubset splits the selection into pallets still to process and IDs already assigned
func (s *Session) PendingSubset() ([]domain.Pallet, []int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Partition()
}

// ApplyProcessed marks pallets assigned in both the inventory and the selection at once
func (s *Session) ApplyProcessed(ids []int64) domain.SyncResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := domain.ApplyProcessedStatus(s.inventory, s.selection, ids)
	s.selectionChangedLocked()
	return result
}

// SetOrderFilter restricts the listing to the given order pairs. The selection is untouched.
func (s *Session) SetOrderFilter(keys []domain.OrderKey) *InventoryViewDTO {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filter = domain.NewOrderFilter(keys)
	return s.inventoryViewLocked()
}

// ClearOrderFilter restores the full listing
func (s *Session) ClearOrderFilter() *InventoryViewDTO {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filter = nil
	return s.inventoryViewLocked()
}

// FetchState returns the current loading/error state
func (s *Session) FetchState() FetchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetch
}

func (s *Session) beginFetch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetch.Loading = true
}

// completeFetch replaces the inventory wholesale. Selected pallets the new
// snapshot reports as assigned are marked processed; the flag never goes back.
func (s *Session) completeFetch(pallets []domain.Pallet, fetchErr error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fetch.Loading = false
	if fetchErr != nil {
		s.fetch.Error = fetchErr.Error()
		return fetchErr
	}

	inv, rejected := domain.NewInventory(pallets)
	if len(rejected) > 0 {
		s.logger.Warn("Inventory snapshot records left out", "rejected", len(rejected), "records", rejected)
	}

	now := time.Now().UTC()
	s.inventory = inv
	s.fetch.Error = ""
	s.fetch.FetchedAt = &now
	s.fetch.Rejected = rejected

	var assigned []int64
	for _, p := range s.selection.Pallets() {
		if current, ok := inv.Find(p.RFIDID); ok && current.AssignedToDelivery {
			assigned = append(assigned, p.RFIDID)
		}
	}
	if len(assigned) > 0 {
		domain.ApplyProcessedStatus(nil, s.selection, assigned)
	}
	s.selectionChangedLocked()
	return nil
}

// selectionChangedLocked updates gauges and re-keys the auto-clear task
func (s *Session) selectionChangedLocked() {
	s.metrics.SetSelection(s.selection.Len(), s.selection.TotalGrossWeight())

	if s.selection.AllProcessed() {
		s.autoClear.Schedule(SelectionHash(s.selection.Pallets()))
		return
	}
	s.autoClear.Cancel()
}

func (s *Session) autoClearPendingLocked() bool {
	_, pending := s.autoClear.Pending()
	return pending
}

// clearIfUnchanged runs when the auto-clear grace period elapses
func (s *Session) clearIfUnchanged(hash uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.selection.AllProcessed() || SelectionHash(s.selection.Pallets()) != hash {
		return
	}

	cleared := s.selection.Len()
	s.selection.Clear()
	s.selectionChangedLocked()
	s.logger.Info("Processed selection cleared", "pallets", cleared)
}
