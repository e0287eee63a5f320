package domain

import (
	"github.com/shopspring/decimal"
)

// DefaultWeightLimitKg is the gross weight ceiling of a selection
const DefaultWeightLimitKg = 20000

// Weight thresholds as fractions of the ceiling
var (
	advisoryThreshold  = decimal.RequireFromString("0.90")
	nearLimitThreshold = decimal.RequireFromString("0.80")
	atLimitThreshold   = decimal.RequireFromString("0.95")
	hundred            = decimal.NewFromInt(100)
)

// ToggleAction says what a toggle did
type ToggleAction string

const (
	ToggleAdded   ToggleAction = "added"
	ToggleRemoved ToggleAction = "removed"
)

// AdvisoryLevel grades a non-blocking weight advisory
type AdvisoryLevel string

const (
	AdvisoryApproachingLimit AdvisoryLevel = "approaching-limit"
	AdvisoryAtLimit          AdvisoryLevel = "at-limit"
)

// WeightAdvisory is raised when an admitted pallet leaves the selection at or
// above 90% of the ceiling. It never blocks the insertion.
type WeightAdvisory struct {
	Level         AdvisoryLevel `json:"level"`
	TotalWeightKg float64       `json:"totalWeightKg"`
	RemainingKg   float64       `json:"remainingKg"`
	PercentUsed   float64       `json:"percentUsed"`
}

// ToggleResult describes a successful toggle
type ToggleResult struct {
	Action   ToggleAction    `json:"action"`
	PalletID int64           `json:"palletId"`
	Advisory *WeightAdvisory `json:"advisory,omitempty"`
}

// Selection is the ordered working set of pallets the operator intends to
// process. Its gross weight never exceeds the ceiling.
type Selection struct {
	limit   decimal.Decimal
	pallets []Pallet
}

// NewSelection creates an empty selection. A non-positive limit uses DefaultWeightLimitKg.
func NewSelection(limitKg float64) *Selection {
	if limitKg <= 0 {
		limitKg = DefaultWeightLimitKg
	}
	return &Selection{limit: decimal.NewFromFloat(limitKg)}
}

// LimitKg returns the weight ceiling
func (s *Selection) LimitKg() float64 {
	return s.limit.InexactFloat64()
}

// Len returns the number of selected pallets
func (s *Selection) Len() int {
	return len(s.pallets)
}

// IsEmpty reports whether nothing is selected
func (s *Selection) IsEmpty() bool {
	return len(s.pallets) == 0
}

// Pallets returns a copy of the members in selection order
func (s *Selection) Pallets() []Pallet {
	return append([]Pallet(nil), s.pallets...)
}

// Contains reports whether the pallet is selected
func (s *Selection) Contains(id int64) bool {
	return s.indexOf(id) >= 0
}

func (s *Selection) indexOf(id int64) int {
	for i, p := range s.pallets {
		if p.RFIDID == id {
			return i
		}
	}
	return -1
}

func (s *Selection) grossWeight() decimal.Decimal {
	return sumWeights(s.pallets, func(p Pallet) float64 { return p.GrossWeight })
}

// TotalGrossWeight returns the summed gross weight in kg
func (s *Selection) TotalGrossWeight() float64 {
	return s.grossWeight().InexactFloat64()
}

// Toggle removes the pallet if selected, otherwise tries to add it.
// Adding fails with *WeightLimitExceededError when the new total would exceed the ceiling.
func (s *Selection) Toggle(p Pallet) (ToggleResult, error) {
	if s.Remove(p.RFIDID) {
		return ToggleResult{Action: ToggleRemoved, PalletID: p.RFIDID}, nil
	}

	if err := p.Validate(); err != nil {
		return ToggleResult{}, err
	}

	current := s.grossWeight()
	weight := decimal.NewFromFloat(p.GrossWeight)
	total := current.Add(weight)

	if total.GreaterThan(s.limit) {
		return ToggleResult{}, &WeightLimitExceededError{
			PalletID:        p.RFIDID,
			CurrentWeightKg: current.InexactFloat64(),
			PalletWeightKg:  p.GrossWeight,
			ExcessKg:        total.Sub(s.limit).InexactFloat64(),
			LimitKg:         s.limit.InexactFloat64(),
		}
	}

	s.pallets = append(s.pallets, p)

	return ToggleResult{
		Action:   ToggleAdded,
		PalletID: p.RFIDID,
		Advisory: s.advisoryFor(total),
	}, nil
}

func (s *Selection) advisoryFor(total decimal.Decimal) *WeightAdvisory {
	ratio := total.Div(s.limit)
	if ratio.LessThan(advisoryThreshold) {
		return nil
	}

	level := AdvisoryApproachingLimit
	if ratio.GreaterThanOrEqual(atLimitThreshold) {
		level = AdvisoryAtLimit
	}

	return &WeightAdvisory{
		Level:         level,
		TotalWeightKg: total.InexactFloat64(),
		RemainingKg:   decimal.Max(s.limit.Sub(total), decimal.Zero).InexactFloat64(),
		PercentUsed:   ratio.Mul(hundred).Round(2).InexactFloat64(),
	}
}

// Remove drops the pallet from the selection. It reports whether it was a member.
func (s *Selection) Remove(id int64) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.pallets = append(s.pallets[:i:i], s.pallets[i+1:]...)
	return true
}

// Clear empties the selection
func (s *Selection) Clear() {
	s.pallets = nil
}

// MarkProcessed sets AssignedToDelivery on matching members without removing them.
// It returns how many members changed.
func (s *Selection) MarkProcessed(ids []int64) int {
	return s.markProcessed(idSet(ids))
}

func (s *Selection) markProcessed(ids map[int64]struct{}) int {
	changed := 0
	for i := range s.pallets {
		if _, ok := ids[s.pallets[i].RFIDID]; ok && !s.pallets[i].AssignedToDelivery {
			s.pallets[i].AssignedToDelivery = true
			changed++
		}
	}
	return changed
}

// Partition splits members into those still to be processed and the IDs of
// those already assigned to a delivery.
func (s *Selection) Partition() (pending []Pallet, alreadyAssigned []int64) {
	for _, p := range s.pallets {
		if p.AssignedToDelivery {
			alreadyAssigned = append(alreadyAssigned, p.RFIDID)
			continue
		}
		pending = append(pending, p)
	}
	return pending, alreadyAssigned
}

// AllProcessed reports whether the selection is non-empty and every member is assigned
func (s *Selection) AllProcessed() bool {
	if len(s.pallets) == 0 {
		return false
	}
	for _, p := range s.pallets {
		if !p.AssignedToDelivery {
			return false
		}
	}
	return true
}

// Stats returns summary statistics of the members
func (s *Selection) Stats() SelectionStats {
	return ComputeStats(s.pallets)
}

// WeightInfo reports how much of the ceiling is in use
func (s *Selection) WeightInfo() WeightInfo {
	total := s.grossWeight()
	ratio := decimal.Zero
	if s.limit.IsPositive() {
		ratio = total.Div(s.limit)
	}

	return WeightInfo{
		TotalWeightKg: total.InexactFloat64(),
		LimitKg:       s.limit.InexactFloat64(),
		PercentUsed:   ratio.Mul(hundred).Round(2).InexactFloat64(),
		RemainingKg:   decimal.Max(s.limit.Sub(total), decimal.Zero).InexactFloat64(),
		NearLimit:     ratio.GreaterThanOrEqual(nearLimitThreshold),
		AtLimit:       ratio.GreaterThanOrEqual(atLimitThreshold),
	}
}

func idSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func sumWeights(pallets []Pallet, weight func(Pallet) float64) decimal.Decimal {
	total := decimal.Zero
	for _, p := range pallets {
		total = total.Add(decimal.NewFromFloat(weight(p)))
	}
	return total
}
