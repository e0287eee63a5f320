package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SelectionStats summarises a set of pallets
type SelectionStats struct {
	Pallets          int     `json:"pallets"`
	TotalCases       int     `json:"totalCases"`
	TotalQuantity    float64 `json:"totalQuantity"`
	TotalGrossWeight float64 `json:"totalGrossWeight"`
	TotalNetWeight   float64 `json:"totalNetWeight"`
	PredominantUnit  string  `json:"predominantUnit"`
	UnitLabel        string  `json:"unitLabel"`
}

// WeightInfo reports weight ceiling usage.
// NearLimit is set from 80% of the ceiling and AtLimit from 95%.
type WeightInfo struct {
	TotalWeightKg float64 `json:"totalWeightKg"`
	LimitKg       float64 `json:"limitKg"`
	PercentUsed   float64 `json:"percentUsed"`
	RemainingKg   float64 `json:"remainingKg"`
	NearLimit     bool    `json:"nearLimit"`
	AtLimit       bool    `json:"atLimit"`
}

// ComputeStats aggregates cases, quantity and weights over pallets
func ComputeStats(pallets []Pallet) SelectionStats {
	stats := SelectionStats{Pallets: len(pallets)}
	quantity := decimal.Zero

	for _, p := range pallets {
		stats.TotalCases += p.Cases
		quantity = quantity.Add(decimal.NewFromFloat(p.Quantity))
	}

	stats.TotalQuantity = quantity.InexactFloat64()
	stats.TotalGrossWeight = sumWeights(pallets, func(p Pallet) float64 { return p.GrossWeight }).InexactFloat64()
	stats.TotalNetWeight = sumWeights(pallets, func(p Pallet) float64 { return p.NetWeight }).InexactFloat64()
	stats.PredominantUnit = PredominantUnit(pallets)
	stats.UnitLabel = UnitLabel(stats.PredominantUnit)

	return stats
}

// PredominantUnit returns the most frequent unit of measure.
// On a tie the unit encountered first wins. Blank units are ignored.
func PredominantUnit(pallets []Pallet) string {
	counts := make(map[string]int)
	var order []string

	for _, p := range pallets {
		unit := strings.TrimSpace(p.UnitOfMeasure)
		if unit == "" {
			continue
		}
		if _, seen := counts[unit]; !seen {
			order = append(order, unit)
		}
		counts[unit]++
	}

	best, bestCount := "", 0
	for _, unit := range order {
		if counts[unit] > bestCount {
			best, bestCount = unit, counts[unit]
		}
	}
	return best
}

// UnitLabel converts a unit code into its display label.
// "MIL" (thousands) is shown as "Millares"; other codes are shown as-is.
func UnitLabel(code string) string {
	if strings.EqualFold(strings.TrimSpace(code), "MIL") {
		return "Millares"
	}
	return code
}
