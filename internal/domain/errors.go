package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrPalletNotFound      = errors.New("pallet not found")
	ErrNegativeWeight      = errors.New("invalid pallet: weight must not be negative")
	ErrDuplicatePallet     = errors.New("invalid inventory: duplicate pallet identifier")
	ErrInvalidTab          = errors.New("invalid inventory tab")
	ErrReleaseNameRequired = errors.New("release name is required")
	ErrNoLineItems         = errors.New("invalid release: at least one line item is required")
	ErrInvalidLineItem     = errors.New("invalid release line item")
)

// WeightLimitExceededError is returned when adding a pallet would push the
// selection over its gross weight ceiling. The selection is left unchanged.
type WeightLimitExceededError struct {
	PalletID        int64
	CurrentWeightKg float64
	PalletWeightKg  float64
	ExcessKg        float64
	LimitKg         float64
}

func (e *WeightLimitExceededError) Error() string {
	return fmt.Sprintf(
		"weight limit exceeded: pallet %d (%.2f kg) would bring the selection from %.2f kg to %.2f kg, %.2f kg over the %.0f kg limit",
		e.PalletID, e.PalletWeightKg, e.CurrentWeightKg, e.CurrentWeightKg+e.PalletWeightKg, e.ExcessKg, e.LimitKg,
	)
}
