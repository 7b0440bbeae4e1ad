package packing

import (
	"fmt"
	"math"
)

// MaxItemCentimetres bounds each item dimension so derived volumes stay finite.
const MaxItemCentimetres = 5000.0

// ValidateInput checks a request against the engine input contract before
// Pack is called. Non-positive container dimensions are allowed; they pack
// nothing. A maxUnits of 0 disables the unit cap.
func ValidateInput(items []ItemSpec, c Container, maxUnits int) error {
	if !c.finite() {
		return ErrInvalidContainer
	}

	total := 0
	for i, item := range items {
		if item.ID == "" {
			return fmt.Errorf("item %d: %w", i, ErrInvalidItem)
		}
		for _, v := range []float64{item.Length, item.Width, item.Height} {
			if math.IsNaN(v) || v <= 0 || v > MaxItemCentimetres {
				return fmt.Errorf("item %q: dimensions must be in (0, %g] cm: %w", item.ID, MaxItemCentimetres, ErrInvalidItem)
			}
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("item %q: %w", item.ID, ErrInvalidItem)
		}
		if maxUnits > 0 && item.Quantity > maxUnits-total {
			return fmt.Errorf("%d units requested, limit is %d: %w", UnitCount(items), maxUnits, ErrTooManyUnits)
		}
		total = addUnits(total, item.Quantity)
	}
	return nil
}

// UnitCount returns the number of physical units items expand to,
// saturating at math.MaxInt.
func UnitCount(items []ItemSpec) int {
	total := 0
	for _, item := range items {
		if item.Quantity > 0 {
			total = addUnits(total, item.Quantity)
		}
	}
	return total
}

func addUnits(total, n int) int {
	if n > math.MaxInt-total {
		return math.MaxInt
	}
	return total + n
}
