package ausfolio

import (
	"fmt"

	"github.com/google/uuid"
)

// Allocation assigns a percentage of a line item's value to a tax
// category. It references its owning line item by ID; the object graph
// carries no back-pointers.
type Allocation struct {
	ID         uuid.UUID
	LineItemID uuid.UUID
	Percent    Percent
	Category   Category
}

// ValidateAllocations checks the full invariant over a set of
// allocations. The set is valid iff every percentage is in [0,100] with
// at most two decimal places, every category belongs to the closed
// category set, and the percentages sum to 100 within a 0.01 tolerance.
// An empty set is valid (unallocated line item).
//
// It is a pure function: it never mutates its input and never terminates
// the process, reporting failures through typed errors instead.
func ValidateAllocations(allocs []Allocation) error {
	if len(allocs) == 0 {
		return nil
	}
	if err := validateMembers(allocs); err != nil {
		return err
	}
	if sum := sumPercent(allocs); !sum.isComplete() {
		return fmt.Errorf("%w: allocation percentages must sum to 100, got %s", ErrInvariant, sum)
	}
	return nil
}

// validateMembers checks each allocation in isolation: range, precision
// and category membership.
func validateMembers(allocs []Allocation) error {
	for _, a := range allocs {
		if !a.Percent.InRange() {
			return fmt.Errorf("%w: percentage %s out of range [0,100]", ErrInvariant, a.Percent)
		}
		if !a.Percent.WholePrecision() {
			return fmt.Errorf("%w: percentage %s has more than two decimal places", ErrInvariant, a.Percent)
		}
		if !a.Category.IsValid() {
			return fmt.Errorf("%w: unknown category %q", ErrValidation, a.Category)
		}
	}
	return nil
}

// validatePartial checks an in-progress allocation set: every member must
// be individually valid and the running total must not exceed 100. The
// full sum invariant is only enforced when a set is committed, so
// multi-step edits (remove one allocation, add another) remain possible.
func validatePartial(allocs []Allocation) error {
	if err := validateMembers(allocs); err != nil {
		return err
	}
	sum := sumPercent(allocs)
	if sum.value.Sub(hundred).GreaterThan(sumTolerance) {
		return fmt.Errorf("%w: allocation percentages exceed 100, got %s", ErrInvariant, sum)
	}
	return nil
}

// AmountOf returns the allocation's dollar share of a line item amount,
// rounded to currency precision (round half up).
func (a Allocation) AmountOf(lineAmount Money) Money {
	return lineAmount.MulDecimal(a.Percent.Fraction()).RoundCurrency()
}

// GSTComponent extracts the consumption tax included in the allocation's
// dollar share. At a 10% rate this is one eleventh of the tax-inclusive
// amount; the general form is amount * r / (1 + r). Categories outside
// the GST-applicable set carry no GST. The configured rate is validated
// before use.
func (a Allocation) GSTComponent(cfg Config, lineAmount Money) (Money, error) {
	if err := cfg.Validate(); err != nil {
		return Money{}, err
	}
	amount := a.AmountOf(lineAmount)
	if !a.Category.IsGSTApplicable() {
		return M(0, amount.Currency()), nil
	}
	one := newDecimal(1)
	return amount.MulDecimal(cfg.GSTRate.Div(one.Add(cfg.GSTRate))).RoundCurrency(), nil
}

// IsDeductible reports whether the allocation is tax deductible.
func (a Allocation) IsDeductible() bool { return a.Category.IsDeductible() }

// MarshalJSON implements the json.Marshaler interface for Allocation.
func (a Allocation) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", "allocation")
	w.Append("id", a.ID)
	w.Append("lineItem", a.LineItemID)
	w.Append("percent", a.Percent)
	w.Append("category", a.Category)
	return w.MarshalJSON()
}
