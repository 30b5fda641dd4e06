package ausfolio

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nlawrence/ausfolio/date"
)

// Record is the aggregate root for decomposition: a signed monetary
// amount with a category and classification, owning zero or more line
// items. All mutations go through the Record's methods, which gate every
// change on the allocation validator; a rejected mutation leaves the
// prior state untouched.
type Record struct {
	ID             uuid.UUID
	Date           date.Date
	Amount         Money
	Category       Category
	Classification Classification
	Note           string
	// Unit optionally references the owning organizational unit. The
	// hierarchy itself is an external collaborator; the engine neither
	// validates nor traverses it.
	Unit uuid.UUID

	lineItems []LineItem
}

// LineItem is a named share of a record's amount. The sum of a record's
// line item amounts need not equal the record amount: partial
// decomposition is permitted.
type LineItem struct {
	ID          uuid.UUID
	RecordID    uuid.UUID
	Description string
	Amount      Money

	allocations []Allocation
}

// AllocationSpec describes one allocation of a committed set.
type AllocationSpec struct {
	Percent  Percent
	Category Category
}

// NewRecord creates a validated record with no line items. The zero date
// is quick-fixed to today.
func NewRecord(day date.Date, note string, amount Money, category Category, class Classification) (*Record, error) {
	if day.IsZero() {
		day = date.Today()
	}
	if !category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}
	if !class.IsValid() {
		return nil, fmt.Errorf("%w: unknown classification %q", ErrValidation, class)
	}
	return &Record{
		ID:             uuid.New(),
		Date:           day,
		Amount:         amount,
		Category:       category,
		Classification: class,
		Note:           note,
	}, nil
}

// AddLineItem appends a line item to the record. The description must be
// non-empty after trimming and the amount must be in the record's
// currency.
func (r *Record) AddLineItem(description string, amount Money) (LineItem, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return LineItem{}, fmt.Errorf("%w: line item description is missing", ErrValidation)
	}
	if !sameCurrency(amount, r.Amount) {
		return LineItem{}, fmt.Errorf("%w: line item currency %s does not match record currency %s", ErrValidation, amount.Currency(), r.Amount.Currency())
	}
	li := LineItem{
		ID:          uuid.New(),
		RecordID:    r.ID,
		Description: description,
		Amount:      amount,
	}
	r.lineItems = append(r.lineItems, li)
	return li, nil
}

// RemoveLineItem removes a line item, and with it its allocations.
func (r *Record) RemoveLineItem(id uuid.UUID) error {
	i := r.lineItemIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: line item %s is not part of record %s", ErrConsistency, id, r.ID)
	}
	r.lineItems = slices.Delete(r.lineItems, i, i+1)
	return nil
}

// AddAllocation adds one allocation to a line item. The resulting set is
// validated before committing: every member must be in range with a known
// category, and the running total must not exceed 100. The full
// sum-to-100 invariant is enforced when the set is committed with
// SetAllocations or checked with Validate, so allocations can be built up
// step by step.
func (r *Record) AddAllocation(lineItemID uuid.UUID, percent Percent, category Category) (Allocation, error) {
	i := r.lineItemIndex(lineItemID)
	if i < 0 {
		return Allocation{}, fmt.Errorf("%w: line item %s is not part of record %s", ErrConsistency, lineItemID, r.ID)
	}
	a := Allocation{
		ID:         uuid.New(),
		LineItemID: lineItemID,
		Percent:    percent,
		Category:   category,
	}
	// Validate a candidate copy so a rejection leaves no partial write.
	candidate := append(slices.Clone(r.lineItems[i].allocations), a)
	if err := validatePartial(candidate); err != nil {
		return Allocation{}, err
	}
	r.lineItems[i].allocations = candidate
	return a, nil
}

// RemoveAllocation removes a single allocation by ID.
func (r *Record) RemoveAllocation(id uuid.UUID) error {
	for i := range r.lineItems {
		allocs := r.lineItems[i].allocations
		for j := range allocs {
			if allocs[j].ID == id {
				r.lineItems[i].allocations = slices.Delete(allocs, j, j+1)
				return nil
			}
		}
	}
	return fmt.Errorf("%w: allocation %s is not part of record %s", ErrConsistency, id, r.ID)
}

// SetAllocations atomically replaces a line item's allocation set. The
// candidate set must satisfy the full invariant (sum to 100 within
// tolerance, or be empty); otherwise the line item keeps its previous
// allocations.
func (r *Record) SetAllocations(lineItemID uuid.UUID, specs ...AllocationSpec) error {
	i := r.lineItemIndex(lineItemID)
	if i < 0 {
		return fmt.Errorf("%w: line item %s is not part of record %s", ErrConsistency, lineItemID, r.ID)
	}
	candidate := make([]Allocation, 0, len(specs))
	for _, s := range specs {
		candidate = append(candidate, Allocation{
			ID:         uuid.New(),
			LineItemID: lineItemID,
			Percent:    s.Percent,
			Category:   s.Category,
		})
	}
	if err := ValidateAllocations(candidate); err != nil {
		return err
	}
	r.lineItems[i].allocations = candidate
	return nil
}

// PercentageOfRecord returns the line item's share of the record amount
// as a fraction clamped to [0,1]. It is 0 when the record amount is zero.
func (r *Record) PercentageOfRecord(lineItemID uuid.UUID) (decimal.Decimal, error) {
	i := r.lineItemIndex(lineItemID)
	if i < 0 {
		return decimal.Zero, fmt.Errorf("%w: line item %s is not part of record %s", ErrConsistency, lineItemID, r.ID)
	}
	if r.Amount.IsZero() {
		return decimal.Zero, nil
	}
	share := r.lineItems[i].Amount.Abs().Ratio(r.Amount.Abs())
	one := decimal.NewFromInt(1)
	if share.GreaterThan(one) {
		return one, nil
	}
	return share, nil
}

// Validate checks the full allocation invariant on every line item.
// Line items with zero allocations are valid (unallocated).
func (r *Record) Validate() error {
	for _, li := range r.lineItems {
		if err := ValidateAllocations(li.allocations); err != nil {
			return fmt.Errorf("line item %q: %w", li.Description, err)
		}
	}
	return nil
}

// LineItems returns an iterator over the record's line items in
// insertion order.
func (r *Record) LineItems() iter.Seq[LineItem] {
	return func(yield func(LineItem) bool) {
		for _, li := range r.lineItems {
			if !yield(li) {
				return
			}
		}
	}
}

// LineItem returns the line item with the given ID, or false.
func (r *Record) LineItem(id uuid.UUID) (LineItem, bool) {
	i := r.lineItemIndex(id)
	if i < 0 {
		return LineItem{}, false
	}
	return r.lineItems[i], true
}

// LineItemTotal returns the sum of all line item amounts.
func (r *Record) LineItemTotal() Money {
	total := M(0, r.Amount.Currency())
	for _, li := range r.lineItems {
		total = total.Add(li.Amount)
	}
	return total
}

func (r *Record) lineItemIndex(id uuid.UUID) int {
	return slices.IndexFunc(r.lineItems, func(li LineItem) bool { return li.ID == id })
}

// Allocations returns an iterator over the line item's allocations in
// insertion order.
func (li LineItem) Allocations() iter.Seq[Allocation] {
	return func(yield func(Allocation) bool) {
		for _, a := range li.allocations {
			if !yield(a) {
				return
			}
		}
	}
}

// Allocated returns the total allocated percentage.
func (li LineItem) Allocated() Percent { return sumPercent(li.allocations) }

// FullyAllocated reports whether the line item's allocations sum to 100
// within tolerance. Unallocated line items are not fully allocated.
func (li LineItem) FullyAllocated() bool {
	return len(li.allocations) > 0 && li.Allocated().isComplete()
}

// MarshalJSON implements the json.Marshaler interface for Record.
func (r *Record) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", "record")
	w.Append("id", r.ID)
	w.Append("date", r.Date)
	w.EmbedFrom(r.Amount)
	w.Append("category", r.Category)
	w.Append("classification", r.Classification)
	w.Optional("note", r.Note)
	w.Optional("unit", r.Unit)
	return w.MarshalJSON()
}

// MarshalJSON implements the json.Marshaler interface for LineItem.
func (li LineItem) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", "line-item")
	w.Append("id", li.ID)
	w.Append("record", li.RecordID)
	w.Append("description", li.Description)
	w.EmbedFrom(li.Amount)
	return w.MarshalJSON()
}
