package ausfolio

import (
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// This file is the read-only reporting surface: every function here is a
// pure reduction over aggregates, with no caching and no side effects.
// External reporting collaborators consume these unformatted values.
//
// Cross-aggregate totals are expressed in the configured reporting
// currency. An aggregate in any other currency makes the rollup fail
// with a typed error; the engine carries no exchange rates.

// moneyTolerance is the accepted rounding slack when comparing sums of
// rounded amounts (half a cent).
var moneyTolerance = decimal.NewFromFloat(0.005)

// rollupCurrency checks that an aggregate's amounts can be combined into
// totals in the reporting currency.
func rollupCurrency(cfg Config, currency string) error {
	if currency != "" && currency != cfg.ReportingCurrency {
		return fmt.Errorf("%w: cannot roll %s amounts into %s totals", ErrValidation, currency, cfg.ReportingCurrency)
	}
	return nil
}

// AllocationTotals sums the allocation dollar amounts per category
// across a set of records.
func AllocationTotals(cfg Config, records ...*Record) (map[Category]Money, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	totals := make(map[Category]Money)
	for _, r := range records {
		if err := rollupCurrency(cfg, r.Amount.Currency()); err != nil {
			return nil, err
		}
		for li := range r.LineItems() {
			for a := range li.Allocations() {
				totals[a.Category] = totals[a.Category].Add(a.AmountOf(li.Amount))
			}
		}
	}
	return totals, nil
}

// DeductibleTotal sums the deductible allocation amounts across records.
func DeductibleTotal(cfg Config, records ...*Record) (Money, error) {
	if err := cfg.Validate(); err != nil {
		return Money{}, err
	}
	total := M(0, cfg.ReportingCurrency)
	for _, r := range records {
		if err := rollupCurrency(cfg, r.Amount.Currency()); err != nil {
			return Money{}, err
		}
		for li := range r.LineItems() {
			for a := range li.Allocations() {
				if a.IsDeductible() {
					total = total.Add(a.AmountOf(li.Amount))
				}
			}
		}
	}
	return total, nil
}

// GSTTotal sums the extracted GST components across records.
func GSTTotal(cfg Config, records ...*Record) (Money, error) {
	total := M(0, cfg.ReportingCurrency)
	for _, r := range records {
		if err := rollupCurrency(cfg, r.Amount.Currency()); err != nil {
			return Money{}, err
		}
		for li := range r.LineItems() {
			for a := range li.Allocations() {
				component, err := a.GSTComponent(cfg, li.Amount)
				if err != nil {
					return Money{}, err
				}
				total = total.Add(component)
			}
		}
	}
	return total, nil
}

// Categories yields the categories present in a totals map in sorted
// order, for stable report output.
func Categories(totals map[Category]Money) iter.Seq[Category] {
	keys := slices.Collect(maps.Keys(totals))
	slices.Sort(keys)
	return func(yield func(Category) bool) {
		for _, k := range keys {
			if !yield(k) {
				return
			}
		}
	}
}

// DecompositionStatus reports how far a record's decomposition has
// progressed and whether it holds together.
type DecompositionStatus struct {
	RecordID uuid.UUID
	// LineTotal is the sum of all line item amounts.
	LineTotal Money
	// Remainder is the record amount not covered by line items.
	Remainder Money
	// Balanced is true when the line items sum back to the record
	// amount within rounding tolerance.
	Balanced bool
	// FullyAllocated is true when every line item has a complete
	// allocation set.
	FullyAllocated bool
}

// CheckDecomposition verifies the round-trip property of a record: line
// items aggregating back to the record amount, and allocation
// completeness across all line items. A record with no line items is
// trivially unbalanced and unallocated.
func CheckDecomposition(r *Record) DecompositionStatus {
	lineTotal := r.LineItemTotal()
	remainder := r.Amount.Sub(lineTotal)

	fully := true
	n := 0
	for li := range r.LineItems() {
		n++
		if !li.FullyAllocated() {
			fully = false
		}
	}

	return DecompositionStatus{
		RecordID:       r.ID,
		LineTotal:      lineTotal,
		Remainder:      remainder,
		Balanced:       n > 0 && remainder.value.Abs().LessThan(moneyTolerance),
		FullyAllocated: n > 0 && fully,
	}
}

// GainsSummary is the cross-position rollup of realized and unrealized
// gains.
type GainsSummary struct {
	Positions  []PositionGains
	Realized   Money
	Taxable    Money
	Unrealized Money
	Credits    Money
}

// PositionGains holds the gains for a single position.
type PositionGains struct {
	Ticker     string
	Quantity   Quantity
	Realized   Money
	Taxable    Money
	Unrealized Money
}

// SummarizeGains replays every position's trade log and totals gross
// realized gains, taxable gains after discount, unrealized standing
// gains and franking credits.
func SummarizeGains(cfg Config, positions ...*Position) (GainsSummary, error) {
	if err := cfg.Validate(); err != nil {
		return GainsSummary{}, err
	}
	summary := GainsSummary{
		Positions:  make([]PositionGains, 0, len(positions)),
		Realized:   M(0, cfg.ReportingCurrency),
		Taxable:    M(0, cfg.ReportingCurrency),
		Unrealized: M(0, cfg.ReportingCurrency),
		Credits:    M(0, cfg.ReportingCurrency),
	}
	for _, p := range positions {
		if err := rollupCurrency(cfg, p.Currency()); err != nil {
			return GainsSummary{}, err
		}
		pg := PositionGains{
			Ticker:     p.Ticker,
			Quantity:   p.Quantity(),
			Unrealized: p.UnrealizedGain(),
		}
		for _, g := range p.RealizedGains(cfg) {
			pg.Realized = pg.Realized.Add(g.Gross)
			pg.Taxable = pg.Taxable.Add(g.Taxable)
		}
		summary.Positions = append(summary.Positions, pg)

		summary.Realized = summary.Realized.Add(pg.Realized)
		summary.Taxable = summary.Taxable.Add(pg.Taxable)
		summary.Unrealized = summary.Unrealized.Add(pg.Unrealized)

		credits, err := TotalFrankingCredits(cfg, p)
		if err != nil {
			return GainsSummary{}, err
		}
		summary.Credits = summary.Credits.Add(credits)
	}
	return summary, nil
}

// TotalRealizedGain sums gross realized gains across positions.
func TotalRealizedGain(cfg Config, positions ...*Position) (Money, error) {
	total := M(0, cfg.ReportingCurrency)
	for _, p := range positions {
		if err := rollupCurrency(cfg, p.Currency()); err != nil {
			return Money{}, err
		}
		for _, g := range p.RealizedGains(cfg) {
			total = total.Add(g.Gross)
		}
	}
	return total, nil
}

// TotalUnrealizedGain sums unrealized gains across positions.
func TotalUnrealizedGain(cfg Config, positions ...*Position) (Money, error) {
	total := M(0, cfg.ReportingCurrency)
	for _, p := range positions {
		if err := rollupCurrency(cfg, p.Currency()); err != nil {
			return Money{}, err
		}
		total = total.Add(p.UnrealizedGain())
	}
	return total, nil
}

// TotalFrankingCredits grosses up every dividend across positions and
// sums the attached franking credits.
func TotalFrankingCredits(cfg Config, positions ...*Position) (Money, error) {
	total := M(0, cfg.ReportingCurrency)
	for _, p := range positions {
		if err := rollupCurrency(cfg, p.Currency()); err != nil {
			return Money{}, err
		}
		for d := range p.Dividends() {
			grossed, err := d.GrossUp(cfg)
			if err != nil {
				return Money{}, err
			}
			total = total.Add(grossed.FrankingCredits)
		}
	}
	return total, nil
}
