package ausfolio

import (
	"github.com/nlawrence/ausfolio/date"
)

// CapitalGain is the classification of a single sale. It is derived
// state, produced per sell event; it is never stored on the position.
type CapitalGain struct {
	Security         string
	SaleDate         date.Date
	Quantity         Quantity
	Gross            Money
	Taxable          Money
	DiscountEligible bool
	HoldingDays      int
}

// ClassifySale computes the realized gain for a sell trade, given the
// position's weighted-average cost immediately prior to the sale and the
// position's last-activity date.
//
// Gross gain is (sale price - average cost) * quantity sold. The
// discount applies when the holding period exceeds the configured number
// of days and the gain is positive; losses are never discounted. The
// holding period is measured from the position's last activity, not from
// per-lot acquisition dates.
func ClassifySale(cfg Config, security string, avgCostAtSale Money, t Trade, heldSince date.Date) CapitalGain {
	gross := t.Price.Sub(avgCostAtSale).Mul(t.Quantity)

	holdingDays := 0
	if !heldSince.IsZero() {
		holdingDays = heldSince.DaysUntil(t.Date)
	}
	eligible := holdingDays > cfg.CGTDiscountDays

	taxable := gross
	if eligible && gross.IsPositive() {
		taxable = gross.MulDecimal(cfg.CGTDiscountRate)
	}

	return CapitalGain{
		Security:         security,
		SaleDate:         t.Date,
		Quantity:         t.Quantity,
		Gross:            gross,
		Taxable:          taxable,
		DiscountEligible: eligible,
		HoldingDays:      holdingDays,
	}
}

// MarshalJSON implements the json.Marshaler interface for CapitalGain.
func (g CapitalGain) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("security", g.Security)
	w.Append("date", g.SaleDate)
	w.Append("quantity", g.Quantity)
	w.Append("gross", g.Gross.value)
	w.Append("taxable", g.Taxable.value)
	w.Append("discountEligible", g.DiscountEligible)
	w.Append("holdingDays", g.HoldingDays)
	return w.MarshalJSON()
}
