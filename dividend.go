package ausfolio

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nlawrence/ausfolio/date"
)

// DividendPayment is a dividend received against a position: a gross
// amount of which a portion carries franking (corporate tax already
// paid).
type DividendPayment struct {
	ID      uuid.UUID
	Amount  Money // gross dividend
	Franked Money // franked portion, at most Amount
	ExDate  date.Date
	PayDate date.Date
}

// NewDividend creates a dividend payment.
func NewDividend(exDate, payDate date.Date, amount, franked Money) DividendPayment {
	return DividendPayment{ID: uuid.New(), Amount: amount, Franked: franked, ExDate: exDate, PayDate: payDate}
}

// Validate checks the payment's fields against a position and returns a
// copy with quick fixes applied: a zero pay date falls back to the
// ex-date, a zero ex-date to today.
func (d DividendPayment) Validate(p *Position) (DividendPayment, error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.ExDate.IsZero() {
		d.ExDate = date.Today()
	}
	if d.PayDate.IsZero() {
		d.PayDate = d.ExDate
	}
	if d.Amount.IsNegative() {
		return d, fmt.Errorf("%w: dividend amount must not be negative, got %v", ErrValidation, d.Amount)
	}
	if d.Franked.IsNegative() {
		return d, fmt.Errorf("%w: franked amount must not be negative, got %v", ErrValidation, d.Franked)
	}
	if d.Franked.GreaterThan(d.Amount) {
		return d, fmt.Errorf("%w: franked amount %v exceeds dividend %v", ErrValidation, d.Franked, d.Amount)
	}
	if p != nil && (!sameCurrency(d.Amount, p.avgCost) || !sameCurrency(d.Franked, p.avgCost)) {
		return d, fmt.Errorf("%w: dividend currency %s does not match position currency %s", ErrValidation, d.Amount.Currency(), p.avgCost.Currency())
	}
	return d, nil
}

// GrossedUpDividend is the franking decomposition of a payment.
type GrossedUpDividend struct {
	// GrossedUpFranked is the franked portion restated to its pre-tax
	// value: franked / (1 - companyTaxRate).
	GrossedUpFranked Money
	// FrankingCredits is the tax credit attached to the franked portion.
	FrankingCredits Money
	// GrossedUp is the assessable dividend: gross amount plus franking
	// credits.
	GrossedUp Money
}

// GrossUp computes the franking-credit gross-up of a dividend payment at
// the configured company tax rate. It is a pure function: the payment is
// validated but never modified.
func (d DividendPayment) GrossUp(cfg Config) (GrossedUpDividend, error) {
	if err := cfg.Validate(); err != nil {
		return GrossedUpDividend{}, err
	}
	d, err := d.Validate(nil)
	if err != nil {
		return GrossedUpDividend{}, err
	}

	one := decimal.NewFromInt(1)
	grossedUpFranked := d.Franked.MulDecimal(one.Div(one.Sub(cfg.CompanyTaxRate)))
	credits := grossedUpFranked.Sub(d.Franked).RoundCurrency()
	unfranked := d.Amount.Sub(d.Franked)

	return GrossedUpDividend{
		GrossedUpFranked: grossedUpFranked.RoundCurrency(),
		FrankingCredits:  credits,
		GrossedUp:        d.Franked.Add(credits).Add(unfranked),
	}, nil
}

// MarshalJSON implements the json.Marshaler interface for
// DividendPayment.
func (d DividendPayment) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", "dividend")
	w.Append("id", d.ID)
	w.Append("exDate", d.ExDate)
	w.Append("payDate", d.PayDate)
	w.Append("amount", d.Amount.value)
	w.Append("franked", d.Franked.value)
	w.Optional("currency", d.Amount.Currency())
	return w.MarshalJSON()
}
