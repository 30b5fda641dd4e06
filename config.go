package ausfolio

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Config carries the tax parameters injected into every computation.
// Rates change with tax law, so nothing in this package hardcodes them.
type Config struct {
	// CompanyTaxRate is the corporate rate used to gross up franked
	// dividends (0.30 at the time of writing).
	CompanyTaxRate decimal.Decimal
	// GSTRate is the consumption tax rate applied to GST-applicable
	// categories (0.10 extracts one eleventh of a tax-inclusive amount).
	GSTRate decimal.Decimal
	// CGTDiscountRate is the discount applied to eligible capital gains.
	CGTDiscountRate decimal.Decimal
	// CGTDiscountDays is the minimum holding period, in days, beyond
	// which a gain becomes discount eligible.
	CGTDiscountDays int
	// ReportingCurrency is the currency rollups are expressed in.
	ReportingCurrency string
}

// DefaultConfig returns the current Australian parameters.
func DefaultConfig() Config {
	return Config{
		CompanyTaxRate:    decimal.NewFromFloat(0.30),
		GSTRate:           decimal.NewFromFloat(0.10),
		CGTDiscountRate:   decimal.NewFromFloat(0.5),
		CGTDiscountDays:   365,
		ReportingCurrency: DefaultCurrency,
	}
}

// Validate checks that the configured rates are usable.
func (c Config) Validate() error {
	one := decimal.NewFromInt(1)
	if c.CompanyTaxRate.IsNegative() || c.CompanyTaxRate.GreaterThanOrEqual(one) {
		return fmt.Errorf("%w: company tax rate must be in [0,1), got %s", ErrValidation, c.CompanyTaxRate)
	}
	if c.GSTRate.IsNegative() || c.GSTRate.GreaterThanOrEqual(one) {
		return fmt.Errorf("%w: GST rate must be in [0,1), got %s", ErrValidation, c.GSTRate)
	}
	if c.CGTDiscountRate.IsNegative() || c.CGTDiscountRate.GreaterThan(one) {
		return fmt.Errorf("%w: CGT discount rate must be in [0,1], got %s", ErrValidation, c.CGTDiscountRate)
	}
	if c.CGTDiscountDays < 0 {
		return fmt.Errorf("%w: CGT discount period must not be negative, got %d", ErrValidation, c.CGTDiscountDays)
	}
	if money.GetCurrency(c.ReportingCurrency) == nil {
		return fmt.Errorf("%w: unknown reporting currency %q", ErrValidation, c.ReportingCurrency)
	}
	return nil
}
