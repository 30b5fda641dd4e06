package ausfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nlawrence/ausfolio/date"
)

func TestClassifySaleDiscounted(t *testing.T) {
	cfg := DefaultConfig()

	// Held 400 days, sold 5 units at $150 against an average cost of
	// $110.275: gross (150 - 110.275) * 5 = 198.625, halved by the
	// discount to 99.3125.
	heldSince := date.MustParse("2024-01-01")
	sell := NewSell(date.MustParse("2025-02-04"), "", Q(5), A(150), A(0))

	gain := ClassifySale(cfg, "TCK", A(110.275), sell, heldSince)

	assert.Equal(t, "TCK", gain.Security)
	assert.Equal(t, 400, gain.HoldingDays)
	assert.True(t, gain.DiscountEligible)
	assert.True(t, gain.Gross.Equal(A(198.625)), "gross = %v", gain.Gross)
	assert.True(t, gain.Taxable.Equal(A(99.3125)), "taxable = %v", gain.Taxable)
}

func TestClassifySaleShortHolding(t *testing.T) {
	cfg := DefaultConfig()

	// Exactly 365 days is not enough: the holding period must exceed the
	// configured threshold.
	heldSince := date.MustParse("2024-03-01")
	sell := NewSell(date.MustParse("2025-03-01"), "", Q(10), A(120), A(0))

	gain := ClassifySale(cfg, "TCK", A(100), sell, heldSince)

	assert.Equal(t, 365, gain.HoldingDays)
	assert.False(t, gain.DiscountEligible)
	assert.True(t, gain.Taxable.Equal(gain.Gross), "short holdings are taxed in full")
}

func TestClassifySaleLossNeverDiscounted(t *testing.T) {
	cfg := DefaultConfig()

	heldSince := date.MustParse("2023-01-01")
	sell := NewSell(date.MustParse("2025-01-01"), "", Q(10), A(80), A(0))

	gain := ClassifySale(cfg, "TCK", A(100), sell, heldSince)

	assert.True(t, gain.DiscountEligible)
	assert.True(t, gain.Gross.Equal(A(-200)), "gross = %v", gain.Gross)
	assert.True(t, gain.Taxable.Equal(A(-200)), "losses carry through undiscounted")
}

func TestClassifySaleFreshPosition(t *testing.T) {
	cfg := DefaultConfig()

	// A zero held-since date means no holding history at all.
	sell := NewSell(date.MustParse("2025-01-01"), "", Q(1), A(120), A(0))
	gain := ClassifySale(cfg, "TCK", A(100), sell, date.Date{})

	assert.Equal(t, 0, gain.HoldingDays)
	assert.False(t, gain.DiscountEligible)
}

func TestDividendActivityResetsHoldingClock(t *testing.T) {
	cfg := DefaultConfig()
	p, err := NewPosition("TCK", "AUD")
	assert.NoError(t, err)

	_, _, err = p.Apply(cfg, NewBuy(date.MustParse("2023-01-01"), "", Q(10), A(100), A(0)))
	assert.NoError(t, err)

	// A dividend paid shortly before the sale moves the last-activity
	// date, so the sale no longer clears the discount threshold.
	_, err = p.ApplyDividend(NewDividend(date.MustParse("2024-12-01"), date.MustParse("2024-12-15"), A(50), A(50)))
	assert.NoError(t, err)

	_, gain, err := p.Apply(cfg, NewSell(date.MustParse("2025-01-10"), "", Q(10), A(150), A(0)))
	assert.NoError(t, err)
	assert.NotNil(t, gain)
	assert.Equal(t, 26, gain.HoldingDays)
	assert.False(t, gain.DiscountEligible)
}
