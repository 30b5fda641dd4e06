package ausfolio

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Percent represents a percentage in the range [0, 100] with at most two
// decimal places of precision.
type Percent struct {
	value decimal.Decimal
}

// Pct creates a Percent from a numeric literal.
func Pct[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Percent {
	return Percent{value: newDecimal(value)}
}

// PercentFromFloat converts external floating point input into a Percent,
// rejecting NaN and infinities.
func PercentFromFloat(value float64) (Percent, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Percent{}, fmt.Errorf("%w: percentage must be finite, got %v", ErrValidation, value)
	}
	return Pct(value), nil
}

// hundred is the full allocation target.
var hundred = decimal.NewFromInt(100)

// sumTolerance is the accepted deviation from 100 for a complete
// allocation set.
var sumTolerance = decimal.NewFromFloat(0.01)

func (p Percent) Add(q Percent) Percent { return Percent{value: p.value.Add(q.value)} }
func (p Percent) Equal(q Percent) bool  { return p.value.Equal(q.value) }
func (p Percent) IsNegative() bool      { return p.value.IsNegative() }
func (p Percent) IsZero() bool          { return p.value.IsZero() }

// InRange reports whether the percentage lies in [0, 100].
func (p Percent) InRange() bool {
	return !p.value.IsNegative() && p.value.LessThanOrEqual(hundred)
}

// WholePrecision reports whether the percentage carries at most two
// decimal places.
func (p Percent) WholePrecision() bool {
	return p.value.Equal(p.value.Round(2))
}

// Fraction returns the percentage as a decimal fraction (60% -> 0.6).
func (p Percent) Fraction() decimal.Decimal { return p.value.Div(hundred) }

func (p Percent) String() string { return p.value.StringFixed(2) + "%" }

// MarshalJSON implements the json.Marshaler interface for Percent.
func (p Percent) MarshalJSON() ([]byte, error) {
	return p.value.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Percent.
func (p *Percent) UnmarshalJSON(decimalBytes []byte) error {
	return p.value.UnmarshalJSON(decimalBytes)
}

// sumPercent totals a set of allocation percentages.
func sumPercent(allocs []Allocation) Percent {
	var sum Percent
	for _, a := range allocs {
		sum = sum.Add(a.Percent)
	}
	return sum
}

// isComplete reports whether a percentage equals 100 within the accepted
// tolerance.
func (p Percent) isComplete() bool {
	return p.value.Sub(hundred).Abs().LessThan(sumTolerance)
}
