package ausfolio

import "errors"

// The engine never aborts its host: every failure is reported through one
// of these sentinel errors, wrapped with context, and the aggregate's
// prior valid state is retained. Match with errors.Is.
var (
	// ErrInvariant reports an allocation set that breaks the
	// percentage-sum invariant, or a set containing an out-of-range
	// member.
	ErrInvariant = errors.New("invariant violation")

	// ErrValidation reports invalid domain input: non-finite or negative
	// amounts, unknown categories, a franked amount exceeding the
	// dividend, or a non-positive trade quantity or price.
	ErrValidation = errors.New("validation error")

	// ErrConsistency reports an operation that would leave an aggregate
	// observably inconsistent, such as targeting a line item that is not
	// part of the record.
	ErrConsistency = errors.New("state consistency error")
)
