package ausfolio

import (
	"fmt"
	"strings"
)

// Category is a typed label from the closed tax-category set. Allocations
// may only reference categories declared here.
type Category string

const (
	CatBusinessExpense   Category = "business-expense"
	CatBusinessTravel    Category = "business-travel"
	CatBusinessEquipment Category = "business-equipment"
	CatHomeOffice        Category = "home-office"
	CatWorkRelated       Category = "work-related"
	CatSelfEducation     Category = "self-education"
	CatDonations         Category = "donations"
	CatTaxAffairs        Category = "tax-affairs"
	CatPersonalExpense   Category = "personal-expense"
	CatGroceries         Category = "groceries"
	CatEntertainment     Category = "entertainment"
	CatUtilities         Category = "utilities"
	CatRent              Category = "rent"
	CatHealth            Category = "health"
	CatTransport         Category = "transport"
	CatInvestment        Category = "investment"
)

// categories is the closed enumeration; membership here is what the
// allocation validator checks.
var categories = map[Category]struct{}{
	CatBusinessExpense:   {},
	CatBusinessTravel:    {},
	CatBusinessEquipment: {},
	CatHomeOffice:        {},
	CatWorkRelated:       {},
	CatSelfEducation:     {},
	CatDonations:         {},
	CatTaxAffairs:        {},
	CatPersonalExpense:   {},
	CatGroceries:         {},
	CatEntertainment:     {},
	CatUtilities:         {},
	CatRent:              {},
	CatHealth:            {},
	CatTransport:         {},
	CatInvestment:        {},
}

// gstApplicable lists categories whose spending carries GST. Groceries
// (basic food), health and residential rent are GST-free or input-taxed.
var gstApplicable = map[Category]struct{}{
	CatBusinessExpense:   {},
	CatBusinessTravel:    {},
	CatBusinessEquipment: {},
	CatHomeOffice:        {},
	CatWorkRelated:       {},
	CatPersonalExpense:   {},
	CatEntertainment:     {},
	CatUtilities:         {},
	CatTransport:         {},
	CatTaxAffairs:        {},
}

// personalDeductible lists the non-business categories that are still
// deductible for an individual.
var personalDeductible = map[Category]struct{}{
	CatWorkRelated:   {},
	CatSelfEducation: {},
	CatDonations:     {},
	CatTaxAffairs:    {},
	CatHomeOffice:    {},
}

// IsValid reports whether c is a member of the closed category set.
func (c Category) IsValid() bool {
	_, ok := categories[c]
	return ok
}

// IsBusiness reports whether c is a business category. All business
// categories are deductible.
func (c Category) IsBusiness() bool {
	return strings.HasPrefix(string(c), "business-")
}

// IsGSTApplicable reports whether spending in this category carries GST.
func (c Category) IsGSTApplicable() bool {
	_, ok := gstApplicable[c]
	return ok
}

// IsDeductible reports whether an allocation to this category is tax
// deductible.
func (c Category) IsDeductible() bool {
	if c.IsBusiness() {
		return true
	}
	_, ok := personalDeductible[c]
	return ok
}

func (c Category) String() string { return string(c) }

// ParseCategory parses a string into a Category. It is lenient about
// case and accepts spaces or underscores in place of dashes, so both
// "business-expense" and "Business Expense" resolve to the same category.
func ParseCategory(s string) (Category, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer(" ", "-", "_", "-").Replace(normalized)
	c := Category(normalized)
	if !c.IsValid() {
		return "", fmt.Errorf("%w: unknown category %q", ErrValidation, s)
	}
	return c, nil
}

// Classification distinguishes the cash-flow nature of a record.
type Classification string

const (
	Income   Classification = "income"
	Expense  Classification = "expense"
	Transfer Classification = "transfer"
)

// IsValid reports whether the classification is one of the known kinds.
func (c Classification) IsValid() bool {
	switch c {
	case Income, Expense, Transfer:
		return true
	}
	return false
}

// ParseClassification parses a string into a Classification.
func ParseClassification(s string) (Classification, error) {
	c := Classification(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: unknown classification %q", ErrValidation, s)
	}
	return c, nil
}
