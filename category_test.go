package ausfolio

import (
	"errors"
	"testing"
)

func TestParseCategory(t *testing.T) {
	testCases := []struct {
		in   string
		want Category
	}{
		{in: "business-expense", want: CatBusinessExpense},
		{in: "Business Expense", want: CatBusinessExpense},
		{in: "BUSINESS_TRAVEL", want: CatBusinessTravel},
		{in: "  home office ", want: CatHomeOffice},
		{in: "groceries", want: CatGroceries},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseCategory(tc.in)
			if err != nil {
				t.Fatalf("ParseCategory(%q): %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("ParseCategory(%q) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}

	if _, err := ParseCategory("crypto winnings"); !errors.Is(err, ErrValidation) {
		t.Errorf("ParseCategory(unknown) = %v, want ErrValidation", err)
	}
}

func TestCategoryDeductibility(t *testing.T) {
	deductible := []Category{
		CatBusinessExpense, CatBusinessTravel, CatBusinessEquipment,
		CatWorkRelated, CatSelfEducation, CatDonations, CatTaxAffairs, CatHomeOffice,
	}
	for _, c := range deductible {
		if !c.IsDeductible() {
			t.Errorf("%s.IsDeductible() = false, want true", c)
		}
	}

	notDeductible := []Category{CatPersonalExpense, CatGroceries, CatEntertainment, CatRent, CatHealth}
	for _, c := range notDeductible {
		if c.IsDeductible() {
			t.Errorf("%s.IsDeductible() = true, want false", c)
		}
	}
}

func TestCategoryGSTMembership(t *testing.T) {
	// Basic food, health and residential rent are GST-free or input-taxed.
	for _, c := range []Category{CatGroceries, CatHealth, CatRent} {
		if c.IsGSTApplicable() {
			t.Errorf("%s.IsGSTApplicable() = true, want false", c)
		}
	}
	for _, c := range []Category{CatBusinessExpense, CatUtilities, CatEntertainment} {
		if !c.IsGSTApplicable() {
			t.Errorf("%s.IsGSTApplicable() = false, want true", c)
		}
	}
}

func TestParseClassification(t *testing.T) {
	for _, s := range []string{"income", "Expense", " TRANSFER "} {
		if _, err := ParseClassification(s); err != nil {
			t.Errorf("ParseClassification(%q): %v", s, err)
		}
	}
	if _, err := ParseClassification("donation"); !errors.Is(err, ErrValidation) {
		t.Errorf("ParseClassification(unknown) = %v, want ErrValidation", err)
	}
}
