package config

import (
	"fmt"
	"math"

	"github.com/finmodeler/statement-forge/pkg/constants"
	"github.com/finmodeler/statement-forge/pkg/mathutil"
)

// Constraint strings used in InvalidAssumptionError messages.
const (
	ConstraintFraction    = "0 <= x <= 1"
	ConstraintNonNegative = "x >= 0"
	ConstraintPositive    = "x > 0"
	ConstraintPeriods     = "1 <= x <= 120"
)

// InvalidAssumptionError reports an assumption value that violates its
// constraint. Field names match the keys in the assumptions file.
type InvalidAssumptionError struct {
	Field      string
	Constraint string
	Value      float64
}

func (e *InvalidAssumptionError) Error() string {
	return fmt.Sprintf("invalid assumption %s: value %g violates constraint %s", e.Field, e.Value, e.Constraint)
}

// ValidatePeriods checks the projection horizon.
func ValidatePeriods(periods int) error {
	if periods < 1 || periods > constants.MaxPeriods {
		return &InvalidAssumptionError{Field: "periods", Constraint: ConstraintPeriods, Value: float64(periods)}
	}
	return nil
}

// Validate checks every hard constraint on the assumption set and returns the
// first violation as an *InvalidAssumptionError.
func (a *AssumptionSet) Validate() error {
	if !(a.OpeningRevenue > 0) {
		return &InvalidAssumptionError{Field: "openingRevenue", Constraint: ConstraintPositive, Value: a.OpeningRevenue}
	}

	fractions := []struct {
		field string
		value float64
	}{
		{"revenueGrowthRate", a.RevenueGrowthRate},
		{"grossMargin", a.GrossMargin},
		{"opexPctRevenue", a.OpexPctRevenue},
		{"taxRate", a.TaxRate},
		{"depreciationRate", a.DepreciationRate},
		{"interestRate", a.InterestRate},
		{"dividendPayoutRatio", a.DividendPayoutRatio},
	}
	for _, f := range fractions {
		if f.value < 0 || f.value > 1 || math.IsNaN(f.value) {
			return &InvalidAssumptionError{Field: f.field, Constraint: ConstraintFraction, Value: f.value}
		}
	}

	nonNegative := []struct {
		field string
		value float64
	}{
		{"capex", a.Capex},
		{"receivableDays", float64(a.ReceivableDays)},
		{"payableDays", float64(a.PayableDays)},
		{"inventoryDays", float64(a.InventoryDays)},
		{"opening.receivables", a.Opening.Receivables},
		{"opening.payables", a.Opening.Payables},
		{"opening.inventory", a.Opening.Inventory},
		{"opening.ppe", a.Opening.PPE},
		{"opening.debt", a.Opening.Debt},
	}
	for _, f := range nonNegative {
		if f.value < 0 || math.IsNaN(f.value) {
			return &InvalidAssumptionError{Field: f.field, Constraint: ConstraintNonNegative, Value: f.value}
		}
	}

	return nil
}

// Validate checks the whole configuration: the horizon and the assumption set.
func (c *Configuration) Validate() error {
	if err := ValidatePeriods(c.Periods); err != nil {
		return err
	}
	return c.Assumptions.Validate()
}

// ValidateConfiguration performs advisory validation and returns warnings.
// Findings here do not block the computation.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	o := c.Assumptions.Opening
	assets := o.Cash + o.Receivables + o.Inventory + o.PPE
	liabEquity := o.Payables + o.Debt + o.ShareCapital + o.RetainedEarnings
	if gap := assets - liabEquity; math.Abs(gap) > constants.CurrencyGapWarning {
		warnings = append(warnings, fmt.Sprintf(
			"opening balance sheet is out of balance by %g; the gap will carry through every projected period", mathutil.Round(gap)))
	}

	if c.Periods > constants.TypicalMaxPeriods {
		warnings = append(warnings, fmt.Sprintf(
			"projection horizon of %d periods exceeds the typical %d; distant periods compound assumption error", c.Periods, constants.TypicalMaxPeriods))
	}

	return warnings
}
