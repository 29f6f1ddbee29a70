package engine

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/finmodeler/statement-forge/internal/config"
	"github.com/finmodeler/statement-forge/pkg/mathutil"
)

func baseAssumptions() config.AssumptionSet {
	return config.AssumptionSet{
		OpeningRevenue:      1000,
		RevenueGrowthRate:   0.10,
		GrossMargin:         0.40,
		OpexPctRevenue:      0.20,
		TaxRate:             0.25,
		Capex:               0,
		DepreciationRate:    0.10,
		InterestRate:        0.05,
		DividendPayoutRatio: 0,
		ReceivableDays:      30,
		PayableDays:         30,
		InventoryDays:       30,
		Opening: config.OpeningBalances{
			Cash:         100,
			PPE:          500,
			Debt:         200,
			ShareCapital: 400,
		},
	}
}

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if !mathutil.WithinTolerance(got, want, 1e-9) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

// The worked single-period scenario: every income statement line has a known
// closed-form value.
func TestComputeWorkedScenario(t *testing.T) {
	result, err := Compute(nil, baseAssumptions(), 1)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if len(result.Periods) != 1 {
		t.Fatalf("expected 1 period, got %d", len(result.Periods))
	}

	is := result.Periods[0].Income
	approx(t, "Revenue", is.Revenue, 1100)
	approx(t, "COGS", is.COGS, 660)
	approx(t, "GrossProfit", is.GrossProfit, 440)
	approx(t, "OperatingExpenses", is.OperatingExpenses, 220)
	approx(t, "EBITDA", is.EBITDA, 220)
	approx(t, "Depreciation", is.Depreciation, 50)
	approx(t, "EBIT", is.EBIT, 170)
	approx(t, "InterestExpense", is.InterestExpense, 10)
	approx(t, "PreTaxIncome", is.PreTaxIncome, 160)
	approx(t, "Tax", is.Tax, 40)
	approx(t, "NetIncome", is.NetIncome, 120)

	bs := result.Periods[0].Balance
	approx(t, "Receivables", bs.Receivables, 1100*30/365.0)
	approx(t, "Payables", bs.Payables, 660*30/365.0)
	approx(t, "Inventory", bs.Inventory, 660*30/365.0)
	approx(t, "NetPPE", bs.NetPPE, 450)

	assertBalanced(t, result)
}

func assertBalanced(t *testing.T, result *ProjectionResult) {
	t.Helper()
	for _, p := range result.Periods {
		tol := mathutil.TieTolerance(p.Balance.TotalAssets)
		if !mathutil.WithinTolerance(p.Balance.TotalAssets, p.Balance.TotalLiabilitiesAndEquity, tol) {
			t.Errorf("period %d: balance sheet out of balance: assets %v vs liab+equity %v",
				p.Index, p.Balance.TotalAssets, p.Balance.TotalLiabilitiesAndEquity)
		}
		if !mathutil.WithinTolerance(p.CashFlow.ClosingCash, p.Balance.Cash, tol) {
			t.Errorf("period %d: cash flow closing cash %v does not tie to balance sheet cash %v",
				p.Index, p.CashFlow.ClosingCash, p.Balance.Cash)
		}
	}
}

// Balance and cash-tie invariants must hold for any valid assumption set.
func TestInvariantsAcrossAssumptionSets(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.AssumptionSet)
	}{
		{name: "Base case", mutate: func(a *config.AssumptionSet) {}},
		{
			name: "With capex and dividends",
			mutate: func(a *config.AssumptionSet) {
				a.Capex = 80
				a.DividendPayoutRatio = 0.5
			},
		},
		{
			name: "Loss-making (no tax benefit)",
			mutate: func(a *config.AssumptionSet) {
				a.GrossMargin = 0.05
				a.OpexPctRevenue = 0.30
			},
		},
		{
			name: "No working capital",
			mutate: func(a *config.AssumptionSet) {
				a.ReceivableDays = 0
				a.PayableDays = 0
				a.InventoryDays = 0
			},
		},
		{
			name: "Aggressive growth",
			mutate: func(a *config.AssumptionSet) {
				a.RevenueGrowthRate = 0.9
				a.Capex = 200
			},
		},
		{
			name: "Full payout, no debt",
			mutate: func(a *config.AssumptionSet) {
				a.DividendPayoutRatio = 1
				a.Opening.Debt = 0
				a.Opening.ShareCapital = 600
			},
		},
		{
			name: "Opening working capital balances",
			mutate: func(a *config.AssumptionSet) {
				a.Opening.Receivables = 90
				a.Opening.Inventory = 55
				a.Opening.Payables = 60
				a.Opening.ShareCapital = 485
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := baseAssumptions()
			tt.mutate(&a)
			result, err := Compute(nil, a, 12)
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			if len(result.Periods) != 12 {
				t.Fatalf("expected 12 periods, got %d", len(result.Periods))
			}
			assertBalanced(t, result)
		})
	}
}

// Balances carried into period t+1 must equal exactly the closing values of
// period t.
func TestContinuityInvariant(t *testing.T) {
	result, err := Compute(nil, baseAssumptions(), 6)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	for i, p := range result.Periods {
		// The closing snapshot must mirror the balance sheet exactly.
		if p.Closing.Cash != p.Balance.Cash ||
			p.Closing.Receivables != p.Balance.Receivables ||
			p.Closing.Payables != p.Balance.Payables ||
			p.Closing.Inventory != p.Balance.Inventory ||
			p.Closing.PPE != p.Balance.NetPPE ||
			p.Closing.Debt != p.Balance.Debt ||
			p.Closing.ShareCapital != p.Balance.ShareCapital ||
			p.Closing.RetainedEarnings != p.Balance.RetainedEarnings {
			t.Errorf("period %d: closing snapshot does not match balance sheet", p.Index)
		}

		if i+1 < len(result.Periods) {
			next := result.Periods[i+1]
			if next.CashFlow.OpeningCash != p.Closing.Cash {
				t.Errorf("period %d: opening cash %v does not equal prior closing cash %v",
					next.Index, next.CashFlow.OpeningCash, p.Closing.Cash)
			}
		}
	}
}

// Two computations with identical inputs must be bit-for-bit identical.
func TestComputeDeterminism(t *testing.T) {
	a := baseAssumptions()
	a.Capex = 75
	a.DividendPayoutRatio = 0.25

	first, err := Compute(nil, a, 24)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	second, err := Compute(nil, a, 24)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("two computations with the same inputs differ")
	}
}

// With zero growth and zero capex the income statement flattens: revenue,
// COGS, and opex are constant while depreciation decays with PP&E.
func TestZeroGrowthFlattens(t *testing.T) {
	a := baseAssumptions()
	a.RevenueGrowthRate = 0
	a.Capex = 0

	result, err := Compute(nil, a, 5)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	first := result.Periods[0].Income
	prevDep := math.Inf(1)
	for _, p := range result.Periods {
		approx(t, "Revenue", p.Income.Revenue, first.Revenue)
		approx(t, "COGS", p.Income.COGS, first.COGS)
		approx(t, "OperatingExpenses", p.Income.OperatingExpenses, first.OperatingExpenses)
		if p.Income.Depreciation >= prevDep {
			t.Errorf("period %d: depreciation %v did not decline from %v", p.Index, p.Income.Depreciation, prevDep)
		}
		prevDep = p.Income.Depreciation
	}
}

// A loss-making period pays no tax and no dividends regardless of the payout
// ratio.
func TestLossPeriodFloors(t *testing.T) {
	a := baseAssumptions()
	a.GrossMargin = 0.10
	a.OpexPctRevenue = 0.20
	a.DividendPayoutRatio = 0.50

	result, err := Compute(nil, a, 1)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	p := result.Periods[0]
	if p.Income.PreTaxIncome >= 0 {
		t.Fatalf("scenario is not loss-making: pre-tax income = %v", p.Income.PreTaxIncome)
	}
	approx(t, "Tax", p.Income.Tax, 0)
	approx(t, "NetIncome", p.Income.NetIncome, p.Income.PreTaxIncome)
	approx(t, "Dividends", p.CashFlow.Dividends, 0)
}

func TestComputeInvalidAssumption(t *testing.T) {
	a := baseAssumptions()
	a.GrossMargin = 1.5

	_, err := Compute(nil, a, 5)
	var invalid *config.InvalidAssumptionError
	if !errors.As(err, &invalid) {
		t.Fatalf("Compute() error = %v, want *config.InvalidAssumptionError", err)
	}
	if invalid.Field != "grossMargin" {
		t.Errorf("Field = %q, want grossMargin", invalid.Field)
	}
	if invalid.Constraint != config.ConstraintFraction {
		t.Errorf("Constraint = %q, want %q", invalid.Constraint, config.ConstraintFraction)
	}
}

func TestComputeInvalidPeriods(t *testing.T) {
	for _, periods := range []int{0, -1} {
		_, err := Compute(nil, baseAssumptions(), periods)
		var invalid *config.InvalidAssumptionError
		if !errors.As(err, &invalid) {
			t.Fatalf("Compute(periods=%d) error = %v, want *config.InvalidAssumptionError", periods, err)
		}
		if invalid.Field != "periods" {
			t.Errorf("Field = %q, want periods", invalid.Field)
		}
	}
}

func TestComputeNumericOverflow(t *testing.T) {
	a := baseAssumptions()
	a.OpeningRevenue = 1e14
	a.RevenueGrowthRate = 1 // doubles every period

	_, err := Compute(nil, a, 30)
	var overflow *NumericOverflowError
	if !errors.As(err, &overflow) {
		t.Fatalf("Compute() error = %v, want *NumericOverflowError", err)
	}
	if overflow.Field == "" || overflow.Period < 1 {
		t.Errorf("overflow error missing context: %+v", overflow)
	}
}
