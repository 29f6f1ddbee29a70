package engine

import (
	"math"

	"go.uber.org/zap"

	"github.com/finmodeler/statement-forge/internal/config"
	"github.com/finmodeler/statement-forge/pkg/constants"
	"github.com/finmodeler/statement-forge/pkg/mathutil"
)

// Compute runs the roll-forward for the requested number of periods and
// returns a fresh, immutable ProjectionResult. It is pure: no global state is
// read or written, and the same inputs always produce the same result.
//
// Inputs are validated first; a violation is returned as a
// *config.InvalidAssumptionError before any period is computed. A computed
// magnitude beyond the sanity bound is returned as a *NumericOverflowError,
// again with no partial result.
func Compute(logger *zap.Logger, assumptions config.AssumptionSet, periods int) (*ProjectionResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := config.ValidatePeriods(periods); err != nil {
		return nil, err
	}
	if err := assumptions.Validate(); err != nil {
		return nil, err
	}

	prior := PeriodBalances{
		Cash:             assumptions.Opening.Cash,
		Receivables:      assumptions.Opening.Receivables,
		Payables:         assumptions.Opening.Payables,
		Inventory:        assumptions.Opening.Inventory,
		PPE:              assumptions.Opening.PPE,
		Debt:             assumptions.Opening.Debt,
		ShareCapital:     assumptions.Opening.ShareCapital,
		RetainedEarnings: assumptions.Opening.RetainedEarnings,
	}
	priorRevenue := assumptions.OpeningRevenue

	result := &ProjectionResult{Periods: make([]Period, 0, periods)}
	for t := 1; t <= periods; t++ {
		period, err := rollForward(assumptions, prior, priorRevenue, t)
		if err != nil {
			return nil, err
		}
		result.Periods = append(result.Periods, period)
		prior = period.Closing
		priorRevenue = period.Income.Revenue
	}

	logger.Debug("projection computed",
		zap.String("op", "engine.Compute"),
		zap.Int("periods", periods),
	)
	return result, nil
}

// rollForward derives period t from the prior period's closing balances.
func rollForward(a config.AssumptionSet, prior PeriodBalances, priorRevenue float64, t int) (Period, error) {
	// Income statement.
	revenue := priorRevenue * (1 + a.RevenueGrowthRate)
	cogs := revenue * (1 - a.GrossMargin)
	grossProfit := revenue - cogs
	opex := revenue * a.OpexPctRevenue
	ebitda := revenue - cogs - opex

	// Straight-line depreciation on the opening PP&E balance.
	depreciation := prior.PPE * a.DepreciationRate
	ppe := prior.PPE + a.Capex - depreciation

	ebit := ebitda - depreciation
	interest := prior.Debt * a.InterestRate
	preTax := ebit - interest
	// No tax benefit on losses, by policy.
	tax := mathutil.Max(preTax, 0) * a.TaxRate
	netIncome := preTax - tax

	// Working capital on day-count conventions.
	receivables := revenue * float64(a.ReceivableDays) / constants.DaysPerYear
	payables := cogs * float64(a.PayableDays) / constants.DaysPerYear
	inventory := cogs * float64(a.InventoryDays) / constants.DaysPerYear
	deltaWC := -((receivables - prior.Receivables) + (inventory - prior.Inventory) - (payables - prior.Payables))

	dividends := mathutil.Max(netIncome, 0) * a.DividendPayoutRatio
	retained := prior.RetainedEarnings + netIncome - dividends

	// Cash flow statement, indirect method. Debt and paid-in capital are held
	// flat: no debt schedule or equity issuance is modeled.
	operating := netIncome + depreciation + deltaWC
	investing := -a.Capex
	changeInDebt := 0.0
	financing := changeInDebt - dividends
	netChange := operating + investing + financing
	cash := prior.Cash + netChange

	period := Period{
		Index: t,
		Income: IncomeStatement{
			Revenue:           revenue,
			COGS:              cogs,
			GrossProfit:       grossProfit,
			OperatingExpenses: opex,
			EBITDA:            ebitda,
			Depreciation:      depreciation,
			EBIT:              ebit,
			InterestExpense:   interest,
			PreTaxIncome:      preTax,
			Tax:               tax,
			NetIncome:         netIncome,
		},
		Balance: BalanceSheet{
			Cash:                      cash,
			Receivables:               receivables,
			Inventory:                 inventory,
			NetPPE:                    ppe,
			TotalAssets:               cash + receivables + inventory + ppe,
			Payables:                  payables,
			Debt:                      prior.Debt,
			ShareCapital:              prior.ShareCapital,
			RetainedEarnings:          retained,
			TotalLiabilitiesAndEquity: payables + prior.Debt + prior.ShareCapital + retained,
		},
		CashFlow: CashFlowStatement{
			NetIncome:              netIncome,
			Depreciation:           depreciation,
			ChangeInWorkingCapital: deltaWC,
			Operating:              operating,
			Capex:                  a.Capex,
			Investing:              investing,
			ChangeInDebt:           changeInDebt,
			Dividends:              dividends,
			Financing:              financing,
			NetChangeInCash:        netChange,
			OpeningCash:            prior.Cash,
			ClosingCash:            cash,
		},
		Closing: PeriodBalances{
			Cash:             cash,
			Receivables:      receivables,
			Payables:         payables,
			Inventory:        inventory,
			PPE:              ppe,
			Debt:             prior.Debt,
			ShareCapital:     prior.ShareCapital,
			RetainedEarnings: retained,
		},
	}

	if err := checkMagnitudes(period); err != nil {
		return Period{}, err
	}
	return period, nil
}

// checkMagnitudes guards against runaway compounding from bad growth inputs.
func checkMagnitudes(p Period) error {
	checks := []struct {
		field string
		value float64
	}{
		{"revenue", p.Income.Revenue},
		{"netIncome", p.Income.NetIncome},
		{"cash", p.Balance.Cash},
		{"netPPE", p.Balance.NetPPE},
		{"retainedEarnings", p.Balance.RetainedEarnings},
		{"totalAssets", p.Balance.TotalAssets},
		{"totalLiabilitiesAndEquity", p.Balance.TotalLiabilitiesAndEquity},
	}
	for _, c := range checks {
		if !mathutil.IsFinite(c.value) || math.Abs(c.value) > constants.MaxStatementMagnitude {
			return &NumericOverflowError{Period: p.Index, Field: c.field, Value: c.value}
		}
	}
	return nil
}
