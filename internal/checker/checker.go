// Package checker verifies that the three projected statements tie out. It
// never repairs a result: the engine's roll-forward balances by construction
// (cash is the plug), so any violation found here means the inputs or the
// algorithm broke an accounting identity, and that must be visible rather
// than silently displayed.
package checker

import (
	"fmt"

	"github.com/finmodeler/statement-forge/internal/engine"
	"github.com/finmodeler/statement-forge/pkg/mathutil"
)

// Check names for Violation.Check.
const (
	CheckBalanceSheet = "balanceSheet"
	CheckCashTie      = "cashTie"
)

// Violation records one failed tie-out with its numeric delta.
type Violation struct {
	Period int     `json:"period"`
	Check  string  `json:"check"`
	Delta  float64 `json:"delta"`
}

func (v Violation) String() string {
	switch v.Check {
	case CheckBalanceSheet:
		return fmt.Sprintf("period %d: total assets differ from liabilities and equity by %g", v.Period, v.Delta)
	case CheckCashTie:
		return fmt.Sprintf("period %d: cash flow closing cash differs from balance sheet cash by %g", v.Period, v.Delta)
	default:
		return fmt.Sprintf("period %d: %s off by %g", v.Period, v.Check, v.Delta)
	}
}

// Report enumerates every failed tie-out across all periods.
type Report struct {
	Balanced   bool        `json:"balanced"`
	Violations []Violation `json:"violations,omitempty"`
}

// Verify checks, for every period, that the balance sheet balances and that
// the cash flow statement's closing cash ties to the balance sheet's cash.
// The result is read-only; Verify never mutates it.
func Verify(result *engine.ProjectionResult) Report {
	report := Report{Balanced: true}
	if result == nil {
		return report
	}

	for _, p := range result.Periods {
		tol := mathutil.TieTolerance(p.Balance.TotalAssets)

		if delta := p.Balance.TotalAssets - p.Balance.TotalLiabilitiesAndEquity; !mathutil.WithinTolerance(delta, 0, tol) {
			report.Violations = append(report.Violations, Violation{
				Period: p.Index,
				Check:  CheckBalanceSheet,
				Delta:  delta,
			})
		}

		if delta := p.CashFlow.ClosingCash - p.Balance.Cash; !mathutil.WithinTolerance(delta, 0, tol) {
			report.Violations = append(report.Violations, Violation{
				Period: p.Index,
				Check:  CheckCashTie,
				Delta:  delta,
			})
		}
	}

	report.Balanced = len(report.Violations) == 0
	return report
}
