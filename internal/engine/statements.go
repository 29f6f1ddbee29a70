// Package engine derives the three linked financial statements from an
// assumption set using a deterministic per-period roll-forward. Cash is the
// plug: it is computed residually from the cash flow statement so the balance
// sheet balances by construction.
package engine

// IncomeStatement holds one period's income statement. Every subtotal is the
// deterministic sum or difference of the lines above it.
type IncomeStatement struct {
	Revenue           float64 `json:"revenue"`
	COGS              float64 `json:"cogs"`
	GrossProfit       float64 `json:"grossProfit"`
	OperatingExpenses float64 `json:"operatingExpenses"`
	EBITDA            float64 `json:"ebitda"`
	Depreciation      float64 `json:"depreciation"`
	EBIT              float64 `json:"ebit"`
	InterestExpense   float64 `json:"interestExpense"`
	PreTaxIncome      float64 `json:"preTaxIncome"`
	Tax               float64 `json:"tax"`
	NetIncome         float64 `json:"netIncome"`
}

// BalanceSheet holds one period's closing balance sheet.
type BalanceSheet struct {
	Cash                      float64 `json:"cash"`
	Receivables               float64 `json:"receivables"`
	Inventory                 float64 `json:"inventory"`
	NetPPE                    float64 `json:"netPPE"`
	TotalAssets               float64 `json:"totalAssets"`
	Payables                  float64 `json:"payables"`
	Debt                      float64 `json:"debt"`
	ShareCapital              float64 `json:"shareCapital"`
	RetainedEarnings          float64 `json:"retainedEarnings"`
	TotalLiabilitiesAndEquity float64 `json:"totalLiabilitiesAndEquity"`
}

// CashFlowStatement holds one period's indirect-method cash flow statement.
// Outflow line items (Capex, Dividends) carry their natural positive sign;
// section totals apply the flow direction.
type CashFlowStatement struct {
	NetIncome              float64 `json:"netIncome"`
	Depreciation           float64 `json:"depreciation"`
	ChangeInWorkingCapital float64 `json:"changeInWorkingCapital"`
	Operating              float64 `json:"operating"`
	Capex                  float64 `json:"capex"`
	Investing              float64 `json:"investing"`
	ChangeInDebt           float64 `json:"changeInDebt"`
	Dividends              float64 `json:"dividends"`
	Financing              float64 `json:"financing"`
	NetChangeInCash        float64 `json:"netChangeInCash"`
	OpeningCash            float64 `json:"openingCash"`
	ClosingCash            float64 `json:"closingCash"`
}

// PeriodBalances is the closing-balance snapshot carried into the next
// period. It is immutable once its period has been computed.
type PeriodBalances struct {
	Cash             float64 `json:"cash"`
	Receivables      float64 `json:"receivables"`
	Payables         float64 `json:"payables"`
	Inventory        float64 `json:"inventory"`
	PPE              float64 `json:"ppe"`
	Debt             float64 `json:"debt"`
	ShareCapital     float64 `json:"shareCapital"`
	RetainedEarnings float64 `json:"retainedEarnings"`
}

// Period links the three statements for one projected period.
type Period struct {
	Index    int               `json:"index"`
	Income   IncomeStatement   `json:"income"`
	Balance  BalanceSheet      `json:"balance"`
	CashFlow CashFlowStatement `json:"cashFlow"`
	Closing  PeriodBalances    `json:"closing"`
}

// ProjectionResult is the ordered sequence of projected periods. It is a
// complete, self-describing snapshot: rendering it requires no recomputation.
type ProjectionResult struct {
	Periods []Period `json:"periods"`
}
