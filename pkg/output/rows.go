// Package output provides utilities for formatting and displaying projected
// statements. The row layouts here are the single source of truth for line
// item names and ordering; the terminal, Excel, and Word renderers all
// consume them.
package output

import "github.com/finmodeler/statement-forge/internal/engine"

// Row is one rendered line of a statement table. A header row has no values.
type Row struct {
	Label  string
	Values []float64
	Header bool
	Indent bool
}

// Table is a named statement table with one value column per period.
type Table struct {
	Title string
	Rows  []Row
}

// IncomeTable lays out the income statement, one column per period.
func IncomeTable(result *engine.ProjectionResult) Table {
	n := len(result.Periods)
	pick := func(f func(engine.IncomeStatement) float64) []float64 {
		values := make([]float64, n)
		for i, p := range result.Periods {
			values[i] = f(p.Income)
		}
		return values
	}

	return Table{
		Title: "Income Statement",
		Rows: []Row{
			{Label: "Revenue", Values: pick(func(is engine.IncomeStatement) float64 { return is.Revenue })},
			{Label: "Cost of Goods Sold", Values: pick(func(is engine.IncomeStatement) float64 { return -is.COGS })},
			{Label: "Gross Profit", Values: pick(func(is engine.IncomeStatement) float64 { return is.GrossProfit })},
			{Label: "Operating Expenses", Values: pick(func(is engine.IncomeStatement) float64 { return -is.OperatingExpenses })},
			{Label: "EBITDA", Values: pick(func(is engine.IncomeStatement) float64 { return is.EBITDA })},
			{Label: "Depreciation", Values: pick(func(is engine.IncomeStatement) float64 { return -is.Depreciation })},
			{Label: "EBIT", Values: pick(func(is engine.IncomeStatement) float64 { return is.EBIT })},
			{Label: "Interest Expense", Values: pick(func(is engine.IncomeStatement) float64 { return -is.InterestExpense })},
			{Label: "Pre-Tax Income", Values: pick(func(is engine.IncomeStatement) float64 { return is.PreTaxIncome })},
			{Label: "Income Tax Expense", Values: pick(func(is engine.IncomeStatement) float64 { return -is.Tax })},
			{Label: "Net Income", Values: pick(func(is engine.IncomeStatement) float64 { return is.NetIncome })},
		},
	}
}

// BalanceTable lays out the balance sheet, one column per period.
func BalanceTable(result *engine.ProjectionResult) Table {
	n := len(result.Periods)
	pick := func(f func(engine.BalanceSheet) float64) []float64 {
		values := make([]float64, n)
		for i, p := range result.Periods {
			values[i] = f(p.Balance)
		}
		return values
	}

	return Table{
		Title: "Balance Sheet",
		Rows: []Row{
			{Label: "Assets", Header: true},
			{Label: "Cash", Indent: true, Values: pick(func(bs engine.BalanceSheet) float64 { return bs.Cash })},
			{Label: "Accounts Receivable", Indent: true, Values: pick(func(bs engine.BalanceSheet) float64 { return bs.Receivables })},
			{Label: "Inventory", Indent: true, Values: pick(func(bs engine.BalanceSheet) float64 { return bs.Inventory })},
			{Label: "Net PP&E", Indent: true, Values: pick(func(bs engine.BalanceSheet) float64 { return bs.NetPPE })},
			{Label: "Total Assets", Values: pick(func(bs engine.BalanceSheet) float64 { return bs.TotalAssets })},
			{Label: "Liabilities & Equity", Header: true},
			{Label: "Accounts Payable", Indent: true, Values: pick(func(bs engine.BalanceSheet) float64 { return bs.Payables })},
			{Label: "Debt", Indent: true, Values: pick(func(bs engine.BalanceSheet) float64 { return bs.Debt })},
			{Label: "Share Capital", Indent: true, Values: pick(func(bs engine.BalanceSheet) float64 { return bs.ShareCapital })},
			{Label: "Retained Earnings", Indent: true, Values: pick(func(bs engine.BalanceSheet) float64 { return bs.RetainedEarnings })},
			{Label: "Total Liabilities & Equity", Values: pick(func(bs engine.BalanceSheet) float64 { return bs.TotalLiabilitiesAndEquity })},
		},
	}
}

// CashFlowTable lays out the indirect-method cash flow statement, one column
// per period.
func CashFlowTable(result *engine.ProjectionResult) Table {
	n := len(result.Periods)
	pick := func(f func(engine.CashFlowStatement) float64) []float64 {
		values := make([]float64, n)
		for i, p := range result.Periods {
			values[i] = f(p.CashFlow)
		}
		return values
	}

	return Table{
		Title: "Cash Flow Statement",
		Rows: []Row{
			{Label: "Operating Activities", Header: true},
			{Label: "Net Income", Indent: true, Values: pick(func(cf engine.CashFlowStatement) float64 { return cf.NetIncome })},
			{Label: "Depreciation", Indent: true, Values: pick(func(cf engine.CashFlowStatement) float64 { return cf.Depreciation })},
			{Label: "Change in Working Capital", Indent: true, Values: pick(func(cf engine.CashFlowStatement) float64 { return cf.ChangeInWorkingCapital })},
			{Label: "Net Cash from Operating", Values: pick(func(cf engine.CashFlowStatement) float64 { return cf.Operating })},
			{Label: "Investing Activities", Header: true},
			{Label: "Capital Expenditure", Indent: true, Values: pick(func(cf engine.CashFlowStatement) float64 { return -cf.Capex })},
			{Label: "Net Cash from Investing", Values: pick(func(cf engine.CashFlowStatement) float64 { return cf.Investing })},
			{Label: "Financing Activities", Header: true},
			{Label: "Change in Debt", Indent: true, Values: pick(func(cf engine.CashFlowStatement) float64 { return cf.ChangeInDebt })},
			{Label: "Dividends Paid", Indent: true, Values: pick(func(cf engine.CashFlowStatement) float64 { return -cf.Dividends })},
			{Label: "Net Cash from Financing", Values: pick(func(cf engine.CashFlowStatement) float64 { return cf.Financing })},
			{Label: "Net Change in Cash", Values: pick(func(cf engine.CashFlowStatement) float64 { return cf.NetChangeInCash })},
			{Label: "Closing Cash Balance", Values: pick(func(cf engine.CashFlowStatement) float64 { return cf.ClosingCash })},
		},
	}
}

// ScheduleTable lays out the PP&E roll-forward schedule, one column per
// period.
func ScheduleTable(result *engine.ProjectionResult) Table {
	n := len(result.Periods)
	opening := make([]float64, n)
	capex := make([]float64, n)
	depreciation := make([]float64, n)
	closing := make([]float64, n)
	for i, p := range result.Periods {
		capex[i] = p.CashFlow.Capex
		depreciation[i] = p.Income.Depreciation
		closing[i] = p.Balance.NetPPE
		opening[i] = p.Balance.NetPPE - p.CashFlow.Capex + p.Income.Depreciation
	}

	return Table{
		Title: "PP&E Schedule",
		Rows: []Row{
			{Label: "Opening PP&E", Values: opening},
			{Label: "Capital Expenditure", Values: capex},
			{Label: "Depreciation", Values: depreciation},
			{Label: "Closing PP&E", Values: closing},
		},
	}
}

// Tables returns all statement tables in display order.
func Tables(result *engine.ProjectionResult) []Table {
	return []Table{
		IncomeTable(result),
		BalanceTable(result),
		CashFlowTable(result),
		ScheduleTable(result),
	}
}
