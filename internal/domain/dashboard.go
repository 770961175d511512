package domain

import "github.com/shopspring/decimal"

// MonthTotals contains the income/expense totals of one month bucket
type MonthTotals struct {
	Month     MonthKey        `json:"month"`
	Income    decimal.Decimal `json:"income"`
	Expense   decimal.Decimal `json:"expense"`
	Remaining decimal.Decimal `json:"remaining"`
}

// SeriesPoint is one month of a rolling expense window
type SeriesPoint struct {
	Month MonthKey        `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// SavingsPoint is one month of the savings trend
type SavingsPoint struct {
	Month   MonthKey        `json:"month"`
	Savings decimal.Decimal `json:"savings"`
	Label   string          `json:"label"`
}

// CategoryAmount holds income and expense sums for a single category
type CategoryAmount struct {
	Category string          `json:"category"`
	Income   decimal.Decimal `json:"income"`
	Expense  decimal.Decimal `json:"expense"`
}

// CategoryBreakdown is the tabular per-category summary of a month
type CategoryBreakdown struct {
	Month      MonthKey         `json:"month"`
	Categories []CategoryAmount `json:"categories"`
	Totals     MonthTotals      `json:"totals"`
}

// LoanSummary aggregates all loans
type LoanSummary struct {
	TotalPrincipal decimal.Decimal `json:"totalPrincipal"`
	TotalPaid      decimal.Decimal `json:"totalPaid"`
	TotalRemaining decimal.Decimal `json:"totalRemaining"`
	ActiveCount    int             `json:"activeCount"`
	PaidOffCount   int             `json:"paidOffCount"`
}
