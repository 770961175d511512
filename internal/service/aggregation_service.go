package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/budgetbook/budgetbook/internal/domain"
	"github.com/budgetbook/budgetbook/internal/util"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// AggregationService computes derived views over a Document. It never
// mutates the document it is given; only SavingsByMonth reads the clock.
type AggregationService struct {
	now     Clock
	matcher GoalMatcher
}

// NewAggregationService creates a new AggregationService
func NewAggregationService() *AggregationService {
	return &AggregationService{
		now:     systemClock,
		matcher: DefaultGoalMatcher(),
	}
}

// SetClock replaces the time source used by SavingsByMonth
func (s *AggregationService) SetClock(clock Clock) {
	s.now = clock
}

// SetGoalMatcher replaces the rule linking savings entries to goals
func (s *AggregationService) SetGoalMatcher(matcher GoalMatcher) {
	s.matcher = matcher
}

// TotalsForMonth sums the month bucket by entry type. A missing bucket
// yields zero totals.
func (s *AggregationService) TotalsForMonth(doc *domain.Document, month domain.MonthKey) domain.MonthTotals {
	return totalsOf(month, doc.Entries[month])
}

func totalsOf(month domain.MonthKey, entries []domain.Entry) domain.MonthTotals {
	totals := domain.MonthTotals{
		Month:   month,
		Income:  decimal.Zero,
		Expense: decimal.Zero,
	}
	for _, e := range entries {
		switch e.Type {
		case domain.EntryTypeIncome:
			totals.Income = totals.Income.Add(e.Amount)
		case domain.EntryTypeExpense:
			totals.Expense = totals.Expense.Add(e.Amount)
		}
	}
	totals.Remaining = totals.Income.Sub(totals.Expense)
	return totals
}

// RecentTransactions returns up to limit entries across all months, newest
// date first. Entries sharing a date are ordered by createdAt (newest first),
// then by id, so the result is stable.
func (s *AggregationService) RecentTransactions(doc *domain.Document, limit int) []domain.Entry {
	if limit <= 0 {
		return []domain.Entry{}
	}

	all := doc.AllEntries()
	sortEntriesNewestFirst(all)

	if len(all) > limit {
		all = all[:limit]
	}
	if all == nil {
		all = []domain.Entry{}
	}
	return all
}

// ExpenseSeriesForWindow returns count consecutive months ending at end
// (inclusive), oldest first, each with the sum of that month's expenses
func (s *AggregationService) ExpenseSeriesForWindow(doc *domain.Document, end domain.MonthKey, count int) ([]domain.SeriesPoint, error) {
	months, err := monthWindow(end, count)
	if err != nil {
		return nil, err
	}

	series := make([]domain.SeriesPoint, 0, len(months))
	for _, month := range months {
		total := decimal.Zero
		for _, e := range doc.Entries[month] {
			if e.Type == domain.EntryTypeExpense {
				total = total.Add(e.Amount)
			}
		}
		series = append(series, domain.SeriesPoint{Month: month, Total: total})
	}
	return series, nil
}

// SavingsForMonth sums Savings-category expenses in one month bucket
func (s *AggregationService) SavingsForMonth(doc *domain.Document, month domain.MonthKey) decimal.Decimal {
	return sumSavings(doc.Entries[month])
}

// TotalSavings sums Savings-category expenses across every month
func (s *AggregationService) TotalSavings(doc *domain.Document) decimal.Decimal {
	total := decimal.Zero
	for _, bucket := range doc.Entries {
		total = total.Add(sumSavings(bucket))
	}
	return total
}

// SavingsByMonth returns the savings of the current month and the count-1
// months before it, oldest first
func (s *AggregationService) SavingsByMonth(doc *domain.Document, count int) ([]domain.SavingsPoint, error) {
	months, err := monthWindow(domain.CurrentMonthKey(s.now()), count)
	if err != nil {
		return nil, err
	}

	points := make([]domain.SavingsPoint, 0, len(months))
	for _, month := range months {
		points = append(points, domain.SavingsPoint{
			Month:   month,
			Savings: sumSavings(doc.Entries[month]),
			Label:   month.Label(),
		})
	}
	return points, nil
}

// GoalProgress sums the savings entries the matcher links to goal and
// expresses them as a percentage of the target, clamped to 0..100.
// A zero target counts as 100% once anything has been saved toward it.
func (s *AggregationService) GoalProgress(doc *domain.Document, goal domain.Goal) domain.GoalProgress {
	saved := decimal.Zero
	matched := false
	for _, bucket := range doc.Entries {
		for _, e := range bucket {
			if e.IsSavings() && s.matcher.Matches(goal, e) {
				saved = saved.Add(e.Amount)
				matched = true
			}
		}
	}

	var percent decimal.Decimal
	switch {
	case goal.TargetAmount.IsZero():
		if matched {
			percent = hundred
		} else {
			percent = decimal.Zero
		}
	default:
		percent = saved.Div(goal.TargetAmount).Mul(hundred)
	}
	percent = clampPercent(percent).Round(2)

	remaining := goal.TargetAmount.Sub(saved)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return domain.GoalProgress{
		Goal:      goal,
		Saved:     saved,
		Remaining: remaining,
		Percent:   percent,
	}
}

// CategoryBreakdown groups a month's entries by category, summing income and
// expense separately. Categories are ordered by name, ignoring case.
func (s *AggregationService) CategoryBreakdown(doc *domain.Document, month domain.MonthKey) domain.CategoryBreakdown {
	entries := doc.Entries[month]

	byCategory := make(map[string]*domain.CategoryAmount)
	for _, e := range entries {
		row, ok := byCategory[e.Category]
		if !ok {
			row = &domain.CategoryAmount{
				Category: e.Category,
				Income:   decimal.Zero,
				Expense:  decimal.Zero,
			}
			byCategory[e.Category] = row
		}
		switch e.Type {
		case domain.EntryTypeIncome:
			row.Income = row.Income.Add(e.Amount)
		case domain.EntryTypeExpense:
			row.Expense = row.Expense.Add(e.Amount)
		}
	}

	rows := make([]domain.CategoryAmount, 0, len(byCategory))
	for _, row := range byCategory {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := strings.ToLower(rows[i].Category), strings.ToLower(rows[j].Category)
		if a != b {
			return a < b
		}
		return rows[i].Category < rows[j].Category
	})

	return domain.CategoryBreakdown{
		Month:      month,
		Categories: rows,
		Totals:     totalsOf(month, entries),
	}
}

// LoanSummary totals principal, paid and remaining across all loans
func (s *AggregationService) LoanSummary(doc *domain.Document) domain.LoanSummary {
	summary := domain.LoanSummary{
		TotalPrincipal: decimal.Zero,
		TotalPaid:      decimal.Zero,
		TotalRemaining: decimal.Zero,
	}
	for i := range doc.Loans {
		loan := &doc.Loans[i]
		summary.TotalPrincipal = summary.TotalPrincipal.Add(loan.Principal)
		summary.TotalPaid = summary.TotalPaid.Add(loan.PaidAmount)
		summary.TotalRemaining = summary.TotalRemaining.Add(loan.Remaining())
		if loan.IsPaidOff() {
			summary.PaidOffCount++
		} else {
			summary.ActiveCount++
		}
	}
	return summary
}

// monthWindow lists count months ending at end, oldest first. The start is
// end-(count-1) normalized across year boundaries; the walk then moves
// forward one calendar month at a time.
func monthWindow(end domain.MonthKey, count int) ([]domain.MonthKey, error) {
	if _, err := domain.ParseMonthKey(string(end)); err != nil {
		return nil, err
	}
	if count < 1 {
		return nil, fmt.Errorf("%w: months must be at least 1", domain.ErrInvalidInput)
	}

	endYear, endMonth := end.YearMonth()
	year, month := util.WindowStart(endYear, int(endMonth), count)

	months := make([]domain.MonthKey, 0, count)
	for i := 0; i < count; i++ {
		months = append(months, domain.NewMonthKey(year, time.Month(month)))
		year, month = util.NextMonth(year, month)
	}
	return months, nil
}

// sortEntriesNewestFirst orders by date descending, breaking ties by
// createdAt descending and then id
func sortEntriesNewestFirst(entries []domain.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Date.Equal(b.Date.Time) {
			return a.Date.After(b.Date.Time)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func sumSavings(entries []domain.Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.IsSavings() {
			total = total.Add(e.Amount)
		}
	}
	return total
}

func clampPercent(p decimal.Decimal) decimal.Decimal {
	if p.IsNegative() {
		return decimal.Zero
	}
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}
