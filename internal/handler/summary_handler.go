package handler

import (
	"net/http"

	"github.com/budgetbook/budgetbook/internal/domain"
	"github.com/budgetbook/budgetbook/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

const (
	defaultRecentLimit  = 10
	maxRecentLimit      = 100
	defaultSeriesMonths = 6
	maxSeriesMonths     = 120
)

// SummaryHandler serves the read-only dashboard aggregations
type SummaryHandler struct {
	store       *service.Store
	aggregation *service.AggregationService
}

// NewSummaryHandler creates a new SummaryHandler
func NewSummaryHandler(store *service.Store, aggregation *service.AggregationService) *SummaryHandler {
	return &SummaryHandler{store: store, aggregation: aggregation}
}

// SavingsMonthResponse is the savings total of a single month
type SavingsMonthResponse struct {
	Month   domain.MonthKey `json:"month"`
	Savings decimal.Decimal `json:"savings"`
}

// TotalSavingsResponse is the all-time savings total
type TotalSavingsResponse struct {
	Total decimal.Decimal `json:"total"`
}

// GetMonthTotals handles GET /api/v1/months/:month/totals
func (h *SummaryHandler) GetMonthTotals(c echo.Context) error {
	month, err := monthParam(c)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, h.aggregation.TotalsForMonth(h.store.Snapshot(), month))
}

// GetCategoryBreakdown handles GET /api/v1/months/:month/breakdown
func (h *SummaryHandler) GetCategoryBreakdown(c echo.Context) error {
	month, err := monthParam(c)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, h.aggregation.CategoryBreakdown(h.store.Snapshot(), month))
}

// GetMonthSavings handles GET /api/v1/months/:month/savings
func (h *SummaryHandler) GetMonthSavings(c echo.Context) error {
	month, err := monthParam(c)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, SavingsMonthResponse{
		Month:   month,
		Savings: h.aggregation.SavingsForMonth(h.store.Snapshot(), month),
	})
}

// GetRecentTransactions handles GET /api/v1/transactions/recent?limit=N
func (h *SummaryHandler) GetRecentTransactions(c echo.Context) error {
	limit, verr := intQuery(c, "limit", defaultRecentLimit, maxRecentLimit)
	if verr != nil {
		return NewValidationError(c, "Invalid query parameter", []ValidationError{*verr})
	}
	return c.JSON(http.StatusOK, h.aggregation.RecentTransactions(h.store.Snapshot(), limit))
}

// GetExpenseSeries handles GET /api/v1/series/expenses?end=YYYY-MM&months=N.
// end defaults to the current month.
func (h *SummaryHandler) GetExpenseSeries(c echo.Context) error {
	months, verr := intQuery(c, "months", defaultSeriesMonths, maxSeriesMonths)
	if verr != nil {
		return NewValidationError(c, "Invalid query parameter", []ValidationError{*verr})
	}

	end := domain.CurrentMonthKey(h.store.Now())
	if raw := c.QueryParam("end"); raw != "" {
		parsed, err := domain.ParseMonthKey(raw)
		if err != nil {
			return NewValidationError(c, "Invalid query parameter", []ValidationError{
				{Field: "end", Message: "Must be a month in YYYY-MM format"},
			})
		}
		end = parsed
	}

	series, err := h.aggregation.ExpenseSeriesForWindow(h.store.Snapshot(), end, months)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, series)
}

// GetSavingsSeries handles GET /api/v1/series/savings?months=N
func (h *SummaryHandler) GetSavingsSeries(c echo.Context) error {
	months, verr := intQuery(c, "months", defaultSeriesMonths, maxSeriesMonths)
	if verr != nil {
		return NewValidationError(c, "Invalid query parameter", []ValidationError{*verr})
	}

	series, err := h.aggregation.SavingsByMonth(h.store.Snapshot(), months)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, series)
}

// GetTotalSavings handles GET /api/v1/savings/total
func (h *SummaryHandler) GetTotalSavings(c echo.Context) error {
	return c.JSON(http.StatusOK, TotalSavingsResponse{
		Total: h.aggregation.TotalSavings(h.store.Snapshot()),
	})
}

// GetLoanSummary handles GET /api/v1/loans/summary
func (h *SummaryHandler) GetLoanSummary(c echo.Context) error {
	return c.JSON(http.StatusOK, h.aggregation.LoanSummary(h.store.Snapshot()))
}
