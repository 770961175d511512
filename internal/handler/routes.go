package handler

import (
	"github.com/budgetbook/budgetbook/internal/middleware"
	"github.com/labstack/echo/v4"
)

// Handlers groups every HTTP handler registered by RegisterRoutes
type Handlers struct {
	Entry     *EntryHandler
	Loan      *LoanHandler
	Goal      *GoalHandler
	Category  *CategoryHandler
	Summary   *SummaryHandler
	Transfer  *TransferHandler
	Backup    *BackupHandler
	WebSocket *WebSocketHandler
}

// RegisterRoutes sets up all API routes. Bulk operations (import, backup
// and restore) are rate limited by client IP.
func RegisterRoutes(e *echo.Echo, h Handlers, bulkLimiter *middleware.RateLimiter) {
	api := e.Group("/api/v1")
	bulk := middleware.RateLimitMiddleware(bulkLimiter)

	// Entry routes
	entries := api.Group("/entries")
	entries.POST("", h.Entry.CreateEntry)
	entries.GET("", h.Entry.GetEntries)
	entries.GET("/:id", h.Entry.GetEntry)
	entries.PUT("/:id", h.Entry.UpdateEntry)
	entries.DELETE("/:id", h.Entry.DeleteEntry)
	api.POST("/savings", h.Entry.AddSavings)
	api.GET("/savings/total", h.Summary.GetTotalSavings)

	// Loan routes
	loans := api.Group("/loans")
	loans.POST("", h.Loan.CreateLoan)
	loans.GET("", h.Loan.GetLoans)
	loans.GET("/summary", h.Summary.GetLoanSummary)
	loans.GET("/:id", h.Loan.GetLoan)
	loans.PUT("/:id", h.Loan.UpdateLoan)
	loans.POST("/:id/payments", h.Loan.AddPayment)
	loans.DELETE("/:id", h.Loan.DeleteLoan)

	// Goal routes
	goals := api.Group("/goals")
	goals.POST("", h.Goal.CreateGoal)
	goals.GET("", h.Goal.GetGoals)
	goals.GET("/:id/progress", h.Goal.GetGoalProgress)
	goals.PUT("/:id", h.Goal.UpdateGoal)
	goals.DELETE("/:id", h.Goal.DeleteGoal)

	// Category routes
	categories := api.Group("/categories")
	categories.GET("", h.Category.GetCategories)
	categories.POST("", h.Category.AddCategory)
	categories.DELETE("/:name", h.Category.DeleteCategory)

	// Aggregation routes
	months := api.Group("/months")
	months.GET("/:month/totals", h.Summary.GetMonthTotals)
	months.GET("/:month/breakdown", h.Summary.GetCategoryBreakdown)
	months.GET("/:month/savings", h.Summary.GetMonthSavings)
	api.GET("/transactions/recent", h.Summary.GetRecentTransactions)
	api.GET("/series/expenses", h.Summary.GetExpenseSeries)
	api.GET("/series/savings", h.Summary.GetSavingsSeries)

	// Document routes
	api.GET("/document", h.Transfer.GetDocument)
	api.DELETE("/document", h.Transfer.ResetDocument)
	api.GET("/export", h.Transfer.ExportJSON)
	api.GET("/export.xlsx", h.Transfer.ExportXLSX)
	api.POST("/import", h.Transfer.Import, bulk)

	// Backup routes
	backups := api.Group("/backups")
	backups.GET("", h.Backup.ListBackups)
	backups.POST("", h.Backup.CreateBackup, bulk)
	backups.POST("/restore", h.Backup.RestoreBackup, bulk)

	e.GET("/ws", h.WebSocket.HandleWS)
}
