package handler

import (
	"net/http"

	"github.com/budgetbook/budgetbook/internal/domain"
	"github.com/budgetbook/budgetbook/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// LoanHandler handles loan-related HTTP requests
type LoanHandler struct {
	loanService *service.LoanService
}

// NewLoanHandler creates a new LoanHandler
func NewLoanHandler(loanService *service.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// CreateLoanRequest represents the create loan request body
type CreateLoanRequest struct {
	Name       string  `json:"name" validate:"required,max=200"`
	Lender     *string `json:"lender,omitempty" validate:"omitempty,max=200"`
	Principal  string  `json:"principal" validate:"required"`
	PaidAmount *string `json:"paidAmount,omitempty"`
	DueDate    *string `json:"dueDate,omitempty"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// UpdateLoanRequest represents the update loan request body; omitted fields are kept
type UpdateLoanRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Lender     *string `json:"lender,omitempty" validate:"omitempty,max=200"`
	Principal  *string `json:"principal,omitempty"`
	PaidAmount *string `json:"paidAmount,omitempty"`
	DueDate    *string `json:"dueDate,omitempty"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// LoanPaymentRequest represents the add payment request body
type LoanPaymentRequest struct {
	Amount string `json:"amount" validate:"required"`
}

// LoanResponse represents a loan with its derived balance
type LoanResponse struct {
	domain.Loan
	Remaining decimal.Decimal `json:"remaining"`
	PaidOff   bool            `json:"paidOff"`
}

func toLoanResponse(loan *domain.Loan) LoanResponse {
	return LoanResponse{
		Loan:      *loan,
		Remaining: loan.Remaining(),
		PaidOff:   loan.IsPaidOff(),
	}
}

// CreateLoan handles POST /api/v1/loans
func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req CreateLoanRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return NewValidationError(c, "Request validation failed", formatValidationErrors(err))
	}

	principal, principalErr := parseAmount("principal", req.Principal)
	paid, paidErr := parseOptionalAmount("paidAmount", req.PaidAmount)
	dueDate, dueErr := parseOptionalDate("dueDate", req.DueDate)
	if errs := collectErrors(principalErr, paidErr, dueErr); len(errs) > 0 {
		return NewValidationError(c, "Request validation failed", errs)
	}

	input := service.CreateLoanInput{
		Name:       req.Name,
		Lender:     req.Lender,
		Principal:  principal,
		PaidAmount: decimal.Zero,
		DueDate:    dueDate,
		Notes:      req.Notes,
	}
	if paid != nil {
		input.PaidAmount = *paid
	}

	loan, err := h.loanService.AddLoan(c.Request().Context(), input)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, toLoanResponse(loan))
}

// GetLoans handles GET /api/v1/loans
func (h *LoanHandler) GetLoans(c echo.Context) error {
	loans := h.loanService.GetLoans()
	response := make([]LoanResponse, len(loans))
	for i := range loans {
		response[i] = toLoanResponse(&loans[i])
	}
	return c.JSON(http.StatusOK, response)
}

// GetLoan handles GET /api/v1/loans/:id
func (h *LoanHandler) GetLoan(c echo.Context) error {
	loan, err := h.loanService.GetLoanByID(c.Param("id"))
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toLoanResponse(loan))
}

// UpdateLoan handles PUT /api/v1/loans/:id
func (h *LoanHandler) UpdateLoan(c echo.Context) error {
	var req UpdateLoanRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return NewValidationError(c, "Request validation failed", formatValidationErrors(err))
	}

	principal, principalErr := parseOptionalAmount("principal", req.Principal)
	paid, paidErr := parseOptionalAmount("paidAmount", req.PaidAmount)
	dueDate, dueErr := parseOptionalDate("dueDate", req.DueDate)
	if errs := collectErrors(principalErr, paidErr, dueErr); len(errs) > 0 {
		return NewValidationError(c, "Request validation failed", errs)
	}

	loan, err := h.loanService.UpdateLoan(c.Request().Context(), c.Param("id"), service.UpdateLoanInput{
		Name:       req.Name,
		Lender:     req.Lender,
		Principal:  principal,
		PaidAmount: paid,
		DueDate:    dueDate,
		Notes:      req.Notes,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, toLoanResponse(loan))
}

// AddPayment handles POST /api/v1/loans/:id/payments
func (h *LoanHandler) AddPayment(c echo.Context) error {
	var req LoanPaymentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return NewValidationError(c, "Request validation failed", formatValidationErrors(err))
	}

	amount, amountErr := parseAmount("amount", req.Amount)
	if amountErr != nil {
		return NewValidationError(c, "Request validation failed", []ValidationError{*amountErr})
	}

	loan, err := h.loanService.AddLoanPayment(c.Request().Context(), c.Param("id"), amount)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, toLoanResponse(loan))
}

// DeleteLoan handles DELETE /api/v1/loans/:id
func (h *LoanHandler) DeleteLoan(c echo.Context) error {
	if err := h.loanService.DeleteLoan(c.Request().Context(), c.Param("id")); err != nil {
		return handleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
