package handler

import (
	"net/http"

	"github.com/budgetbook/budgetbook/internal/domain"
	"github.com/budgetbook/budgetbook/internal/service"
	"github.com/labstack/echo/v4"
)

// EntryHandler handles income/expense entry HTTP requests
type EntryHandler struct {
	entryService *service.EntryService
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(entryService *service.EntryService) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

// CreateEntryRequest represents the create entry request body
type CreateEntryRequest struct {
	Type        string  `json:"type" validate:"required,oneof=income expense"`
	Amount      string  `json:"amount" validate:"required"`
	Category    string  `json:"category" validate:"required,max=100"`
	Description string  `json:"description" validate:"max=500"`
	Date        string  `json:"date" validate:"required"`
	Note        *string `json:"note,omitempty" validate:"omitempty,max=500"`
	GoalID      *string `json:"goalId,omitempty"`
}

// UpdateEntryRequest represents the update entry request body.
// Omitted fields keep their value; an empty note or goalId clears it.
type UpdateEntryRequest struct {
	Type        *string `json:"type,omitempty" validate:"omitempty,oneof=income expense"`
	Amount      *string `json:"amount,omitempty"`
	Category    *string `json:"category,omitempty" validate:"omitempty,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Date        *string `json:"date,omitempty"`
	Note        *string `json:"note,omitempty" validate:"omitempty,max=500"`
	GoalID      *string `json:"goalId,omitempty"`
}

// SavingsRequest represents the add savings request body
type SavingsRequest struct {
	Amount      string  `json:"amount" validate:"required"`
	Description string  `json:"description" validate:"max=500"`
	Date        string  `json:"date" validate:"required"`
	Note        *string `json:"note,omitempty" validate:"omitempty,max=500"`
	GoalID      *string `json:"goalId,omitempty"`
}

// CreateEntry handles POST /api/v1/entries
func (h *EntryHandler) CreateEntry(c echo.Context) error {
	var req CreateEntryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return NewValidationError(c, "Request validation failed", formatValidationErrors(err))
	}

	amount, amountErr := parseAmount("amount", req.Amount)
	date, dateErr := parseDate("date", req.Date)
	if errs := collectErrors(amountErr, dateErr); len(errs) > 0 {
		return NewValidationError(c, "Request validation failed", errs)
	}

	entry, err := h.entryService.AddEntry(c.Request().Context(), service.CreateEntryInput{
		Type:        domain.EntryType(req.Type),
		Amount:      amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        date,
		Note:        req.Note,
		GoalID:      req.GoalID,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, entry)
}

// AddSavings handles POST /api/v1/savings
func (h *EntryHandler) AddSavings(c echo.Context) error {
	var req SavingsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return NewValidationError(c, "Request validation failed", formatValidationErrors(err))
	}

	amount, amountErr := parseAmount("amount", req.Amount)
	date, dateErr := parseDate("date", req.Date)
	if errs := collectErrors(amountErr, dateErr); len(errs) > 0 {
		return NewValidationError(c, "Request validation failed", errs)
	}

	entry, err := h.entryService.AddSavings(c.Request().Context(), service.SavingsInput{
		Amount:      amount,
		Description: req.Description,
		Date:        date,
		Note:        req.Note,
		GoalID:      req.GoalID,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, entry)
}

// GetEntries handles GET /api/v1/entries?month=YYYY-MM
func (h *EntryHandler) GetEntries(c echo.Context) error {
	month, err := domain.ParseMonthKey(c.QueryParam("month"))
	if err != nil {
		return NewValidationError(c, "Invalid month", []ValidationError{
			{Field: "month", Message: "Must be in YYYY-MM format"},
		})
	}
	return c.JSON(http.StatusOK, h.entryService.GetEntriesForMonth(month))
}

// GetEntry handles GET /api/v1/entries/:id
func (h *EntryHandler) GetEntry(c echo.Context) error {
	entry, err := h.entryService.GetEntry(c.Param("id"))
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}

// UpdateEntry handles PUT /api/v1/entries/:id
func (h *EntryHandler) UpdateEntry(c echo.Context) error {
	var req UpdateEntryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return NewValidationError(c, "Request validation failed", formatValidationErrors(err))
	}

	amount, amountErr := parseOptionalAmount("amount", req.Amount)
	date, dateErr := parseOptionalDate("date", req.Date)
	if errs := collectErrors(amountErr, dateErr); len(errs) > 0 {
		return NewValidationError(c, "Request validation failed", errs)
	}

	input := service.UpdateEntryInput{
		Amount:      amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        date,
		Note:        req.Note,
		GoalID:      req.GoalID,
	}
	if req.Type != nil {
		entryType := domain.EntryType(*req.Type)
		input.Type = &entryType
	}

	entry, err := h.entryService.UpdateEntry(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, entry)
}

// DeleteEntry handles DELETE /api/v1/entries/:id
func (h *EntryHandler) DeleteEntry(c echo.Context) error {
	if err := h.entryService.DeleteEntry(c.Request().Context(), c.Param("id")); err != nil {
		return handleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
