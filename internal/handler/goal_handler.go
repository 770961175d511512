package handler

import (
	"net/http"

	"github.com/budgetbook/budgetbook/internal/service"
	"github.com/labstack/echo/v4"
)

// GoalHandler handles savings goal HTTP requests
type GoalHandler struct {
	goalService *service.GoalService
}

// NewGoalHandler creates a new GoalHandler
func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// CreateGoalRequest represents the create goal request body
type CreateGoalRequest struct {
	Title        string  `json:"title" validate:"required,max=200"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=500"`
	TargetAmount string  `json:"targetAmount" validate:"required"`
	TargetDate   string  `json:"targetDate" validate:"required"`
}

// UpdateGoalRequest represents the update goal request body; omitted fields are kept
type UpdateGoalRequest struct {
	Title        *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Description  *string `json:"description,omitempty" validate:"omitempty,max=500"`
	TargetAmount *string `json:"targetAmount,omitempty"`
	TargetDate   *string `json:"targetDate,omitempty"`
}

// CreateGoal handles POST /api/v1/goals
func (h *GoalHandler) CreateGoal(c echo.Context) error {
	var req CreateGoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return NewValidationError(c, "Request validation failed", formatValidationErrors(err))
	}

	target, targetErr := parseAmount("targetAmount", req.TargetAmount)
	date, dateErr := parseDate("targetDate", req.TargetDate)
	if errs := collectErrors(targetErr, dateErr); len(errs) > 0 {
		return NewValidationError(c, "Request validation failed", errs)
	}

	goal, err := h.goalService.AddGoal(c.Request().Context(), service.CreateGoalInput{
		Title:        req.Title,
		Description:  req.Description,
		TargetAmount: target,
		TargetDate:   date,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, goal)
}

// GetGoals handles GET /api/v1/goals, returning each goal with its progress
func (h *GoalHandler) GetGoals(c echo.Context) error {
	return c.JSON(http.StatusOK, h.goalService.GetGoals())
}

// GetGoalProgress handles GET /api/v1/goals/:id/progress
func (h *GoalHandler) GetGoalProgress(c echo.Context) error {
	progress, err := h.goalService.GetGoalProgress(c.Param("id"))
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, progress)
}

// UpdateGoal handles PUT /api/v1/goals/:id
func (h *GoalHandler) UpdateGoal(c echo.Context) error {
	var req UpdateGoalRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return NewValidationError(c, "Request validation failed", formatValidationErrors(err))
	}

	target, targetErr := parseOptionalAmount("targetAmount", req.TargetAmount)
	date, dateErr := parseOptionalDate("targetDate", req.TargetDate)
	if errs := collectErrors(targetErr, dateErr); len(errs) > 0 {
		return NewValidationError(c, "Request validation failed", errs)
	}

	goal, err := h.goalService.UpdateGoal(c.Request().Context(), c.Param("id"), service.UpdateGoalInput{
		Title:        req.Title,
		Description:  req.Description,
		TargetAmount: target,
		TargetDate:   date,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, goal)
}

// DeleteGoal handles DELETE /api/v1/goals/:id
func (h *GoalHandler) DeleteGoal(c echo.Context) error {
	if err := h.goalService.DeleteGoal(c.Request().Context(), c.Param("id")); err != nil {
		return handleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
