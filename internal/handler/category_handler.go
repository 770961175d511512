package handler

import (
	"net/http"

	"github.com/budgetbook/budgetbook/internal/service"
	"github.com/labstack/echo/v4"
)

// CategoryHandler handles expense category HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// AddCategoryRequest represents the add category request body
type AddCategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// AddCategoryResponse reports whether the category was new
type AddCategoryResponse struct {
	Name  string `json:"name"`
	Added bool   `json:"added"`
}

// GetCategories handles GET /api/v1/categories
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, h.categoryService.GetCategories())
}

// AddCategory handles POST /api/v1/categories. A duplicate answers 200 with
// added=false instead of an error.
func (h *CategoryHandler) AddCategory(c echo.Context) error {
	var req AddCategoryRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return NewValidationError(c, "Request validation failed", formatValidationErrors(err))
	}

	added, err := h.categoryService.AddCustomCategory(c.Request().Context(), req.Name)
	if err != nil {
		return handleServiceError(c, err)
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	return c.JSON(status, AddCategoryResponse{Name: req.Name, Added: added})
}

// DeleteCategory handles DELETE /api/v1/categories/:name
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	if err := h.categoryService.RemoveCustomCategory(c.Request().Context(), pathParam(c, "name")); err != nil {
		return handleServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
