package handler

import (
	"errors"
	"net/http"

	"github.com/budgetbook/budgetbook/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation  = "https://budgetbook.app/errors/validation"
	ErrorTypeNotFound    = "https://budgetbook.app/errors/not-found"
	ErrorTypeConflict    = "https://budgetbook.app/errors/conflict"
	ErrorTypeInternal    = "https://budgetbook.app/errors/internal"
	ErrorTypeUnavailable = "https://budgetbook.app/errors/unavailable"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return c.JSON(http.StatusConflict, ProblemDetails{
		Type:     ErrorTypeConflict,
		Title:    "Conflict",
		Status:   http.StatusConflict,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewServiceUnavailableError creates a service unavailable error response
func NewServiceUnavailableError(c echo.Context, detail string) error {
	return c.JSON(http.StatusServiceUnavailable, ProblemDetails{
		Type:     ErrorTypeUnavailable,
		Title:    "Service Unavailable",
		Status:   http.StatusServiceUnavailable,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

var notFoundErrors = []error{
	domain.ErrEntryNotFound,
	domain.ErrLoanNotFound,
	domain.ErrGoalNotFound,
	domain.ErrCategoryNotFound,
	domain.ErrBackupNotFound,
	domain.ErrNotFound,
}

var validationErrors = []error{
	domain.ErrInvalidInput,
	domain.ErrNameRequired,
	domain.ErrNameTooLong,
	domain.ErrEntryTypeInvalid,
	domain.ErrEntryAmountInvalid,
	domain.ErrEntryCategoryEmpty,
	domain.ErrEntryDateInvalid,
	domain.ErrEntryDescriptionLong,
	domain.ErrCategoryUnknown,
	domain.ErrLoanNameEmpty,
	domain.ErrLoanNameTooLong,
	domain.ErrLoanAmountInvalid,
	domain.ErrLoanPaidInvalid,
	domain.ErrLoanPaymentInvalid,
	domain.ErrGoalTitleEmpty,
	domain.ErrGoalTitleTooLong,
	domain.ErrGoalTargetInvalid,
	domain.ErrGoalDateInvalid,
	domain.ErrImportFormat,
	domain.ErrInvalidImportMode,
}

// handleServiceError maps domain errors onto problem responses
func handleServiceError(c echo.Context, err error) error {
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return NewNotFoundError(c, target.Error())
		}
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return NewValidationError(c, err.Error(), nil)
		}
	}

	switch {
	case errors.Is(err, domain.ErrDefaultCategory):
		return NewConflictError(c, err.Error())
	case errors.Is(err, domain.ErrPersistenceFailed):
		return NewServiceUnavailableError(c, "The change was applied but could not be saved; it will be written with the next successful save")
	case errors.Is(err, domain.ErrStorageUnreadable):
		return NewServiceUnavailableError(c, "Saved budget data could not be read; changes are refused until it can be")
	case errors.Is(err, domain.ErrBackupsDisabled):
		return NewServiceUnavailableError(c, err.Error())
	}

	log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("Unhandled service error")
	return NewInternalError(c, "An unexpected error occurred")
}
