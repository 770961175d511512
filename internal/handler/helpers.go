package handler

import (
	"net/url"
	"strconv"

	"github.com/budgetbook/budgetbook/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// parseAmount parses a decimal request field
func parseAmount(field, value string) (decimal.Decimal, *ValidationError) {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: field, Message: "Must be a valid decimal number"}
	}
	return amount, nil
}

// parseOptionalAmount parses a decimal field that may be omitted
func parseOptionalAmount(field string, value *string) (*decimal.Decimal, *ValidationError) {
	if value == nil {
		return nil, nil
	}
	amount, verr := parseAmount(field, *value)
	if verr != nil {
		return nil, verr
	}
	return &amount, nil
}

// parseDate parses a YYYY-MM-DD request field
func parseDate(field, value string) (domain.Date, *ValidationError) {
	date, err := domain.ParseDate(value)
	if err != nil {
		return domain.Date{}, &ValidationError{Field: field, Message: "Must be a date in YYYY-MM-DD format"}
	}
	return date, nil
}

// parseOptionalDate parses a date field that may be omitted
func parseOptionalDate(field string, value *string) (*domain.Date, *ValidationError) {
	if value == nil {
		return nil, nil
	}
	date, verr := parseDate(field, *value)
	if verr != nil {
		return nil, verr
	}
	return &date, nil
}

// collectErrors drops nil entries
func collectErrors(errs ...*ValidationError) []ValidationError {
	var out []ValidationError
	for _, e := range errs {
		if e != nil {
			out = append(out, *e)
		}
	}
	return out
}

// monthParam reads and validates the :month path parameter
func monthParam(c echo.Context) (domain.MonthKey, error) {
	return domain.ParseMonthKey(c.Param("month"))
}

// pathParam returns a path parameter with percent-escapes decoded
func pathParam(c echo.Context, name string) string {
	raw := c.Param(name)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

// intQuery reads a positive integer query parameter with a default
func intQuery(c echo.Context, name string, defaultValue, max int) (int, *ValidationError) {
	raw := c.QueryParam(name)
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > max {
		return 0, &ValidationError{
			Field:   name,
			Message: "Must be a whole number between 1 and " + strconv.Itoa(max),
		}
	}
	return n, nil
}
