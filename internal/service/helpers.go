package service

import (
	"errors"
	"strings"

	"github.com/budgetbook/budgetbook/internal/domain"
)

// trimmedOrNil trims an optional string, mapping blank values to nil
func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func isPersistenceError(err error) bool {
	return errors.Is(err, domain.ErrPersistenceFailed)
}

// errCategoryExists aborts a category mutation that lost a race with an
// identical add; callers treat it as a silent duplicate
var errCategoryExists = errors.New("category already exists")
