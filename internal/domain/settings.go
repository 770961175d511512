package domain

import (
	"errors"
	"strings"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryUnknown  = errors.New("category is not in the expense category list")
	ErrDefaultCategory  = errors.New("default categories cannot be removed")
)

// SavingsCategory tags expense entries that are savings contributions
const SavingsCategory = "Savings"

// DefaultCurrencyLocale is used when no locale is configured
const DefaultCurrencyLocale = "en-US"

// DefaultExpenseCategories are fixed and cannot be removed
var DefaultExpenseCategories = []string{
	"Housing / Rent",
	"Utilities",
	"Groceries / Food",
	"Transportation",
	"Healthcare",
	"Insurance",
	"Debt Payments",
	"Entertainment",
	"Dining Out",
	"Shopping",
	"Education",
	SavingsCategory,
	"Other",
}

type Settings struct {
	CurrencyLocale    string   `json:"currencyLocale"`
	ExpenseCategories []string `json:"expenseCategories"`
}

// IsDefaultCategory reports whether name matches a default category,
// ignoring case
func IsDefaultCategory(name string) bool {
	return indexFold(DefaultExpenseCategories, name) >= 0
}

// FindCategory returns the stored spelling of name, ignoring case
func (s *Settings) FindCategory(name string) (string, bool) {
	i := indexFold(s.ExpenseCategories, strings.TrimSpace(name))
	if i < 0 {
		return "", false
	}
	return s.ExpenseCategories[i], true
}

// AddCategory appends name unless a case-insensitive match already exists.
// Returns false for duplicates.
func (s *Settings) AddCategory(name string) bool {
	if _, ok := s.FindCategory(name); ok {
		return false
	}
	s.ExpenseCategories = append(s.ExpenseCategories, strings.TrimSpace(name))
	return true
}

// RemoveCategory removes a custom category
func (s *Settings) RemoveCategory(name string) error {
	if IsDefaultCategory(strings.TrimSpace(name)) {
		return ErrDefaultCategory
	}
	i := indexFold(s.ExpenseCategories, strings.TrimSpace(name))
	if i < 0 {
		return ErrCategoryNotFound
	}
	s.ExpenseCategories = append(s.ExpenseCategories[:i], s.ExpenseCategories[i+1:]...)
	return nil
}

// ensureDefaults drops blank and duplicate names and appends any default
// category missing from the list
func (s *Settings) ensureDefaults() {
	cleaned := make([]string, 0, len(s.ExpenseCategories)+len(DefaultExpenseCategories))
	for _, c := range s.ExpenseCategories {
		c = strings.TrimSpace(c)
		if c == "" || indexFold(cleaned, c) >= 0 {
			continue
		}
		cleaned = append(cleaned, c)
	}
	for _, c := range DefaultExpenseCategories {
		if indexFold(cleaned, c) < 0 {
			cleaned = append(cleaned, c)
		}
	}
	s.ExpenseCategories = cleaned
}

func indexFold(list []string, name string) int {
	for i, c := range list {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}
