package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEntryNotFound        = errors.New("entry not found")
	ErrEntryTypeInvalid     = errors.New("entry type must be income or expense")
	ErrEntryAmountInvalid   = errors.New("entry amount must be positive")
	ErrEntryCategoryEmpty   = errors.New("entry category is required")
	ErrEntryDateInvalid     = errors.New("entry date is required")
	ErrEntryDescriptionLong = errors.New("entry description must be 500 characters or less")
)

type EntryType string

const (
	EntryTypeIncome  EntryType = "income"
	EntryTypeExpense EntryType = "expense"
)

// IsValid reports whether t is one of the two entry variants
func (t EntryType) IsValid() bool {
	return t == EntryTypeIncome || t == EntryTypeExpense
}

// Entry is a single income or expense record. Entries are stored under the
// month bucket derived from their date at creation time.
type Entry struct {
	ID          string          `json:"id"`
	Type        EntryType       `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        Date            `json:"date"`
	Note        *string         `json:"note,omitempty"`
	GoalID      *string         `json:"goalId,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (e *Entry) Validate() error {
	if !e.Type.IsValid() {
		return ErrEntryTypeInvalid
	}
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrEntryAmountInvalid
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEntryCategoryEmpty
	}
	if e.Date.IsZero() {
		return ErrEntryDateInvalid
	}
	if len(e.Description) > MaxDescriptionLength {
		return ErrEntryDescriptionLong
	}
	return nil
}

// MonthKey returns the bucket derived from the entry's current date
func (e *Entry) MonthKey() MonthKey {
	return e.Date.MonthKey()
}

// IsSavings reports whether the entry is a savings contribution, i.e. an
// expense tagged with the Savings category. Categories are canonical by the
// time they are stored, so the match is exact.
func (e *Entry) IsSavings() bool {
	return e.Type == EntryTypeExpense && e.Category == SavingsCategory
}

// NoteText returns the note or an empty string
func (e *Entry) NoteText() string {
	if e.Note == nil {
		return ""
	}
	return *e.Note
}
