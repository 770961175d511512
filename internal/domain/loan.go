package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrLoanNotFound       = errors.New("loan not found")
	ErrLoanNameEmpty      = errors.New("loan name is required")
	ErrLoanNameTooLong    = errors.New("loan name must be 200 characters or less")
	ErrLoanAmountInvalid  = errors.New("loan principal must be positive")
	ErrLoanPaidInvalid    = errors.New("loan paid amount cannot be negative")
	ErrLoanPaymentInvalid = errors.New("loan payment amount must be positive")
)

type Loan struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Lender     *string         `json:"lender,omitempty"`
	Principal  decimal.Decimal `json:"principal"`
	PaidAmount decimal.Decimal `json:"paidAmount"`
	DueDate    *Date           `json:"dueDate,omitempty"`
	Notes      *string         `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// Validate checks the raw loan fields. paidAmount <= principal is not
// enforced here; AddPayment clamps instead.
func (l *Loan) Validate() error {
	name := strings.TrimSpace(l.Name)
	if name == "" {
		return ErrLoanNameEmpty
	}
	if len(name) > MaxNameLength {
		return ErrLoanNameTooLong
	}
	if l.Principal.LessThanOrEqual(decimal.Zero) {
		return ErrLoanAmountInvalid
	}
	if l.PaidAmount.IsNegative() {
		return ErrLoanPaidInvalid
	}
	return nil
}

// Remaining returns the outstanding balance, never below zero
func (l *Loan) Remaining() decimal.Decimal {
	remaining := l.Principal.Sub(l.PaidAmount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// IsPaidOff returns true once the paid amount covers the principal
func (l *Loan) IsPaidOff() bool {
	return l.PaidAmount.GreaterThanOrEqual(l.Principal)
}

// AddPayment adds amount to the paid total, clamped to the principal
func (l *Loan) AddPayment(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrLoanPaymentInvalid
	}
	l.PaidAmount = decimal.Min(l.PaidAmount.Add(amount), l.Principal)
	return nil
}
