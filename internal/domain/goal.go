package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrGoalNotFound      = errors.New("goal not found")
	ErrGoalTitleEmpty    = errors.New("goal title is required")
	ErrGoalTitleTooLong  = errors.New("goal title must be 200 characters or less")
	ErrGoalTargetInvalid = errors.New("goal target amount must be positive")
	ErrGoalDateInvalid   = errors.New("goal target date is required")
)

// Goal is a savings target. Progress is derived from savings entries at read
// time and never stored.
type Goal struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Description  *string         `json:"description,omitempty"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	TargetDate   Date            `json:"targetDate"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func (g *Goal) Validate() error {
	title := strings.TrimSpace(g.Title)
	if title == "" {
		return ErrGoalTitleEmpty
	}
	if len(title) > MaxNameLength {
		return ErrGoalTitleTooLong
	}
	if g.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return ErrGoalTargetInvalid
	}
	if g.TargetDate.IsZero() {
		return ErrGoalDateInvalid
	}
	return nil
}

// validateStored relaxes Validate for stored goals: a zero target is
// accepted and reported as complete once anything is saved
func (g *Goal) validateStored() error {
	if strings.TrimSpace(g.Title) == "" {
		return ErrGoalTitleEmpty
	}
	if g.TargetAmount.IsNegative() {
		return ErrGoalTargetInvalid
	}
	if g.TargetDate.IsZero() {
		return ErrGoalDateInvalid
	}
	return nil
}

// GoalProgress is the derived view of a goal
type GoalProgress struct {
	Goal      Goal            `json:"goal"`
	Saved     decimal.Decimal `json:"saved"`
	Remaining decimal.Decimal `json:"remaining"`
	Percent   decimal.Decimal `json:"percent"`
}
