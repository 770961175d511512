package domain

import (
	"fmt"
	"strconv"
	"time"

	"github.com/budgetbook/budgetbook/internal/util"
)

// MonthKey identifies a calendar month bucket in the form YYYY-MM
type MonthKey string

// NewMonthKey formats year and month as a MonthKey
func NewMonthKey(year int, month time.Month) MonthKey {
	return MonthKey(fmt.Sprintf("%04d-%02d", year, int(month)))
}

// ParseMonthKey validates s and returns it as a MonthKey
func ParseMonthKey(s string) (MonthKey, error) {
	if len(s) != 7 || s[4] != '-' {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
	}
	month, err := strconv.Atoi(s[5:])
	if err != nil || month < 1 || month > 12 {
		return "", fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
	}
	return NewMonthKey(year, time.Month(month)), nil
}

// YearMonth splits the key into its year and month.
// Callers must only use keys produced by NewMonthKey or ParseMonthKey.
func (k MonthKey) YearMonth() (int, time.Month) {
	year, _ := strconv.Atoi(string(k[:4]))
	month, _ := strconv.Atoi(string(k[5:]))
	return year, time.Month(month)
}

// AddMonths returns the key n months away, rolling over year boundaries in
// both directions
func (k MonthKey) AddMonths(n int) MonthKey {
	year, month := k.YearMonth()
	y, m := util.ShiftMonth(year, int(month), n)
	return NewMonthKey(y, time.Month(m))
}

// Label renders the key as a short human label, e.g. "Mar 2024"
func (k MonthKey) Label() string {
	year, month := k.YearMonth()
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006")
}

// CurrentMonthKey returns the key of the month containing t
func CurrentMonthKey(t time.Time) MonthKey {
	return NewMonthKey(t.Year(), t.Month())
}

// ErrInvalidMonthKey is returned for month keys not in YYYY-MM form
var ErrInvalidMonthKey = fmt.Errorf("%w: month must be in YYYY-MM format", ErrInvalidInput)
