package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonthKey(t *testing.T) {
	valid := []string{"2024-01", "2024-12", "1999-06"}
	for _, s := range valid {
		key, err := ParseMonthKey(s)
		require.NoError(t, err, s)
		assert.Equal(t, MonthKey(s), key)
	}

	invalid := []string{"", "2024-1", "2024-13", "2024-00", "2024/03", "24-03", "abcd-03", "2024-03-01"}
	for _, s := range invalid {
		_, err := ParseMonthKey(s)
		assert.True(t, errors.Is(err, ErrInvalidInput), "expected %q to be rejected", s)
	}
}

func TestMonthKey_AddMonths(t *testing.T) {
	tests := []struct {
		start MonthKey
		n     int
		want  MonthKey
	}{
		{"2024-03", 0, "2024-03"},
		{"2024-03", 1, "2024-04"},
		{"2024-12", 1, "2025-01"},
		{"2024-01", -1, "2023-12"},
		{"2024-02", -4, "2023-10"},
		{"2024-02", -26, "2021-12"},
		{"2024-11", 14, "2026-01"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.start.AddMonths(tt.n), "%s%+d", tt.start, tt.n)
	}
}

func TestMonthKey_Label(t *testing.T) {
	assert.Equal(t, "Mar 2024", MonthKey("2024-03").Label())
	assert.Equal(t, "Dec 2023", MonthKey("2023-12").Label())
}

func TestCurrentMonthKey(t *testing.T) {
	assert.Equal(t, MonthKey("2024-02"), CurrentMonthKey(time.Date(2024, time.February, 29, 23, 59, 0, 0, time.UTC)))
}
