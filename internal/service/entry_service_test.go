package service

import (
	"context"
	"testing"
	"time"

	"github.com/budgetbook/budgetbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func addEntry(t *testing.T, svc *EntryService, input CreateEntryInput) *domain.Entry {
	t.Helper()
	entry, err := svc.AddEntry(context.Background(), input)
	require.NoError(t, err)
	return entry
}

func TestEntryService_AddEntryScenario(t *testing.T) {
	f := newLoadedStore(t)
	svc := NewEntryService(f.store)
	agg := NewAggregationService()

	entry := addEntry(t, svc, CreateEntryInput{
		Type:     domain.EntryTypeIncome,
		Amount:   dec("5000"),
		Category: "Salary",
		Date:     domain.NewDate(2024, time.March, 10),
	})

	assert.NotEmpty(t, entry.ID)
	assert.True(t, testNow.Equal(entry.CreatedAt))
	assert.True(t, testNow.Equal(entry.UpdatedAt))

	totals := agg.TotalsForMonth(f.store.Snapshot(), "2024-03")
	assertDecimal(t, "5000", totals.Income)
	assertDecimal(t, "0", totals.Expense)
	assertDecimal(t, "5000", totals.Remaining)
	assert.Equal(t, []string{"entry.created"}, f.publisher.Types())
}

func TestEntryService_AddEntryBucketsByDate(t *testing.T) {
	f := newLoadedStore(t)
	svc := NewEntryService(f.store)

	jan := addEntry(t, svc, CreateEntryInput{
		Type:     domain.EntryTypeExpense,
		Amount:   dec("12.50"),
		Category: "Dining Out",
		Date:     domain.NewDate(2024, time.January, 31),
	})
	feb := addEntry(t, svc, CreateEntryInput{
		Type:     domain.EntryTypeExpense,
		Amount:   dec("40"),
		Category: "Utilities",
		Date:     domain.NewDate(2024, time.February, 1),
	})

	doc := f.store.Snapshot()
	require.Len(t, doc.Entries["2024-01"], 1)
	require.Len(t, doc.Entries["2024-02"], 1)
	assert.Equal(t, jan.ID, doc.Entries["2024-01"][0].ID)
	assert.Equal(t, feb.ID, doc.Entries["2024-02"][0].ID)
	assert.NotEqual(t, jan.ID, feb.ID)
}

func TestEntryService_AddEntryValidation(t *testing.T) {
	date := domain.NewDate(2024, time.March, 1)
	tests := []struct {
		name    string
		input   CreateEntryInput
		wantErr error
	}{
		{
			name:    "zero amount",
			input:   CreateEntryInput{Type: domain.EntryTypeIncome, Amount: dec("0"), Category: "Salary", Date: date},
			wantErr: domain.ErrEntryAmountInvalid,
		},
		{
			name:    "negative amount",
			input:   CreateEntryInput{Type: domain.EntryTypeExpense, Amount: dec("-3"), Category: "Other", Date: date},
			wantErr: domain.ErrEntryAmountInvalid,
		},
		{
			name:    "unknown type",
			input:   CreateEntryInput{Type: "transfer", Amount: dec("3"), Category: "Other", Date: date},
			wantErr: domain.ErrEntryTypeInvalid,
		},
		{
			name:    "blank category",
			input:   CreateEntryInput{Type: domain.EntryTypeIncome, Amount: dec("3"), Category: "  ", Date: date},
			wantErr: domain.ErrEntryCategoryEmpty,
		},
		{
			name:    "missing date",
			input:   CreateEntryInput{Type: domain.EntryTypeIncome, Amount: dec("3"), Category: "Salary"},
			wantErr: domain.ErrEntryDateInvalid,
		},
		{
			name:    "expense category not in list",
			input:   CreateEntryInput{Type: domain.EntryTypeExpense, Amount: dec("3"), Category: "Yachts", Date: date},
			wantErr: domain.ErrCategoryUnknown,
		},
		{
			name: "unknown goal",
			input: CreateEntryInput{
				Type: domain.EntryTypeExpense, Amount: dec("3"), Category: "Savings", Date: date,
				GoalID: strPtr("no-such-goal"),
			},
			wantErr: domain.ErrGoalNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLoadedStore(t)
			before := f.repo.PutCount

			entry, err := NewEntryService(f.store).AddEntry(context.Background(), tt.input)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, entry)
			assert.Equal(t, before, f.repo.PutCount)
			assert.Empty(t, f.store.Snapshot().Entries)
		})
	}
}

func TestEntryService_ExpenseCategoryIsCanonicalized(t *testing.T) {
	f := newLoadedStore(t)

	entry := addEntry(t, NewEntryService(f.store), CreateEntryInput{
		Type:     domain.EntryTypeExpense,
		Amount:   dec("80"),
		Category: "groceries / FOOD",
		Date:     domain.NewDate(2024, time.March, 3),
	})

	assert.Equal(t, "Groceries / Food", entry.Category)
	assert.Equal(t, "Groceries / Food", f.store.Snapshot().Entries["2024-03"][0].Category)
}

func TestEntryService_AddSavings(t *testing.T) {
	f := newLoadedStore(t)

	entry, err := NewEntryService(f.store).AddSavings(context.Background(), SavingsInput{
		Amount:      dec("250"),
		Description: "Emergency fund",
		Date:        domain.NewDate(2024, time.March, 5),
		Note:        strPtr("  monthly  "),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.EntryTypeExpense, entry.Type)
	assert.Equal(t, domain.SavingsCategory, entry.Category)
	assert.Equal(t, "monthly", entry.NoteText())
	assert.True(t, entry.IsSavings())
}

func TestEntryService_UpdateEntryDoesNotRebucket(t *testing.T) {
	f := newLoadedStore(t)
	svc := NewEntryService(f.store)
	entry := addEntry(t, svc, CreateEntryInput{
		Type:     domain.EntryTypeExpense,
		Amount:   dec("30"),
		Category: "Transportation",
		Date:     domain.NewDate(2024, time.March, 20),
	})

	later := testNow.Add(24 * time.Hour)
	f.store.SetClock(func() time.Time { return later })
	newDate := domain.NewDate(2024, time.May, 2)
	newAmount := dec("35")

	updated, err := svc.UpdateEntry(context.Background(), entry.ID, UpdateEntryInput{
		Date:   &newDate,
		Amount: &newAmount,
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-05-02", updated.Date.String())
	assertDecimal(t, "35", updated.Amount)
	assert.True(t, later.Equal(updated.UpdatedAt))
	assert.True(t, testNow.Equal(updated.CreatedAt))

	doc := f.store.Snapshot()
	require.Len(t, doc.Entries["2024-03"], 1, "entry stays in its original bucket")
	assert.NotContains(t, doc.Entries, domain.MonthKey("2024-05"))
	assert.Equal(t, "2024-05-02", doc.Entries["2024-03"][0].Date.String())
}

func TestEntryService_UpdateEntryClearsNote(t *testing.T) {
	f := newLoadedStore(t)
	svc := NewEntryService(f.store)
	entry := addEntry(t, svc, CreateEntryInput{
		Type:     domain.EntryTypeIncome,
		Amount:   dec("30"),
		Category: "Refund",
		Date:     domain.NewDate(2024, time.March, 20),
		Note:     strPtr("from store"),
	})

	updated, err := svc.UpdateEntry(context.Background(), entry.ID, UpdateEntryInput{Note: strPtr("")})

	require.NoError(t, err)
	assert.Nil(t, updated.Note)
}

func TestEntryService_UpdateEntryRejectsInvalidChange(t *testing.T) {
	f := newLoadedStore(t)
	svc := NewEntryService(f.store)
	entry := addEntry(t, svc, CreateEntryInput{
		Type:     domain.EntryTypeIncome,
		Amount:   dec("30"),
		Category: "Bonus",
		Date:     domain.NewDate(2024, time.March, 20),
	})

	// Switching to expense requires a listed category
	expense := domain.EntryTypeExpense
	_, err := svc.UpdateEntry(context.Background(), entry.ID, UpdateEntryInput{Type: &expense})
	assert.ErrorIs(t, err, domain.ErrCategoryUnknown)

	zero := dec("0")
	_, err = svc.UpdateEntry(context.Background(), entry.ID, UpdateEntryInput{Amount: &zero})
	assert.ErrorIs(t, err, domain.ErrEntryAmountInvalid)

	stored, err := svc.GetEntry(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EntryTypeIncome, stored.Type)
	assertDecimal(t, "30", stored.Amount)
}

func TestEntryService_UpdateEntryNotFound(t *testing.T) {
	f := newLoadedStore(t)

	_, err := NewEntryService(f.store).UpdateEntry(context.Background(), "missing", UpdateEntryInput{})

	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
}

func TestEntryService_DeleteEntry(t *testing.T) {
	f := newLoadedStore(t)
	svc := NewEntryService(f.store)
	keep := addEntry(t, svc, CreateEntryInput{
		Type: domain.EntryTypeIncome, Amount: dec("1"), Category: "A", Date: domain.NewDate(2024, time.March, 1),
	})
	drop := addEntry(t, svc, CreateEntryInput{
		Type: domain.EntryTypeIncome, Amount: dec("2"), Category: "B", Date: domain.NewDate(2024, time.March, 2),
	})

	require.NoError(t, svc.DeleteEntry(context.Background(), drop.ID))

	entries := svc.GetEntriesForMonth("2024-03")
	require.Len(t, entries, 1)
	assert.Equal(t, keep.ID, entries[0].ID)

	_, err := svc.GetEntry(drop.ID)
	assert.ErrorIs(t, err, domain.ErrEntryNotFound)
	assert.ErrorIs(t, svc.DeleteEntry(context.Background(), drop.ID), domain.ErrEntryNotFound)
	assert.Equal(t, []string{"entry.created", "entry.created", "entry.deleted"}, f.publisher.Types())
}

func TestEntryService_GetEntriesForMonthNewestFirst(t *testing.T) {
	f := newLoadedStore(t)
	svc := NewEntryService(f.store)
	for _, day := range []int{5, 25, 15} {
		addEntry(t, svc, CreateEntryInput{
			Type: domain.EntryTypeIncome, Amount: dec("1"), Category: "Tips", Date: domain.NewDate(2024, time.April, day),
		})
	}

	entries := svc.GetEntriesForMonth("2024-04")

	require.Len(t, entries, 3)
	assert.Equal(t, "2024-04-25", entries[0].Date.String())
	assert.Equal(t, "2024-04-15", entries[1].Date.String())
	assert.Equal(t, "2024-04-05", entries[2].Date.String())
	assert.Empty(t, svc.GetEntriesForMonth("2023-01"))
}
