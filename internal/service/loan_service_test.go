package service

import (
	"context"
	"testing"
	"time"

	"github.com/budgetbook/budgetbook/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addLoan(t *testing.T, svc *LoanService, principal, paid string) *domain.Loan {
	t.Helper()
	loan, err := svc.AddLoan(context.Background(), CreateLoanInput{
		Name:       "Car loan",
		Lender:     strPtr("Credit Union"),
		Principal:  dec(principal),
		PaidAmount: dec(paid),
	})
	require.NoError(t, err)
	return loan
}

func TestLoanService_AddLoan(t *testing.T) {
	f := newLoadedStore(t)
	svc := NewLoanService(f.store)
	due := domain.NewDate(2025, time.June, 30)

	loan, err := svc.AddLoan(context.Background(), CreateLoanInput{
		Name:      "  Laptop  ",
		Principal: dec("1200"),
		DueDate:   &due,
		Notes:     strPtr(""),
	})

	require.NoError(t, err)
	assert.NotEmpty(t, loan.ID)
	assert.Equal(t, "Laptop", loan.Name)
	assert.Nil(t, loan.Notes)
	assert.True(t, testNow.Equal(loan.CreatedAt))
	assert.Len(t, svc.GetLoans(), 1)
	assert.Equal(t, []string{"loan.created"}, f.publisher.Types())
}

func TestLoanService_AddLoanValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   CreateLoanInput
		wantErr error
	}{
		{name: "empty name", input: CreateLoanInput{Name: " ", Principal: dec("10")}, wantErr: domain.ErrLoanNameEmpty},
		{name: "zero principal", input: CreateLoanInput{Name: "x", Principal: dec("0")}, wantErr: domain.ErrLoanAmountInvalid},
		{name: "negative paid", input: CreateLoanInput{Name: "x", Principal: dec("10"), PaidAmount: dec("-1")}, wantErr: domain.ErrLoanPaidInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLoadedStore(t)

			_, err := NewLoanService(f.store).AddLoan(context.Background(), tt.input)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.store.Snapshot().Loans)
		})
	}
}

func TestLoanService_UpdateLoanAllowsOverpaidRawUpdate(t *testing.T) {
	f := newLoadedStore(t)
	svc := NewLoanService(f.store)
	loan := addLoan(t, svc, "1000", "0")
	paid := dec("1500")

	updated, err := svc.UpdateLoan(context.Background(), loan.ID, UpdateLoanInput{PaidAmount: &paid})

	require.NoError(t, err)
	assertDecimal(t, "1500", updated.PaidAmount)
	assertDecimal(t, "0", updated.Remaining())
	assert.True(t, updated.IsPaidOff())
}

func TestLoanService_UpdateLoanNotFound(t *testing.T) {
	f := newLoadedStore(t)

	_, err := NewLoanService(f.store).UpdateLoan(context.Background(), "missing", UpdateLoanInput{})

	assert.ErrorIs(t, err, domain.ErrLoanNotFound)
}

func TestLoanService_AddLoanPaymentClampsToPrincipal(t *testing.T) {
	f := newLoadedStore(t)
	svc := NewLoanService(f.store)
	loan := addLoan(t, svc, "1000", "900")

	updated, err := svc.AddLoanPayment(context.Background(), loan.ID, dec("250"))

	require.NoError(t, err)
	assertDecimal(t, "1000", updated.PaidAmount)
	assert.True(t, updated.IsPaidOff())

	stored, err := svc.GetLoanByID(loan.ID)
	require.NoError(t, err)
	assertDecimal(t, "1000", stored.PaidAmount)
}

func TestLoanService_AddLoanPaymentValidation(t *testing.T) {
	f := newLoadedStore(t)
	svc := NewLoanService(f.store)
	loan := addLoan(t, svc, "1000", "0")

	_, err := svc.AddLoanPayment(context.Background(), loan.ID, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrLoanPaymentInvalid)

	_, err = svc.AddLoanPayment(context.Background(), "missing", dec("10"))
	assert.ErrorIs(t, err, domain.ErrLoanNotFound)
}

func TestLoanService_DeleteLoan(t *testing.T) {
	f := newLoadedStore(t)
	svc := NewLoanService(f.store)
	first := addLoan(t, svc, "100", "0")
	second := addLoan(t, svc, "200", "0")

	require.NoError(t, svc.DeleteLoan(context.Background(), first.ID))

	loans := svc.GetLoans()
	require.Len(t, loans, 1)
	assert.Equal(t, second.ID, loans[0].ID)
	assert.ErrorIs(t, svc.DeleteLoan(context.Background(), first.ID), domain.ErrLoanNotFound)

	_, err := svc.GetLoanByID(first.ID)
	assert.ErrorIs(t, err, domain.ErrLoanNotFound)
}
