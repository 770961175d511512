package service

import (
	"context"
	"strings"

	"github.com/budgetbook/budgetbook/internal/domain"
	"github.com/budgetbook/budgetbook/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoanService handles loan business logic
type LoanService struct {
	store *Store
}

// NewLoanService creates a new LoanService
func NewLoanService(store *Store) *LoanService {
	return &LoanService{store: store}
}

// CreateLoanInput contains input for creating a loan
type CreateLoanInput struct {
	Name       string
	Lender     *string
	Principal  decimal.Decimal
	PaidAmount decimal.Decimal
	DueDate    *domain.Date
	Notes      *string
}

// UpdateLoanInput contains the fields to change; nil fields are kept
type UpdateLoanInput struct {
	Name       *string
	Lender     *string
	Principal  *decimal.Decimal
	PaidAmount *decimal.Decimal
	DueDate    *domain.Date
	Notes      *string
}

// AddLoan creates a new loan
func (s *LoanService) AddLoan(ctx context.Context, input CreateLoanInput) (*domain.Loan, error) {
	now := s.store.Now()
	loan := domain.Loan{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(input.Name),
		Lender:     trimmedOrNil(input.Lender),
		Principal:  input.Principal,
		PaidAmount: input.PaidAmount,
		DueDate:    input.DueDate,
		Notes:      trimmedOrNil(input.Notes),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := loan.Validate(); err != nil {
		return nil, err
	}

	err := s.store.mutate(ctx, func(doc *domain.Document) (websocket.Event, error) {
		doc.Loans = append(doc.Loans, loan)
		return websocket.LoanCreated(loan), nil
	})
	if err != nil && !isPersistenceError(err) {
		return nil, err
	}
	return &loan, err
}

// UpdateLoan merges input over the loan. paidAmount is not checked against
// the principal here; only AddPayment enforces that bound.
func (s *LoanService) UpdateLoan(ctx context.Context, id string, input UpdateLoanInput) (*domain.Loan, error) {
	var updated domain.Loan
	err := s.store.mutate(ctx, func(doc *domain.Document) (websocket.Event, error) {
		i := doc.FindLoan(id)
		if i < 0 {
			return websocket.Event{}, domain.ErrLoanNotFound
		}

		loan := doc.Loans[i]
		if input.Name != nil {
			loan.Name = strings.TrimSpace(*input.Name)
		}
		if input.Lender != nil {
			loan.Lender = trimmedOrNil(input.Lender)
		}
		if input.Principal != nil {
			loan.Principal = *input.Principal
		}
		if input.PaidAmount != nil {
			loan.PaidAmount = *input.PaidAmount
		}
		if input.DueDate != nil {
			due := *input.DueDate
			loan.DueDate = &due
		}
		if input.Notes != nil {
			loan.Notes = trimmedOrNil(input.Notes)
		}
		if err := loan.Validate(); err != nil {
			return websocket.Event{}, err
		}
		loan.UpdatedAt = s.store.Now()

		doc.Loans[i] = loan
		updated = loan
		return websocket.LoanUpdated(loan), nil
	})
	if err != nil && !isPersistenceError(err) {
		return nil, err
	}
	return &updated, err
}

// AddLoanPayment records a repayment, clamping the paid total to the principal
func (s *LoanService) AddLoanPayment(ctx context.Context, id string, amount decimal.Decimal) (*domain.Loan, error) {
	var updated domain.Loan
	err := s.store.mutate(ctx, func(doc *domain.Document) (websocket.Event, error) {
		i := doc.FindLoan(id)
		if i < 0 {
			return websocket.Event{}, domain.ErrLoanNotFound
		}

		loan := doc.Loans[i]
		if err := loan.AddPayment(amount); err != nil {
			return websocket.Event{}, err
		}
		loan.UpdatedAt = s.store.Now()

		doc.Loans[i] = loan
		updated = loan
		return websocket.LoanUpdated(loan), nil
	})
	if err != nil && !isPersistenceError(err) {
		return nil, err
	}
	return &updated, err
}

// DeleteLoan removes a loan
func (s *LoanService) DeleteLoan(ctx context.Context, id string) error {
	return s.store.mutate(ctx, func(doc *domain.Document) (websocket.Event, error) {
		i := doc.FindLoan(id)
		if i < 0 {
			return websocket.Event{}, domain.ErrLoanNotFound
		}
		doc.Loans = append(doc.Loans[:i:i], doc.Loans[i+1:]...)
		return websocket.LoanDeleted(map[string]string{"id": id}), nil
	})
}

// GetLoans retrieves all loans in insertion order
func (s *LoanService) GetLoans() []domain.Loan {
	return s.store.Snapshot().Loans
}

// GetLoanByID retrieves a loan by id
func (s *LoanService) GetLoanByID(id string) (*domain.Loan, error) {
	doc := s.store.Snapshot()
	i := doc.FindLoan(id)
	if i < 0 {
		return nil, domain.ErrLoanNotFound
	}
	return &doc.Loans[i], nil
}
