package service

import (
	"context"
	"strings"

	"github.com/budgetbook/budgetbook/internal/domain"
	"github.com/budgetbook/budgetbook/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryService handles income/expense entry business logic
type EntryService struct {
	store *Store
}

// NewEntryService creates a new EntryService
func NewEntryService(store *Store) *EntryService {
	return &EntryService{store: store}
}

// CreateEntryInput contains input for creating an entry
type CreateEntryInput struct {
	Type        domain.EntryType
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        domain.Date
	Note        *string
	GoalID      *string
}

// UpdateEntryInput contains the fields to change; nil fields are kept.
// An empty Note or GoalID clears the field.
type UpdateEntryInput struct {
	Type        *domain.EntryType
	Amount      *decimal.Decimal
	Category    *string
	Description *string
	Date        *domain.Date
	Note        *string
	GoalID      *string
}

// SavingsInput contains input for recording a savings contribution
type SavingsInput struct {
	Amount      decimal.Decimal
	Description string
	Date        domain.Date
	Note        *string
	GoalID      *string
}

// AddEntry assigns an id and timestamps, then appends the entry to the bucket
// of its date's month. On a persistence failure the entry is still returned
// together with an error wrapping domain.ErrPersistenceFailed.
func (s *EntryService) AddEntry(ctx context.Context, input CreateEntryInput) (*domain.Entry, error) {
	now := s.store.Now()
	entry := domain.Entry{
		ID:          uuid.NewString(),
		Type:        input.Type,
		Amount:      input.Amount,
		Category:    strings.TrimSpace(input.Category),
		Description: strings.TrimSpace(input.Description),
		Date:        input.Date,
		Note:        trimmedOrNil(input.Note),
		GoalID:      trimmedOrNil(input.GoalID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	err := s.store.mutate(ctx, func(doc *domain.Document) (websocket.Event, error) {
		if err := resolveEntryReferences(doc, &entry); err != nil {
			return websocket.Event{}, err
		}
		doc.AppendEntry(entry)
		return websocket.EntryCreated(entry), nil
	})
	if err != nil && !isPersistenceError(err) {
		return nil, err
	}
	return &entry, err
}

// AddSavings records a savings contribution: an expense in the Savings category
func (s *EntryService) AddSavings(ctx context.Context, input SavingsInput) (*domain.Entry, error) {
	return s.AddEntry(ctx, CreateEntryInput{
		Type:        domain.EntryTypeExpense,
		Amount:      input.Amount,
		Category:    domain.SavingsCategory,
		Description: input.Description,
		Date:        input.Date,
		Note:        input.Note,
		GoalID:      input.GoalID,
	})
}

// UpdateEntry merges input over the entry with id. The entry stays in the
// bucket it was created in, even when its date moves to another month.
func (s *EntryService) UpdateEntry(ctx context.Context, id string, input UpdateEntryInput) (*domain.Entry, error) {
	var updated domain.Entry
	err := s.store.mutate(ctx, func(doc *domain.Document) (websocket.Event, error) {
		key, i, ok := doc.FindEntry(id)
		if !ok {
			return websocket.Event{}, domain.ErrEntryNotFound
		}

		entry := doc.Entries[key][i]
		recheckCategory := applyEntryUpdate(&entry, input)
		if err := entry.Validate(); err != nil {
			return websocket.Event{}, err
		}
		if recheckCategory {
			if err := resolveEntryReferences(doc, &entry); err != nil {
				return websocket.Event{}, err
			}
		}
		entry.UpdatedAt = s.store.Now()

		doc.Entries[key][i] = entry
		updated = entry
		return websocket.EntryUpdated(entry), nil
	})
	if err != nil && !isPersistenceError(err) {
		return nil, err
	}
	return &updated, err
}

// DeleteEntry removes the entry with id from whichever bucket holds it
func (s *EntryService) DeleteEntry(ctx context.Context, id string) error {
	return s.store.mutate(ctx, func(doc *domain.Document) (websocket.Event, error) {
		removed, ok := doc.RemoveEntry(id)
		if !ok {
			return websocket.Event{}, domain.ErrEntryNotFound
		}
		return websocket.EntryDeleted(map[string]string{
			"id":    removed.ID,
			"month": string(removed.MonthKey()),
		}), nil
	})
}

// GetEntry retrieves an entry by id
func (s *EntryService) GetEntry(id string) (*domain.Entry, error) {
	doc := s.store.Snapshot()
	key, i, ok := doc.FindEntry(id)
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	entry := doc.Entries[key][i]
	return &entry, nil
}

// GetEntriesForMonth returns the entries stored in a month bucket, newest first
func (s *EntryService) GetEntriesForMonth(month domain.MonthKey) []domain.Entry {
	doc := s.store.Snapshot()
	entries := append([]domain.Entry{}, doc.Entries[month]...)
	sortEntriesNewestFirst(entries)
	return entries
}

// applyEntryUpdate copies the set fields of input onto entry and reports
// whether the category has to be checked again
func applyEntryUpdate(entry *domain.Entry, input UpdateEntryInput) bool {
	recheck := false
	if input.Type != nil {
		entry.Type = *input.Type
		recheck = true
	}
	if input.Amount != nil {
		entry.Amount = *input.Amount
	}
	if input.Category != nil {
		entry.Category = strings.TrimSpace(*input.Category)
		recheck = true
	}
	if input.Description != nil {
		entry.Description = strings.TrimSpace(*input.Description)
	}
	if input.Date != nil {
		entry.Date = *input.Date
	}
	if input.Note != nil {
		entry.Note = trimmedOrNil(input.Note)
	}
	if input.GoalID != nil {
		entry.GoalID = trimmedOrNil(input.GoalID)
		recheck = true
	}
	return recheck
}

// resolveEntryReferences checks an expense category against the category list
// (storing its canonical spelling) and that a linked goal exists
func resolveEntryReferences(doc *domain.Document, entry *domain.Entry) error {
	if entry.Type == domain.EntryTypeExpense {
		canonical, ok := doc.Settings.FindCategory(entry.Category)
		if !ok {
			return domain.ErrCategoryUnknown
		}
		entry.Category = canonical
	}
	if entry.GoalID != nil && doc.FindGoal(*entry.GoalID) < 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}
