package service

import (
	"context"
	"strings"

	"github.com/budgetbook/budgetbook/internal/domain"
	"github.com/budgetbook/budgetbook/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GoalService handles savings goal business logic
type GoalService struct {
	store       *Store
	aggregation *AggregationService
}

// NewGoalService creates a new GoalService
func NewGoalService(store *Store, aggregation *AggregationService) *GoalService {
	return &GoalService{
		store:       store,
		aggregation: aggregation,
	}
}

// CreateGoalInput contains input for creating a goal
type CreateGoalInput struct {
	Title        string
	Description  *string
	TargetAmount decimal.Decimal
	TargetDate   domain.Date
}

// UpdateGoalInput contains the fields to change; nil fields are kept
type UpdateGoalInput struct {
	Title        *string
	Description  *string
	TargetAmount *decimal.Decimal
	TargetDate   *domain.Date
}

// AddGoal creates a new goal
func (s *GoalService) AddGoal(ctx context.Context, input CreateGoalInput) (*domain.Goal, error) {
	now := s.store.Now()
	goal := domain.Goal{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(input.Title),
		Description:  trimmedOrNil(input.Description),
		TargetAmount: input.TargetAmount,
		TargetDate:   input.TargetDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := goal.Validate(); err != nil {
		return nil, err
	}

	err := s.store.mutate(ctx, func(doc *domain.Document) (websocket.Event, error) {
		doc.Goals = append(doc.Goals, goal)
		return websocket.GoalCreated(goal), nil
	})
	if err != nil && !isPersistenceError(err) {
		return nil, err
	}
	return &goal, err
}

// UpdateGoal merges input over the goal with id
func (s *GoalService) UpdateGoal(ctx context.Context, id string, input UpdateGoalInput) (*domain.Goal, error) {
	var updated domain.Goal
	err := s.store.mutate(ctx, func(doc *domain.Document) (websocket.Event, error) {
		i := doc.FindGoal(id)
		if i < 0 {
			return websocket.Event{}, domain.ErrGoalNotFound
		}

		goal := doc.Goals[i]
		if input.Title != nil {
			goal.Title = strings.TrimSpace(*input.Title)
		}
		if input.Description != nil {
			goal.Description = trimmedOrNil(input.Description)
		}
		if input.TargetAmount != nil {
			goal.TargetAmount = *input.TargetAmount
		}
		if input.TargetDate != nil {
			goal.TargetDate = *input.TargetDate
		}
		if err := goal.Validate(); err != nil {
			return websocket.Event{}, err
		}
		goal.UpdatedAt = s.store.Now()

		doc.Goals[i] = goal
		updated = goal
		return websocket.GoalUpdated(goal), nil
	})
	if err != nil && !isPersistenceError(err) {
		return nil, err
	}
	return &updated, err
}

// DeleteGoal removes a goal. Entries linked through goalId keep the id and
// simply stop counting toward any goal.
func (s *GoalService) DeleteGoal(ctx context.Context, id string) error {
	return s.store.mutate(ctx, func(doc *domain.Document) (websocket.Event, error) {
		i := doc.FindGoal(id)
		if i < 0 {
			return websocket.Event{}, domain.ErrGoalNotFound
		}
		doc.Goals = append(doc.Goals[:i:i], doc.Goals[i+1:]...)
		return websocket.GoalDeleted(map[string]string{"id": id}), nil
	})
}

// GetGoals returns every goal with its derived progress
func (s *GoalService) GetGoals() []domain.GoalProgress {
	doc := s.store.Snapshot()
	result := make([]domain.GoalProgress, 0, len(doc.Goals))
	for _, goal := range doc.Goals {
		result = append(result, s.aggregation.GoalProgress(doc, goal))
	}
	return result
}

// GetGoalProgress returns the derived progress of one goal
func (s *GoalService) GetGoalProgress(id string) (*domain.GoalProgress, error) {
	doc := s.store.Snapshot()
	i := doc.FindGoal(id)
	if i < 0 {
		return nil, domain.ErrGoalNotFound
	}
	progress := s.aggregation.GoalProgress(doc, doc.Goals[i])
	return &progress, nil
}
