package service

import (
	"context"
	"errors"
	"strings"

	"github.com/budgetbook/budgetbook/internal/domain"
	"github.com/budgetbook/budgetbook/internal/websocket"
)

// CategoryService manages the expense category list
type CategoryService struct {
	store *Store
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(store *Store) *CategoryService {
	return &CategoryService{store: store}
}

// CategoryView is a category plus whether it can be removed
type CategoryView struct {
	Name    string `json:"name"`
	Default bool   `json:"default"`
}

// GetCategories returns the expense categories in stored order
func (s *CategoryService) GetCategories() []CategoryView {
	doc := s.store.Snapshot()
	views := make([]CategoryView, 0, len(doc.Settings.ExpenseCategories))
	for _, name := range doc.Settings.ExpenseCategories {
		views = append(views, CategoryView{
			Name:    name,
			Default: domain.IsDefaultCategory(name),
		})
	}
	return views
}

// AddCustomCategory appends name unless it already exists (ignoring case).
// A duplicate is not an error: added is false and nothing is persisted.
func (s *CategoryService) AddCustomCategory(ctx context.Context, name string) (added bool, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, domain.ErrNameRequired
	}
	if len(name) > domain.MaxCategoryLength {
		return false, domain.ErrNameTooLong
	}

	if _, exists := s.store.Snapshot().Settings.FindCategory(name); exists {
		return false, nil
	}

	err = s.store.mutate(ctx, func(doc *domain.Document) (websocket.Event, error) {
		if !doc.Settings.AddCategory(name) {
			return websocket.Event{}, errCategoryExists
		}
		return websocket.CategoryCreated(map[string]string{"name": name}), nil
	})
	if errors.Is(err, errCategoryExists) {
		return false, nil
	}
	return err == nil || isPersistenceError(err), err
}

// RemoveCustomCategory removes a custom category. Default categories are
// rejected with domain.ErrDefaultCategory and the list is left unchanged.
// Entries still referencing the category are kept as they are.
func (s *CategoryService) RemoveCustomCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	return s.store.mutate(ctx, func(doc *domain.Document) (websocket.Event, error) {
		canonical, _ := doc.Settings.FindCategory(name)
		if err := doc.Settings.RemoveCategory(name); err != nil {
			return websocket.Event{}, err
		}
		return websocket.CategoryDeleted(map[string]string{"name": canonical}), nil
	})
}
