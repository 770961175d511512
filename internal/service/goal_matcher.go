package service

import (
	"strings"

	"github.com/budgetbook/budgetbook/internal/domain"
)

// GoalMatcher decides whether a savings entry counts toward a goal
type GoalMatcher interface {
	Matches(goal domain.Goal, entry domain.Entry) bool
}

// TitleGoalMatcher links entries to goals by text: the goal title must appear,
// ignoring case, in the entry's description or note. A blank title matches
// nothing.
type TitleGoalMatcher struct{}

// Matches implements GoalMatcher
func (TitleGoalMatcher) Matches(goal domain.Goal, entry domain.Entry) bool {
	title := strings.ToLower(strings.TrimSpace(goal.Title))
	if title == "" {
		return false
	}
	return strings.Contains(strings.ToLower(entry.Description), title) ||
		strings.Contains(strings.ToLower(entry.NoteText()), title)
}

// LinkedGoalMatcher links entries to goals through Entry.GoalID. Entries
// without a goal id are handed to Fallback, which keeps data recorded before
// goal ids existed counting toward their goals.
type LinkedGoalMatcher struct {
	Fallback GoalMatcher
}

// Matches implements GoalMatcher
func (m LinkedGoalMatcher) Matches(goal domain.Goal, entry domain.Entry) bool {
	if entry.GoalID != nil {
		return *entry.GoalID == goal.ID
	}
	if m.Fallback == nil {
		return false
	}
	return m.Fallback.Matches(goal, entry)
}

// DefaultGoalMatcher prefers goal ids and falls back to title matching
func DefaultGoalMatcher() GoalMatcher {
	return LinkedGoalMatcher{Fallback: TitleGoalMatcher{}}
}
