package calendar

import (
	"slices"

	"github.com/alexanderramin/planboard/internal/domain"
)

// FilterState selects events along three independent facets. An empty
// facet matches everything.
type FilterState struct {
	Types      []domain.EventType
	Priorities []domain.Priority
	Users      []string
}

// IsEmpty reports whether no facet constrains the result.
func (f FilterState) IsEmpty() bool {
	return len(f.Types) == 0 && len(f.Priorities) == 0 && len(f.Users) == 0
}

// Matches reports whether e passes every non-empty facet of f. The users
// facet matches when any assignee is among the selected users.
func Matches(e domain.CalendarEvent, f FilterState) bool {
	if len(f.Types) > 0 && !slices.Contains(f.Types, e.Type) {
		return false
	}
	if len(f.Priorities) > 0 && !slices.Contains(f.Priorities, e.Priority) {
		return false
	}
	if len(f.Users) > 0 && !slices.ContainsFunc(f.Users, e.IsAssignedTo) {
		return false
	}
	return true
}

// Filter returns the events matching f, preserving input order.
func Filter(events []domain.CalendarEvent, f FilterState) []domain.CalendarEvent {
	out := make([]domain.CalendarEvent, 0, len(events))
	for _, e := range events {
		if Matches(e, f) {
			out = append(out, e)
		}
	}
	return out
}

// ToggleType returns a copy of f with t added to or removed from the
// types facet.
func (f FilterState) ToggleType(t domain.EventType) FilterState {
	f.Types = toggle(f.Types, t)
	return f
}

func (f FilterState) TogglePriority(p domain.Priority) FilterState {
	f.Priorities = toggle(f.Priorities, p)
	return f
}

func (f FilterState) ToggleUser(name string) FilterState {
	f.Users = toggle(f.Users, name)
	return f
}

func toggle[T comparable](set []T, v T) []T {
	if i := slices.Index(set, v); i >= 0 {
		return slices.Delete(slices.Clone(set), i, i+1)
	}
	return append(slices.Clone(set), v)
}
