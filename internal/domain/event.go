package domain

import (
	"slices"
	"strings"
	"time"
)

type CalendarEvent struct {
	ID        string
	ProjectID string
	Title     string
	Type      EventType
	Date      Date

	// Display-only fields, empty when unset.
	Time        string
	Duration    string
	Location    string
	Description string

	Status   EventStatus
	Priority Priority

	// AssignedTo is an insertion-ordered set of display names.
	AssignedTo []string
	Tags       []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy of e.
func (e CalendarEvent) Clone() CalendarEvent {
	e.AssignedTo = slices.Clone(e.AssignedTo)
	e.Tags = slices.Clone(e.Tags)
	return e
}

// IsAssignedTo reports whether name is among the event's assignees.
func (e CalendarEvent) IsAssignedTo(name string) bool {
	return slices.Contains(e.AssignedTo, name)
}

// AppendAssignees appends each name not already present in names,
// skipping blanks, and returns the extended set.
func AppendAssignees(names []string, add ...string) []string {
	for _, n := range add {
		n = strings.TrimSpace(n)
		if n == "" || slices.Contains(names, n) {
			continue
		}
		names = append(names, n)
	}
	return names
}
