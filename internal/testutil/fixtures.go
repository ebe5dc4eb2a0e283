package testutil

import (
	"time"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/google/uuid"
)

// FixedNow is the wall clock used by deterministic tests.
var FixedNow = time.Date(2025, 4, 5, 10, 0, 0, 0, time.UTC)

// FixedClock returns a clock that always reports FixedNow.
func FixedClock() func() time.Time {
	return func() time.Time { return FixedNow }
}

// Date builds a domain.Date without error handling; tests only.
func Date(y int, m time.Month, d int) domain.Date {
	return domain.Date{Year: y, Month: m, Day: d}
}

// Event options
type EventOption func(*domain.CalendarEvent)

func WithID(id string) EventOption {
	return func(e *domain.CalendarEvent) {
		e.ID = id
	}
}

func WithEventType(t domain.EventType) EventOption {
	return func(e *domain.CalendarEvent) {
		e.Type = t
	}
}

func WithPriority(p domain.Priority) EventOption {
	return func(e *domain.CalendarEvent) {
		e.Priority = p
	}
}

func WithStatus(s domain.EventStatus) EventOption {
	return func(e *domain.CalendarEvent) {
		e.Status = s
	}
}

func WithDate(d domain.Date) EventOption {
	return func(e *domain.CalendarEvent) {
		e.Date = d
	}
}

func WithTime(t string) EventOption {
	return func(e *domain.CalendarEvent) {
		e.Time = t
	}
}

func WithAssignees(names ...string) EventOption {
	return func(e *domain.CalendarEvent) {
		e.AssignedTo = names
	}
}

func WithTags(tags ...string) EventOption {
	return func(e *domain.CalendarEvent) {
		e.Tags = tags
	}
}

func WithDetails(duration, location, description string) EventOption {
	return func(e *domain.CalendarEvent) {
		e.Duration = duration
		e.Location = location
		e.Description = description
	}
}

// NewTestEvent returns an upcoming medium-priority meeting on 2025-04-05.
func NewTestEvent(projectID, title string, opts ...EventOption) domain.CalendarEvent {
	e := domain.CalendarEvent{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Title:     title,
		Type:      domain.EventMeeting,
		Date:      Date(2025, time.April, 5),
		Status:    domain.StatusUpcoming,
		Priority:  domain.PriorityMedium,
		CreatedAt: FixedNow,
		UpdatedAt: FixedNow,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}
