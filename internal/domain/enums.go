package domain

import "fmt"

// EventType drives display styling only.
type EventType string

const (
	EventDeadline  EventType = "deadline"
	EventMilestone EventType = "milestone"
	EventMeeting   EventType = "meeting"
	EventTask      EventType = "task"
)

// EventTypes lists the known event types in display order.
var EventTypes = []EventType{EventDeadline, EventMilestone, EventMeeting, EventTask}

// Known reports whether t is one of the enumerated event types. Unknown
// values are kept as-is and rendered with a generic style.
func (t EventType) Known() bool {
	switch t {
	case EventDeadline, EventMilestone, EventMeeting, EventTask:
		return true
	}
	return false
}

type EventStatus string

const (
	StatusUpcoming  EventStatus = "upcoming"
	StatusCompleted EventStatus = "completed"
	StatusCancelled EventStatus = "cancelled"
)

// EventStatuses lists the known statuses in display order.
var EventStatuses = []EventStatus{StatusUpcoming, StatusCompleted, StatusCancelled}

func (s EventStatus) Known() bool {
	switch s {
	case StatusUpcoming, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists the known priorities from most to least urgent.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

func (p Priority) Known() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// ViewMode selects which projection a calendar session renders.
type ViewMode string

const (
	ViewMonth ViewMode = "month"
	ViewWeek  ViewMode = "week"
	ViewList  ViewMode = "list"
)

func (m ViewMode) Known() bool {
	switch m {
	case ViewMonth, ViewWeek, ViewList:
		return true
	}
	return false
}

// ParseViewMode converts user input into a ViewMode.
func ParseViewMode(s string) (ViewMode, error) {
	m := ViewMode(s)
	if !m.Known() {
		return "", fmt.Errorf("unknown view mode %q (want month, week or list)", s)
	}
	return m, nil
}
