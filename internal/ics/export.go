package ics

import (
	"io"
	"strconv"

	ical "github.com/arran4/golang-ical"

	"github.com/alexanderramin/planboard/internal/domain"
)

const productID = "-//planboard//calendar export//EN"

// Custom properties carrying fields iCalendar has no slot for.
const (
	propAssignee ical.ComponentProperty = "X-PLANBOARD-ASSIGNEE"
	propStatus   ical.ComponentProperty = "X-PLANBOARD-STATUS"
	propTime     ical.ComponentProperty = "X-PLANBOARD-TIME"
	propDuration ical.ComponentProperty = "X-PLANBOARD-DURATION"
	propProject  ical.ComponentProperty = "X-PLANBOARD-PROJECT"
)

// Export renders events as a VCALENDAR with one all-day VEVENT each.
func Export(projectID string, events []domain.CalendarEvent) string {
	return Calendar(projectID, events).Serialize()
}

// Write streams the export of events to w.
func Write(w io.Writer, projectID string, events []domain.CalendarEvent) error {
	_, err := io.WriteString(w, Export(projectID, events))
	return err
}

// Calendar builds the iCalendar object for events.
func Calendar(projectID string, events []domain.CalendarEvent) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	if projectID != "" {
		cal.SetName(projectID)
		cal.SetXWRCalName(projectID)
	}

	for _, e := range events {
		addEvent(cal, e)
	}
	return cal
}

func addEvent(cal *ical.Calendar, e domain.CalendarEvent) {
	ev := cal.AddEvent(e.ID)
	ev.SetSummary(e.Title)
	ev.SetAllDayStartAt(e.Date.Time())
	ev.SetAllDayEndAt(e.Date.AddDays(1).Time())
	if !e.CreatedAt.IsZero() {
		ev.SetCreatedTime(e.CreatedAt.UTC())
		ev.SetDtStampTime(e.CreatedAt.UTC())
	}
	if !e.UpdatedAt.IsZero() {
		ev.SetModifiedAt(e.UpdatedAt.UTC())
	}
	if e.Location != "" {
		ev.SetLocation(e.Location)
	}
	if e.Description != "" {
		ev.SetDescription(e.Description)
	}
	if e.Time != "" {
		ev.SetProperty(propTime, e.Time)
	}
	if e.Duration != "" {
		ev.SetProperty(propDuration, e.Duration)
	}
	ev.SetProperty(propProject, e.ProjectID)

	ev.SetStatus(objectStatus(e.Status))
	ev.SetProperty(propStatus, string(e.Status))
	if p := icalPriority(e.Priority); p > 0 {
		ev.SetProperty(ical.ComponentPropertyPriority, strconv.Itoa(p))
	}

	if e.Type != "" {
		ev.AddProperty(ical.ComponentPropertyCategories, string(e.Type))
	}
	for _, tag := range e.Tags {
		ev.AddProperty(ical.ComponentPropertyCategories, tag)
	}
	for _, name := range e.AssignedTo {
		ev.AddProperty(propAssignee, name)
	}
}

// objectStatus maps event status onto the VEVENT STATUS vocabulary. A
// completed event still happened, so it stays CONFIRMED.
func objectStatus(s domain.EventStatus) ical.ObjectStatus {
	if s == domain.StatusCancelled {
		return ical.ObjectStatusCancelled
	}
	return ical.ObjectStatusConfirmed
}

// icalPriority returns the RFC 5545 PRIORITY value, 0 for unknown priorities.
func icalPriority(p domain.Priority) int {
	switch p {
	case domain.PriorityHigh:
		return 1
	case domain.PriorityMedium:
		return 5
	case domain.PriorityLow:
		return 9
	default:
		return 0
	}
}
