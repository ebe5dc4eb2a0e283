package ics

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/alexanderramin/planboard/internal/calendar"
	"github.com/alexanderramin/planboard/internal/domain"
)

// Parse reads a VCALENDAR and returns one draft per VEVENT, in file order.
// Planboard's own X- properties are honoured so an export reads back
// unchanged; foreign calendars map onto the closest fields. Recurrence
// rules are ignored.
func Parse(r io.Reader) ([]calendar.Draft, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parsing calendar: %w", err)
	}

	vevents := cal.Events()
	drafts := make([]calendar.Draft, 0, len(vevents))
	var errs []error
	for i, ve := range vevents {
		d, err := parseEvent(ve)
		if err != nil {
			errs = append(errs, fmt.Errorf("VEVENT %d: %w", i+1, err))
			continue
		}
		drafts = append(drafts, d)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return drafts, nil
}

func parseEvent(ve *ical.VEvent) (calendar.Draft, error) {
	var d calendar.Draft

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		d.Title = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		d.Location = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		d.Description = p.Value
	}

	if p := ve.GetProperty(ical.ComponentPropertyDtStart); p != nil {
		date, clock, err := parseStart(ve, p)
		if err != nil {
			return calendar.Draft{}, err
		}
		d.Date, d.Time = date, clock
	}

	var categories []string
	for _, p := range ve.Properties {
		switch ical.ComponentProperty(p.IANAToken) {
		case propTime:
			d.Time = p.Value
		case propDuration:
			d.Duration = p.Value
		case propStatus:
			d.Status = domain.EventStatus(p.Value)
		case propAssignee:
			d.AddAssignee(p.Value)
		case ical.ComponentPropertyCategories:
			categories = append(categories, splitList(p.Value)...)
		case ical.ComponentPropertyPriority:
			d.Priority = priorityFromICal(p.Value)
		}
	}

	if d.Status == "" {
		if p := ve.GetProperty(ical.ComponentPropertyStatus); p != nil && strings.EqualFold(p.Value, string(ical.ObjectStatusCancelled)) {
			d.Status = domain.StatusCancelled
		}
	}

	// The first category names the type when it is one planboard knows.
	if len(categories) > 0 && domain.EventType(strings.ToLower(categories[0])).Known() {
		d.Type = domain.EventType(strings.ToLower(categories[0]))
		categories = categories[1:]
	}
	d.Tags = categories

	return d, nil
}

// parseStart reads DTSTART. All-day values carry only a date; timed values
// also yield a local HH:MM.
func parseStart(ve *ical.VEvent, p *ical.IANAProperty) (domain.Date, string, error) {
	v := strings.TrimSpace(p.Value)
	if isDateValue(p) {
		t, err := time.Parse("20060102", v)
		if err != nil {
			return domain.Date{}, "", fmt.Errorf("invalid DTSTART %q: %w", v, err)
		}
		return domain.DateOf(t), "", nil
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return domain.Date{}, "", fmt.Errorf("invalid DTSTART %q: %w", v, err)
	}
	return domain.DateOf(start), start.Format("15:04"), nil
}

func isDateValue(p *ical.IANAProperty) bool {
	if vs, ok := p.ICalParameters[string(ical.ParameterValue)]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

// priorityFromICal folds the RFC 5545 0-9 scale onto three levels. 0 means
// undefined.
func priorityFromICal(v string) domain.Priority {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	switch {
	case err != nil || n <= 0:
		return ""
	case n < 5:
		return domain.PriorityHigh
	case n == 5:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
