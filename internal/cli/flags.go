package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planboard/internal/calendar"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/spf13/pflag"
)

// filterFlags are the facet flags shared by the view commands. Each may be
// repeated or comma-separated; facets combine with AND.
type filterFlags struct {
	types      []string
	priorities []string
	users      []string
}

func (f *filterFlags) register(fs *pflag.FlagSet) {
	fs.StringSliceVarP(&f.types, "type", "t", nil, "Only show these event types (deadline, milestone, meeting, task)")
	fs.StringSliceVar(&f.priorities, "priority", nil, "Only show these priorities (high, medium, low)")
	fs.StringSliceVarP(&f.users, "user", "u", nil, "Only show events assigned to any of these people")
}

func (f *filterFlags) state() calendar.FilterState {
	var st calendar.FilterState
	for _, t := range normalizeList(f.types) {
		st = st.ToggleType(domain.EventType(t))
	}
	for _, p := range normalizeList(f.priorities) {
		st = st.TogglePriority(domain.Priority(p))
	}
	for _, u := range f.users {
		if u = strings.TrimSpace(u); u != "" {
			st = st.ToggleUser(u)
		}
	}
	return st
}

// eventFlags are the editable event fields shared by add and update.
type eventFlags struct {
	title       string
	eventType   string
	date        string
	clock       string
	duration    string
	location    string
	description string
	priority    string
	status      string
	assignees   []string
	tags        []string
}

func (f *eventFlags) register(fs *pflag.FlagSet, withStatus bool) {
	fs.StringVar(&f.title, "title", "", "Event title")
	fs.StringVar(&f.eventType, "type", "", "Event type: deadline, milestone, meeting or task")
	fs.StringVarP(&f.date, "date", "d", "", "Event date (YYYY-MM-DD, today, tomorrow)")
	fs.StringVar(&f.clock, "time", "", "Time of day, e.g. 09:00")
	fs.StringVar(&f.duration, "duration", "", "Duration, e.g. 1h")
	fs.StringVar(&f.location, "location", "", "Location")
	fs.StringVar(&f.description, "description", "", "Free-form notes")
	fs.StringVar(&f.priority, "priority", "", "Priority: high, medium or low")
	fs.StringSliceVarP(&f.assignees, "assign", "a", nil, "Assignee (repeatable)")
	fs.StringSliceVar(&f.tags, "tag", nil, "Tag (repeatable)")
	if withStatus {
		fs.StringVar(&f.status, "status", "", "Status: upcoming, completed or cancelled")
	}
}

func (f *eventFlags) draft(today domain.Date) (calendar.Draft, error) {
	d := calendar.Draft{
		Title:       f.title,
		Type:        domain.EventType(strings.ToLower(strings.TrimSpace(f.eventType))),
		Time:        f.clock,
		Duration:    f.duration,
		Location:    f.location,
		Description: f.description,
		Priority:    domain.Priority(strings.ToLower(strings.TrimSpace(f.priority))),
		Tags:        f.tags,
	}
	for _, name := range f.assignees {
		d.AddAssignee(strings.TrimSpace(name))
	}
	if f.date != "" {
		date, err := parseDateArg(f.date, today)
		if err != nil {
			return calendar.Draft{}, err
		}
		d.Date = date
	}
	return d, nil
}

// patch builds a Patch holding only the flags the user actually set.
func (f *eventFlags) patch(fs *pflag.FlagSet, today domain.Date) (calendar.Patch, error) {
	var p calendar.Patch
	if fs.Changed("title") {
		p.Title = calendar.Ptr(f.title)
	}
	if fs.Changed("type") {
		p.Type = calendar.Ptr(domain.EventType(strings.ToLower(strings.TrimSpace(f.eventType))))
	}
	if fs.Changed("date") {
		date, err := parseDateArg(f.date, today)
		if err != nil {
			return calendar.Patch{}, err
		}
		p.Date = &date
	}
	if fs.Changed("time") {
		p.Time = calendar.Ptr(strings.TrimSpace(f.clock))
	}
	if fs.Changed("duration") {
		p.Duration = calendar.Ptr(strings.TrimSpace(f.duration))
	}
	if fs.Changed("location") {
		p.Location = calendar.Ptr(strings.TrimSpace(f.location))
	}
	if fs.Changed("description") {
		p.Description = calendar.Ptr(strings.TrimSpace(f.description))
	}
	if fs.Changed("priority") {
		p.Priority = calendar.Ptr(domain.Priority(strings.ToLower(strings.TrimSpace(f.priority))))
	}
	if fs.Changed("status") {
		p.Status = calendar.Ptr(domain.EventStatus(strings.ToLower(strings.TrimSpace(f.status))))
	}
	if fs.Changed("assign") {
		assignees := domain.AppendAssignees(nil, f.assignees...)
		p.AssignedTo = &assignees
	}
	if fs.Changed("tag") {
		tags := normalizeTags(f.tags)
		p.Tags = &tags
	}
	return p, nil
}

// parseDateArg accepts YYYY-MM-DD plus the shorthands today, tomorrow and
// yesterday. An empty string is the zero date.
func parseDateArg(s string, today domain.Date) (domain.Date, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return domain.Date{}, nil
	case "today":
		return today, nil
	case "tomorrow":
		return today.AddDays(1), nil
	case "yesterday":
		return today.AddDays(-1), nil
	}
	d, err := domain.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return domain.Date{}, fmt.Errorf("use YYYY-MM-DD format: %w", err)
	}
	return d, nil
}

func normalizeList(vals []string) []string {
	var out []string
	for _, v := range vals {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func normalizeTags(tags []string) []string {
	out := []string{}
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
