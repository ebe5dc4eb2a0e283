package calendar

import (
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/google/uuid"
)

// Directory supplies the display names that may be assigned to events.
type Directory interface {
	Names() []string
}

// StaticDirectory is a fixed list of names.
type StaticDirectory []string

func (d StaticDirectory) Names() []string { return slices.Clone(d) }

// Draft is the creation form. A zero Date means the date was not picked.
type Draft struct {
	Title       string
	Type        domain.EventType
	Date        domain.Date
	Time        string
	Duration    string
	Location    string
	Description string
	Status      domain.EventStatus
	Priority    domain.Priority
	AssignedTo  []string
	Tags        []string
}

// AddAssignee appends name unless it is blank or already assigned.
func (d *Draft) AddAssignee(name string) bool {
	before := len(d.AssignedTo)
	d.AssignedTo = domain.AppendAssignees(d.AssignedTo, name)
	return len(d.AssignedTo) > before
}

func (d *Draft) RemoveAssignee(name string) bool {
	i := slices.Index(d.AssignedTo, name)
	if i < 0 {
		return false
	}
	d.AssignedTo = slices.Delete(d.AssignedTo, i, i+1)
	return true
}

// Validate checks required fields and, when set, that type, priority and
// status are known values and time is a time of day.
func (d Draft) Validate() error {
	verr := &domain.ValidationError{}
	if strings.TrimSpace(d.Title) == "" {
		verr.Missing = append(verr.Missing, "title")
	}
	if d.Date.IsZero() {
		verr.Missing = append(verr.Missing, "date")
	}
	if d.Type != "" && !d.Type.Known() {
		verr.Invalid = append(verr.Invalid, "type")
	}
	if d.Priority != "" && !d.Priority.Known() {
		verr.Invalid = append(verr.Invalid, "priority")
	}
	if d.Status != "" && !d.Status.Known() {
		verr.Invalid = append(verr.Invalid, "status")
	}
	if _, err := domain.ParseClock(d.Time); err != nil {
		verr.Invalid = append(verr.Invalid, "time")
	}
	if verr.HasProblems() {
		return verr
	}
	return nil
}

// DetailController owns the transient selection and creation state of a
// calendar screen and turns form input into store writes.
type DetailController struct {
	store     *Store
	directory Directory
	newID     func() string
	now       func() time.Time

	selectedID string
	draft      *Draft
}

type ControllerOption func(*DetailController)

func WithDirectory(dir Directory) ControllerOption {
	return func(c *DetailController) { c.directory = dir }
}

// WithIDGenerator overrides the random UUID generator.
func WithIDGenerator(fn func() string) ControllerOption {
	return func(c *DetailController) { c.newID = fn }
}

func WithControllerClock(now func() time.Time) ControllerOption {
	return func(c *DetailController) { c.now = now }
}

func NewDetailController(store *Store, opts ...ControllerOption) *DetailController {
	c := &DetailController{
		store:     store,
		directory: StaticDirectory(nil),
		newID:     uuid.NewString,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *DetailController) Store() *Store { return c.store }

// Select marks id as the selected event. An id that no longer exists
// resolves to no selection.
func (c *DetailController) Select(id string) (domain.CalendarEvent, bool) {
	c.selectedID = id
	return c.Selected()
}

// Selected re-reads the selected event, clearing the selection if it was
// removed in the meantime.
func (c *DetailController) Selected() (domain.CalendarEvent, bool) {
	if c.selectedID == "" {
		return domain.CalendarEvent{}, false
	}
	e, err := c.store.Get(c.selectedID)
	if err != nil {
		c.selectedID = ""
		return domain.CalendarEvent{}, false
	}
	return e, true
}

func (c *DetailController) ClearSelection() { c.selectedID = "" }

// OpenDraft starts a new creation form, prefilled with date when non-zero.
// Any draft in progress is discarded.
func (c *DetailController) OpenDraft(date domain.Date) *Draft {
	c.draft = &Draft{
		Date:     date,
		Type:     domain.EventMeeting,
		Priority: domain.PriorityMedium,
		Status:   domain.StatusUpcoming,
	}
	return c.draft
}

// Draft returns the open creation form, or nil when none is open.
func (c *DetailController) Draft() *Draft { return c.draft }

func (c *DetailController) CancelDraft() { c.draft = nil }

// AssigneeCandidates returns directory names containing query
// (case-insensitive) that the open draft does not already assign.
func (c *DetailController) AssigneeCandidates(query string) []string {
	var assigned []string
	if c.draft != nil {
		assigned = c.draft.AssignedTo
	}
	return SearchNames(c.directory.Names(), query, assigned)
}

// SubmitDraft creates an event from the open draft and closes it on
// success. On failure the draft stays open for correction.
func (c *DetailController) SubmitDraft() (domain.CalendarEvent, error) {
	if c.draft == nil {
		return domain.CalendarEvent{}, &domain.ValidationError{Missing: []string{"title", "date"}}
	}
	e, err := c.Create(*c.draft)
	if err != nil {
		return domain.CalendarEvent{}, err
	}
	c.draft = nil
	return e, nil
}

// Create validates d, fills defaults and inserts the resulting event.
// Nothing is written when validation fails.
func (c *DetailController) Create(d Draft) (domain.CalendarEvent, error) {
	if err := d.Validate(); err != nil {
		return domain.CalendarEvent{}, err
	}
	clock, _ := domain.ParseClock(d.Time)
	now := c.now()
	e := domain.CalendarEvent{
		ID:          c.newID(),
		ProjectID:   c.store.ProjectID(),
		Title:       strings.TrimSpace(d.Title),
		Type:        domain.Coalesce(d.Type, domain.EventMeeting),
		Date:        d.Date,
		Time:        clock,
		Duration:    strings.TrimSpace(d.Duration),
		Location:    strings.TrimSpace(d.Location),
		Description: strings.TrimSpace(d.Description),
		Status:      domain.Coalesce(d.Status, domain.StatusUpcoming),
		Priority:    domain.Coalesce(d.Priority, domain.PriorityMedium),
		AssignedTo:  domain.AppendAssignees(nil, d.AssignedTo...),
		Tags:        cleanTags(d.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := c.store.Add(e); err != nil {
		return domain.CalendarEvent{}, err
	}
	return c.store.Get(e.ID)
}

// Update applies p to the event with the given id.
func (c *DetailController) Update(id string, p Patch) (domain.CalendarEvent, error) {
	if p.Type != nil && !p.Type.Known() {
		return domain.CalendarEvent{}, &domain.ValidationError{Invalid: []string{"type"}}
	}
	if p.Priority != nil && !p.Priority.Known() {
		return domain.CalendarEvent{}, &domain.ValidationError{Invalid: []string{"priority"}}
	}
	if p.Status != nil && !p.Status.Known() {
		return domain.CalendarEvent{}, &domain.ValidationError{Invalid: []string{"status"}}
	}
	return c.store.Update(id, p)
}

func (c *DetailController) SetStatus(id string, status domain.EventStatus) (domain.CalendarEvent, error) {
	return c.Update(id, Patch{Status: &status})
}

// Assign adds names to the event's assignees, skipping ones already there.
func (c *DetailController) Assign(id string, names ...string) (domain.CalendarEvent, error) {
	e, err := c.store.Get(id)
	if err != nil {
		return domain.CalendarEvent{}, err
	}
	merged := domain.AppendAssignees(e.AssignedTo, names...)
	return c.store.Update(id, Patch{AssignedTo: &merged})
}

// Delete removes the event and drops it from the selection.
func (c *DetailController) Delete(id string) error {
	if err := c.store.Remove(id); err != nil {
		return err
	}
	if c.selectedID == id {
		c.selectedID = ""
	}
	return nil
}

// SearchNames filters names by a case-insensitive substring, dropping any in
// exclude and repeats.
func SearchNames(names []string, query string, exclude []string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []string
	for _, n := range names {
		if slices.Contains(exclude, n) || slices.Contains(out, n) {
			continue
		}
		if q == "" || strings.Contains(strings.ToLower(n), q) {
			out = append(out, n)
		}
	}
	return out
}

func cleanTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
