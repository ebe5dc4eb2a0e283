package calendar

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/planboard/internal/domain"
)

// Listener is notified after each successful store mutation. Hosts use it
// to persist or broadcast changes; the store itself never does I/O.
type Listener interface {
	EventAdded(e domain.CalendarEvent)
	EventUpdated(e domain.CalendarEvent)
	EventDeleted(id string)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	OnAdded   func(domain.CalendarEvent)
	OnUpdated func(domain.CalendarEvent)
	OnDeleted func(id string)
}

func (f ListenerFuncs) EventAdded(e domain.CalendarEvent) {
	if f.OnAdded != nil {
		f.OnAdded(e)
	}
}

func (f ListenerFuncs) EventUpdated(e domain.CalendarEvent) {
	if f.OnUpdated != nil {
		f.OnUpdated(e)
	}
}

func (f ListenerFuncs) EventDeleted(id string) {
	if f.OnDeleted != nil {
		f.OnDeleted(id)
	}
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Title       *string
	Type        *domain.EventType
	Date        *domain.Date
	Time        *string
	Duration    *string
	Location    *string
	Description *string
	Status      *domain.EventStatus
	Priority    *domain.Priority
	AssignedTo  *[]string
	Tags        *[]string
}

// Ptr returns a pointer to v, for building patches.
func Ptr[T any](v T) *T {
	return &v
}

func (p Patch) validate() error {
	verr := &domain.ValidationError{}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		verr.Missing = append(verr.Missing, "title")
	}
	if p.Date != nil && p.Date.IsZero() {
		verr.Missing = append(verr.Missing, "date")
	}
	if p.Time != nil {
		if _, err := domain.ParseClock(*p.Time); err != nil {
			verr.Invalid = append(verr.Invalid, "time")
		}
	}
	if verr.HasProblems() {
		return verr
	}
	return nil
}

func (p Patch) apply(e *domain.CalendarEvent) {
	if p.Title != nil {
		e.Title = strings.TrimSpace(*p.Title)
	}
	if p.Type != nil {
		e.Type = *p.Type
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Time != nil {
		e.Time, _ = domain.ParseClock(*p.Time)
	}
	if p.Duration != nil {
		e.Duration = *p.Duration
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.Priority != nil {
		e.Priority = *p.Priority
	}
	if p.AssignedTo != nil {
		e.AssignedTo = domain.AppendAssignees(nil, *p.AssignedTo...)
	}
	if p.Tags != nil {
		e.Tags = append([]string(nil), *p.Tags...)
	}
}

// Store owns the events of one project. Callers only ever see copies.
type Store struct {
	projectID string
	now       func() time.Time

	mu        sync.RWMutex
	order     []string
	events    map[string]*domain.CalendarEvent
	listeners []Listener
}

type StoreOption func(*Store)

// WithStoreClock overrides the clock used to stamp UpdatedAt.
func WithStoreClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithListener subscribes l at construction time.
func WithListener(l Listener) StoreOption {
	return func(s *Store) { s.listeners = append(s.listeners, l) }
}

func NewStore(projectID string, opts ...StoreOption) *Store {
	s := &Store{
		projectID: projectID,
		now:       func() time.Time { return time.Now().UTC() },
		events:    make(map[string]*domain.CalendarEvent),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) ProjectID() string { return s.projectID }

// Subscribe registers l for all subsequent mutations.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Seed loads already-persisted events without notifying listeners.
// It fails without changes if any id repeats.
func (s *Store) Seed(events []domain.CalendarEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(events))
	for _, e := range events {
		if err := s.checkInsertLocked(e); err != nil {
			return err
		}
		if seen[e.ID] {
			return fmt.Errorf("event %q: %w", e.ID, domain.ErrDuplicateID)
		}
		seen[e.ID] = true
	}
	for _, e := range events {
		s.insertLocked(e)
	}
	return nil
}

// Add inserts e. It fails with domain.ErrDuplicateID if the id is taken,
// leaving the store unchanged.
func (s *Store) Add(e domain.CalendarEvent) error {
	s.mu.Lock()
	if err := s.checkInsertLocked(e); err != nil {
		s.mu.Unlock()
		return err
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = e.CreatedAt
	}
	stored := s.insertLocked(e)
	listeners := s.listeners
	s.mu.Unlock()

	for _, l := range listeners {
		l.EventAdded(stored.Clone())
	}
	return nil
}

// Update merges p into the event with the given id and refreshes UpdatedAt.
func (s *Store) Update(id string, p Patch) (domain.CalendarEvent, error) {
	if err := p.validate(); err != nil {
		return domain.CalendarEvent{}, err
	}

	s.mu.Lock()
	cur, ok := s.events[id]
	if !ok {
		s.mu.Unlock()
		return domain.CalendarEvent{}, domain.NotFoundError("event", id)
	}
	next := cur.Clone()
	p.apply(&next)
	next.UpdatedAt = s.now()
	*cur = next
	updated := next.Clone()
	listeners := s.listeners
	s.mu.Unlock()

	for _, l := range listeners {
		l.EventUpdated(updated.Clone())
	}
	return updated, nil
}

// Remove deletes the event with the given id. Callers that treat removal as
// idempotent can ignore domain.ErrNotFound.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	if _, ok := s.events[id]; !ok {
		s.mu.Unlock()
		return domain.NotFoundError("event", id)
	}
	delete(s.events, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	listeners := s.listeners
	s.mu.Unlock()

	for _, l := range listeners {
		l.EventDeleted(id)
	}
	return nil
}

// Get returns a copy of the event with the given id.
func (s *Store) Get(id string) (domain.CalendarEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return domain.CalendarEvent{}, domain.NotFoundError("event", id)
	}
	return e.Clone(), nil
}

// Snapshot returns copies of all events in insertion order.
func (s *Store) Snapshot() []domain.CalendarEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CalendarEvent, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.events[id].Clone())
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

func (s *Store) checkInsertLocked(e domain.CalendarEvent) error {
	verr := &domain.ValidationError{}
	if e.ID == "" {
		verr.Missing = append(verr.Missing, "id")
	}
	if strings.TrimSpace(e.Title) == "" {
		verr.Missing = append(verr.Missing, "title")
	}
	if e.Date.IsZero() {
		verr.Missing = append(verr.Missing, "date")
	}
	if verr.HasProblems() {
		return verr
	}
	if e.ProjectID != "" && e.ProjectID != s.projectID {
		return fmt.Errorf("event %q belongs to project %q, not %q", e.ID, e.ProjectID, s.projectID)
	}
	if _, exists := s.events[e.ID]; exists {
		return fmt.Errorf("event %q: %w", e.ID, domain.ErrDuplicateID)
	}
	return nil
}

func (s *Store) insertLocked(e domain.CalendarEvent) domain.CalendarEvent {
	stored := e.Clone()
	stored.ProjectID = s.projectID
	stored.AssignedTo = domain.AppendAssignees(nil, stored.AssignedTo...)
	s.events[stored.ID] = &stored
	s.order = append(s.order, stored.ID)
	return stored.Clone()
}
