package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/planboard/internal/calendar"
	"github.com/alexanderramin/planboard/internal/db"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/repository"
	"github.com/google/uuid"
)

type calendarService struct {
	events    repository.EventRepo
	uow       db.UnitOfWork
	directory calendar.Directory
	observer  UseCaseObserver
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string

	mu        sync.Mutex
	calendars map[string]*projectCalendar
}

// projectCalendar is one loaded project. mu serializes use cases so the
// persistence failure collected after a mutation belongs to it.
type projectCalendar struct {
	mu         sync.Mutex
	store      *calendar.Store
	controller *calendar.DetailController
	persist    *persistListener
}

type CalendarOption func(*calendarService)

func WithObserver(obs UseCaseObserver) CalendarOption {
	return func(s *calendarService) {
		if obs != nil {
			s.observer = obs
		}
	}
}

// WithLogger sets the logger used for persistence failures.
func WithLogger(logger *slog.Logger) CalendarOption {
	return func(s *calendarService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithDirectory(dir calendar.Directory) CalendarOption {
	return func(s *calendarService) { s.directory = dir }
}

func WithClock(now func() time.Time) CalendarOption {
	return func(s *calendarService) { s.now = now }
}

func WithIDGenerator(fn func() string) CalendarOption {
	return func(s *calendarService) { s.newID = fn }
}

func NewCalendarService(events repository.EventRepo, uow db.UnitOfWork, opts ...CalendarOption) CalendarService {
	s := &calendarService{
		events:    events,
		uow:       uow,
		directory: calendar.StaticDirectory(nil),
		observer:  NoopUseCaseObserver{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
		calendars: make(map[string]*projectCalendar),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *calendarService) Create(ctx context.Context, projectID string, d calendar.Draft) (e domain.CalendarEvent, err error) {
	fields := map[string]any{"type": string(d.Type)}
	defer s.observe(ctx, "create-event", projectID, time.Now(), fields, &err)

	err = s.mutate(ctx, projectID, func(c *calendar.DetailController) error {
		var createErr error
		e, createErr = c.Create(d)
		return createErr
	})
	if err != nil {
		return domain.CalendarEvent{}, err
	}
	fields["event_id"] = e.ID
	return e, nil
}

// Import validates every draft before creating any, so a bad file writes
// nothing. The events are then stored in one transaction.
func (s *calendarService) Import(ctx context.Context, projectID string, drafts []calendar.Draft) (created []domain.CalendarEvent, err error) {
	fields := map[string]any{"events": len(drafts)}
	defer s.observe(ctx, "import-events", projectID, time.Now(), fields, &err)

	for i, d := range drafts {
		if verr := d.Validate(); verr != nil {
			return nil, fmt.Errorf("event %d: %w", i+1, verr)
		}
	}

	err = s.mutateAll(ctx, projectID, func(c *calendar.DetailController) error {
		for _, d := range drafts {
			e, createErr := c.Create(d)
			if createErr != nil {
				return createErr
			}
			created = append(created, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *calendarService) Get(ctx context.Context, projectID, id string) (domain.CalendarEvent, error) {
	pc, err := s.calendarFor(ctx, projectID)
	if err != nil {
		return domain.CalendarEvent{}, err
	}
	return pc.store.Get(id)
}

func (s *calendarService) Update(ctx context.Context, projectID, id string, p calendar.Patch) (e domain.CalendarEvent, err error) {
	defer s.observe(ctx, "update-event", projectID, time.Now(), map[string]any{"event_id": id}, &err)

	err = s.mutate(ctx, projectID, func(c *calendar.DetailController) error {
		var updateErr error
		e, updateErr = c.Update(id, p)
		return updateErr
	})
	return e, err
}

func (s *calendarService) SetStatus(ctx context.Context, projectID, id string, status domain.EventStatus) (e domain.CalendarEvent, err error) {
	fields := map[string]any{"event_id": id, "status": string(status)}
	defer s.observe(ctx, "set-status", projectID, time.Now(), fields, &err)

	err = s.mutate(ctx, projectID, func(c *calendar.DetailController) error {
		var setErr error
		e, setErr = c.SetStatus(id, status)
		return setErr
	})
	return e, err
}

func (s *calendarService) Assign(ctx context.Context, projectID, id string, names ...string) (e domain.CalendarEvent, err error) {
	fields := map[string]any{"event_id": id, "names": len(names)}
	defer s.observe(ctx, "assign-event", projectID, time.Now(), fields, &err)

	err = s.mutate(ctx, projectID, func(c *calendar.DetailController) error {
		var assignErr error
		e, assignErr = c.Assign(id, names...)
		return assignErr
	})
	return e, err
}

func (s *calendarService) Delete(ctx context.Context, projectID, id string) (err error) {
	defer s.observe(ctx, "delete-event", projectID, time.Now(), map[string]any{"event_id": id}, &err)

	return s.mutate(ctx, projectID, func(c *calendar.DetailController) error {
		return c.Delete(id)
	})
}

func (s *calendarService) List(ctx context.Context, projectID string, f calendar.FilterState) ([]domain.CalendarEvent, error) {
	pc, err := s.calendarFor(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return calendar.Filter(pc.store.Snapshot(), f), nil
}

func (s *calendarService) Month(ctx context.Context, projectID string, ref domain.Date, f calendar.FilterState) (calendar.MonthGrid, error) {
	events, err := s.List(ctx, projectID, f)
	if err != nil {
		return calendar.MonthGrid{}, err
	}
	return calendar.ProjectMonth(events, s.refOrToday(ref)), nil
}

func (s *calendarService) Week(ctx context.Context, projectID string, ref domain.Date, f calendar.FilterState) (calendar.WeekGrid, error) {
	events, err := s.List(ctx, projectID, f)
	if err != nil {
		return calendar.WeekGrid{}, err
	}
	return calendar.ProjectWeek(events, s.refOrToday(ref)), nil
}

func (s *calendarService) Agenda(ctx context.Context, projectID string, f calendar.FilterState) ([]calendar.DateGroup, error) {
	events, err := s.List(ctx, projectID, f)
	if err != nil {
		return nil, err
	}
	return calendar.ProjectList(events), nil
}

func (s *calendarService) People(query string) []string {
	return calendar.SearchNames(s.directory.Names(), query, nil)
}

func (s *calendarService) Projects(ctx context.Context) ([]string, error) {
	return s.events.ListProjects(ctx)
}

func (s *calendarService) Controller(ctx context.Context, projectID string) (*calendar.DetailController, error) {
	pc, err := s.calendarFor(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return pc.controller, nil
}

func (s *calendarService) Flush(projectID string) error {
	s.mu.Lock()
	pc, ok := s.calendars[projectID]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	if err := pc.persist.take(); err != nil {
		s.evict(projectID, pc)
		return err
	}
	return nil
}

// mutate runs fn against the project's controller and surfaces any write
// failure. After a failure the in-memory store no longer matches the
// database, so it is dropped and reloaded on next use.
func (s *calendarService) mutate(ctx context.Context, projectID string, fn func(c *calendar.DetailController) error) error {
	pc, err := s.calendarFor(ctx, projectID)
	if err != nil {
		return err
	}

	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.persist.bind(ctx)
	defer pc.persist.bind(context.Background())

	fnErr := fn(pc.controller)
	if persistErr := pc.persist.take(); persistErr != nil {
		s.evict(projectID, pc)
		return persistErr
	}
	return fnErr
}

// mutateAll is mutate with every write of fn persisted in one transaction.
// If fn or the commit fails nothing is stored and the project reloads.
func (s *calendarService) mutateAll(ctx context.Context, projectID string, fn func(c *calendar.DetailController) error) error {
	pc, err := s.calendarFor(ctx, projectID)
	if err != nil {
		return err
	}

	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.persist.bind(ctx)
	defer pc.persist.bind(context.Background())

	pc.persist.begin()
	if fnErr := fn(pc.controller); fnErr != nil {
		pc.persist.discard()
		s.evict(projectID, pc)
		return fnErr
	}
	pc.persist.commit()
	if persistErr := pc.persist.take(); persistErr != nil {
		s.evict(projectID, pc)
		return persistErr
	}
	return nil
}

func (s *calendarService) calendarFor(ctx context.Context, projectID string) (pc *projectCalendar, err error) {
	if projectID == "" {
		return nil, &domain.ValidationError{Missing: []string{"project"}}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if pc, ok := s.calendars[projectID]; ok {
		return pc, nil
	}

	fields := map[string]any{}
	defer s.observe(ctx, "load-project", projectID, time.Now(), fields, &err)

	stored, err := s.events.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading project %q: %w", projectID, err)
	}
	events := make([]domain.CalendarEvent, 0, len(stored))
	for _, e := range stored {
		events = append(events, *e)
	}
	fields["events"] = len(events)

	store := calendar.NewStore(projectID, calendar.WithStoreClock(s.now))
	if err := store.Seed(events); err != nil {
		return nil, fmt.Errorf("seeding project %q: %w", projectID, err)
	}
	persist := newPersistListener(s.uow, s.logger)
	store.Subscribe(persist)

	pc = &projectCalendar{
		store: store,
		controller: calendar.NewDetailController(store,
			calendar.WithDirectory(s.directory),
			calendar.WithIDGenerator(s.newID),
			calendar.WithControllerClock(s.now),
		),
		persist: persist,
	}
	s.calendars[projectID] = pc
	return pc, nil
}

func (s *calendarService) evict(projectID string, pc *projectCalendar) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calendars[projectID] == pc {
		delete(s.calendars, projectID)
	}
}

func (s *calendarService) refOrToday(ref domain.Date) domain.Date {
	if ref.IsZero() {
		return domain.DateOf(s.now())
	}
	return ref
}
