package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/planboard/internal/calendar"
	"github.com/alexanderramin/planboard/internal/db"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/repository"
	"github.com/alexanderramin/planboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingObserver) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Name)
	}
	return out
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("evt-%d", n)
	}
}

func setupService(t *testing.T, opts ...CalendarOption) (CalendarService, repository.EventRepo, db.UnitOfWork) {
	t.Helper()
	database := testutil.NewTestDB(t)
	events := repository.NewSQLiteEventRepo(database)
	uow := testutil.NewTestUoW(database)
	base := []CalendarOption{WithClock(testutil.FixedClock()), WithIDGenerator(sequentialIDs())}
	return NewCalendarService(events, uow, append(base, opts...)...), events, uow
}

func TestCalendarService_CreatePersists(t *testing.T) {
	svc, events, uow := setupService(t)
	ctx := context.Background()

	e, err := svc.Create(ctx, "site-a", calendar.Draft{
		Title:      "Submit permit",
		Type:       domain.EventDeadline,
		Date:       testutil.Date(2025, time.April, 5),
		Priority:   domain.PriorityHigh,
		AssignedTo: []string{"John Smith"},
	})
	require.NoError(t, err)
	assert.Equal(t, "evt-1", e.ID)

	stored, err := events.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Submit permit", stored.Title)
	assert.Equal(t, []string{"John Smith"}, stored.AssignedTo)

	// A fresh service sees the event after a cold load.
	fresh := NewCalendarService(events, uow)
	got, err := fresh.Get(ctx, "site-a", e.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityHigh, got.Priority)
}

func TestCalendarService_ValidationWritesNothing(t *testing.T) {
	svc, events, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "site-a", calendar.Draft{Title: " "})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"title", "date"}, verr.Missing)

	list, err := events.ListByProject(ctx, "site-a")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCalendarService_RequiresProject(t *testing.T) {
	svc, _, _ := setupService(t)
	_, err := svc.List(context.Background(), "", calendar.FilterState{})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"project"}, verr.Missing)
}

func TestCalendarService_MutationsPersist(t *testing.T) {
	svc, events, _ := setupService(t)
	ctx := context.Background()

	e, err := svc.Create(ctx, "site-a", calendar.Draft{Title: "Walkthrough", Date: testutil.Date(2025, time.April, 8)})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "site-a", e.ID, calendar.Patch{Location: calendar.Ptr("Block C")})
	require.NoError(t, err)
	_, err = svc.Assign(ctx, "site-a", e.ID, "Ann", "Ben", "Ann")
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, "site-a", e.ID, domain.StatusCompleted)
	require.NoError(t, err)

	stored, err := events.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Block C", stored.Location)
	assert.Equal(t, []string{"Ann", "Ben"}, stored.AssignedTo)
	assert.Equal(t, domain.StatusCompleted, stored.Status)

	require.NoError(t, svc.Delete(ctx, "site-a", e.ID))
	_, err = events.GetByID(ctx, e.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.True(t, errors.Is(svc.Delete(ctx, "site-a", e.ID), domain.ErrNotFound))
}

func TestCalendarService_ProjectsAreIsolated(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, "site-a", calendar.Draft{Title: "A", Date: testutil.Date(2025, time.April, 5)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "site-b", calendar.Draft{Title: "B", Date: testutil.Date(2025, time.April, 5)})
	require.NoError(t, err)

	_, err = svc.Get(ctx, "site-b", a.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	list, err := svc.List(ctx, "site-b", calendar.FilterState{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "B", list[0].Title)

	projects, err := svc.Projects(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"site-a", "site-b"}, projects)
}

func TestCalendarService_PersistFailureEvictsAndReloads(t *testing.T) {
	database := testutil.NewTestDB(t)
	events := repository.NewSQLiteEventRepo(database)
	ctx := context.Background()

	seed := testutil.NewTestEvent("site-a", "Existing")
	require.NoError(t, events.Create(ctx, &seed))

	failing := &testutil.FailingUoW{DB: database, FailOn: 1, Err: errors.New("disk full")}
	var logs bytes.Buffer
	svc := NewCalendarService(events, failing, WithLogger(testLogger(&logs)))

	_, err := svc.Create(ctx, "site-a", calendar.Draft{Title: "Lost", Date: testutil.Date(2025, time.April, 9)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Contains(t, logs.String(), "persist_event")

	list, err := svc.List(ctx, "site-a", calendar.FilterState{})
	require.NoError(t, err)
	require.Len(t, list, 1, "reloaded from the database after the failed write")
	assert.Equal(t, "Existing", list[0].Title)
}

func TestCalendarService_IDTakenByAnotherProject(t *testing.T) {
	svc, events, _ := setupService(t, WithIDGenerator(func() string { return "evt-1" }))
	ctx := context.Background()

	_, err := svc.Create(ctx, "site-a", calendar.Draft{Title: "First", Date: testutil.Date(2025, time.April, 5)})
	require.NoError(t, err)

	_, err = svc.Create(ctx, "site-b", calendar.Draft{Title: "Clash", Date: testutil.Date(2025, time.April, 5)})
	require.ErrorIs(t, err, domain.ErrDuplicateID)

	list, err := svc.List(ctx, "site-b", calendar.FilterState{})
	require.NoError(t, err)
	assert.Empty(t, list, "site-b reloaded without the rejected event")

	stored, err := events.GetByID(ctx, "evt-1")
	require.NoError(t, err)
	assert.Equal(t, "site-a", stored.ProjectID)
}

func TestCalendarService_ControllerWritesAndFlush(t *testing.T) {
	svc, events, _ := setupService(t, WithDirectory(calendar.StaticDirectory{"Ann", "Ben"}))
	ctx := context.Background()

	c, err := svc.Controller(ctx, "site-a")
	require.NoError(t, err)
	d := c.OpenDraft(testutil.Date(2025, time.April, 10))
	d.Title = "Pour slab"
	d.AddAssignee("Ann")
	assert.Equal(t, []string{"Ben"}, c.AssigneeCandidates(""))

	e, err := c.SubmitDraft()
	require.NoError(t, err)
	require.NoError(t, svc.Flush("site-a"))

	stored, err := events.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, testutil.Date(2025, time.April, 10), stored.Date)
	assert.NoError(t, svc.Flush("never-loaded"))
}

func TestCalendarService_Projections(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	drafts := []calendar.Draft{
		{Title: "Permit", Type: domain.EventDeadline, Priority: domain.PriorityHigh, Date: testutil.Date(2025, time.April, 5), AssignedTo: []string{"John Smith"}},
		{Title: "Standup", Type: domain.EventMeeting, Date: testutil.Date(2025, time.April, 5), Time: "09:00"},
		{Title: "Handover", Type: domain.EventMilestone, Date: testutil.Date(2025, time.April, 30)},
		{Title: "May task", Type: domain.EventTask, Date: testutil.Date(2025, time.May, 2)},
	}
	for _, d := range drafts {
		_, err := svc.Create(ctx, "site-a", d)
		require.NoError(t, err)
	}

	grid, err := svc.Month(ctx, "site-a", testutil.Date(2025, time.April, 20), calendar.FilterState{})
	require.NoError(t, err)
	cell, ok := grid.Cell(5)
	require.True(t, ok)
	assert.Len(t, cell.Events, 2)

	deadlines := calendar.FilterState{}.ToggleType(domain.EventDeadline)
	grid, err = svc.Month(ctx, "site-a", testutil.Date(2025, time.April, 20), deadlines)
	require.NoError(t, err)
	cell, _ = grid.Cell(5)
	require.Len(t, cell.Events, 1)
	assert.Equal(t, "Permit", cell.Events[0].Title)

	// Zero reference falls back to the service clock (2025-04-05).
	week, err := svc.Week(ctx, "site-a", domain.Date{}, calendar.FilterState{})
	require.NoError(t, err)
	assert.Equal(t, testutil.Date(2025, time.March, 30), week.Start)
	assert.Len(t, week.Days[6].Events, 2)

	groups, err := svc.Agenda(ctx, "site-a", calendar.FilterState{Users: []string{"John Smith"}})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Permit", groups[0].Events[0].Title)
}

func TestCalendarService_People(t *testing.T) {
	svc, _, _ := setupService(t, WithDirectory(calendar.StaticDirectory{"John Smith", "Jane Doe", "Mike Chen"}))
	assert.Equal(t, []string{"John Smith", "Jane Doe", "Mike Chen"}, svc.People(""))
	assert.Equal(t, []string{"John Smith", "Jane Doe"}, svc.People("j"))
	assert.Empty(t, svc.People("zed"))
}

func TestCalendarService_ObservesUseCases(t *testing.T) {
	obs := &recordingObserver{}
	svc, _, _ := setupService(t, WithObserver(obs))
	ctx := context.Background()

	e, err := svc.Create(ctx, "site-a", calendar.Draft{Title: "Inspect", Date: testutil.Date(2025, time.April, 5)})
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, "site-a", e.ID, "bogus")
	require.Error(t, err)
	require.NoError(t, svc.Delete(ctx, "site-a", e.ID))

	assert.Equal(t, []string{"load-project", "create-event", "set-status", "delete-event"}, obs.names())

	obs.mu.Lock()
	defer obs.mu.Unlock()
	assert.True(t, obs.events[1].Success())
	assert.Equal(t, "site-a", obs.events[1].Project)
	assert.Equal(t, e.ID, obs.events[1].Fields["event_id"])
	assert.False(t, obs.events[2].Success())
	assert.Error(t, obs.events[2].Err)
}

func TestCalendarService_ImportAllOrNothing(t *testing.T) {
	svc, events, _ := setupService(t)
	ctx := context.Background()

	drafts := []calendar.Draft{
		{Title: "Submit permit", Date: testutil.Date(2025, time.April, 5)},
		{Title: "No date"},
	}
	_, err := svc.Import(ctx, "site-a", drafts)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "event 2")

	list, err := events.ListByProject(ctx, "site-a")
	require.NoError(t, err)
	assert.Empty(t, list)

	drafts[1].Date = testutil.Date(2025, time.April, 6)
	created, err := svc.Import(ctx, "site-a", drafts)
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, "evt-1", created[0].ID)
	assert.Equal(t, "evt-2", created[1].ID)

	list, err = events.ListByProject(ctx, "site-a")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCalendarService_ImportStoresAllInOneTransaction(t *testing.T) {
	database := testutil.NewTestDB(t)
	events := repository.NewSQLiteEventRepo(database)
	ctx := context.Background()

	failing := &testutil.FailingUoW{DB: database, FailOn: 2, Match: "INSERT INTO events", Err: errors.New("disk full")}
	var logs bytes.Buffer
	svc := NewCalendarService(events, failing, WithIDGenerator(sequentialIDs()), WithLogger(testLogger(&logs)))

	drafts := []calendar.Draft{
		{Title: "Pour footings", Date: testutil.Date(2025, time.April, 7)},
		{Title: "Strip forms", Date: testutil.Date(2025, time.April, 9)},
		{Title: "Backfill", Date: testutil.Date(2025, time.April, 11)},
	}
	_, err := svc.Import(ctx, "site-a", drafts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Contains(t, logs.String(), "persist_event")

	stored, err := events.ListByProject(ctx, "site-a")
	require.NoError(t, err)
	assert.Empty(t, stored, "the first event was rolled back with the second")

	list, err := svc.List(ctx, "site-a", calendar.FilterState{})
	require.NoError(t, err)
	assert.Empty(t, list, "cache reloaded from the database")

	failing.FailOn = 0
	created, err := svc.Import(ctx, "site-a", drafts)
	require.NoError(t, err)
	assert.Len(t, created, 3)
	stored, err = events.ListByProject(ctx, "site-a")
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}
