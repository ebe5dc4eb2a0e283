package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder captures listener notifications in order.
type recorder struct {
	added   []domain.CalendarEvent
	updated []domain.CalendarEvent
	deleted []string
}

func (r *recorder) EventAdded(e domain.CalendarEvent)   { r.added = append(r.added, e) }
func (r *recorder) EventUpdated(e domain.CalendarEvent) { r.updated = append(r.updated, e) }
func (r *recorder) EventDeleted(id string)              { r.deleted = append(r.deleted, id) }

func TestStore_AddAndSnapshot(t *testing.T) {
	rec := &recorder{}
	s := NewStore("p1", WithListener(rec))

	a := testutil.NewTestEvent("p1", "Kickoff")
	b := testutil.NewTestEvent("", "Site visit")
	require.NoError(t, s.Add(a))
	require.NoError(t, s.Add(b))

	snap := s.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "Kickoff", snap[0].Title)
	assert.Equal(t, "Site visit", snap[1].Title)
	assert.Equal(t, "p1", snap[1].ProjectID, "store should stamp its project")
	assert.Len(t, rec.added, 2)
}

func TestStore_AddDuplicateLeavesStoreUnchanged(t *testing.T) {
	rec := &recorder{}
	s := NewStore("p1", WithListener(rec))
	e := testutil.NewTestEvent("p1", "Kickoff", testutil.WithID("e1"))
	require.NoError(t, s.Add(e))

	dup := testutil.NewTestEvent("p1", "Other", testutil.WithID("e1"))
	err := s.Add(dup)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicateID))

	snap := s.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "Kickoff", snap[0].Title)
	assert.Len(t, rec.added, 1, "failed add must not notify")
}

func TestStore_AddRejectsForeignProjectAndMissingFields(t *testing.T) {
	s := NewStore("p1")
	err := s.Add(testutil.NewTestEvent("p2", "Elsewhere"))
	assert.Error(t, err)

	err = s.Add(testutil.NewTestEvent("p1", "", testutil.WithDate(domain.Date{})))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"title", "date"}, verr.Missing)
	assert.Equal(t, 0, s.Len())
}

func TestStore_AddDedupesAssignees(t *testing.T) {
	s := NewStore("p1")
	e := testutil.NewTestEvent("p1", "Review", testutil.WithAssignees("Ann", "Ben", "Ann"))
	require.NoError(t, s.Add(e))

	got, err := s.Get(e.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ann", "Ben"}, got.AssignedTo)
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := NewStore("p1")
	e := testutil.NewTestEvent("p1", "Kickoff", testutil.WithAssignees("Ann"))
	require.NoError(t, s.Add(e))

	snap := s.Snapshot()
	snap[0].Title = "mutated"
	snap[0].AssignedTo[0] = "mutated"

	got, err := s.Get(e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kickoff", got.Title)
	assert.Equal(t, []string{"Ann"}, got.AssignedTo)
}

func TestStore_UpdateMergesPatchAndRefreshesUpdatedAt(t *testing.T) {
	later := testutil.FixedNow.Add(time.Hour)
	rec := &recorder{}
	s := NewStore("p1", WithListener(rec), WithStoreClock(func() time.Time { return later }))
	e := testutil.NewTestEvent("p1", "Kickoff", testutil.WithTime("09:00"))
	require.NoError(t, s.Add(e))

	got, err := s.Update(e.ID, Patch{
		Title:    Ptr("Kickoff (moved)"),
		Priority: Ptr(domain.PriorityHigh),
	})
	require.NoError(t, err)
	assert.Equal(t, "Kickoff (moved)", got.Title)
	assert.Equal(t, domain.PriorityHigh, got.Priority)
	assert.Equal(t, "09:00", got.Time, "unpatched fields are kept")
	assert.Equal(t, later, got.UpdatedAt)
	assert.Equal(t, testutil.FixedNow, got.CreatedAt)
	require.Len(t, rec.updated, 1)
	assert.Equal(t, got, rec.updated[0])
}

func TestStore_UpdateNotFound(t *testing.T) {
	s := NewStore("p1")
	_, err := s.Update("missing", Patch{Title: Ptr("x")})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestStore_UpdateRejectsBlankTitleAtomically(t *testing.T) {
	s := NewStore("p1")
	e := testutil.NewTestEvent("p1", "Kickoff")
	require.NoError(t, s.Add(e))

	_, err := s.Update(e.ID, Patch{Title: Ptr("  "), Location: Ptr("HQ")})
	require.Error(t, err)

	got, err := s.Get(e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kickoff", got.Title)
	assert.Empty(t, got.Location, "no partial mutation")
}

func TestStore_Remove(t *testing.T) {
	rec := &recorder{}
	s := NewStore("p1", WithListener(rec))
	a := testutil.NewTestEvent("p1", "A")
	b := testutil.NewTestEvent("p1", "B")
	require.NoError(t, s.Add(a))
	require.NoError(t, s.Add(b))

	require.NoError(t, s.Remove(a.ID))
	assert.Equal(t, []string{a.ID}, rec.deleted)

	err := s.Remove(a.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	snap := s.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "B", snap[0].Title)
}

func TestStore_SeedDoesNotNotify(t *testing.T) {
	rec := &recorder{}
	s := NewStore("p1", WithListener(rec))
	events := []domain.CalendarEvent{
		testutil.NewTestEvent("p1", "A"),
		testutil.NewTestEvent("p1", "B"),
	}
	require.NoError(t, s.Seed(events))
	assert.Equal(t, 2, s.Len())
	assert.Empty(t, rec.added)
}

func TestStore_SeedRejectsRepeatedIDs(t *testing.T) {
	s := NewStore("p1")
	events := []domain.CalendarEvent{
		testutil.NewTestEvent("p1", "A", testutil.WithID("x")),
		testutil.NewTestEvent("p1", "B", testutil.WithID("x")),
	}
	err := s.Seed(events)
	assert.True(t, errors.Is(err, domain.ErrDuplicateID))
	assert.Equal(t, 0, s.Len())
}

func TestListenerFuncs_NilFieldsAreSkipped(t *testing.T) {
	var deleted []string
	s := NewStore("p1")
	s.Subscribe(ListenerFuncs{OnDeleted: func(id string) { deleted = append(deleted, id) }})

	e := testutil.NewTestEvent("p1", "A")
	require.NoError(t, s.Add(e))
	_, err := s.Update(e.ID, Patch{})
	require.NoError(t, err)
	require.NoError(t, s.Remove(e.ID))
	assert.Equal(t, []string{e.ID}, deleted)
}
